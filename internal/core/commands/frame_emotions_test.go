// Copyright 2025 CareerOS, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/commands"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
	"github.com/potate4/CareerOS/internal/core/model"
)

func newFrameContext(t *testing.T, frameCount int) (cor.Context, *media.Workspace) {
	t.Helper()
	ws, err := media.NewWorkspace(t.TempDir(), "job-frames")
	assert.NoError(t, err)
	for i := 1; i <= frameCount; i++ {
		name := filepath.Join(ws.FramesDir(), fmt.Sprintf("frame_%03d.jpg", i))
		assert.NoError(t, os.WriteFile(name, []byte("jpg"), 0o640))
	}

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.GetWorkspaceContextKey(), ws)
	return ctx, ws
}

func newEmotionClassifier(url string) *cloud.EmotionClassifier {
	return cloud.NewEmotionClassifier(cloud.EmotionService{URL: url, TimeoutSeconds: 5})
}

func TestFrameEmotionsTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"dominant_emotion": "happy"}`)
	}))
	defer srv.Close()

	ctx, _ := newFrameContext(t, 3)
	cmd := commands.NewFrameEmotions("frame-emotions", newEmotionClassifier(srv.URL), 2.0, 2)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	samples, ok := ctx.Get(commands.GetFrameEmotionsContextKey()).([]model.EmotionSample)
	assert.True(t, ok)
	if assert.Len(t, samples, 3) {
		// The timeline advances by the frame interval regardless of how the
		// worker pool interleaved the requests.
		assert.Equal(t, 0.0, samples[0].TimeSec)
		assert.Equal(t, 2.0, samples[1].TimeSec)
		assert.Equal(t, 4.0, samples[2].TimeSec)
		for _, s := range samples {
			assert.Equal(t, "happy", s.Emotion)
		}
	}
}

func TestFrameEmotionsIsolatesFailedFrames(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls%2 == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprint(w, `{"dominant_emotion": "neutral"}`)
	}))
	defer srv.Close()

	ctx, _ := newFrameContext(t, 4)
	// A single worker keeps the call ordering deterministic.
	cmd := commands.NewFrameEmotions("frame-emotions", newEmotionClassifier(srv.URL), 2.0, 1)
	cmd.Execute(ctx)

	// Frame failures never fail the stage.
	assert.False(t, ctx.HasErrors())
	samples := ctx.Get(commands.GetFrameEmotionsContextKey()).([]model.EmotionSample)
	if assert.Len(t, samples, 4) {
		assert.Equal(t, "neutral", samples[0].Emotion)
		assert.Equal(t, model.EmotionUndetected, samples[1].Emotion)
		assert.Equal(t, "neutral", samples[2].Emotion)
		assert.Equal(t, model.EmotionUndetected, samples[3].Emotion)
	}
}

func TestFrameEmotionsContainsWorkerPanic(t *testing.T) {
	ctx, _ := newFrameContext(t, 3)
	// A nil classifier makes every classification attempt panic. The stage
	// must absorb that per frame instead of killing its worker goroutines.
	cmd := commands.NewFrameEmotions("frame-emotions", nil, 2.0, 2)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	samples := ctx.Get(commands.GetFrameEmotionsContextKey()).([]model.EmotionSample)
	if assert.Len(t, samples, 3) {
		for _, s := range samples {
			assert.Equal(t, model.EmotionUndetected, s.Emotion)
		}
	}
}

func TestFrameEmotionsNoFrames(t *testing.T) {
	ctx, _ := newFrameContext(t, 0)
	cmd := commands.NewFrameEmotions("frame-emotions", newEmotionClassifier("http://127.0.0.1:1"), 2.0, 2)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	samples := ctx.Get(commands.GetFrameEmotionsContextKey()).([]model.EmotionSample)
	assert.Empty(t, samples)
}
