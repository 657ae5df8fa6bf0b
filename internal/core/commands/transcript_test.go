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
	"errors"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/potate4/CareerOS/internal/core/commands"
	"github.com/potate4/CareerOS/internal/core/model"
)

// fakeStager records staging traffic without touching GCS.
type fakeStager struct {
	uri      string
	stageErr error
	deleted  []string
}

func (s *fakeStager) StageFile(_ context.Context, _, _ string) (string, error) {
	if s.stageErr != nil {
		return "", s.stageErr
	}
	return s.uri, nil
}

func (s *fakeStager) DeleteStaged(_ context.Context, uri string) error {
	s.deleted = append(s.deleted, uri)
	return nil
}

// fakeGenerativeModel returns a canned single-candidate response or an
// error.
type fakeGenerativeModel struct {
	text  string
	err   error
	calls int
}

func (m *fakeGenerativeModel) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: m.text}}}},
		},
	}, nil
}

var transcriptPrompt = template.Must(template.New("transcript").Parse("Transcribe the attached audio."))

func TestTranscriptHappyPathCleansUpStagedAudio(t *testing.T) {
	ctx, _ := newFrameContext(t, 0)
	stager := &fakeStager{uri: "gs://uploads/staging/a.wav"}
	gen := &fakeGenerativeModel{text: `[{"timestamp": "00:00", "text": "Hello."}]`}

	cmd := commands.NewTranscript("generate-transcript", stager, gen, transcriptPrompt)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	segments, ok := ctx.Get(commands.GetTranscriptContextKey()).([]model.TranscriptSegment)
	assert.True(t, ok)
	if assert.Len(t, segments, 1) {
		assert.Equal(t, "Hello.", segments[0].Text)
	}
	// The staged copy only lives for the duration of the model call.
	assert.Equal(t, []string{"gs://uploads/staging/a.wav"}, stager.deleted)
}

func TestTranscriptStagingFailureDegradesToEmpty(t *testing.T) {
	ctx, _ := newFrameContext(t, 0)
	stager := &fakeStager{stageErr: errors.New("bucket unavailable")}
	gen := &fakeGenerativeModel{text: `[]`}

	cmd := commands.NewTranscript("generate-transcript", stager, gen, transcriptPrompt)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	segments, ok := ctx.Get(commands.GetTranscriptContextKey()).([]model.TranscriptSegment)
	assert.True(t, ok)
	assert.Empty(t, segments)
	// Nothing was staged, so nothing is deleted and no request goes out.
	assert.Empty(t, stager.deleted)
	assert.Equal(t, 0, gen.calls)
}

func TestTranscriptGenerationFailureDegradesToEmpty(t *testing.T) {
	ctx, _ := newFrameContext(t, 0)
	stager := &fakeStager{uri: "gs://uploads/staging/a.wav"}
	gen := &fakeGenerativeModel{err: errors.New("quota exceeded")}

	cmd := commands.NewTranscript("generate-transcript", stager, gen, transcriptPrompt)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	segments, ok := ctx.Get(commands.GetTranscriptContextKey()).([]model.TranscriptSegment)
	assert.True(t, ok)
	assert.Empty(t, segments)
	// The staged copy is removed on the failure path too.
	assert.Equal(t, []string{"gs://uploads/staging/a.wav"}, stager.deleted)
}

func TestTranscriptUnparseableResponseDegradesToEmpty(t *testing.T) {
	ctx, _ := newFrameContext(t, 0)
	stager := &fakeStager{uri: "gs://uploads/staging/a.wav"}
	gen := &fakeGenerativeModel{text: "I could not hear anything."}

	cmd := commands.NewTranscript("generate-transcript", stager, gen, transcriptPrompt)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	segments, ok := ctx.Get(commands.GetTranscriptContextKey()).([]model.TranscriptSegment)
	assert.True(t, ok)
	assert.Empty(t, segments)
	assert.Equal(t, []string{"gs://uploads/staging/a.wav"}, stager.deleted)
}

func TestParseTranscript(t *testing.T) {
	raw := `[
		{"timestamp": "00:00", "text": "Hi, um, thanks for having me."},
		{"timestamp": "00:05", "text": "I think I am a great fit."}
	]`

	segments, err := commands.ParseTranscript(raw)
	assert.NoError(t, err)
	if assert.Len(t, segments, 2) {
		assert.Equal(t, "00:00", segments[0].Timestamp)
		assert.Equal(t, "Hi, um, thanks for having me.", segments[0].Text)
		assert.Equal(t, "00:05", segments[1].Timestamp)
	}
}

func TestParseTranscriptEmptyArray(t *testing.T) {
	segments, err := commands.ParseTranscript(`[]`)
	assert.NoError(t, err)
	assert.Empty(t, segments)
}

func TestParseTranscriptMalformed(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`{"timestamp": "00:00"}`,
		`[{"timestamp": "00:00", "text": 42}]`,
	} {
		_, err := commands.ParseTranscript(raw)
		assert.Error(t, err, "input %q should not parse", raw)
	}
}
