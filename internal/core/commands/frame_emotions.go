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

package commands

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
	"github.com/potate4/CareerOS/internal/core/model"
)

// FrameEmotions classifies each sampled frame through the emotion sidecar
// using a bounded worker pool. A frame whose classification fails is
// recorded as "undetected" rather than failing the stage; the stage itself
// never fails the job.
type FrameEmotions struct {
	cor.BaseCommand
	classifier       *cloud.EmotionClassifier
	frameIntervalSec float64
	poolSize         int
}

func NewFrameEmotions(name string, classifier *cloud.EmotionClassifier, frameIntervalSec float64, poolSize int) *FrameEmotions {
	if frameIntervalSec <= 0 {
		frameIntervalSec = 2.0
	}
	if poolSize <= 0 {
		poolSize = 4
	}
	out := &FrameEmotions{
		BaseCommand:      *cor.NewBaseCommand(name),
		classifier:       classifier,
		frameIntervalSec: frameIntervalSec,
		poolSize:         poolSize,
	}
	out.OutputParamName = GetFrameEmotionsContextKey()
	return out
}

func (c *FrameEmotions) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetWorkspaceContextKey()) != nil
}

func (c *FrameEmotions) Execute(context cor.Context) {
	ws := context.Get(GetWorkspaceContextKey()).(*media.Workspace)

	frames, err := ws.Frames()
	if err != nil {
		slog.WarnContext(context.GetContext(), "unable to list frames, emotion timeline will be empty",
			"job_id", ws.JobID(), "error", err)
		context.Add(c.GetOutputParam(), []model.EmotionSample{})
		return
	}
	sort.Strings(frames)

	samples := make([]model.EmotionSample, len(frames))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < c.poolSize; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				samples[i] = model.EmotionSample{
					TimeSec: float64(i) * c.frameIntervalSec,
					Emotion: c.classify(context, ws, frames[i]),
				}
			}
		}()
	}
	for i := range frames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), samples)
}

// classify resolves one frame to an emotion label. Errors and panics both
// degrade to the undetected sentinel; a worker goroutine must never die.
func (c *FrameEmotions) classify(context cor.Context, ws *media.Workspace, frame string) (emotion string) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(context.GetContext(), "frame emotion classification panicked",
				"job_id", ws.JobID(), "frame", frame, "panic", r)
			emotion = model.EmotionUndetected
		}
	}()

	emotion, err := c.classifier.Classify(context.GetContext(), frame)
	if err != nil {
		slog.WarnContext(context.GetContext(), "frame emotion classification failed",
			"job_id", ws.JobID(), "frame", frame, "error", err)
		return model.EmotionUndetected
	}
	return emotion
}
