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
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/model"
)

// ResultAssembler collects the stage outputs into the final AnalysisResult.
// Missing optional stages collapse to empty slices so the callback payload
// always has the same shape.
type ResultAssembler struct {
	cor.BaseCommand
}

func NewResultAssembler(name string) *ResultAssembler {
	out := &ResultAssembler{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = GetResultContextKey()
	return out
}

func (c *ResultAssembler) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetAudioFeaturesContextKey()) != nil &&
		context.Get(GetFeedbackContextKey()) != nil
}

func (c *ResultAssembler) Execute(context cor.Context) {
	features := context.Get(GetAudioFeaturesContextKey()).(model.AudioFeatureSet)
	feedback := context.Get(GetFeedbackContextKey()).(string)

	transcript, _ := context.Get(GetTranscriptContextKey()).([]model.TranscriptSegment)
	if transcript == nil {
		transcript = []model.TranscriptSegment{}
	}
	emotions, _ := context.Get(GetFrameEmotionsContextKey()).([]model.EmotionSample)
	if emotions == nil {
		emotions = []model.EmotionSample{}
	}

	result := &model.AnalysisResult{
		Transcript:     transcript,
		FrameEmotions:  emotions,
		SpeechAnalysis: features,
		Feedback:       feedback,
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), result)
}
