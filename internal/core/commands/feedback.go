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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/model"
)

// FeedbackSynthesizer renders the coaching rubric with the collected
// analysis data and asks the generative model for interview feedback. This
// is the product of the pipeline, so a failure here fails the job.
type FeedbackSynthesizer struct {
	cor.BaseCommand
	generativeAIModel        cloud.GenerativeModel
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

func NewFeedbackSynthesizer(
	name string,
	generativeAIModel cloud.GenerativeModel,
	template *template.Template) *FeedbackSynthesizer {

	out := &FeedbackSynthesizer{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template,
	}
	out.OutputParamName = GetFeedbackContextKey()
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	return out
}

func (c *FeedbackSynthesizer) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetAudioFeaturesContextKey()) != nil
}

// GenerateParams assembles the template substitutions from the outputs of
// the fan-out stage.
func (c *FeedbackSynthesizer) GenerateParams(context cor.Context) (map[string]interface{}, error) {
	features := context.Get(GetAudioFeaturesContextKey()).(model.AudioFeatureSet)

	transcript, _ := context.Get(GetTranscriptContextKey()).([]model.TranscriptSegment)
	emotions, _ := context.Get(GetFrameEmotionsContextKey()).([]model.EmotionSample)

	var lines []string
	for _, seg := range transcript {
		lines = append(lines, fmt.Sprintf("[%s] %s", seg.Timestamp, seg.Text))
	}

	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	emotionsJSON, err := json.Marshal(emotions)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"TRANSCRIPT":      strings.Join(lines, "\n"),
		"SPEECH_ANALYSIS": string(featuresJSON),
		"FRAME_EMOTIONS":  string(emotionsJSON),
	}, nil
}

func (c *FeedbackSynthesizer) Execute(context cor.Context) {
	params, err := c.GenerateParams(context)
	if err != nil {
		c.fail(context, &SynthesisError{Err: err})
		return
	}

	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, params); err != nil {
		c.fail(context, &SynthesisError{Err: fmt.Errorf("execute prompt template: %w", err)})
		return
	}

	out, err := cloud.GenerateMultiModalResponse(
		context.GetContext(),
		c.geminiInputTokenCounter,
		c.geminiOutputTokenCounter,
		c.generativeAIModel,
		cloud.NewTextPart(buffer.String()))
	if err != nil {
		c.fail(context, &SynthesisError{Err: err})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), strings.TrimSpace(out))
}

func (c *FeedbackSynthesizer) fail(context cor.Context, err error) {
	c.GetErrorCounter().Add(context.GetContext(), 1)
	context.AddError(c.GetName(), err)
}
