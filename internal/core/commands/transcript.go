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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
	"github.com/potate4/CareerOS/internal/core/model"
)

// AudioStager stages local files where the generative backend can read
// them, and removes the staged copy afterwards.
type AudioStager interface {
	StageFile(ctx context.Context, filePath, contentType string) (string, error)
	DeleteStaged(ctx context.Context, uri string) error
}

// Transcript stages the audio track in GCS and asks a generative model for
// a timestamped transcript. The Vertex backend reads multimodal inputs
// straight from GCS, so no separate file-service upload is involved.
//
// The transcript is a best-effort enrichment. Staging failures, generation
// failures and unparseable responses all degrade to an empty transcript;
// none of them fails the job.
type Transcript struct {
	cor.BaseCommand
	stager                   AudioStager
	generativeAIModel        cloud.GenerativeModel
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

func NewTranscript(
	name string,
	stager AudioStager,
	generativeAIModel cloud.GenerativeModel,
	template *template.Template) *Transcript {

	out := &Transcript{
		BaseCommand:       *cor.NewBaseCommand(name),
		stager:            stager,
		generativeAIModel: generativeAIModel,
		template:          template,
	}
	out.OutputParamName = GetTranscriptContextKey()
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	return out
}

func (c *Transcript) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetWorkspaceContextKey()) != nil
}

func (c *Transcript) Execute(context cor.Context) {
	ws := context.Get(GetWorkspaceContextKey()).(*media.Workspace)

	segments, err := c.transcribe(context, ws)
	if err != nil {
		slog.WarnContext(context.GetContext(), "transcript generation degraded to empty",
			"job_id", ws.JobID(), "error", err)
		segments = []model.TranscriptSegment{}
	} else {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
	}
	context.Add(c.GetOutputParam(), segments)
}

func (c *Transcript) transcribe(context cor.Context, ws *media.Workspace) ([]model.TranscriptSegment, error) {
	ctx := context.GetContext()

	audioURI, err := c.stager.StageFile(ctx, ws.AudioPath(), "audio/wav")
	if err != nil {
		return nil, fmt.Errorf("stage audio: %w", err)
	}
	defer func() {
		if err := c.stager.DeleteStaged(ctx, audioURI); err != nil {
			slog.WarnContext(ctx, "failed to delete staged audio",
				"job_id", ws.JobID(), "uri", audioURI, "error", err)
		}
	}()

	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, nil); err != nil {
		return nil, fmt.Errorf("execute prompt template: %w", err)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: buffer.String()},
				{FileData: &genai.FileData{FileURI: audioURI, MIMEType: "audio/wav"}},
			},
			Role: "user",
		},
	}

	out, err := cloud.GenerateMultiModalResponse(ctx, c.geminiInputTokenCounter, c.geminiOutputTokenCounter, c.generativeAIModel, contents)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	return ParseTranscript(out)
}

// ParseTranscript decodes the model's JSON response into transcript
// segments.
func ParseTranscript(raw string) ([]model.TranscriptSegment, error) {
	var segments []model.TranscriptSegment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		return nil, fmt.Errorf("parse transcript response: %w", err)
	}
	return segments, nil
}
