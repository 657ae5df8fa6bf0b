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

// Package workflow assembles the analysis commands into the interview
// analysis pipeline.
package workflow

import (
	"text/template"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/audio"
	"github.com/potate4/CareerOS/internal/core/commands"
	"github.com/potate4/CareerOS/internal/core/cor"
)

// Logical model names in the agent_models configuration table.
const (
	TranscriberModelName = "transcriber"
	CoachModelName       = "coach"
)

// InterviewAnalysisWorkflow runs one interview video end to end: download,
// demux, concurrent feature extraction, feedback synthesis and result
// assembly. It is itself a command, so the orchestrator just executes it
// against a fresh context seeded with the job.
type InterviewAnalysisWorkflow struct {
	cor.BaseCommand
	config             *cloud.Config
	serviceClients     *cloud.ServiceClients
	transcriptTemplate *template.Template
	feedbackTemplate   *template.Template
	chain              cor.Chain
}

func (w *InterviewAnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *InterviewAnalysisWorkflow) initializeChain() {
	cfg := w.config
	out := cor.NewBaseChain(w.GetName())

	out.AddCommand(commands.NewVideoDownload(
		"video-download",
		w.serviceClients.HTTPClient,
		cfg.Application.WorkDir))

	out.AddCommand(commands.NewMediaExtract(
		"media-extract",
		cfg.Application.FFmpegPath,
		cfg.Analysis))

	// The three analyzers are independent; run them concurrently. Each one
	// writes its own named output key, so the fan-out needs no piping.
	analyzer := audio.NewAnalyzer(audio.Config{
		MinPauseSec: cfg.Analysis.MinPauseSec,
		PitchMinHz:  cfg.Analysis.PitchMinHz,
		PitchMaxHz:  cfg.Analysis.PitchMaxHz,
	})
	out.AddCommand(commands.NewAnalysisFanOut(
		"analysis-fan-out",
		commands.NewAudioFeatures("audio-features", analyzer),
		commands.NewFrameEmotions(
			"frame-emotions",
			w.serviceClients.Emotion,
			cfg.Analysis.FrameIntervalSec,
			cfg.Application.ThreadPoolSize),
		commands.NewTranscript(
			"generate-transcript",
			cloud.NewObjectStore(w.serviceClients.StorageClient, cfg.Storage.UploadBucket),
			w.serviceClients.AgentModels[TranscriberModelName],
			w.transcriptTemplate),
	))

	out.AddCommand(commands.NewFeedbackSynthesizer(
		"synthesize-feedback",
		w.serviceClients.AgentModels[CoachModelName],
		w.feedbackTemplate))

	out.AddCommand(commands.NewResultAssembler("assemble-result"))

	w.chain = out
}

// NewInterviewAnalysisPipeline compiles the prompt templates and builds the
// command chain.
func NewInterviewAnalysisPipeline(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients) *InterviewAnalysisWorkflow {

	transcriptTemplate, err := template.New("transcript-template").Parse(config.PromptTemplates.Transcript)
	if err != nil {
		panic(err)
	}
	feedbackTemplate, err := template.New("feedback-template").Parse(config.PromptTemplates.Feedback)
	if err != nil {
		panic(err)
	}

	pipeline := &InterviewAnalysisWorkflow{
		BaseCommand:        *cor.NewBaseCommand("interview-analysis-pipeline"),
		config:             config,
		serviceClients:     serviceClients,
		transcriptTemplate: transcriptTemplate,
		feedbackTemplate:   feedbackTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
