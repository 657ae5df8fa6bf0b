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

package workflow_test

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/workflow"
	"github.com/potate4/CareerOS/internal/telemetry"
)

const tName = "github.com/potate4/CareerOS/tests/workflow"

var logger = otelslog.NewLogger(tName)

func TestMain(m *testing.M) {
	telemetry.SetupLogging()
	logger.Info("completed test setup")
	os.Exit(m.Run())
}

func testConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.WorkDir = os.TempDir()
	config.Application.FFmpegPath = "ffmpeg"
	config.Application.ThreadPoolSize = 2
	config.Analysis.FrameIntervalSec = 2.0
	config.Analysis.MinPauseSec = 0.5
	config.Analysis.PitchMinHz = 50
	config.Analysis.PitchMaxHz = 300
	config.PromptTemplates.Transcript = "Transcribe the attached audio."
	config.PromptTemplates.Feedback = "{{.TRANSCRIPT}} {{.SPEECH_ANALYSIS}} {{.FRAME_EMOTIONS}}"
	return config
}

func stubClients() *cloud.ServiceClients {
	return &cloud.ServiceClients{
		AgentModels: map[string]*cloud.QuotaAwareGenerativeAIModel{},
		HTTPClient:  http.DefaultClient,
	}
}

func TestNewInterviewAnalysisPipeline(t *testing.T) {
	pipeline := workflow.NewInterviewAnalysisPipeline(testConfig(), stubClients())
	assert.NotNil(t, pipeline)
	assert.Equal(t, "interview-analysis-pipeline", pipeline.GetName())
}

func TestNewInterviewAnalysisPipelineBadTemplate(t *testing.T) {
	config := testConfig()
	config.PromptTemplates.Feedback = "{{.TRANSCRIPT"

	assert.Panics(t, func() {
		workflow.NewInterviewAnalysisPipeline(config, stubClients())
	})
}
