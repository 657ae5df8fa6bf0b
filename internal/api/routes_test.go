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

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potate4/CareerOS/internal/api"
	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/commands"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/model"
	"github.com/potate4/CareerOS/internal/core/services"
)

// noopPipeline completes every job with an empty result.
type noopPipeline struct{}

func (p *noopPipeline) Execute(ctx cor.Context) {
	ctx.Add(commands.GetResultContextKey(), &model.AnalysisResult{})
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	callbacks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(callbacks.Close)

	config := cloud.NewConfig()
	config.Application.Name = "interview-analysis"
	notifier := services.NewCallbackNotifier(cloud.Callback{
		URL:    callbacks.URL,
		Secret: "test-secret",
	})

	handlers := &api.Handlers{
		Config:     config,
		JobService: services.NewJobService(&noopPipeline{}, notifier, 2),
	}

	router := gin.New()
	handlers.Register(router.Group("/api/v1"))
	return router
}

func TestAnalyzeAccepted(t *testing.T) {
	router := newTestRouter(t)

	body := `{"videoUrl": "http://example.com/interview.mp4", "jobId": "job-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var ack model.JobAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "job-1", ack.JobID)
	assert.Equal(t, model.JobStatusPending, ack.Status)
	assert.Equal(t, services.AckMessage, ack.Message)
}

func TestAnalyzeRejectsMissingVideoURL(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "interview-analysis", out["service"])
}

func TestStatusReportsActiveJobs(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "operational", out["status"])
	assert.Equal(t, float64(0), out["active_jobs"])
}
