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

// Package api wires the HTTP surface: interview submission, file staging
// and the AI service health endpoints.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/model"
	"github.com/potate4/CareerOS/internal/core/services"
)

// Handlers carries the dependencies the route handlers need.
type Handlers struct {
	Config      *cloud.Config
	JobService  *services.JobService
	ObjectStore *cloud.ObjectStore
}

// Register mounts all route groups under the given prefix group.
func (h *Handlers) Register(r *gin.RouterGroup) {
	h.InterviewRouter(r)
	h.FilesRouter(r)
	h.AIRouter(r)
}

// InterviewRouter sets up the asynchronous analysis submission endpoint.
//
// POST /interview/analyze accepts a JSON body with the video URL and
// optional job, file and user identifiers. It answers immediately with an
// acceptance record; the analysis itself runs in the background and reports
// through the configured callback.
func (h *Handlers) InterviewRouter(r *gin.RouterGroup) {
	interview := r.Group("/interview")
	{
		interview.POST("/analyze", func(c *gin.Context) {
			var req model.SubmitRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ack, err := h.JobService.Submit(&req)
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, ack)
		})
	}
}

// FilesRouter sets up the file staging endpoint. Clients upload a recording
// here first, then submit the returned URL for analysis.
func (h *Handlers) FilesRouter(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.POST("/file-upload-and-get-url", func(c *gin.Context) {
			fileHeader, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
				return
			}

			f, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer f.Close()

			url, err := h.ObjectStore.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "file upload failed",
					"file", fileHeader.Filename, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": url})
		})
	}
}

// AIRouter sets up the service health and status endpoints plus the legacy
// synchronous analyze endpoint, which answers with a fixed acknowledgement
// and exists only for older clients.
func (h *Handlers) AIRouter(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"service":   h.Config.Application.Name,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		ai.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"service":     h.Config.Application.Name,
				"status":      "operational",
				"active_jobs": h.JobService.Running(),
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			})
		})

		ai.POST("/analyze", func(c *gin.Context) {
			var req struct {
				UserID       int64  `json:"userId"`
				Content      string `json:"content"`
				AnalysisType string `json:"analysis_type"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"analysis_id":   uuid.NewString(),
				"userId":        req.UserID,
				"analysis_type": req.AnalysisType,
				"status":        "completed",
				"result": gin.H{
					"analysis": "General analysis completed",
					"summary":  "Content analyzed successfully",
				},
				"created_at": time.Now().UTC().Format(time.RFC3339),
			})
		})
	}
}
