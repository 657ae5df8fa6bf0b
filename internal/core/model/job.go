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

package model

import "time"

// Job lifecycle states. A job moves from pending to exactly one terminal
// state; there is no retry transition back to pending.
const (
	JobStatusPending   = "PENDING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

// AnalysisJob tracks one submitted interview video through the pipeline.
// FileID and UserID are opaque identifiers owned by the caller and are
// echoed back untouched in the callback.
type AnalysisJob struct {
	JobID        string     `json:"jobId"`
	VideoURL     string     `json:"videoUrl"`
	FileID       *int64     `json:"fileId,omitempty"`
	UserID       *int64     `json:"userId,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// SubmitRequest is the body of an analysis submission. JobID is optional;
// when absent the service mints one.
type SubmitRequest struct {
	VideoURL string `json:"videoUrl" binding:"required"`
	JobID    string `json:"jobId"`
	FileID   *int64 `json:"fileId"`
	UserID   *int64 `json:"userId"`
}

// JobAck is the immediate acceptance response. EstimatedCompletionTime is a
// fixed offset from CreatedAt and carries no guarantee.
type JobAck struct {
	JobID                   string    `json:"jobId"`
	Status                  string    `json:"status"`
	Message                 string    `json:"message"`
	CreatedAt               time.Time `json:"createdAt"`
	EstimatedCompletionTime time.Time `json:"estimatedCompletionTime"`
}

// CallbackEnvelope is the single result notification POSTed to the caller
// when a job reaches a terminal state. AnalysisData is nil for failed jobs;
// ErrorMessage is nil for completed ones.
type CallbackEnvelope struct {
	JobID        string          `json:"jobId"`
	AnalysisData *AnalysisResult `json:"analysisData"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"errorMessage"`
}
