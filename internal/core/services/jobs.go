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

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/potate4/CareerOS/internal/core/commands"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/model"
)

// AckMessage is returned verbatim in every acceptance response.
const AckMessage = "Interview analysis job accepted. Processing in background."

// estimatedProcessingTime is the fixed offset reported in the ack. It is an
// expectation for the caller's UI, not a deadline.
const estimatedProcessingTime = 5 * time.Minute

// JobService accepts analysis submissions and runs them through the
// pipeline on a bounded pool of background workers. Each job ends with
// exactly one callback and an unconditional workspace cleanup, on both the
// success and the failure path.
type JobService struct {
	pipeline cor.Executable
	notifier *CallbackNotifier
	tracer   trace.Tracer

	// sem bounds the number of concurrently running jobs.
	sem chan struct{}
	wg  sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*model.AnalysisJob
}

func NewJobService(pipeline cor.Executable, notifier *CallbackNotifier, poolSize int) *JobService {
	if poolSize <= 0 {
		poolSize = 2
	}
	return &JobService{
		pipeline: pipeline,
		notifier: notifier,
		tracer:   otel.Tracer("job-service"),
		sem:      make(chan struct{}, poolSize),
		jobs:     make(map[string]*model.AnalysisJob),
	}
}

// Submit registers the job and schedules it for background processing. The
// returned ack is the only synchronous answer the caller gets; everything
// else arrives through the callback.
func (s *JobService) Submit(req *model.SubmitRequest) (*model.JobAck, error) {
	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	job := &model.AnalysisJob{
		JobID:     jobID,
		VideoURL:  req.VideoURL,
		FileID:    req.FileID,
		UserID:    req.UserID,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	if existing, ok := s.jobs[jobID]; ok && existing.Status == model.JobStatusPending {
		s.mu.Unlock()
		return nil, fmt.Errorf("job %s is already being processed", jobID)
	}
	s.jobs[jobID] = job
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(job)

	return &model.JobAck{
		JobID:                   job.JobID,
		Status:                  job.Status,
		Message:                 AckMessage,
		CreatedAt:               job.CreatedAt,
		EstimatedCompletionTime: job.CreatedAt.Add(estimatedProcessingTime),
	}, nil
}

// Tracked reports how many job records are held, pending or otherwise.
// Records are dropped once their callback has been attempted, so under an
// idle service this returns to zero.
func (s *JobService) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Running reports how many jobs are still pending.
func (s *JobService) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, job := range s.jobs {
		if job.Status == model.JobStatusPending {
			count++
		}
	}
	return count
}

// Shutdown waits for in-flight jobs to finish or for ctx to expire.
func (s *JobService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *JobService) run(job *model.AnalysisJob) {
	defer s.wg.Done()
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx, span := s.tracer.Start(context.Background(), "analyze-interview")
	defer span.End()

	var result *model.AnalysisResult
	var runErr error

	func() {
		// A panic anywhere in the pipeline must still produce a FAILED
		// callback and a cleaned workspace.
		workflowCtx := cor.NewBaseContext()
		workflowCtx.SetContext(ctx)
		defer workflowCtx.Close()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "analysis pipeline panicked", "job_id", job.JobID, "panic", r)
				runErr = fmt.Errorf("internal error: %v", r)
			}
		}()

		workflowCtx.Add(cor.CtxIn, job)
		s.pipeline.Execute(workflowCtx)

		if workflowCtx.HasErrors() {
			runErr = joinContextErrors(workflowCtx.GetErrors())
			return
		}
		out, ok := workflowCtx.Get(commands.GetResultContextKey()).(*model.AnalysisResult)
		if !ok {
			runErr = fmt.Errorf("pipeline produced no result")
			return
		}
		result = out
	}()

	now := time.Now().UTC()
	envelope := &model.CallbackEnvelope{JobID: job.JobID}

	s.mu.Lock()
	job.CompletedAt = &now
	if runErr != nil {
		job.Status = model.JobStatusFailed
		job.ErrorMessage = runErr.Error()
		msg := runErr.Error()
		envelope.Status = model.JobStatusFailed
		envelope.ErrorMessage = &msg
	} else {
		job.Status = model.JobStatusCompleted
		envelope.Status = model.JobStatusCompleted
		envelope.AnalysisData = result
	}
	s.mu.Unlock()

	slog.InfoContext(ctx, "analysis job finished",
		"job_id", job.JobID, "status", envelope.Status)

	// One attempt only. An unreachable callback receiver is its problem to
	// reconcile; the job outcome stands.
	if err := s.notifier.Notify(ctx, envelope); err != nil {
		slog.ErrorContext(ctx, "result callback delivery failed",
			"job_id", job.JobID, "status", envelope.Status, "error", err)
	}

	// The job has reached its terminal state and its callback has been
	// attempted; nothing queries it afterwards, so drop the record rather
	// than letting the map grow for the life of the process.
	s.mu.Lock()
	delete(s.jobs, job.JobID)
	s.mu.Unlock()
}

func joinContextErrors(errs map[string]error) error {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(errs))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, errs[key]))
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
