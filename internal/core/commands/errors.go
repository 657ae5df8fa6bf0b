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

// Package commands implements the individual steps of the interview
// analysis workflow as Chain of Responsibility commands. Each command reads
// its inputs from the shared workflow context, does one job, and records
// either its output or an error.
package commands

import "fmt"

// DownloadError indicates the interview video could not be fetched.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// MediaError indicates ffmpeg could not demux the video into its audio
// track or frame samples.
type MediaError struct {
	Stage string
	Err   error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media extraction (%s) failed: %v", e.Stage, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// SynthesisError indicates the feedback model call failed. The feedback is
// the product of the pipeline, so this fails the job.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("feedback synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
