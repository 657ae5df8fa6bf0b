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

package audio

import "fmt"

// AnalysisError indicates the audio track could not be decoded or its
// features could not be computed. It fails the whole job: without prosody
// data the feedback stage has nothing meaningful to reason about.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("audio analysis of %s failed: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
