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

// Canonical context keys for state shared between commands that is not part
// of the chain's primary input/output piping.

// GetWorkspaceContextKey returns the key holding the job's *media.Workspace.
func GetWorkspaceContextKey() string { return "__WORKSPACE__" }

// GetJobContextKey returns the key holding the *model.AnalysisJob.
func GetJobContextKey() string { return "__JOB__" }

// GetAudioFeaturesContextKey returns the key holding the extracted
// model.AudioFeatureSet.
func GetAudioFeaturesContextKey() string { return "__AUDIO_FEATURES__" }

// GetFrameEmotionsContextKey returns the key holding the []model.EmotionSample
// timeline.
func GetFrameEmotionsContextKey() string { return "__FRAME_EMOTIONS__" }

// GetTranscriptContextKey returns the key holding the
// []model.TranscriptSegment transcript.
func GetTranscriptContextKey() string { return "__TRANSCRIPT__" }

// GetFeedbackContextKey returns the key holding the synthesized feedback
// string.
func GetFeedbackContextKey() string { return "__FEEDBACK__" }

// GetResultContextKey returns the key holding the assembled
// *model.AnalysisResult.
func GetResultContextKey() string { return "__RESULT__" }
