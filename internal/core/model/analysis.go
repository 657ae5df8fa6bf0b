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

// Package model defines the typed records that flow between the stages of
// the interview analysis pipeline. Every intermediate payload that crosses a
// stage boundary has an explicit struct here so the shape of the data cannot
// drift silently between stages.
package model

// EmotionUndetected is the sentinel emotion label recorded when a frame has
// no detectable face or the classifier fails for that frame.
const EmotionUndetected = "undetected"

// Pause is a gap between two voiced intervals that exceeds the configured
// minimum pause duration. All values are seconds, rounded to two decimals.
type Pause struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// EmotionSample is the dominant facial emotion observed on one sampled
// frame. TimeSec is the frame index multiplied by the frame sampling
// interval, so the sequence doubles as a timeline.
type EmotionSample struct {
	TimeSec float64 `json:"time_sec"`
	Emotion string  `json:"emotion"`
}

// AudioFeatureSet holds the prosody features derived once per job from the
// extracted audio track.
//
// EstimatedWPM is a coarse heuristic derived from the total duration and a
// fixed assumed word length. It is not measured from the transcript and
// should not be presented with more precision than that method provides.
type AudioFeatureSet struct {
	Duration     float64   `json:"duration"`
	Pauses       []Pause   `json:"pauses"`
	AvgPitch     float64   `json:"avg_pitch"`
	Energy       float64   `json:"energy"`
	EstimatedWPM float64   `json:"estimated_wpm"`
	PitchTrend   []float64 `json:"pitch_trend"`
}

// TranscriptSegment is one timestamped line of the generated transcript.
type TranscriptSegment struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// AnalysisResult is the assembled output of a successful pipeline run. Its
// JSON encoding becomes the analysisData field of the callback envelope.
type AnalysisResult struct {
	Transcript     []TranscriptSegment `json:"transcript"`
	FrameEmotions  []EmotionSample     `json:"frame_emotions"`
	SpeechAnalysis AudioFeatureSet     `json:"speech_analysis"`
	Feedback       string              `json:"feedback"`
}
