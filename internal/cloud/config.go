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

// Package cloud defines the application configuration structs, loaded from
// hierarchical TOML files, and the client container shared by the API layer
// and the analysis pipeline.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings disables content blocking for all harm categories.
// The inputs are interview recordings submitted by authenticated users, so
// the model must not refuse to describe them.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// PromptTemplates holds the text templates rendered before each model call.
type PromptTemplates struct {
	// Transcript asks the model for a timestamped transcript of an
	// uploaded audio file. Output is expected as a JSON array of
	// {timestamp, text} objects.
	Transcript string `toml:"transcript"`
	// Feedback is the coaching rubric. It is rendered with the transcript
	// text, the prosody features and the emotion timeline.
	Feedback string `toml:"feedback"`
}

// VertexAiLLMModel configures one named generative model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // requests per second
}

// Storage configures the upload bucket used by the file passthrough
// endpoint.
type Storage struct {
	UploadBucket string `toml:"upload_bucket"`
}

// Analysis tunes the media extraction and audio feature stages.
type Analysis struct {
	// FrameIntervalSec is the spacing of sampled video frames.
	FrameIntervalSec float64 `toml:"frame_interval_sec"`
	// MinPauseSec is the shortest reported silence.
	MinPauseSec float64 `toml:"min_pause_sec"`
	PitchMinHz  float64 `toml:"pitch_min_hz"`
	PitchMaxHz  float64 `toml:"pitch_max_hz"`
	// SegmentAudio additionally splits the audio track into fixed-length
	// segments. Off by default; nothing downstream consumes the segments
	// yet.
	SegmentAudio     bool    `toml:"segment_audio"`
	SegmentLengthSec float64 `toml:"segment_length_sec"`
}

// Callback configures the single result notification POSTed when a job
// finishes.
type Callback struct {
	URL            string `toml:"url"`
	Secret         string `toml:"secret"`
	TimeoutSeconds int    `toml:"timeout_in_seconds"`
}

// EmotionService points at the facial emotion classifier sidecar.
type EmotionService struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_in_seconds"`
}

// Config is the root configuration, loaded by LoadConfig.
type Config struct {
	Application struct {
		Name            string `toml:"name"`
		GoogleProjectId string `toml:"google_project_id"`
		GoogleLocation  string `toml:"location"`
		// ThreadPoolSize bounds concurrently running analysis jobs.
		ThreadPoolSize int `toml:"thread_pool_size"`
		// WorkDir is the root under which per-job workspaces live.
		WorkDir string `toml:"work_dir"`
		// FFmpegPath overrides the ffmpeg binary looked up on PATH.
		FFmpegPath string `toml:"ffmpeg_path"`
		// CredentialsFile optionally points at a service account key for
		// the storage client. Empty means application default credentials.
		CredentialsFile string `toml:"credentials_file"`
	} `toml:"application"`
	Storage         Storage                     `toml:"storage"`
	Analysis        Analysis                    `toml:"analysis"`
	Callback        Callback                    `toml:"callback"`
	EmotionService  EmotionService              `toml:"emotion_service"`
	PromptTemplates PromptTemplates             `toml:"prompt_templates"`
	AgentModels     map[string]VertexAiLLMModel `toml:"agent_models"`
}

// NewConfig returns a Config with its maps initialized so the TOML decoder
// can populate them.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]VertexAiLLMModel),
	}
}
