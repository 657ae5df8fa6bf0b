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

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potate4/CareerOS/internal/core/commands"
)

func TestBuildAudioArgs(t *testing.T) {
	args := commands.BuildAudioArgs("/work/job/video.mp4", "/work/job/audio.wav")

	// The audio stage must strip the video stream and resample to mono
	// 16 kHz PCM for the analyzers.
	assert.Equal(t, []string{
		"-y", "-hide_banner",
		"-i", "/work/job/video.mp4",
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"/work/job/audio.wav",
	}, args)
}

func TestBuildFrameArgs(t *testing.T) {
	args := commands.BuildFrameArgs("/work/job/video.mp4", 2.0, "/work/job/frames/frame_%03d.jpg")

	// One frame every two seconds is an fps filter of 0.5.
	assert.Contains(t, args, "-vf")
	assert.Contains(t, args, "fps=0.5")
	assert.Equal(t, "/work/job/frames/frame_%03d.jpg", args[len(args)-1])
}

func TestBuildFrameArgsSubSecondInterval(t *testing.T) {
	args := commands.BuildFrameArgs("in.mp4", 0.5, "frame_%03d.jpg")
	assert.Contains(t, args, "fps=2")
}

func TestBuildSegmentArgs(t *testing.T) {
	args := commands.BuildSegmentArgs("/work/job/audio.wav", 2.0, "/work/job/segments/segment_%03d.wav")

	assert.Contains(t, args, "segment")
	assert.Contains(t, args, "-segment_time")
	assert.Contains(t, args, "2")
	// Segments are cut without re-encoding.
	assert.Contains(t, args, "copy")
}
