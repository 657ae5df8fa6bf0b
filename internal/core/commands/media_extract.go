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

import (
	"fmt"
	"os/exec"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
)

// MediaExtract demuxes the downloaded video with ffmpeg: a mono 16 kHz PCM
// audio track for the prosody and transcript stages, and JPEG frames
// sampled at a fixed interval for the emotion stage. Optionally the audio
// is also split into fixed-length segments.
type MediaExtract struct {
	cor.BaseCommand
	commandPath string
	analysis    cloud.Analysis
}

func NewMediaExtract(name string, commandPath string, analysis cloud.Analysis) *MediaExtract {
	if commandPath == "" {
		commandPath = "ffmpeg"
	}
	if analysis.FrameIntervalSec <= 0 {
		analysis.FrameIntervalSec = 2.0
	}
	if analysis.SegmentLengthSec <= 0 {
		analysis.SegmentLengthSec = 2.0
	}
	return &MediaExtract{
		BaseCommand: *cor.NewBaseCommand(name),
		commandPath: commandPath,
		analysis:    analysis,
	}
}

// BuildAudioArgs returns the ffmpeg arguments that strip the video stream
// and resample the audio to mono 16 kHz signed 16-bit PCM.
func BuildAudioArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputPath,
	}
}

// BuildFrameArgs returns the ffmpeg arguments that sample one frame every
// intervalSec seconds into the numbered JPEG pattern.
func BuildFrameArgs(inputPath string, intervalSec float64, outputPattern string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", inputPath,
		"-vf", fmt.Sprintf("fps=%g", 1.0/intervalSec),
		outputPattern,
	}
}

// BuildSegmentArgs returns the ffmpeg arguments that split an audio file
// into fixed-length segments without re-encoding.
func BuildSegmentArgs(inputPath string, segmentSec float64, outputPattern string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", inputPath,
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%g", segmentSec),
		"-c", "copy",
		outputPattern,
	}
}

func (c *MediaExtract) Execute(context cor.Context) {
	videoPath := context.Get(c.GetInputParam()).(string)
	ws := context.Get(GetWorkspaceContextKey()).(*media.Workspace)

	if err := c.run(context, "audio", BuildAudioArgs(videoPath, ws.AudioPath())); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	if err := c.run(context, "frames", BuildFrameArgs(videoPath, c.analysis.FrameIntervalSec, ws.FramePattern())); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	if c.analysis.SegmentAudio {
		if err := c.run(context, "segments", BuildSegmentArgs(ws.AudioPath(), c.analysis.SegmentLengthSec, ws.SegmentPattern())); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), err)
			return
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), ws.AudioPath())
}

func (c *MediaExtract) run(context cor.Context, stage string, args []string) error {
	cmd := exec.CommandContext(context.GetContext(), c.commandPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &MediaError{Stage: stage, Err: fmt.Errorf("%w: %s", err, string(out))}
	}
	return nil
}
