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

// Package media manages the per-job scratch directory that holds the
// downloaded video and everything demuxed from it.
package media

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	audioFileName = "audio.wav"
	framesDirName = "frames"
	segmentsDir   = "segments"
)

// Workspace is the scratch directory for a single job. Every artifact path
// is namespaced under the job id, so two concurrent jobs can never collide
// and cleanup of one job cannot touch another's files.
type Workspace struct {
	jobID string
	root  string
}

// NewWorkspace creates the directory tree for jobID under baseDir.
func NewWorkspace(baseDir, jobID string) (*Workspace, error) {
	if jobID == "" {
		return nil, fmt.Errorf("media: empty job id")
	}
	w := &Workspace{jobID: jobID, root: filepath.Join(baseDir, jobID)}
	for _, dir := range []string{w.root, w.FramesDir(), w.SegmentsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("media: create workspace for job %s: %w", jobID, err)
		}
	}
	return w, nil
}

func (w *Workspace) JobID() string { return w.jobID }

// Root is the job directory itself; removing it removes every artifact.
func (w *Workspace) Root() string { return w.root }

// VideoPath returns where the downloaded video is stored. The extension is
// whatever the content sniffer decided.
func (w *Workspace) VideoPath(ext string) string {
	return filepath.Join(w.root, "video"+ext)
}

// AudioPath is the mono 16 kHz PCM track demuxed from the video.
func (w *Workspace) AudioPath() string {
	return filepath.Join(w.root, audioFileName)
}

// FramesDir holds the sampled JPEG frames.
func (w *Workspace) FramesDir() string {
	return filepath.Join(w.root, framesDirName)
}

// FramePattern is the ffmpeg output pattern for sampled frames.
func (w *Workspace) FramePattern() string {
	return filepath.Join(w.FramesDir(), "frame_%03d.jpg")
}

// SegmentsDir holds optional fixed-length audio segments.
func (w *Workspace) SegmentsDir() string {
	return filepath.Join(w.root, segmentsDir)
}

// SegmentPattern is the ffmpeg output pattern for audio segments.
func (w *Workspace) SegmentPattern() string {
	return filepath.Join(w.SegmentsDir(), "segment_%03d.wav")
}

// Frames lists the sampled frames in capture order.
func (w *Workspace) Frames() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(w.FramesDir(), "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("media: list frames for job %s: %w", w.jobID, err)
	}
	return matches, nil
}

// Cleanup removes the whole job directory. It is safe to call more than
// once and safe to call on a workspace whose directory is already gone.
func (w *Workspace) Cleanup() error {
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("media: cleanup job %s: %w", w.jobID, err)
	}
	return nil
}
