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

package media_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potate4/CareerOS/internal/core/media"
)

func TestWorkspacePathsAreJobNamespaced(t *testing.T) {
	base := t.TempDir()

	a, err := media.NewWorkspace(base, "job-a")
	assert.NoError(t, err)
	b, err := media.NewWorkspace(base, "job-b")
	assert.NoError(t, err)

	assert.NotEqual(t, a.Root(), b.Root())
	assert.Equal(t, filepath.Join(base, "job-a"), a.Root())
	assert.True(t, strings.HasPrefix(a.AudioPath(), a.Root()))
	assert.True(t, strings.HasPrefix(a.FramePattern(), a.Root()))
	assert.True(t, strings.HasPrefix(a.SegmentPattern(), a.Root()))
	assert.Equal(t, filepath.Join(a.FramesDir(), "frame_%03d.jpg"), a.FramePattern())
}

func TestWorkspaceRejectsEmptyJobID(t *testing.T) {
	_, err := media.NewWorkspace(t.TempDir(), "")
	assert.Error(t, err)
}

func TestWorkspaceFramesSorted(t *testing.T) {
	ws, err := media.NewWorkspace(t.TempDir(), "job-frames")
	assert.NoError(t, err)

	for _, name := range []string{"frame_002.jpg", "frame_001.jpg", "frame_003.jpg"} {
		assert.NoError(t, os.WriteFile(filepath.Join(ws.FramesDir(), name), []byte("jpg"), 0o640))
	}
	// A non-frame file must not appear in the listing.
	assert.NoError(t, os.WriteFile(filepath.Join(ws.FramesDir(), "notes.txt"), []byte("x"), 0o640))

	frames, err := ws.Frames()
	assert.NoError(t, err)
	assert.Len(t, frames, 3)
	for _, frame := range frames {
		assert.Contains(t, frame, "frame_")
	}
}

func TestWorkspaceCleanupIsIdempotent(t *testing.T) {
	base := t.TempDir()
	ws, err := media.NewWorkspace(base, "job-cleanup")
	assert.NoError(t, err)

	other, err := media.NewWorkspace(base, "job-other")
	assert.NoError(t, err)
	marker := filepath.Join(other.Root(), "keep.txt")
	assert.NoError(t, os.WriteFile(marker, []byte("keep"), 0o640))

	assert.NoError(t, os.WriteFile(ws.AudioPath(), []byte("wav"), 0o640))

	assert.NoError(t, ws.Cleanup())
	_, err = os.Stat(ws.Root())
	assert.True(t, os.IsNotExist(err))

	// Cleaning an already removed workspace is a no-op.
	assert.NoError(t, ws.Cleanup())

	// A sibling job's files are untouched.
	_, err = os.Stat(marker)
	assert.NoError(t, err)
}
