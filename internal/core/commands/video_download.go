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
	"io"
	"net/http"
	"os"

	"github.com/h2non/filetype"

	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
	"github.com/potate4/CareerOS/internal/core/model"
)

// VideoDownload fetches the interview video into a fresh per-job workspace.
// It is the first command of the workflow: its input is the job itself and
// its output is the local path of the downloaded video.
type VideoDownload struct {
	cor.BaseCommand
	client  *http.Client
	baseDir string
}

func NewVideoDownload(name string, client *http.Client, baseDir string) *VideoDownload {
	return &VideoDownload{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		baseDir:     baseDir,
	}
}

func (c *VideoDownload) Execute(context cor.Context) {
	job := context.Get(c.GetInputParam()).(*model.AnalysisJob)

	ws, err := media.NewWorkspace(c.baseDir, job.JobID)
	if err != nil {
		c.fail(context, &DownloadError{URL: job.VideoURL, Err: err})
		return
	}
	// Register the whole job directory so context teardown is a single
	// recursive remove even if a later command fails mid-way.
	context.AddTempFile(ws.Root())
	context.Add(GetWorkspaceContextKey(), ws)
	context.Add(GetJobContextKey(), job)

	videoPath, err := c.download(context, job.VideoURL, ws)
	if err != nil {
		c.fail(context, err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), videoPath)
}

func (c *VideoDownload) download(context cor.Context, url string, ws *media.Workspace) (string, error) {
	req, err := http.NewRequestWithContext(context.GetContext(), http.MethodGet, url, nil)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// Sniff the container format from the first bytes so the file lands on
	// disk with an extension ffmpeg recognizes.
	head := make([]byte, 261)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", &DownloadError{URL: url, Err: err}
	}
	head = head[:n]

	ext := ".mp4"
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		ext = "." + kind.Extension
	}

	videoPath := ws.VideoPath(ext)
	out, err := os.Create(videoPath)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	defer out.Close()

	if _, err := out.Write(head); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	return videoPath, nil
}

func (c *VideoDownload) fail(context cor.Context, err error) {
	c.GetErrorCounter().Add(context.GetContext(), 1)
	context.AddError(c.GetName(), err)
}
