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

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// EmotionClassifier is the HTTP client for the facial emotion analysis
// sidecar. The sidecar accepts one JPEG frame per request and answers with
// the dominant emotion it detected.
type EmotionClassifier struct {
	url    string
	client *http.Client
}

type emotionResponse struct {
	DominantEmotion string `json:"dominant_emotion"`
}

func NewEmotionClassifier(cfg EmotionService) *EmotionClassifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmotionClassifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

// Classify posts the frame at framePath and returns the dominant emotion
// label. Callers treat any error as "this frame has no detectable emotion";
// one bad frame must not take down the rest of the timeline.
func (c *EmotionClassifier) Classify(ctx context.Context, framePath string) (string, error) {
	f, err := os.Open(framePath)
	if err != nil {
		return "", fmt.Errorf("open frame %s: %w", framePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(framePath))
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read frame %s: %w", framePath, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("emotion service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("emotion service returned status %d", resp.StatusCode)
	}

	var parsed emotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode emotion response: %w", err)
	}
	if parsed.DominantEmotion == "" {
		return "", fmt.Errorf("emotion service returned no emotion")
	}
	return parsed.DominantEmotion, nil
}
