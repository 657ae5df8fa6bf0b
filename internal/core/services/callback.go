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

// Package services hosts the job orchestrator and the result callback
// client that sit between the HTTP API and the analysis workflow.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/model"
)

// CallbackSubject identifies this service in the tokens it mints.
const CallbackSubject = "internal-ai-service"

// callbackTokenTTL bounds how long a minted token stays valid.
const callbackTokenTTL = 10 * time.Minute

// CallbackNotifier delivers the terminal-state notification for a job via a
// single authenticated POST. Delivery is strictly at-most-once; a failed
// POST is logged by the caller and never retried.
type CallbackNotifier struct {
	url    string
	secret []byte
	client *http.Client
}

func NewCallbackNotifier(cfg cloud.Callback) *CallbackNotifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CallbackNotifier{
		url:    cfg.URL,
		secret: []byte(cfg.Secret),
		client: &http.Client{Timeout: timeout},
	}
}

// MintToken creates the short-lived HS256 bearer token the receiving
// service verifies.
func (n *CallbackNotifier) MintToken(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": CallbackSubject,
		"iat": now.Unix(),
		"exp": now.Add(callbackTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(n.secret)
}

// Notify POSTs the envelope to the configured callback URL. Exactly one
// attempt is made.
func (n *CallbackNotifier) Notify(ctx context.Context, envelope *model.CallbackEnvelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal callback for job %s: %w", envelope.JobID, err)
	}

	tokenString, err := n.MintToken(time.Now())
	if err != nil {
		return fmt.Errorf("sign callback token for job %s: %w", envelope.JobID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenString)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback request for job %s: %w", envelope.JobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("callback for job %s returned status %d", envelope.JobID, resp.StatusCode)
	}
	return nil
}
