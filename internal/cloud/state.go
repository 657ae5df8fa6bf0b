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
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"google.golang.org/genai"
)

// ServiceClients bundles every external client the service talks to. It is
// built once at startup and shared by the API handlers and the pipeline
// workers.
type ServiceClients struct {
	StorageClient *storage.Client
	GenAIClient   *genai.Client
	// AgentModels are the configured generative models, keyed by the
	// logical names used in the workflow (e.g. "transcriber", "coach").
	AgentModels map[string]*QuotaAwareGenerativeAIModel
	// Emotion is the facial emotion classifier sidecar.
	Emotion *EmotionClassifier
	// HTTPClient is used for video downloads and callbacks.
	HTTPClient *http.Client
}

// Close releases the client connections. The genai client has no close
// method in the current library.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
}

// NewCloudServiceClients initializes every external client from the
// configuration.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	var storageOpts []option.ClientOption
	if config.Application.CredentialsFile != "" {
		storageOpts = append(storageOpts, option.WithCredentialsFile(config.Application.CredentialsFile))
	}
	sc, err := storage.NewClient(ctx, storageOpts...)
	if err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Application.GoogleProjectId,
		Location: config.Application.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}

	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		model := &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](values.Temperature),
			TopP:              genai.Ptr[float32](values.TopP),
			TopK:              genai.Ptr[float32](values.TopK),
			MaxOutputTokens:   values.MaxTokens,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
			SafetySettings:    DefaultSafetySettings,
			ResponseMIMEType:  values.OutputFormat,
		}
		agentModels[amKey] = NewQuotaAwareModel(model, values.Model, gc.Models, values.RateLimit)
	}

	return &ServiceClients{
		StorageClient: sc,
		GenAIClient:   gc,
		AgentModels:   agentModels,
		Emotion:       NewEmotionClassifier(config.EmotionService),
		HTTPClient:    &http.Client{Timeout: 5 * time.Minute},
	}, nil
}
