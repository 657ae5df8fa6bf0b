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

// Package main contains the setup and initialization logic for the
// interview analysis server: configuration loading, cloud clients and the
// job orchestration service.
package main

import (
	"context"
	"log"
	"os"

	"github.com/potate4/CareerOS/internal/cloud"
	"github.com/potate4/CareerOS/internal/core/services"
	"github.com/potate4/CareerOS/internal/core/workflow"
)

// StateManager holds the shared dependencies of the running server.
type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	jobService  *services.JobService
	objectStore *cloud.ObjectStore
}

var state = &StateManager{}

// SetupOS points the configuration loader at the configs directory. The
// runtime overlay is taken from the environment when already set.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
		return err
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState builds the cloud clients, the analysis pipeline and the job
// service.
func InitState(ctx context.Context) {
	config := GetConfig()

	serviceClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		log.Fatalf("failed to create cloud service clients: %v\n", err)
	}
	state.cloud = serviceClients

	state.objectStore = cloud.NewObjectStore(serviceClients.StorageClient, config.Storage.UploadBucket)

	pipeline := workflow.NewInterviewAnalysisPipeline(config, serviceClients)
	notifier := services.NewCallbackNotifier(config.Callback)
	state.jobService = services.NewJobService(pipeline, notifier, config.Application.ThreadPoolSize)
}
