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

// Package test provides helpers shared by the test suite: test
// configuration loading and synthetic WAV fixtures for the audio analyzer.
package test

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/potate4/CareerOS/internal/cloud"
)

// StateManager caches the test configuration so it is loaded only once per
// test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test TOML files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// ToneSegment describes one stretch of a synthetic recording. A zero
// FrequencyHz or Amplitude produces silence, anything else a sine tone.
type ToneSegment struct {
	DurationSec float64
	FrequencyHz float64
	Amplitude   float64
}

// WriteWAV renders the segments as a 16-bit mono WAV file under dir and
// returns its path. The sample rate matches what the extraction stage
// produces.
func WriteWAV(t *testing.T, dir, name string, sampleRate int, segments ...ToneSegment) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	var data []int
	for _, seg := range segments {
		n := int(seg.DurationSec * float64(sampleRate))
		for i := 0; i < n; i++ {
			sample := 0.0
			if seg.FrequencyHz > 0 && seg.Amplitude > 0 {
				sample = seg.Amplitude * math.Sin(2*math.Pi*seg.FrequencyHz*float64(i)/float64(sampleRate))
			}
			data = append(data, int(sample*math.MaxInt16))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav data: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize wav: %v", err)
	}
	return path
}
