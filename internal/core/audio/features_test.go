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

package audio_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potate4/CareerOS/internal/core/audio"
	test "github.com/potate4/CareerOS/internal/testutil"
)

const sampleRate = 16000

func TestAnalyzeFileDetectsPause(t *testing.T) {
	dir := t.TempDir()
	// Two seconds of tone, one second of silence, two seconds of tone.
	path := test.WriteWAV(t, dir, "pause.wav", sampleRate,
		test.ToneSegment{DurationSec: 2, FrequencyHz: 150, Amplitude: 0.8},
		test.ToneSegment{DurationSec: 1},
		test.ToneSegment{DurationSec: 2, FrequencyHz: 150, Amplitude: 0.8},
	)

	analyzer := audio.NewAnalyzer(audio.Config{})
	features, err := analyzer.AnalyzeFile(path)
	assert.NoError(t, err)

	assert.InDelta(t, 5.0, features.Duration, 0.05)
	if assert.Len(t, features.Pauses, 1) {
		pause := features.Pauses[0]
		assert.InDelta(t, 2.0, pause.Start, 0.2)
		assert.InDelta(t, 3.0, pause.End, 0.2)
		assert.InDelta(t, 1.0, pause.Duration, 0.3)
		assert.Equal(t, pause.Duration, roundTrip(pause.Duration))
	}
}

func TestAnalyzeFileIgnoresShortGaps(t *testing.T) {
	dir := t.TempDir()
	// A 0.3 second gap is below the default pause threshold.
	path := test.WriteWAV(t, dir, "short-gap.wav", sampleRate,
		test.ToneSegment{DurationSec: 1.5, FrequencyHz: 150, Amplitude: 0.8},
		test.ToneSegment{DurationSec: 0.3},
		test.ToneSegment{DurationSec: 1.5, FrequencyHz: 150, Amplitude: 0.8},
	)

	analyzer := audio.NewAnalyzer(audio.Config{})
	features, err := analyzer.AnalyzeFile(path)
	assert.NoError(t, err)
	assert.Empty(t, features.Pauses)
}

func TestAnalyzeFilePitchWithinSearchBand(t *testing.T) {
	dir := t.TempDir()
	path := test.WriteWAV(t, dir, "tone.wav", sampleRate,
		test.ToneSegment{DurationSec: 3, FrequencyHz: 200, Amplitude: 0.8},
	)

	analyzer := audio.NewAnalyzer(audio.Config{})
	features, err := analyzer.AnalyzeFile(path)
	assert.NoError(t, err)

	// A clean 200 Hz sine must be tracked close to its true frequency.
	assert.InDelta(t, 200.0, features.AvgPitch, 10.0)
	assert.NotEmpty(t, features.PitchTrend)
	for _, v := range features.PitchTrend {
		if v > 0 {
			assert.GreaterOrEqual(t, v, 50.0)
			assert.LessOrEqual(t, v, 300.0)
		}
	}
	assert.Greater(t, features.Energy, 0.0)
}

func TestAnalyzeFileSpeakingRateHeuristic(t *testing.T) {
	dir := t.TempDir()
	path := test.WriteWAV(t, dir, "rate.wav", sampleRate,
		test.ToneSegment{DurationSec: 5, FrequencyHz: 120, Amplitude: 0.5},
	)

	analyzer := audio.NewAnalyzer(audio.Config{})
	features, err := analyzer.AnalyzeFile(path)
	assert.NoError(t, err)

	// floor(5/0.4) = 12 assumed words over 5 seconds is 144 per minute.
	assert.InDelta(t, 144.0, features.EstimatedWPM, 0.01)
}

func TestAnalyzeFileSilenceOnly(t *testing.T) {
	dir := t.TempDir()
	path := test.WriteWAV(t, dir, "silence.wav", sampleRate,
		test.ToneSegment{DurationSec: 2},
	)

	analyzer := audio.NewAnalyzer(audio.Config{})
	features, err := analyzer.AnalyzeFile(path)
	assert.NoError(t, err)
	assert.Empty(t, features.Pauses)
	assert.Equal(t, 0.0, features.AvgPitch)
	assert.Equal(t, 0.0, features.Energy)
}

func TestAnalyzeFileEmptyAudio(t *testing.T) {
	dir := t.TempDir()
	// Structurally valid WAV carrying zero samples. A recording with no
	// audio at all cannot be analyzed.
	path := test.WriteWAV(t, dir, "empty.wav", sampleRate)

	analyzer := audio.NewAnalyzer(audio.Config{})
	_, err := analyzer.AnalyzeFile(path)

	var analysisErr *audio.AnalysisError
	assert.True(t, errors.As(err, &analysisErr))
}

func TestAnalyzeFileMissingFile(t *testing.T) {
	analyzer := audio.NewAnalyzer(audio.Config{})
	_, err := analyzer.AnalyzeFile(filepath.Join(t.TempDir(), "missing.wav"))

	var analysisErr *audio.AnalysisError
	assert.True(t, errors.As(err, &analysisErr))
}

func roundTrip(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
