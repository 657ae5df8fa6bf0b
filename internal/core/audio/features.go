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

// Package audio computes prosody features from a mono PCM WAV file: total
// duration, long pauses, average pitch, a coarse pitch trend, signal energy
// and an estimated speaking rate.
package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/potate4/CareerOS/internal/core/model"
)

const (
	// Short-time analysis window and hop, in samples.
	frameLength = 2048
	hopLength   = 512

	// Voiced frames must reach within this many dB of the loudest frame.
	silenceDropDB = 20.0

	// Minimum autocorrelation peak for a window to count as pitched.
	minPeriodicity = 0.30

	// Assumed seconds per spoken word for the speaking-rate estimate.
	secondsPerWord = 0.4
)

// Config bounds the analysis. Zero values fall back to the defaults used
// across the pipeline.
type Config struct {
	// MinPauseSec is the shortest silence reported as a pause.
	MinPauseSec float64
	// PitchMinHz and PitchMaxHz bound the fundamental frequency search.
	PitchMinHz float64
	PitchMaxHz float64
	// PitchStrideSec is the spacing of pitch trend samples.
	PitchStrideSec float64
}

func (c Config) withDefaults() Config {
	if c.MinPauseSec <= 0 {
		c.MinPauseSec = 0.5
	}
	if c.PitchMinHz <= 0 {
		c.PitchMinHz = 50
	}
	if c.PitchMaxHz <= 0 {
		c.PitchMaxHz = 300
	}
	if c.PitchStrideSec <= 0 {
		c.PitchStrideSec = 0.5
	}
	return c
}

// Analyzer extracts an AudioFeatureSet from WAV files.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg.withDefaults()}
}

// AnalyzeFile decodes path and computes the full feature set. Any decode or
// analysis failure is returned as an *AnalysisError.
func (a *Analyzer) AnalyzeFile(path string) (model.AudioFeatureSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.AudioFeatureSet{}, &AnalysisError{Path: path, Err: err}
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return model.AudioFeatureSet{}, &AnalysisError{Path: path, Err: err}
	}
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return model.AudioFeatureSet{}, &AnalysisError{Path: path, Err: fmt.Errorf("missing wav format header")}
	}
	if len(buf.Data) == 0 {
		return model.AudioFeatureSet{}, &AnalysisError{Path: path, Err: fmt.Errorf("empty audio stream")}
	}

	samples := normalize(buf.Data, int(dec.BitDepth))
	return a.analyze(samples, buf.Format.SampleRate), nil
}

func (a *Analyzer) analyze(samples []float64, sampleRate int) model.AudioFeatureSet {
	sr := float64(sampleRate)
	duration := float64(len(samples)) / sr

	features := model.AudioFeatureSet{
		Duration:   round2(duration),
		Pauses:     a.pauses(samples, sr),
		Energy:     energy(samples),
		PitchTrend: []float64{},
	}

	trend, avg := a.pitch(samples, sr)
	features.PitchTrend = trend
	features.AvgPitch = avg

	if duration > 0 {
		totalWords := math.Floor(duration / secondsPerWord)
		features.EstimatedWPM = round2(totalWords / duration * 60)
	}
	return features
}

// pauses finds gaps between voiced regions longer than the configured
// minimum. A frame is voiced when its RMS is within silenceDropDB of the
// loudest frame in the recording.
func (a *Analyzer) pauses(samples []float64, sr float64) []model.Pause {
	pauses := []model.Pause{}
	rms := frameRMS(samples)
	if len(rms) == 0 {
		return pauses
	}

	peak := 0.0
	for _, v := range rms {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return pauses
	}
	threshold := peak * math.Pow(10, -silenceDropDB/20)

	// Collapse the voiced mask into intervals, then report the gaps
	// between consecutive intervals.
	var intervals [][2]int
	start := -1
	for i, v := range rms {
		if v >= threshold {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			intervals = append(intervals, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		intervals = append(intervals, [2]int{start, len(rms)})
	}

	for i := 1; i < len(intervals); i++ {
		gapStart := float64(intervals[i-1][1]) * hopLength / sr
		gapEnd := float64(intervals[i][0]) * hopLength / sr
		if gapEnd-gapStart > a.cfg.MinPauseSec {
			pauses = append(pauses, model.Pause{
				Start:    round2(gapStart),
				End:      round2(gapEnd),
				Duration: round2(gapEnd - gapStart),
			})
		}
	}
	return pauses
}

// pitch estimates the fundamental frequency once per stride using the
// normalized autocorrelation of a frameLength window. Windows without a
// sufficiently periodic peak contribute nothing to the average and appear
// as zeros in the trend.
func (a *Analyzer) pitch(samples []float64, sr float64) (trend []float64, avg float64) {
	trend = []float64{}
	stride := int(a.cfg.PitchStrideSec * sr)
	if stride <= 0 {
		stride = frameLength
	}

	minLag := int(sr / a.cfg.PitchMaxHz)
	maxLag := int(sr / a.cfg.PitchMinHz)
	if minLag < 1 {
		minLag = 1
	}

	var sum float64
	var voiced int
	for off := 0; off+frameLength <= len(samples); off += stride {
		f0 := pitchOfWindow(samples[off:off+frameLength], sr, minLag, maxLag)
		trend = append(trend, round2(f0))
		if f0 > 0 {
			sum += f0
			voiced++
		}
	}
	if voiced > 0 {
		avg = round2(sum / float64(voiced))
	}
	return trend, avg
}

func pitchOfWindow(window []float64, sr float64, minLag, maxLag int) float64 {
	if maxLag >= len(window) {
		maxLag = len(window) - 1
	}
	if maxLag <= minLag {
		return 0
	}

	var mean float64
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))

	var zero float64
	for _, v := range window {
		d := v - mean
		zero += d * d
	}
	if zero == 0 {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var acc float64
		for i := 0; i+lag < len(window); i++ {
			acc += (window[i] - mean) * (window[i+lag] - mean)
		}
		if corr := acc / zero; corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestCorr < minPeriodicity || bestLag == 0 {
		return 0
	}
	return sr / float64(bestLag)
}

func frameRMS(samples []float64) []float64 {
	if len(samples) < frameLength {
		return nil
	}
	n := 1 + (len(samples)-frameLength)/hopLength
	out := make([]float64, 0, n)
	for off := 0; off+frameLength <= len(samples); off += hopLength {
		var acc float64
		for _, v := range samples[off : off+frameLength] {
			acc += v * v
		}
		out = append(out, math.Sqrt(acc/frameLength))
	}
	return out
}

func energy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var acc float64
	for _, v := range samples {
		acc += v * v
	}
	return acc / float64(len(samples))
}

func normalize(data []int, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / scale
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
