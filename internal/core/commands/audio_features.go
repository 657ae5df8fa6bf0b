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
	"github.com/potate4/CareerOS/internal/core/audio"
	"github.com/potate4/CareerOS/internal/core/cor"
	"github.com/potate4/CareerOS/internal/core/media"
)

// AudioFeatures runs the prosody analysis over the extracted audio track.
// A failure here fails the job: the coaching rubric depends on pause and
// pitch data.
type AudioFeatures struct {
	cor.BaseCommand
	analyzer *audio.Analyzer
}

func NewAudioFeatures(name string, analyzer *audio.Analyzer) *AudioFeatures {
	out := &AudioFeatures{
		BaseCommand: *cor.NewBaseCommand(name),
		analyzer:    analyzer,
	}
	out.OutputParamName = GetAudioFeaturesContextKey()
	return out
}

// IsExecutable requires the workspace rather than the piped input, since
// this command runs inside the fan-out stage where piping is suspended.
func (c *AudioFeatures) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetWorkspaceContextKey()) != nil
}

func (c *AudioFeatures) Execute(context cor.Context) {
	ws := context.Get(GetWorkspaceContextKey()).(*media.Workspace)

	features, err := c.analyzer.AnalyzeFile(ws.AudioPath())
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), features)
}
