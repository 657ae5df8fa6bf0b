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
	"log/slog"
	"sync"

	"github.com/potate4/CareerOS/internal/core/cor"
)

// AnalysisFanOut runs the three feature extraction commands concurrently
// against the shared context: prosody features, frame emotions and the
// transcript are independent of each other, so there is no reason to wait
// on them serially. The shared context is safe for this; each command
// writes only its own named output key.
type AnalysisFanOut struct {
	cor.BaseCommand
	commands []cor.Command
}

func NewAnalysisFanOut(name string, commands ...cor.Command) *AnalysisFanOut {
	return &AnalysisFanOut{
		BaseCommand: *cor.NewBaseCommand(name),
		commands:    commands,
	}
}

func (c *AnalysisFanOut) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetWorkspaceContextKey()) != nil
}

func (c *AnalysisFanOut) Execute(context cor.Context) {
	var wg sync.WaitGroup
	for _, cmd := range c.commands {
		if !cmd.IsExecutable(context) {
			continue
		}
		wg.Add(1)
		go func(cmd cor.Command) {
			defer wg.Done()
			_, span := cmd.GetTracer().Start(context.GetContext(), cmd.GetName())
			defer span.End()
			// A panic here would escape the job runner's recover, since
			// this is a different goroutine. Contain it as a stage error.
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(context.GetContext(), "analysis command panicked",
						"command", cmd.GetName(), "panic", r)
					context.AddError(cmd.GetName(), fmt.Errorf("internal error: %v", r))
				}
			}()
			cmd.Execute(context)
		}(cmd)
	}
	wg.Wait()

	if context.HasErrors() {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		return
	}
	c.GetSuccessCounter().Add(context.GetContext(), 1)
}
