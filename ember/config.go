// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ember

import "go.uber.org/zap"

// Config tunes the resource limits and diagnostics of a Machine.
type Config struct {
	// MaxCallStackDepth bounds recursion: exceeding it traps with
	// errCallStackExhausted rather than overflowing the host stack.
	MaxCallStackDepth int

	// Logger receives structured diagnostics (instantiation, traps,
	// host-function errors). Defaults to zap.NewNop() when nil.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration new Runtimes use unless
// overridden.
func DefaultConfig() Config {
	return Config{
		MaxCallStackDepth: 1000,
		Logger:            zap.NewNop(),
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
