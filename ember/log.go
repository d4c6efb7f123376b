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

// NewDevelopmentLogger returns a human-readable, colorized logger suited
// to the CLI and to local debugging. Embedders wanting structured JSON
// logs in a service should build their own zap.Logger and set it on
// Config.Logger instead.
func NewDevelopmentLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
