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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embervm/ember/ember"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <module.wasm>",
		Short: "decode and structurally validate a module without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	module, err := ember.DecodeModule(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := ember.Validate(module); err != nil {
		return fmt.Errorf("invalid module:\n%w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d functions, %d exports)\n",
		args[0], len(module.Functions), len(module.Exports))
	return nil
}
