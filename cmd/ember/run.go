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
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/embervm/ember/ember"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <module.wasm> <export> [args...]",
		Short: "instantiate a module and invoke one of its exported functions",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runRun,
	}
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	path, export, rest := args[0], args[1], args[2:]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = ember.NewDevelopmentLogger()
		if err != nil {
			return err
		}
	}

	cfg := ember.DefaultConfig()
	cfg.Logger = logger
	rt := ember.NewRuntimeWithConfig(cfg)

	inst, err := rt.Instantiate(data, nil)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	callArgs := make([]any, len(rest))
	for i, a := range rest {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("argument %q is not an integer: %w", a, err)
		}
		callArgs[i] = int32(n)
	}

	results, err := rt.Invoke(inst, export, callArgs...)
	if err != nil {
		return fmt.Errorf("invoking %s: %w", export, err)
	}

	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}
