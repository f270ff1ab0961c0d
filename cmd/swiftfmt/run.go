// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/rules"
)

// configNames are the configuration files looked for in the working
// directory when --config is not given.
var configNames = []string{".swiftfmt.yaml", ".swiftfmt.yml", ".swiftfmt.toml"}

// result is the outcome of formatting one file.
type result struct {
	path   string
	stdin  bool
	input  string
	output string

	changes  []buffer.Change
	diags    []reporter.ErrorWithPos
	warnings []reporter.ErrorWithPos
	err      error
}

func (r *result) changed() bool {
	return r.err == nil && r.output != r.input
}

func run(cmd *cobra.Command, f flags, args []string) error {
	switch f.color {
	case "auto":
	case "on", "off":
		color.NoColor = f.color == "off"
	default:
		return fmt.Errorf("invalid --color %q: want auto, on or off", f.color)
	}

	opts, err := loadOptions(f)
	if err != nil {
		return err
	}
	table := rules.Default()
	if f.listRules {
		listRules(cmd.OutOrStdout(), table, opts)
		return nil
	}
	if err := table.Validate(opts); err != nil {
		return err
	}

	if len(args) == 0 {
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		res := format("<stdin>", string(input), table, opts)
		res.stdin = true
		return report(cmd, []result{res}, f)
	}

	files, err := collectFiles(args, opts.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no Swift files found")
	}
	write := !f.lint && !f.diff
	results, err := formatFiles(cmd.Context(), files, table, opts, f.jobs, write)
	if err != nil {
		return err
	}
	return report(cmd, results, f)
}

// loadOptions reads the configuration and applies the command-line flags
// on top of it.
func loadOptions(f flags) (options.Options, error) {
	path := f.config
	if path == "" {
		for _, name := range configNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}

	opts := options.Default()
	if path != "" {
		var err error
		if opts, err = options.Load(path); err != nil {
			return options.Options{}, err
		}
	}
	if len(f.rules) > 0 {
		opts.Rules = f.rules
	}
	opts.Disable = append(opts.Disable, f.disable...)
	opts.Exclude = append(opts.Exclude, f.exclude...)
	return opts, opts.Validate()
}

// formatFiles formats files in parallel. Unless write is false, files that
// change are rewritten.
func formatFiles(ctx context.Context, files []string, table *rules.Table, opts options.Options, jobs int, write bool) ([]result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(path, table, opts, write)
			return nil
		})
	}
	return results, g.Wait()
}

func formatFile(path string, table *rules.Table, opts options.Options, write bool) result {
	data, err := os.ReadFile(path)
	if err != nil {
		return result{path: path, err: err}
	}
	res := format(path, string(data), table, opts)
	if !write || !res.changed() {
		return res
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(res.output), mode); err != nil {
		res.err = err
	}
	return res
}

func format(path, input string, table *rules.Table, opts options.Options) result {
	opts.FilePath = path
	res := result{path: path, input: input}

	var collector reporter.Collector
	out, err := rules.Format(input, table, opts, reporter.NewHandler(&collector))
	res.diags = collector.Errors
	res.warnings = collector.Warnings
	if err != nil {
		res.err = err
		return res
	}
	res.output = out.Output
	res.changes = out.Changes
	return res
}
