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

// Command swiftfmt formats Swift source files.
//
// Files and directories named on the command line are formatted in place,
// several at a time. Directories are searched for *.swift files. With no
// paths, swiftfmt formats standard input and writes the result to standard
// output.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	config    string
	lint      bool
	diff      bool
	rules     []string
	disable   []string
	exclude   []string
	jobs      int
	color     string
	quiet     bool
	listRules bool
}

func newRootCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "swiftfmt [flags] [path...]",
		Short: "Format Swift source files",
		Long: `swiftfmt formats Swift source files in place.

Directories are searched recursively for *.swift files. With no paths,
standard input is formatted and written to standard output.

Options are read from the file named by --config, or else from
.swiftfmt.yaml, .swiftfmt.yml or .swiftfmt.toml in the working directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "configuration file (.yaml, .yml or .toml)")
	fl.BoolVar(&f.lint, "lint", false, "report lines that need formatting instead of rewriting files")
	fl.BoolVar(&f.diff, "diff", false, "print a unified diff instead of rewriting files")
	fl.StringSliceVar(&f.rules, "rules", nil, "run only these rules")
	fl.StringSliceVar(&f.disable, "disable", nil, "never run these rules")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "doublestar globs of paths to skip")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "files to format at once (default GOMAXPROCS)")
	fl.StringVar(&f.color, "color", "auto", "colorize output (auto|on|off)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "suppress non-essential output")
	fl.BoolVar(&f.listRules, "list-rules", false, "list the rules and exit")
	cmd.MarkFlagsMutuallyExclusive("lint", "diff")
	return cmd
}
