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
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/rules"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	pathColor    = color.New(color.Bold)
	ruleColor    = color.New(color.FgYellow)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	hunkColor    = color.New(color.FgCyan)
)

// report prints the results, and returns an error if any file failed or,
// with --lint, needs formatting.
func report(cmd *cobra.Command, results []result, f flags) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var failed, changed int
	for i := range results {
		res := &results[i]
		for _, diag := range res.diags {
			printDiagnostic(errOut, errorColor.Sprint("error:"), diag)
		}
		if !f.quiet {
			for _, diag := range res.warnings {
				printDiagnostic(errOut, warningColor.Sprint("warning:"), diag)
			}
		}
		if res.err != nil {
			var ewp reporter.ErrorWithPos
			if errors.As(res.err, &ewp) {
				printDiagnostic(errOut, errorColor.Sprint("error:"), ewp)
			} else {
				fmt.Fprintf(errOut, "%s %s: %v\n", errorColor.Sprint("error:"), res.path, res.err)
			}
		}
		if res.err != nil || len(res.diags) > 0 {
			failed++
		}
		if res.changed() {
			changed++
		}

		switch {
		case f.lint:
			for _, c := range res.changes {
				fmt.Fprintf(out, "%s: %s\n", pathColor.Sprintf("%s:%d", res.path, c.Line), ruleColor.Sprint(c.Rule))
			}
		case f.diff:
			if res.changed() {
				writeDiff(out, res)
			}
		case res.stdin:
			if res.err == nil {
				io.WriteString(out, res.output)
			}
		case res.changed() && !f.quiet:
			fmt.Fprintf(out, "reformatted %s\n", res.path)
		}
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d files could not be formatted", failed, len(results))
	case f.lint && changed > 0:
		return fmt.Errorf("%d of %d files need formatting", changed, len(results))
	}
	return nil
}

func printDiagnostic(w io.Writer, severity string, err reporter.ErrorWithPos) {
	fmt.Fprintf(w, "%s: %s %v\n", pathColor.Sprint(err.GetPosition()), severity, err.Unwrap())
}

// writeDiff prints a unified diff of a file's formatting.
func writeDiff(w io.Writer, res *result) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(res.input),
		B:        difflib.SplitLines(res.output),
		FromFile: res.path,
		ToFile:   res.path + " (formatted)",
		Context:  3,
	})
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", errorColor.Sprint("error:"), res.path, err)
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			pathColor.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removedColor.Fprint(w, line)
		default:
			io.WriteString(w, line)
		}
	}
}

// listRules prints each rule with its description, noting the ones the
// options turn off.
func listRules(w io.Writer, table *rules.Table, opts options.Options) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range table.Rules() {
		state := ""
		if !opts.RuleEnabled(r.Name()) {
			state = "(disabled)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name(), r.Help(), state)
	}
	tw.Flush()
}
