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

package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/token"
	"github.com/bufbuild/swiftfmt/tokenizer"
)

// MaxPasses is the most times [Run] applies the rules before giving up on
// the buffer settling.
const MaxPasses = 10

// ErrNotConverged is returned, wrapped, when the rules keep changing a
// buffer for [MaxPasses] passes.
var ErrNotConverged = errors.New("formatting did not converge")

// Run applies the rules of table that the buffer's options enable, in table
// order, each to completion. It repeats the whole sequence until a pass
// leaves the buffer unchanged.
func Run(buf *buffer.Buffer, table *Table) error {
	enabled := table.Enabled(buf.Options())
	if len(enabled) == 0 {
		return nil
	}
	for range MaxPasses {
		before := buf.Tokens()
		for _, r := range enabled {
			buf.SetRule(r.Name())
			r.Apply(buf)
		}
		buf.SetRule("")
		if token.EqualSlices(before, buf.Tokens()) {
			return nil
		}
	}
	return fmt.Errorf("%w after %d passes", ErrNotConverged, MaxPasses)
}

// Result is the outcome of [Format].
type Result struct {
	// Output is the formatted text.
	Output string
	// Changes lists the lines the rules changed, by line in the input.
	Changes []buffer.Change
}

// Changed returns whether formatting changed anything.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Format tokenizes text and runs table over it.
//
// Directive errors are reported to handler, which may be nil, and disable
// the rule they were found by. Input that does not tokenize is reported
// too, and left unformatted. The returned error is non-nil if handler
// aborted, or if the rules did not converge.
func Format(text string, table *Table, opts options.Options, handler *reporter.Handler) (Result, error) {
	buf := buffer.New(
		tokenizer.Tokenize(text), opts,
		buffer.WithRules(table),
		buffer.WithReporter(handler),
		buffer.WithTrackChanges(),
	)
	if at := slices.IndexFunc(buf.Tokens(), token.Token.IsError); at >= 0 {
		// An error token runs to the end of the input; name its first line.
		first, _, _ := strings.Cut(buf.At(at).Text, "\n")
		first = strings.TrimSuffix(first, "\r")
		err := reporter.Errorf(buf.Position(at), "unexpected %q", first)
		if first == "" {
			err = reporter.Errorf(buf.Position(at), "unexpected end of file")
		}
		if handler == nil {
			return Result{}, err
		}
		if err := handler.HandleError(err); err != nil {
			return Result{}, err
		}
		return Result{Output: text}, nil
	}
	if err := Run(buf, table); err != nil {
		return Result{}, err
	}
	if handler != nil {
		if err := handler.ReporterError(); err != nil {
			return Result{}, err
		}
	}
	return Result{Output: buf.String(), Changes: buf.Changes()}, nil
}
