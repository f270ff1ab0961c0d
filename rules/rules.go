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

// Package rules holds the formatting rules and the runner that applies them
// to a [buffer.Buffer].
//
// A [Table] is built once and may be shared by any number of goroutines,
// each formatting its own buffer. [Run] applies the table's rules in order,
// each over the whole buffer, and repeats until a pass changes nothing.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/options"
)

// Rule is a formatting rule.
type Rule interface {
	// Name is the name directives and options refer to the rule by.
	Name() string
	// Help is a one-line description of what the rule does.
	Help() string
	// Apply runs the rule over the whole buffer.
	Apply(buf *buffer.Buffer)
}

// New returns a rule that calls apply.
func New(name, help string, apply func(*buffer.Buffer)) Rule {
	return &rule{name: name, help: help, apply: apply}
}

type rule struct {
	name, help string
	apply      func(*buffer.Buffer)
}

func (r *rule) Name() string             { return r.name }
func (r *rule) Help() string             { return r.help }
func (r *rule) Apply(buf *buffer.Buffer) { r.apply(buf) }

// Table is an ordered set of rules with distinct names. It implements
// [buffer.RuleSet].
type Table struct {
	rules  []Rule
	byName map[string]Rule
}

var _ buffer.RuleSet = (*Table)(nil)

// NewTable returns a table of rules, to be run in the order given.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{byName: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		name := r.Name()
		if name == "" || name == "all" {
			return nil, fmt.Errorf("invalid rule name %q", name)
		}
		if _, ok := t.byName[name]; ok {
			return nil, fmt.Errorf("duplicate rule %q", name)
		}
		t.byName[name] = r
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Default returns the table of built-in rules.
func Default() *Table {
	return defaultTable
}

var defaultTable = func() *Table {
	t, err := NewTable(
		OrganizeDeclarations,
		TrailingSpace,
		ConsecutiveBlankLines,
		BlankLinesAtStartOfScope,
		BlankLinesAtEndOfScope,
		LinebreakAtEndOfFile,
	)
	if err != nil {
		panic(err)
	}
	return t
}()

// Has returns whether the table contains a rule with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns the names of the rules, in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name()
	}
	return names
}

// Get returns the rule with the given name.
func (t *Table) Get(name string) (Rule, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Rules returns the rules, in table order.
func (t *Table) Rules() []Rule {
	return slices.Clone(t.rules)
}

// Enabled returns the rules that opts enables, in table order.
func (t *Table) Enabled(opts options.Options) []Rule {
	var out []Rule
	for _, r := range t.rules {
		if opts.RuleEnabled(r.Name()) {
			out = append(out, r)
		}
	}
	return out
}

// ErrUnknownRule is returned, wrapped, by [Table.Validate].
var ErrUnknownRule = errors.New("unknown rule")

// Validate checks that every rule opts names is in the table.
func (t *Table) Validate(opts options.Options) error {
	for _, name := range slices.Concat(opts.Rules, opts.Disable) {
		if t.Has(name) {
			continue
		}
		err := fmt.Errorf("%w %q", ErrUnknownRule, name)
		if match := closest(name, t.Names()); match != "" {
			err = fmt.Errorf("%w; did you mean %q?", err, match)
		}
		return err
	}
	return nil
}

// closest returns the candidate nearest to name, or "" if none is near
// enough to be worth suggesting.
func closest(name string, candidates []string) string {
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, dist := "", len(name)/3+2
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d < dist {
			best, dist = c, d
		}
	}
	return best
}
