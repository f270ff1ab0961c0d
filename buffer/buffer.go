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

// Package buffer provides [Buffer], the mutable token sequence that
// formatting rules edit.
//
// A Buffer is the sole owner of one file's tokens. Every edit keeps three
// kinds of index consistent with the new token positions: the cursor of an
// in-flight [Buffer.ForEach], the active sub-range for partial formatting,
// and every range registered with [Buffer.Track]. This lets rules edit the
// buffer in the middle of a traversal, and lets the declaration tree keep
// pointing at the right tokens without being rebuilt.
//
// A Buffer is not safe for concurrent use.
package buffer

import (
	"strings"
	"sync/atomic"

	"github.com/rivo/uniseg"
	"github.com/tidwall/btree"

	"github.com/bufbuild/swiftfmt/internal/debug"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/token"
)

// RuleSet is the set of rule names that directives may refer to.
type RuleSet interface {
	Has(name string) bool
	Names() []string
}

// Option configures a [Buffer].
type Option func(*Buffer)

// WithRules sets the rules that directive comments may name. Without it,
// any rule name is accepted.
func WithRules(rules RuleSet) Option {
	return func(b *Buffer) { b.rules = rules }
}

// WithReporter sets the handler that directive errors are reported to.
func WithReporter(h *reporter.Handler) Option {
	return func(b *Buffer) { b.handler = h }
}

// WithTrackChanges enables the change log returned by [Buffer.Changes].
func WithTrackChanges() Option {
	return func(b *Buffer) {
		b.changes = btree.NewBTreeG(Change.less)
	}
}

// WithRange restricts enumeration to the given range of tokens.
func WithRange(r Range) Option {
	return func(b *Buffer) { b.active = &r }
}

// Buffer is a mutable sequence of tokens.
type Buffer struct {
	tokens []token.Token

	base options.Options // As configured.
	opts options.Options // As overridden by directives.

	rules   RuleSet
	handler *reporter.Handler
	active  *Range

	ranges []tracked
	free   []RangeID

	// Goroutine running ForEach, or zero.
	owner  atomic.Int64
	cursor int
	dir    directives

	rule     string
	failed   bool
	reported map[string]bool

	changes *btree.BTreeG[Change]
}

// New creates a buffer that takes ownership of tokens.
func New(tokens []token.Token, opts options.Options, opt ...Option) *Buffer {
	b := &Buffer{
		tokens: tokens,
		base:   opts,
		opts:   opts,
		cursor: -1,
	}
	for _, o := range opt {
		o(b)
	}
	return b
}

// Len returns the number of tokens.
func (b *Buffer) Len() int {
	return len(b.tokens)
}

// At returns the token at index i.
func (b *Buffer) At(i int) token.Token {
	return b.tokens[i]
}

// Tokens returns a copy of the buffer's tokens.
func (b *Buffer) Tokens() []token.Token {
	return append([]token.Token(nil), b.tokens...)
}

// Slice returns a copy of the tokens in r.
func (b *Buffer) Slice(r Range) []token.Token {
	if r.Empty() {
		return nil
	}
	return append([]token.Token(nil), b.tokens[r.Start:r.End+1]...)
}

// String serializes the buffer by concatenating its tokens' text.
func (b *Buffer) String() string {
	var out strings.Builder
	for _, tok := range b.tokens {
		out.WriteString(tok.Text)
	}
	return out.String()
}

// Text returns the concatenated text of the tokens in r.
func (b *Buffer) Text(r Range) string {
	var out strings.Builder
	for i := max(r.Start, 0); i <= r.End && i < len(b.tokens); i++ {
		out.WriteString(b.tokens[i].Text)
	}
	return out.String()
}

// Options returns the options in effect, including any override made by
// an options directive during the current enumeration.
func (b *Buffer) Options() options.Options {
	return b.opts
}

// SetRule sets the rule that subsequent enumerations and edits are
// attributed to. It clears the failed state left by a previous rule.
func (b *Buffer) SetRule(name string) {
	b.rule = name
	b.failed = false
}

// Rule returns the name of the active rule.
func (b *Buffer) Rule() string {
	return b.rule
}

// Failed returns whether a directive error has disabled the active rule.
func (b *Buffer) Failed() bool {
	return b.failed
}

// ActiveRange returns the range enumeration is restricted to, if any.
func (b *Buffer) ActiveRange() (Range, bool) {
	if b.active == nil {
		return Range{0, len(b.tokens) - 1}, false
	}
	return *b.active, true
}

// Line returns the 1-based line of the token at index at, as numbered in
// the original source.
func (b *Buffer) Line(at int) int {
	at = min(at, len(b.tokens)-1)
	if at >= 0 && b.tokens[at].IsLinebreak() {
		return b.tokens[at].Line
	}
	for i := at - 1; i >= 0; i-- {
		if b.tokens[i].IsLinebreak() {
			return b.tokens[i].Line + 1
		}
	}
	return 1
}

// Position returns the position of the token at index at. The column is
// the display width of the text before it on its line, plus one.
func (b *Buffer) Position(at int) reporter.SourcePos {
	col := 1
	for i := min(at, len(b.tokens)) - 1; i >= 0 && !b.tokens[i].IsLinebreak(); i-- {
		// Tabs count as one column each.
		col += uniseg.StringWidth(strings.ReplaceAll(b.tokens[i].Text, "\t", " "))
	}
	return reporter.SourcePos{
		Filename: b.opts.FilePath,
		Line:     b.Line(at),
		Col:      col,
	}
}

// LinebreakToken returns a linebreak suitable for inserting at index at.
func (b *Buffer) LinebreakToken(at int) token.Token {
	return token.NewLinebreak(string(b.opts.Linebreak), b.Line(at))
}

// StartOfLine returns the index of the first token on the line containing
// index at.
func (b *Buffer) StartOfLine(at int) int {
	for i := min(at, len(b.tokens)) - 1; i >= 0; i-- {
		if b.tokens[i].IsLinebreak() {
			return i + 1
		}
	}
	return 0
}

// EndOfLine returns the index of the linebreak that ends the line
// containing index at, or the last index if that line is the last.
func (b *Buffer) EndOfLine(at int) int {
	for i := max(at, 0); i < len(b.tokens); i++ {
		if b.tokens[i].IsLinebreak() {
			return i
		}
	}
	return len(b.tokens) - 1
}

// Indent returns the indentation of the line containing index at.
func (b *Buffer) Indent(at int) string {
	start := b.StartOfLine(at)
	if start < len(b.tokens) && b.tokens[start].IsSpace() {
		return b.tokens[start].Text
	}
	return ""
}

func (b *Buffer) enumerating() bool {
	return b.owner.Load() != 0
}

func (b *Buffer) assert(cond bool, format string, args ...any) {
	debug.Assert(cond, format, args...)
}
