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

package buffer

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/petermattis/goid"

	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/token"
)

// Directive names.
const (
	DirectiveDisable = "disable"
	DirectiveEnable  = "enable"
	DirectiveOptions = "options"
	DirectiveSort    = "sort"
)

var directiveNames = []string{DirectiveDisable, DirectiveEnable, DirectiveOptions, DirectiveSort}

// Directive is a parsed directive comment, such as
//
//	// swiftfmt:disable:next trailingSpace
type Directive struct {
	Name string
	// Set for the :next form, which applies to the following line only.
	Next bool
	Args []string
}

// directives is the directive state of an enumeration.
type directives struct {
	// Net number of disable directives for the active rule.
	disabled int
	// Set by a :next directive for the line after it.
	disabledNext int
	// Set while the rest of a :next directive's own line is enumerated.
	pendingNext bool
	// Options to restore at the end of the line an options:next directive
	// applies to.
	restore *options.Options
}

// ForEach calls body for each token that matches, in order, while the
// active rule is enabled. Directive comments are processed as they are
// reached.
//
// body may edit the buffer freely; enumeration continues with the token
// after the one body was called with, wherever it has moved to. Tokens
// inserted after it are enumerated too.
//
// ForEach panics if called from within body, or while another goroutine is
// running it on the same buffer.
func (b *Buffer) ForEach(match func(token.Token) bool, body func(int, token.Token)) {
	id := goid.Get()
	if !b.owner.CompareAndSwap(0, id) {
		if b.owner.Load() == id {
			panic("buffer: ForEach called from within ForEach")
		}
		panic("buffer: concurrent ForEach on the same buffer")
	}
	defer func() {
		b.cursor = -1
		b.opts = b.base
		b.owner.Store(0)
	}()

	b.dir = directives{}
	b.opts = b.base
	b.cursor, _ = b.bounds()
	for ; ; b.cursor++ {
		if _, end := b.bounds(); b.cursor > end {
			break
		}
		tok := b.tokens[b.cursor]
		b.process(b.cursor, tok)
		if b.Enabled() && match(tok) {
			body(b.cursor, tok)
		}
	}
}

// bounds returns the first and last index to enumerate.
func (b *Buffer) bounds() (int, int) {
	end := len(b.tokens) - 1
	if b.active == nil {
		return 0, end
	}
	return max(b.active.Start, 0), min(b.active.End, end)
}

// Enabled returns whether the active rule is enabled at the current point
// of the enumeration.
func (b *Buffer) Enabled() bool {
	return !b.failed && b.dir.disabled+b.dir.disabledNext <= 0
}

// process updates the directive state for a token reached by enumeration.
func (b *Buffer) process(at int, tok token.Token) {
	switch tok.Kind {
	case token.Linebreak:
		if b.dir.pendingNext {
			b.dir.pendingNext = false
			return
		}
		b.dir.disabledNext = 0
		if b.dir.restore != nil {
			b.opts = *b.dir.restore
			b.dir.restore = nil
		}

	case token.CommentBody:
		d, ok := b.ParseDirective(tok.Text)
		if !ok {
			return
		}
		b.apply(at, d)
	}
}

// ParseDirective parses the text of a comment as a directive. It returns
// false if the text does not start with the directive marker.
//
// The returned directive is not validated.
func (b *Buffer) ParseDirective(comment string) (Directive, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(comment), b.base.DirectiveMarker+":")
	if !ok {
		return Directive{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, true
	}
	name, next := strings.CutSuffix(fields[0], ":next")
	return Directive{Name: name, Next: next, Args: fields[1:]}, true
}

// apply applies a directive found at index at.
func (b *Buffer) apply(at int, d Directive) {
	switch d.Name {
	case DirectiveDisable, DirectiveEnable:
		if len(d.Args) == 0 {
			b.directiveError(at, "%s:%s requires a list of rules", b.base.DirectiveMarker, d.Name)
			return
		}
		for _, name := range d.Args {
			if name != "all" && b.rules != nil && !b.rules.Has(name) {
				b.directiveError(at, "unknown rule %q%s", name, suggest(name, b.rules.Names()))
				return
			}
		}
		if !slices.Contains(d.Args, b.rule) && !slices.Contains(d.Args, "all") {
			return
		}

		delta := 1
		if d.Name == DirectiveEnable {
			delta = -1
		}
		if d.Next {
			b.dir.disabledNext = delta
			b.dir.pendingNext = true
		} else {
			b.dir.disabled = max(b.dir.disabled+delta, 0)
		}

	case DirectiveOptions:
		opts, err := b.opts.Apply(d.Args)
		if err != nil {
			hint := ""
			if name, ok := unknownOption(d.Args); ok {
				hint = suggest(name, options.Names())
			}
			b.directiveError(at, "%v%s", err, hint)
			return
		}
		if d.Next {
			if b.dir.restore == nil {
				saved := b.opts
				b.dir.restore = &saved
			}
			b.dir.pendingNext = true
		}
		b.opts = opts

	case DirectiveSort:
		// Interpreted by the rules that sort things.

	default:
		b.directiveError(at, "unknown directive %s:%s%s",
			b.base.DirectiveMarker, d.Name, suggest(d.Name, directiveNames))
	}
}

// directiveError reports an error in a directive, and disables the active
// rule for the rest of its run. Each error is reported once per buffer,
// however many rules trip over it.
func (b *Buffer) directiveError(at int, format string, args ...any) {
	b.failed = true
	if b.handler == nil {
		return
	}
	pos := b.Position(at)
	msg := fmt.Sprintf(format, args...)
	if b.once(pos, msg) {
		_ = b.handler.HandleErrorf(pos, "%s", msg)
	}
}

// Warnf reports a warning about the token at index at, prefixed with the
// name of the active rule. Each warning is reported once per buffer.
func (b *Buffer) Warnf(at int, format string, args ...any) {
	if b.handler == nil {
		return
	}
	pos := b.Position(at)
	msg := fmt.Sprintf(format, args...)
	if b.rule != "" {
		msg = b.rule + ": " + msg
	}
	if b.once(pos, msg) {
		b.handler.HandleWarningf(pos, "%s", msg)
	}
}

// once returns whether a message at pos has not been reported before, and
// records it.
func (b *Buffer) once(pos reporter.SourcePos, msg string) bool {
	key := fmt.Sprintf("%d:%s", pos.Line, msg)
	if b.reported[key] {
		return false
	}
	if b.reported == nil {
		b.reported = make(map[string]bool)
	}
	b.reported[key] = true
	return true
}

// unknownOption returns the first option name in args that does not exist.
func unknownOption(args []string) (string, bool) {
	names := options.Names()
	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "--")
		if !ok {
			continue
		}
		name, _, _ = strings.Cut(name, "=")
		if !slices.Contains(names, name) {
			return name, true
		}
	}
	return "", false
}

// suggest returns a "did you mean" hint naming the candidate closest to
// name, or "" if none is close.
func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return fmt.Sprintf("; did you mean %q?", ranks[0].Target)
	}

	best, bestDist := "", len(name)/3+2
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", best)
}
