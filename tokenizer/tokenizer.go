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

// Package tokenizer converts Swift source text into a [token.Token] stream.
//
// Tokenization is total: every input produces a token stream whose texts
// concatenate back to the input. Input the tokenizer cannot make sense of
// is represented by a trailing [token.Error] token rather than by an error
// value, so that callers can still work with the valid prefix.
package tokenizer

import (
	"github.com/bufbuild/swiftfmt/token"
)

// Tokenize runs lexical analysis on text.
func Tokenize(text string) []token.Token {
	l := &lexer{
		text:  text,
		line:  1,
		stack: []frame{{open: -1}},
	}
	loop(l)
	resolveFixity(l.tokens)
	return l.tokens
}

// lexer is the book-keeping for a single call to [Tokenize].
type lexer struct {
	text   string
	cursor int

	// mark is the offset just past the text of the last emitted token. It
	// trails cursor while a string or comment body is being scanned.
	mark int

	// line is the 1-based line the cursor is on.
	line int

	tokens []token.Token
	stack  []frame

	// Offsets at which a < must not be treated as a generic bracket, because
	// a previous attempt to do so was disproved.
	noGeneric map[int]bool

	failed bool
}

// frame is an entry of the scope stack.
type frame struct {
	// Index of the token that opened this scope; -1 for the root frame.
	open int
	// Text of the opening token, or "?" for a ternary.
	text string

	// Set on a { frame that is the body of a switch statement.
	isSwitch bool
	// Set when a switch keyword has been seen and its { has not.
	pendingSwitch bool
	// Set after a case or default label, until its : is seen.
	pendingCaseColon bool

	// For speculative < frames, where to resume if the speculation fails.
	undo *checkpoint
}

// checkpoint is a snapshot of emission state taken before opening a
// speculative generic scope.
type checkpoint struct {
	cursor, mark, line, count int
	stack                     []frame
}

func (f *frame) isString() bool {
	return f.open >= 0 && token.IsStringDelimiter(f.text)
}

// top returns the innermost frame.
func (l *lexer) top() *frame {
	return &l.stack[len(l.stack)-1]
}

// pushFrame opens a new scope whose opener is the last emitted token.
func (l *lexer) pushFrame(f frame) {
	f.open = len(l.tokens) - 1
	l.stack = append(l.stack, f)
}

func (l *lexer) popFrame() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

// popImplicit pops frames that are closed implicitly by an enclosing
// scope's closer: ternaries and case bodies.
func (l *lexer) popImplicit() {
	for len(l.stack) > 1 {
		switch l.top().text {
		case "?", ":":
			l.popFrame()
		default:
			return
		}
	}
}

// push emits a token whose text starts at l.mark.
func (l *lexer) push(tok token.Token) {
	l.tokens = append(l.tokens, tok)
	l.mark += len(tok.Text)
}

// emit pushes a token covering the text between l.mark and l.cursor.
func (l *lexer) emit(kind token.Kind) {
	l.push(token.New(kind, l.text[l.mark:l.cursor]))
}

// prev returns the last emitted token, if any.
func (l *lexer) prev() (token.Token, bool) {
	if len(l.tokens) == 0 {
		return token.Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

// prevSignificant returns the last emitted token that is not a space or a
// comment. If linebreaks is set, linebreaks are skipped too.
func (l *lexer) prevSignificant(linebreaks bool) (token.Token, bool) {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		tok := l.tokens[i]
		if tok.IsSpaceOrComment() || (linebreaks && tok.IsLinebreak()) {
			continue
		}
		return tok, true
	}
	return token.Token{}, false
}

// fail turns all remaining input into a single error token and stops
// tokenization.
func (l *lexer) fail() {
	l.cursor = len(l.text)
	l.emit(token.Error)
	l.failed = true
}

// checkpoint records the current emission state.
func (l *lexer) checkpoint() *checkpoint {
	return &checkpoint{
		cursor: l.cursor,
		mark:   l.mark,
		line:   l.line,
		count:  len(l.tokens),
		stack:  append([]frame(nil), l.stack...),
	}
}

// restore abandons a speculative generic scope by returning to the state
// recorded in cp, and arranges for its < to be lexed as an operator.
func (l *lexer) restore(cp *checkpoint) {
	if l.noGeneric == nil {
		l.noGeneric = make(map[int]bool)
	}
	l.noGeneric[cp.cursor] = true

	l.cursor = cp.cursor
	l.mark = cp.mark
	l.line = cp.line
	l.tokens = l.tokens[:cp.count]
	l.stack = cp.stack
}

// finish handles end of input.
func (l *lexer) finish() {
	if l.failed {
		return
	}
	if l.mark < len(l.text) {
		l.fail()
		return
	}
	for _, f := range l.stack[1:] {
		switch f.text {
		case "?", ":":
			continue
		}
		// Unterminated scope.
		l.push(token.New(token.Error, ""))
		return
	}
}
