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

package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// rest returns the remaining unlexed text.
func (l *lexer) rest() string {
	return l.text[l.cursor:]
}

// done returns whether or not we're done lexing runes.
func (l *lexer) done() bool {
	return l.cursor >= len(l.text)
}

// peek peeks the next character.
//
// Returns -1 if l.done().
func (l *lexer) peek() rune {
	return runeAt(l.text, l.cursor)
}

// peekAt peeks the character n bytes past the cursor.
//
// Returns -1 if that is past the end of the input.
func (l *lexer) peekAt(n int) rune {
	return runeAt(l.text, l.cursor+n)
}

// pop consumes the next character.
//
// Returns -1 if l.done().
func (l *lexer) pop() rune {
	r, n := utf8.DecodeRuneInString(l.rest())
	if n == 0 {
		return -1
	}
	l.cursor += n
	return r
}

// takeWhile consumes the characters while they match the given function.
// Returns consumed characters.
func (l *lexer) takeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.done() {
		r, n := utf8.DecodeRuneInString(l.rest())
		if !f(r) {
			break
		}
		l.cursor += n
	}
	return l.text[start:l.cursor]
}

// startsWith reports whether the remaining text starts with prefix.
func (l *lexer) startsWith(prefix string) bool {
	return strings.HasPrefix(l.rest(), prefix)
}

// atLinebreak returns the length of the linebreak at the cursor, or zero.
func (l *lexer) atLinebreak() int {
	switch {
	case l.startsWith("\r\n"):
		return 2
	case l.startsWith("\n"), l.startsWith("\r"):
		return 1
	default:
		return 0
	}
}

func runeAt(s string, i int) rune {
	if i < 0 || i >= len(s) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

// mustProgress is a helper for ensuring that the lexer makes progress
// in each loop iteration. This is intended for turning infinite loops into
// panics.
type mustProgress struct {
	l      *lexer
	cursor int
	count  int
}

// mustProgress returns a progress checker for this lexer.
func (l *lexer) mustProgress() mustProgress {
	return mustProgress{l, -1, -1}
}

// check panics if the lexer has neither advanced nor emitted a token since
// the last call.
func (mp *mustProgress) check() {
	if mp.cursor == mp.l.cursor && mp.count == len(mp.l.tokens) {
		panic("swiftfmt: tokenizer failed to make progress; this is a bug")
	}
	mp.cursor = mp.l.cursor
	mp.count = len(mp.l.tokens)
}
