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
	"github.com/bufbuild/swiftfmt/token"
)

// IndexOf returns the index of the first token after index after that
// matches, searching only the scope that after is in. Tokens in nested
// scopes are skipped, and the search ends, returning -1, at the closer of
// the scope it started in, unless that closer matches.
//
// The opener of a scope counts as being inside it, so IndexOf from a { finds
// tokens between it and its }.
func (b *Buffer) IndexOf(after int, match func(token.Token) bool) int {
	var stack []string
	for i := max(after+1, 0); i < len(b.tokens); i++ {
		tok := b.tokens[i]
		if len(stack) == 0 && match(tok) {
			return i
		}

		switch tok.Kind {
		case token.StartOfScope:
			if tok.Text != ":" {
				stack = append(stack, tok.Text)
			}

		case token.Linebreak:
			if n := len(stack); n > 0 && stack[n-1] == "//" {
				stack = stack[:n-1]
				if len(stack) == 0 && match(tok) {
					return i
				}
			}

		case token.EndOfScope:
			switch tok.Text {
			case "case", "default":
				continue
			case "#endif":
				// Pops every scope opened since the matching #if, which
				// may be the one the search started in.
				n := len(stack) - 1
				for n >= 0 && stack[n] != "#if" {
					n--
				}
				if n >= 0 {
					stack = stack[:n]
					continue
				}
				if len(stack) > 0 && match(tok) {
					return i
				}
				return -1
			default:
				if len(stack) == 0 {
					return -1
				}
				// A closer with no opener inside an #if branch.
				if stack[len(stack)-1] == "#if" {
					continue
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	return -1
}

// LastIndexOf returns the index of the last token before index before that
// matches, searching only the scope that before is in. It is the mirror
// image of [Buffer.IndexOf].
func (b *Buffer) LastIndexOf(before int, match func(token.Token) bool) int {
	var stack []string
	for i := min(before, len(b.tokens)) - 1; i >= 0; i-- {
		tok := b.tokens[i]
		if len(stack) == 0 && match(tok) {
			return i
		}

		switch tok.Kind {
		case token.EndOfScope:
			switch tok.Text {
			case "case", "default":
				continue
			}
			stack = append(stack, tok.Text)

		case token.StartOfScope:
			switch tok.Text {
			case ":", "//":
				continue
			case "#if":
				n := len(stack) - 1
				for n >= 0 && stack[n] != "#endif" {
					n--
				}
				if n >= 0 {
					stack = stack[:n]
					continue
				}
				if len(stack) > 0 && match(tok) {
					return i
				}
				return -1
			default:
				// A mismatched closer is popped anyway; the stream is
				// malformed and there is no better answer.
				if len(stack) == 0 {
					return -1
				}
				if stack[len(stack)-1] == "#endif" {
					continue
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	return -1
}

// Next returns the first token after index after that matches, as
// [Buffer.IndexOf] finds it.
func (b *Buffer) Next(after int, match func(token.Token) bool) (token.Token, bool) {
	if i := b.IndexOf(after, match); i >= 0 {
		return b.tokens[i], true
	}
	return token.Token{}, false
}

// Last returns the last token before index before that matches, as
// [Buffer.LastIndexOf] finds it.
func (b *Buffer) Last(before int, match func(token.Token) bool) (token.Token, bool) {
	if i := b.LastIndexOf(before, match); i >= 0 {
		return b.tokens[i], true
	}
	return token.Token{}, false
}

// EndOfScope returns the index of the token that closes the scope opened at
// index at, or -1. A // comment is closed by the next linebreak; a switch
// case body by the next case label or the switch's }.
func (b *Buffer) EndOfScope(at int) int {
	if at < 0 || at >= len(b.tokens) || b.tokens[at].Kind != token.StartOfScope {
		return -1
	}
	open := b.tokens[at]
	switch open.Text {
	case "//":
		for i := at + 1; i < len(b.tokens); i++ {
			if b.tokens[i].IsLinebreak() {
				return i
			}
		}
		return -1
	case "#if":
		// Branches may leave brackets unbalanced, so only count
		// conditional blocks.
		depth := 0
		for i := at + 1; i < len(b.tokens); i++ {
			switch tok := b.tokens[i]; {
			case tok.Is(token.StartOfScope, "#if"):
				depth++
			case tok.Is(token.EndOfScope, "#endif"):
				if depth == 0 {
					return i
				}
				depth--
			}
		}
		return -1
	}
	return b.IndexOf(at, func(tok token.Token) bool {
		return tok.Closes(open)
	})
}

// StartOfScope returns the index of the token that opened the scope closed
// at index at, or -1.
func (b *Buffer) StartOfScope(at int) int {
	if at < 0 || at >= len(b.tokens) || b.tokens[at].Kind != token.EndOfScope {
		return -1
	}
	end := b.tokens[at]
	if end.Text == "#endif" {
		depth := 0
		for i := at - 1; i >= 0; i-- {
			switch tok := b.tokens[i]; {
			case tok.Is(token.EndOfScope, "#endif"):
				depth++
			case tok.Is(token.StartOfScope, "#if"):
				if depth == 0 {
					return i
				}
				depth--
			}
		}
		return -1
	}
	return b.LastIndexOf(at, func(tok token.Token) bool {
		return tok.Kind == token.StartOfScope && tok.Text != ":" && end.Closes(tok)
	})
}

// EnclosingScope returns the index of the opener of the innermost scope
// containing index at, or -1 at top level. Comments and switch case bodies
// are not counted as scopes.
func (b *Buffer) EnclosingScope(at int) int {
	return b.LastIndexOf(at, func(tok token.Token) bool {
		return tok.Kind == token.StartOfScope && tok.Text != ":" && tok.Text != "//"
	})
}

// NextNonTrivia returns the index of the first token after index after that
// is not a space, linebreak or comment, or -1.
func (b *Buffer) NextNonTrivia(after int) int {
	return b.IndexOf(after, isNotTrivia)
}

// LastNonTrivia returns the index of the last token before index before
// that is not a space, linebreak or comment, or -1.
func (b *Buffer) LastNonTrivia(before int) int {
	return b.LastIndexOf(before, isNotTrivia)
}

// NextNonSpace returns the index of the first token after index after that
// is not a space, ignoring scopes, or -1.
func (b *Buffer) NextNonSpace(after int) int {
	for i := max(after+1, 0); i < len(b.tokens); i++ {
		if !b.tokens[i].IsSpace() {
			return i
		}
	}
	return -1
}

// LastNonSpace returns the index of the last token before index before that
// is not a space, ignoring scopes, or -1.
func (b *Buffer) LastNonSpace(before int) int {
	for i := min(before, len(b.tokens)) - 1; i >= 0; i-- {
		if !b.tokens[i].IsSpace() {
			return i
		}
	}
	return -1
}

// LastNonSpaceOrLinebreak returns the index of the last token before index
// before that is neither a space nor a linebreak, ignoring scopes, or -1.
func (b *Buffer) LastNonSpaceOrLinebreak(before int) int {
	for i := min(before, len(b.tokens)) - 1; i >= 0; i-- {
		if !b.tokens[i].IsSpaceOrLinebreak() {
			return i
		}
	}
	return -1
}

func isNotTrivia(tok token.Token) bool {
	return !tok.IsTrivia()
}
