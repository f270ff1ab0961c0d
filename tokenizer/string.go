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

	"github.com/bufbuild/swiftfmt/token"
)

// openString lexes the opening delimiter of a string literal, preceded by
// the given number of #s.
func openString(l *lexer, hashes int) {
	l.cursor += hashes
	if l.startsWith(`"""`) {
		l.cursor += 3
	} else {
		l.cursor++
	}
	l.emit(token.StartOfScope)
	l.pushFrame(frame{text: l.tokens[len(l.tokens)-1].Text})
}

// lexStringBody lexes string content up to the next linebreak, interpolation,
// or closing delimiter of the innermost string.
func lexStringBody(l *lexer) {
	f := l.top()
	open := f.open
	closer := token.CloserOf(f.text)
	escape := `\` + strings.Repeat("#", strings.Count(f.text, "#"))
	multiline := strings.HasSuffix(f.text, `"""`)

	for !l.done() {
		switch {
		case l.atLinebreak() > 0:
			if !multiline {
				l.fail()
				return
			}
			l.flushText(token.StringBody)
			lexLinebreak(l)
			return

		case l.startsWith(closer):
			closeString(l, open, closer, multiline)
			return

		case l.startsWith(escape):
			l.cursor += len(escape)
			if l.peek() == '(' {
				// The backslash stays with the preceding text.
				l.flushText(token.StringBody)
				l.pop()
				l.emit(token.StartOfScope)
				l.pushFrame(frame{text: "("})
				return
			}
			if l.atLinebreak() == 0 {
				l.pop()
			}

		default:
			l.pop()
		}
	}

	// Unterminated.
	l.flushText(token.StringBody)
	l.push(token.New(token.Error, ""))
	l.failed = true
}

func closeString(l *lexer, open int, closer string, multiline bool) {
	prev, _ := l.prev()
	if multiline && prev.IsLinebreak() && strings.TrimFunc(l.text[l.mark:l.cursor], isSpace) == "" {
		l.flushText(token.Space)
	} else {
		l.flushText(token.StringBody)
	}

	l.cursor += len(closer)
	l.emit(token.EndOfScope)
	l.popFrame()
	if multiline {
		stripIndent(l, open)
	}
}

// stripIndent splits the indentation of the closing delimiter of the
// multiline string opened at index open off the start of each of its lines.
func stripIndent(l *lexer, open int) {
	n := len(l.tokens)
	if n-open < 4 || !l.tokens[n-2].IsSpace() || !l.tokens[n-3].IsLinebreak() {
		return
	}
	indent := l.tokens[n-2].Text

	body := l.tokens[open+1 : n-2]
	out := make([]token.Token, 0, len(body)+len(body)/2)
	for i, tok := range body {
		if tok.Kind == token.StringBody && i > 0 && body[i-1].IsLinebreak() &&
			strings.HasPrefix(tok.Text, indent) {
			out = append(out, token.New(token.Space, indent))
			if rest := tok.Text[len(indent):]; rest != "" {
				out = append(out, token.New(token.StringBody, rest))
			}
			continue
		}
		out = append(out, tok)
	}

	tokens := append(l.tokens[:open+1:open+1], out...)
	l.tokens = append(tokens, l.tokens[n-2:]...)
}

// lexRegex lexes a regex literal delimited by the given number of #s.
// Only extended literals, delimited by at least one #, may span lines.
func lexRegex(l *lexer, hashes int) {
	l.cursor += hashes + 1
	l.emit(token.StartOfScope)
	closer := "/" + strings.Repeat("#", hashes)

	for !l.done() {
		switch {
		case l.atLinebreak() > 0:
			if hashes == 0 {
				l.fail()
				return
			}
			l.flushText(token.StringBody)
			lexLinebreak(l)

		case l.startsWith(closer):
			l.flushText(token.StringBody)
			l.cursor += len(closer)
			l.emit(token.EndOfScope)
			return

		case l.peek() == '\\':
			l.pop()
			if l.atLinebreak() == 0 {
				l.pop()
			}

		default:
			l.pop()
		}
	}

	l.flushText(token.StringBody)
	l.push(token.New(token.Error, ""))
	l.failed = true
}

// lexLineComment lexes a // comment, up to but not including the linebreak
// that ends it.
func lexLineComment(l *lexer) {
	l.cursor += 2
	l.emit(token.StartOfScope)
	l.takeWhile(func(r rune) bool { return r != '\n' && r != '\r' })
	l.flushText(token.CommentBody)
}

// lexBlockComment lexes a /* */ comment, which may nest.
func lexBlockComment(l *lexer) {
	l.cursor += 2
	l.emit(token.StartOfScope)

	depth := 1
	for !l.done() {
		switch {
		case l.atLinebreak() > 0:
			l.flushText(token.CommentBody)
			lexLinebreak(l)
		case l.startsWith("/*"):
			l.flushText(token.CommentBody)
			l.cursor += 2
			l.emit(token.StartOfScope)
			depth++
		case l.startsWith("*/"):
			l.flushText(token.CommentBody)
			l.cursor += 2
			l.emit(token.EndOfScope)
			if depth--; depth == 0 {
				return
			}
		default:
			l.pop()
		}
	}

	l.flushText(token.CommentBody)
	l.push(token.New(token.Error, ""))
	l.failed = true
}

// flushText emits the text scanned since the last token as a token of the
// given kind. Comment text has its surrounding whitespace split off into
// space tokens.
func (l *lexer) flushText(kind token.Kind) {
	text := l.text[l.mark:l.cursor]
	if text == "" {
		return
	}
	if kind != token.CommentBody {
		l.push(token.New(kind, text))
		return
	}

	body := strings.TrimLeftFunc(text, isSpace)
	if lead := text[:len(text)-len(body)]; lead != "" {
		l.push(token.New(token.Space, lead))
	}
	trimmed := strings.TrimRightFunc(body, isSpace)
	if trimmed != "" {
		l.push(token.New(token.CommentBody, trimmed))
	}
	if trail := body[len(trimmed):]; trail != "" {
		l.push(token.New(token.Space, trail))
	}
}
