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
	"unicode"

	"github.com/bufbuild/swiftfmt/token"
)

// loop is the main loop of the tokenizer.
//
// Each iteration lexes one token, or a short run of tokens that must be
// emitted together, in whichever mode the innermost scope calls for.
func loop(l *lexer) {
	defer l.finish()

	mp := l.mustProgress()
	for !l.failed {
		if l.done() {
			// A generic scope still open at end of input was never a
			// generic scope.
			if n := l.anyGeneric(); n >= 0 {
				l.restore(l.stack[n].undo)
				continue
			}
			return
		}
		mp.check()

		if l.top().isString() {
			lexStringBody(l)
			continue
		}
		if n := l.genericFrame(); n >= 0 && !allowedInGeneric(l) {
			l.restore(l.stack[n].undo)
			continue
		}
		lexCode(l)
	}
}

// lexCode lexes a single token outside of any string literal.
func lexCode(l *lexer) {
	r := l.peek()
	switch {
	case r == '\n' || r == '\r':
		lexLinebreak(l)
	case isSpace(r):
		l.takeWhile(isSpace)
		l.emit(token.Space)
	case l.startsWith("//"):
		lexLineComment(l)
	case l.startsWith("/*"):
		lexBlockComment(l)
	case r == '"':
		openString(l, 0)
	case r == '#':
		lexHash(l)
	case r == '@':
		l.pop()
		if !isIdentStart(l.peek()) {
			l.fail()
			return
		}
		l.takeWhile(isIdentContinue)
		l.emit(token.Keyword)
	case r == '`':
		l.pop()
		l.takeWhile(func(r rune) bool { return r != '`' && r != '\n' && r != '\r' })
		if l.pop() != '`' {
			l.fail()
			return
		}
		l.emit(token.Identifier)
	case isDigit(r):
		lexNumber(l)
	case isIdentStart(r):
		lexWord(l)
	case r == '(' || r == '[' || r == '{':
		lexOpen(l)
	case r == ')' || r == ']' || r == '}':
		lexClose(l)
	case r == ',' || r == ';':
		l.pop()
		l.emit(token.Delimiter)
	case r == ':':
		lexColon(l)
	case r == '\\':
		// Key path.
		l.pop()
		l.push(token.NewOperator(`\`, token.Prefix))
	case isOperatorChar(r):
		lexOperator(l)
	default:
		l.fail()
	}
}

func lexLinebreak(l *lexer) {
	l.cursor += l.atLinebreak()
	l.push(token.NewLinebreak(l.text[l.mark:l.cursor], l.line))
	l.line++
}

// lexWord lexes an identifier or keyword.
func lexWord(l *lexer) {
	word := l.takeWhile(isIdentContinue)
	prev, _ := l.prev()

	switch {
	case prev.Is(token.Operator, ".") && word != "init" && word != "self":
		// Member names may be spelled like keywords.
		l.emit(token.Identifier)

	case (word == "case" || word == "default") && l.atCaseLabel():
		if l.top().text == ":" {
			l.popFrame()
		}
		l.emit(token.EndOfScope)
		l.top().pendingCaseColon = true

	case token.IsKeyword(word):
		l.emit(token.Keyword)
		if word == "switch" {
			l.top().pendingSwitch = true
		}

	default:
		l.emit(token.Identifier)
	}
}

// atCaseLabel reports whether a case or default keyword at the cursor
// starts a new label of a switch statement.
func (l *lexer) atCaseLabel() bool {
	var body *frame
	for i := len(l.stack) - 1; i > 0; i-- {
		if f := &l.stack[i]; f.text != ":" && f.text != "#if" {
			body = f
			break
		}
	}
	if body == nil || !body.isSwitch {
		return false
	}

	prev, ok := l.prevSignificant(false)
	if !ok {
		return true
	}
	return prev.IsLinebreak() ||
		prev.Is(token.StartOfScope, "{") ||
		prev.Is(token.StartOfScope, ":") ||
		prev.Is(token.Delimiter, ";") ||
		prev.Is(token.Keyword, "@unknown")
}

func lexOpen(l *lexer) {
	r := l.pop()
	l.emit(token.StartOfScope)

	f := frame{text: string(r)}
	if t := l.top(); r == '{' && t.pendingSwitch {
		t.pendingSwitch = false
		f.isSwitch = true
	}
	l.pushFrame(f)
}

func lexClose(l *lexer) {
	var open string
	switch l.peek() {
	case ')':
		open = "("
	case ']':
		open = "["
	default:
		open = "{"
	}

	l.popImplicit()
	if l.top().text != open {
		l.fail()
		return
	}
	l.pop()
	l.emit(token.EndOfScope)
	l.popFrame()
}

func lexColon(l *lexer) {
	l.pop()
	switch t := l.top(); {
	case t.text == "?":
		l.push(token.NewOperator(":", token.Infix))
		l.popFrame()
	case t.pendingCaseColon:
		t.pendingCaseColon = false
		l.emit(token.StartOfScope)
		l.pushFrame(frame{text: ":"})
	default:
		l.emit(token.Delimiter)
	}
}

// lexHash lexes tokens that start with #: raw strings, extended regex
// literals, and compiler directives.
func lexHash(l *lexer) {
	start := l.cursor
	hashes := len(l.takeWhile(func(r rune) bool { return r == '#' }))

	switch r := l.peek(); {
	case r == '"':
		l.cursor = start
		openString(l, hashes)
	case r == '/':
		l.cursor = start
		lexRegex(l, hashes)
	case hashes == 1 && isIdentStart(r):
		word := "#" + l.takeWhile(isIdentContinue)
		switch word {
		case "#if":
			l.emit(token.StartOfScope)
			l.pushFrame(frame{text: word})
		case "#endif":
			n := -1
			for i := len(l.stack) - 1; i > 0; i-- {
				if l.stack[i].text == "#if" {
					n = i
					break
				}
			}
			if n < 0 {
				l.fail()
				return
			}
			// #endif closes everything opened since its #if.
			l.stack = l.stack[:n]
			l.emit(token.EndOfScope)
		default:
			l.emit(token.Keyword)
		}
	default:
		l.fail()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSpace reports whether r is horizontal whitespace.
func isSpace(r rune) bool {
	if r == '\n' || r == '\r' {
		return false
	}
	return r == ' ' || r == '\t' || r == '\uFEFF' || unicode.IsSpace(r)
}

func isIdentStart(r rune) bool {
	switch {
	case r == '_' || r == '$':
		return true
	case r < 0x80:
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
	default:
		return unicode.IsLetter(r) || unicode.Is(unicode.So, r)
	}
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r) ||
		r >= 0x80 && (unicode.IsDigit(r) || unicode.IsMark(r) || r == '\u200D')
}

func isOperatorChar(r rune) bool {
	if r < 0x80 {
		return r >= 0 && strings.ContainsRune("/=-+!*%<>&|^~?.", r)
	}
	return unicode.Is(unicode.Sm, r)
}

// identPrefix returns the identifier at the start of s, if any.
func identPrefix(s string) string {
	for i, r := range s {
		if !isIdentContinue(r) {
			return s[:i]
		}
	}
	return s
}
