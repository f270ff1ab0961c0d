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

	"github.com/bufbuild/swiftfmt/token"
)

// Operators that may appear between the brackets of a generic argument or
// parameter list.
var genericOperators = map[string]bool{
	".": true, "&": true, "->": true, "...": true, "==": true, "~": true,
}

// Keywords that may appear between the brackets of a generic argument or
// parameter list.
var genericKeywords = map[string]bool{
	"Any": true, "Self": true, "any": true, "some": true, "each": true,
	"inout": true, "throws": true, "rethrows": true, "async": true,
	"where": true, "let": true, "repeat": true, "class": true,
}

// lexOperator lexes an operator, or a token that starts with an operator
// character: a generic bracket or a regex literal.
func lexOperator(l *lexer) {
	r := l.peek()

	// ? and ! bind to a directly preceding expression.
	if (r == '?' || r == '!') && l.peekAt(1) != '=' {
		prev, ok := l.prev()
		if ok && (prev.IsExpressionEnd() || prev.Kind == token.Keyword) {
			l.pop()
			l.push(token.NewOperator(string(r), token.Postfix))
			return
		}
	}

	run := operatorRun(l.rest())
	switch {
	case run == "?" && l.atTernary():
		l.pop()
		l.push(token.NewOperator("?", token.Infix))
		l.pushFrame(frame{text: "?"})
		return
	case r == '>' && l.top().text == "<":
		closeGeneric(l)
		return
	case r == '<' && l.canOpenGeneric():
		cp := l.checkpoint()
		l.pop()
		l.emit(token.StartOfScope)
		l.pushFrame(frame{text: "<", undo: cp})
		return
	case r == '/' && l.atRegex():
		lexRegex(l, 0)
		return
	}

	l.cursor += len(run)
	l.emit(token.Operator)
}

// operatorRun returns the operator at the start of s.
//
// Only operators that start with a dot may contain dots, and a run never
// extends into a comment.
func operatorRun(s string) string {
	dots := strings.HasPrefix(s, ".")
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !isOperatorChar(r) || (r == '.' && !dots) {
			break
		}
		if n > 0 && (strings.HasPrefix(s[n:], "//") || strings.HasPrefix(s[n:], "/*")) {
			break
		}
		n += size
	}
	return s[:n]
}

// atTernary reports whether a lone ? at the cursor is a ternary operator.
func (l *lexer) atTernary() bool {
	prev, ok := l.prev()
	if !ok || !prev.IsSpace() {
		return false
	}
	if next := l.peekAt(1); next != -1 && !isSpace(next) && next != '\n' && next != '\r' {
		return false
	}
	prev, ok = l.prevSignificant(true)
	return ok && prev.IsExpressionEnd()
}

// atRegex reports whether a / at the cursor starts a regex literal.
func (l *lexer) atRegex() bool {
	switch next := l.peekAt(1); {
	case next == -1, isSpace(next), next == '\n', next == '\r':
		return false
	}
	if prev, ok := l.prevSignificant(false); ok && prev.IsExpressionEnd() {
		return false
	}

	// The closing delimiter must be on the same line.
	rest := l.rest()[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '\n', '\r':
			return false
		case '/':
			return true
		}
	}
	return false
}

// canOpenGeneric reports whether a < at the cursor may open a generic scope.
func (l *lexer) canOpenGeneric() bool {
	if l.noGeneric[l.cursor] {
		return false
	}
	prev, ok := l.prev()
	if !ok {
		return false
	}
	switch prev.Kind {
	case token.Identifier:
	case token.Keyword:
		switch prev.Text {
		case "init", "subscript", "Self", "Any":
		default:
			return false
		}
	default:
		return false
	}

	next := l.peekAt(1)
	return isIdentStart(next) || isDigit(next) ||
		next == '(' || next == '[' || next == '@' || next == '`'
}

// closeGeneric closes the innermost generic scope with a single >, and
// abandons it if what follows shows it was a comparison after all.
func closeGeneric(l *lexer) {
	cp := l.top().undo
	l.pop()
	l.emit(token.EndOfScope)
	l.popFrame()

	rest := strings.TrimLeft(l.rest(), " \t")
	r, _ := utf8.DecodeRuneInString(rest)
	switch {
	case isDigit(r), r == '"':
		l.restore(cp)
	case isIdentStart(r):
		if word := identPrefix(rest); !token.IsKeyword(word) {
			l.restore(cp)
		}
	}
}

// genericFrame returns the stack index of the generic scope that the next
// token belongs to, or -1 if it does not belong to one.
func (l *lexer) genericFrame() int {
	for i := len(l.stack) - 1; i > 0; i-- {
		switch l.stack[i].text {
		case "<":
			return i
		case "(", "[":
			continue
		}
		return -1
	}
	return -1
}

// anyGeneric returns the stack index of the innermost generic scope, or -1.
func (l *lexer) anyGeneric() int {
	for i := len(l.stack) - 1; i > 0; i-- {
		if l.stack[i].text == "<" {
			return i
		}
	}
	return -1
}

// allowedInGeneric reports whether the token at the cursor may appear inside
// a generic scope. A token that may not disproves the scope.
func allowedInGeneric(l *lexer) bool {
	r := l.peek()
	switch {
	case r == '\n', r == '\r', isSpace(r), isDigit(r),
		r == '@', r == '`', r == '(', r == '[', r == ',', r == ':':
		return true
	case r == ')', r == ']':
		return l.top().text != "<"
	case isIdentStart(r):
		word := identPrefix(l.rest())
		return !token.IsKeyword(word) || genericKeywords[word]
	case l.startsWith("//"), l.startsWith("/*"):
		return false
	case r == '>':
		return l.top().text == "<"
	case r == '<':
		return l.canOpenGeneric()
	case r == '?', r == '!':
		prev, ok := l.prev()
		return ok && prev.IsExpressionEnd() && l.peekAt(1) != '='
	case isOperatorChar(r):
		return genericOperators[operatorRun(l.rest())]
	default:
		return false
	}
}

// resolveFixity assigns a fixity to every operator that the main loop left
// unresolved, based on whether it is bound to its neighbors.
func resolveFixity(tokens []token.Token) {
	for i := range tokens {
		tok := &tokens[i]
		if tok.Kind != token.Operator || tok.Fixity != token.None {
			continue
		}
		if declaresOperator(tokens, i) {
			continue
		}

		var left, right bool
		leftTrivia, rightTrivia := true, true
		if i > 0 {
			left = tokens[i-1].IsExpressionEnd()
			leftTrivia = tokens[i-1].IsTrivia()
		}
		if i+1 < len(tokens) {
			right = tokens[i+1].IsExpressionStart()
			rightTrivia = tokens[i+1].IsTrivia()
		}

		switch {
		case left && right, !left && !right && leftTrivia && rightTrivia:
			tok.Fixity = token.Infix
		case left:
			tok.Fixity = token.Postfix
		case right:
			tok.Fixity = token.Prefix
		}
	}
}

// declaresOperator reports whether the operator at i is the name in an
// operator declaration.
func declaresOperator(tokens []token.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].IsSpace() {
			continue
		}
		return tokens[j].Is(token.Keyword, "operator")
	}
	return false
}
