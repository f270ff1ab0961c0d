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
	"regexp"
	"strings"

	"github.com/bufbuild/swiftfmt/token"
)

var (
	integerLit = regexp.MustCompile(`^[0-9][0-9_]*$`)
	decimalLit = regexp.MustCompile(`^[0-9][0-9_]*(\.[0-9][0-9_]*)?([eE][+-]?[0-9][0-9_]*)?$`)
	binaryLit  = regexp.MustCompile(`^0b[01][01_]*$`)
	octalLit   = regexp.MustCompile(`^0o[0-7][0-7_]*$`)
	hexLit     = regexp.MustCompile(`^0x[0-9a-fA-F][0-9a-fA-F_]*(\.[0-9a-fA-F][0-9a-fA-F_]*)?([pP][+-]?[0-9][0-9_]*)?$`)
)

// lexNumber lexes a number starting at the current cursor.
//
// The whole run of characters that could belong to the literal is consumed
// first and then validated, so that 0b102 is one malformed literal rather
// than a binary literal followed by an integer.
func lexNumber(l *lexer) {
	prev, _ := l.prev()
	// In tuple.0.1 the dot is member access, not a decimal point.
	member := prev.Is(token.Operator, ".")
	hex := l.startsWith("0x")

	start := l.cursor
loop:
	for !l.done() {
		r := l.peek()
		switch {
		case isIdentContinue(r):
			l.pop()
			exp := r == 'e' || r == 'E'
			if hex {
				exp = r == 'p' || r == 'P'
			}
			if next := l.peek(); exp && (next == '+' || next == '-') {
				l.pop()
			}
		case r == '.' && !member && isDigitOf(l.peekAt(1), hex):
			l.pop()
		default:
			break loop
		}
	}

	digits := l.text[start:l.cursor]
	var radix token.Radix
	switch {
	case strings.HasPrefix(digits, "0b"):
		if !binaryLit.MatchString(digits) {
			l.fail()
			return
		}
		radix = token.Binary
	case strings.HasPrefix(digits, "0o"):
		if !octalLit.MatchString(digits) {
			l.fail()
			return
		}
		radix = token.Octal
	case hex:
		if !hexLit.MatchString(digits) {
			l.fail()
			return
		}
		radix = token.Hex
	case integerLit.MatchString(digits):
		radix = token.Integer
	case decimalLit.MatchString(digits):
		radix = token.Decimal
	default:
		l.fail()
		return
	}
	l.push(token.NewNumber(digits, radix))
}

func isDigitOf(r rune, hex bool) bool {
	if hex {
		return isDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
	}
	return isDigit(r)
}
