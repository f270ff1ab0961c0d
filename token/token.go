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

package token

import (
	"slices"
	"strconv"
	"strings"
)

// Token is a single lexical unit of source text.
//
// Tokens are plain values; two tokens compare equal with == when every field
// matches. Use [Token.Equal] to compare tokens while ignoring where a
// linebreak originally appeared.
type Token struct {
	Kind Kind
	Text string

	// Line is the 1-based line that a [Linebreak] terminates in the original
	// source. It is used for diagnostics and change tracking only.
	Line int

	// Radix is set for [Number] tokens.
	Radix Radix

	// Fixity is set for [Operator] tokens.
	Fixity Fixity
}

// New returns a token of the given kind. Use [NewNumber], [NewLinebreak] and
// [NewOperator] for kinds that carry extra attributes.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// NewNumber returns a [Number] token.
func NewNumber(text string, radix Radix) Token {
	return Token{Kind: Number, Text: text, Radix: radix}
}

// NewLinebreak returns a [Linebreak] token that terminates the given line.
func NewLinebreak(text string, line int) Token {
	return Token{Kind: Linebreak, Text: text, Line: line}
}

// NewOperator returns an [Operator] token.
func NewOperator(text string, fixity Fixity) Token {
	return Token{Kind: Operator, Text: text, Fixity: fixity}
}

// Is returns whether this token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Equal returns whether t and u are the same token, ignoring the original
// line of linebreaks.
func (t Token) Equal(u Token) bool {
	if t.Kind == Linebreak && u.Kind == Linebreak {
		return t.Text == u.Text
	}
	return t == u
}

// EqualSlices returns whether a and b hold pairwise [Token.Equal] tokens.
func EqualSlices(a, b []Token) bool {
	return slices.EqualFunc(a, b, Token.Equal)
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	b.WriteByte('(')
	b.WriteString(strconv.Quote(t.Text))
	switch t.Kind {
	case Number:
		b.WriteString(", ")
		b.WriteString(t.Radix.String())
	case Operator:
		b.WriteString(", ")
		b.WriteString(t.Fixity.String())
	}
	b.WriteByte(')')
	return b.String()
}

// IsSpace returns whether this is a [Space] token.
func (t Token) IsSpace() bool { return t.Kind == Space }

// IsLinebreak returns whether this is a [Linebreak] token.
func (t Token) IsLinebreak() bool { return t.Kind == Linebreak }

// IsSpaceOrLinebreak returns whether this is whitespace of either kind.
func (t Token) IsSpaceOrLinebreak() bool {
	return t.Kind == Space || t.Kind == Linebreak
}

// IsComment returns whether this token is part of a comment: a comment body,
// or one of the delimiters of a comment.
func (t Token) IsComment() bool {
	switch t.Kind {
	case CommentBody:
		return true
	case StartOfScope:
		return t.Text == "//" || t.Text == "/*"
	case EndOfScope:
		return t.Text == "*/"
	default:
		return false
	}
}

// IsSpaceOrComment returns whether this is a space or part of a comment.
func (t Token) IsSpaceOrComment() bool {
	return t.Kind == Space || t.IsComment()
}

// IsTrivia returns whether this token has no syntactic meaning: whitespace,
// linebreaks and comments.
func (t Token) IsTrivia() bool {
	return t.Kind == Space || t.Kind == Linebreak || t.IsComment()
}

// IsError returns whether this is an [Error] token.
func (t Token) IsError() bool { return t.Kind == Error }

// IsAttribute returns whether this is an attribute keyword, such as @objc.
func (t Token) IsAttribute() bool {
	return t.Kind == Keyword && strings.HasPrefix(t.Text, "@")
}

// IsModifier returns whether this token is a declaration modifier, such as
// public or mutating.
func (t Token) IsModifier() bool {
	return (t.Kind == Keyword || t.Kind == Identifier) && IsModifier(t.Text)
}

// IsExpressionEnd returns whether an operator directly after this token has
// an operand on its left.
func (t Token) IsExpressionEnd() bool {
	switch t.Kind {
	case Identifier, Number:
		return true
	case Keyword:
		return isValueKeyword(t.Text)
	case EndOfScope:
		switch t.Text {
		case "case", "default", "*/", "#endif":
			return false
		}
		return true
	case Operator:
		return t.Fixity == Postfix
	default:
		return false
	}
}

// IsExpressionStart returns whether an operator directly before this token
// has an operand on its right.
func (t Token) IsExpressionStart() bool {
	switch t.Kind {
	case Identifier, Number:
		return true
	case Keyword:
		switch t.Text {
		case "as", "is", "in", "where", "else":
			return false
		}
		return true
	case StartOfScope:
		switch t.Text {
		case "//", "/*", ":", "#if", "<":
			return false
		}
		return true
	default:
		return false
	}
}

// Closes returns whether t closes the scope opened by open.
func (t Token) Closes(open Token) bool {
	if open.Kind != StartOfScope {
		return false
	}
	switch open.Text {
	case "//":
		return t.Kind == Linebreak
	case ":":
		return t.Kind == EndOfScope && (t.Text == "case" || t.Text == "default" || t.Text == "}")
	}
	return t.Kind == EndOfScope && t.Text == CloserOf(open.Text)
}

// CloserOf returns the text of the token that closes a scope opened by the
// given text, or "" if the scope has no fixed closer.
func CloserOf(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	case "<":
		return ">"
	case "/*":
		return "*/"
	case "#if":
		return "#endif"
	case "//", ":":
		return ""
	}
	// Quotes, raw strings and regex literals close with their mirror image:
	// #" closes with "#, #/ with /#.
	b := []byte(open)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// IsStringDelimiter returns whether text opens or closes a string literal.
func IsStringDelimiter(text string) bool {
	return strings.Trim(text, "#") == `"` || strings.Trim(text, "#") == `"""`
}

// IsRegexDelimiter returns whether text opens or closes a regex literal.
func IsRegexDelimiter(text string) bool {
	return strings.Trim(text, "#") == "/"
}
