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

package rules

import (
	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/token"
)

// TrailingSpace removes whitespace at the end of lines.
var TrailingSpace = New(
	"trailingSpace",
	"Remove whitespace at the end of lines.",
	func(buf *buffer.Buffer) {
		lit := newLiterals(buf)
		buf.ForEach(token.Token.IsSpace, func(i int, _ token.Token) {
			if lit.contains(i) {
				return
			}
			if i+1 == buf.Len() || buf.At(i+1).IsLinebreak() {
				lit.remove(buf, buffer.Range{Start: i, End: i})
			}
		})
	},
)

// ConsecutiveBlankLines collapses runs of blank lines longer than the
// max-blank-lines option.
var ConsecutiveBlankLines = New(
	"consecutiveBlankLines",
	"Collapse runs of blank lines.",
	func(buf *buffer.Buffer) {
		lit := newLiterals(buf)
		buf.ForEach(token.Token.IsLinebreak, func(i int, _ token.Token) {
			if lit.contains(i) {
				return
			}
			limit := max(buf.Options().MaxBlankLines, 0)
			for n, at := 0, i+1; ; {
				end := blankLine(buf, at)
				if end < 0 {
					return
				}
				if n++; n > limit {
					lit.remove(buf, buffer.Range{Start: at, End: end})
					continue
				}
				at = end + 1
			}
		})
	},
)

// BlankLinesAtStartOfScope removes blank lines after an opening bracket.
var BlankLinesAtStartOfScope = New(
	"blankLinesAtStartOfScope",
	"Remove blank lines at the start of a scope.",
	func(buf *buffer.Buffer) {
		buf.ForEach(isBracket(token.StartOfScope), func(i int, _ token.Token) {
			lb := buf.NextNonSpace(i)
			if lb < 0 || !buf.At(lb).IsLinebreak() {
				return
			}
			for {
				end := blankLine(buf, lb+1)
				if end < 0 || buf.NextNonSpace(end) < 0 {
					return
				}
				buf.RemoveRange(buffer.Range{Start: lb + 1, End: end})
			}
		})
	},
)

// BlankLinesAtEndOfScope removes blank lines before a closing bracket.
var BlankLinesAtEndOfScope = New(
	"blankLinesAtEndOfScope",
	"Remove blank lines at the end of a scope.",
	func(buf *buffer.Buffer) {
		buf.ForEach(isBracket(token.EndOfScope), func(i int, _ token.Token) {
			lb := buf.LastNonSpace(i)
			if lb < 0 || !buf.At(lb).IsLinebreak() {
				return
			}
			for {
				prev := buf.LastNonSpace(lb)
				if prev < 0 || !buf.At(prev).IsLinebreak() {
					return
				}
				// Keep the line break ending the last line of the body.
				buf.RemoveRange(buffer.Range{Start: prev + 1, End: lb})
				lb = prev
			}
		})
	},
)

// LinebreakAtEndOfFile makes the file end with exactly one linebreak.
var LinebreakAtEndOfFile = New(
	"linebreakAtEndOfFile",
	"End the file with a single linebreak.",
	func(buf *buffer.Buffer) {
		// Respect directives and partial formatting: only touch the end of
		// the file if enumeration reaches it.
		var reached bool
		buf.ForEach(everything, func(i int, _ token.Token) {
			reached = i == buf.Len()-1
		})
		if !reached {
			return
		}
		last := buf.LastNonSpaceOrLinebreak(buf.Len())
		if last < 0 {
			return
		}
		// Spaces ending the last line belong to trailingSpace.
		lb := last + 1
		for lb < buf.Len() && !buf.At(lb).IsLinebreak() {
			lb++
		}
		if lb == buf.Len() {
			buf.Insert(lb, buf.LinebreakToken(last))
			return
		}
		if rest := (buffer.Range{Start: lb + 1, End: buf.Len() - 1}); !rest.Empty() {
			buf.RemoveRange(rest)
		}
	},
)

// blankLine returns the index of the linebreak ending the line that starts
// at index at, if the line is blank, or -1.
func blankLine(buf *buffer.Buffer, at int) int {
	if at < buf.Len() && buf.At(at).IsSpace() {
		at++
	}
	if at < buf.Len() && buf.At(at).IsLinebreak() {
		return at
	}
	return -1
}

func everything(token.Token) bool { return true }

func isBracket(kind token.Kind) func(token.Token) bool {
	return func(tok token.Token) bool {
		if tok.Kind != kind {
			return false
		}
		switch tok.Text {
		case "{", "}", "(", ")", "[", "]":
			return true
		}
		return false
	}
}

// literals records which tokens are inside a string, regex or block
// comment, where whitespace is content. It stays accurate while a rule
// removes tokens at or after the enumeration cursor, through remove.
type literals struct {
	inside  []bool
	removed int
}

func newLiterals(buf *buffer.Buffer) *literals {
	l := &literals{inside: make([]bool, buf.Len())}
	depth := 0
	for i := range buf.Len() {
		tok := buf.At(i)
		opens := tok.Kind == token.StartOfScope && literal(tok.Text)
		closes := tok.Kind == token.EndOfScope && literal(tok.Text)
		if closes {
			depth = max(depth-1, 0)
		}
		l.inside[i] = depth > 0 || opens || closes
		if opens {
			depth++
		}
	}
	return l
}

func (l *literals) contains(i int) bool {
	return l.inside[i+l.removed]
}

func (l *literals) remove(buf *buffer.Buffer, r buffer.Range) {
	buf.RemoveRange(r)
	l.removed += r.Len()
}

func literal(text string) bool {
	return token.IsStringDelimiter(text) || token.IsRegexDelimiter(text) ||
		text == "/*" || text == "*/"
}
