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

	"github.com/bufbuild/swiftfmt/token"
)

// Insert inserts tokens before index at. Inserting at Len() appends.
func (b *Buffer) Insert(at int, toks ...token.Token) {
	b.splice(Range{at, at - 1}, toks)
}

// Remove removes the token at index at.
func (b *Buffer) Remove(at int) {
	b.splice(Range{at, at}, nil)
}

// RemoveRange removes the tokens in r.
func (b *Buffer) RemoveRange(r Range) {
	b.splice(r, nil)
}

// Replace replaces the token at index at.
func (b *Buffer) Replace(at int, tok token.Token) {
	b.splice(Range{at, at}, []token.Token{tok})
}

// ReplaceRange replaces the tokens in r with toks, and returns the change in
// the buffer's length.
//
// If the enumeration cursor is within r, it moves to the last replacement
// token, so that enumeration resumes after the replacement.
func (b *Buffer) ReplaceRange(r Range, toks ...token.Token) int {
	return b.splice(r, toks)
}

func (b *Buffer) splice(r Range, toks []token.Token) int {
	if r.Start < 0 || r.Start > len(b.tokens) || r.End >= len(b.tokens) || r.End < r.Start-1 {
		panic(fmt.Sprintf("buffer: edit range %v out of bounds [0, %d)", r, len(b.tokens)))
	}

	if !token.EqualSlices(b.tokens[r.Start:r.End+1], toks) {
		b.recordChange(r.Start)
	}
	// toks may alias the buffer; Replace copies it before shifting.
	toks = slices.Clone(toks)
	b.tokens = slices.Replace(b.tokens, r.Start, r.End+1, toks...)

	s := splice{removed: r, n: len(toks)}
	b.adjust(s)
	b.checkRanges()
	return s.delta()
}

// Reorder rearranges adjacent ranges of tokens. The ranges must tile a
// contiguous span of the buffer; they are laid out in the order given.
//
// Tracked ranges inside one of the parts move with it, and ranges that
// contain the whole span are unaffected. Tracked ranges that straddle
// parts are invalidated.
func (b *Buffer) Reorder(parts []Range) {
	parts = slices.DeleteFunc(slices.Clone(parts), Range.Empty)
	if len(parts) < 2 {
		return
	}

	sorted := slices.Clone(parts)
	slices.SortFunc(sorted, func(a, b Range) int { return a.Start - b.Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start != sorted[i-1].End+1 {
			panic(fmt.Sprintf("buffer: reordered ranges %v and %v are not adjacent", sorted[i-1], sorted[i]))
		}
	}
	span := Range{sorted[0].Start, sorted[len(sorted)-1].End}
	if span.Start < 0 || span.End >= len(b.tokens) {
		panic(fmt.Sprintf("buffer: reordered span %v out of bounds [0, %d)", span, len(b.tokens)))
	}

	// Where each part starts after the move.
	moved := make([]token.Token, 0, span.Len())
	offsets := make([]int, len(parts))
	for i, p := range parts {
		offsets[i] = span.Start + len(moved) - p.Start
		moved = append(moved, b.tokens[p.Start:p.End+1]...)
	}
	if !slices.ContainsFunc(offsets, func(off int) bool { return off != 0 }) {
		return
	}
	for i, p := range parts {
		if offsets[i] != 0 {
			b.recordChange(p.Start)
		}
	}

	// shift maps an index within the span to its new position, and returns
	// which part it was in.
	shift := func(i int) (int, int) {
		for n, p := range parts {
			if p.Contains(i) {
				return i + offsets[n], n
			}
		}
		return i, -1
	}

	copy(b.tokens[span.Start:], moved)
	if b.enumerating() && span.Contains(b.cursor) {
		b.cursor, _ = shift(b.cursor)
	}
	for i := range b.ranges {
		t := &b.ranges[i]
		switch {
		case !t.live, t.End < span.Start, t.Start > span.End, t.ContainsRange(span):
			continue
		}
		start, n := shift(t.Start)
		end, m := shift(t.End)
		if n < 0 || n != m {
			t.live = false
			continue
		}
		t.Range = Range{start, end}
	}
	b.checkRanges()
}

// checkRanges asserts that every index the buffer maintains is in bounds.
func (b *Buffer) checkRanges() {
	if b.enumerating() {
		b.assert(b.cursor >= -1 && b.cursor <= len(b.tokens), "cursor %d out of bounds", b.cursor)
	}
	for i, t := range b.ranges {
		if t.live {
			b.assert(t.Start >= 0 && t.End < len(b.tokens) && !t.Empty(),
				"tracked range %d is %v, out of bounds [0, %d)", i+1, t.Range, len(b.tokens))
		}
	}
}
