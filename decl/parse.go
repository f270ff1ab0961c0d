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

package decl

import (
	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/token"
)

// Parse builds the declaration tree of buf.
//
// Top-level tokens before the first declaration belong to no declaration.
// Every other token of the buffer belongs to exactly one top-level
// declaration: a declaration runs up to the first token of the next one.
func Parse(buf *buffer.Buffer) *Tree {
	t := &Tree{buf: buf}
	p := parser{tree: t, buf: buf}
	t.roots = p.parse(0, buf.Len()-1, 0)
	return t
}

type parser struct {
	tree *Tree
	buf  *buffer.Buffer
}

// candidate is a declaration found by split, before it is added to the tree.
type candidate struct {
	keyword int
	start   int
}

// parse adds the declarations in [lo, hi] to the tree, with the given
// parent.
func (p *parser) parse(lo, hi int, parent ID) []ID {
	found := p.split(lo, hi)
	ids := make([]ID, 0, len(found))
	for i, c := range found {
		end := hi
		if i+1 < len(found) {
			end = found[i+1].start - 1
		}
		r := buffer.Range{Start: c.start, End: end}
		kw := p.buf.At(c.keyword)

		n := node{
			kind:    Simple,
			keyword: kw.Text,
			parent:  parent,
			rng:     p.buf.Track(r),
		}
		body := buffer.Range{Start: c.start, End: c.start - 1}
		switch {
		case kw.Is(token.StartOfScope, "#if"):
			n.kind = Conditional
			body = p.conditionalBody(c.keyword, end)
		case token.IsTypeKeyword(kw.Text):
			if open := p.brace(c.keyword, end); open >= 0 {
				n.kind = Type
				body = p.typeBody(open)
			}
		}

		id := p.tree.add(n)
		ids = append(ids, id)
		if !body.Empty() {
			children := p.parse(body.Start, body.End, id)
			p.tree.node(id).children = children
		}
	}
	return ids
}

// split finds the declarations that start in [lo, hi], at the top level of
// that range.
func (p *parser) split(lo, hi int) []candidate {
	var found []candidate
	floor := lo
	for i := lo; i <= hi; i++ {
		tok := p.buf.At(i)
		if tok.Kind == token.StartOfScope && tok.Text != ":" {
			if tok.Text == "#if" {
				if start, ok := p.declStart(i, floor, lo); ok {
					found = append(found, candidate{keyword: i, start: start})
					floor = i + 1
				}
			}
			end := p.buf.EndOfScope(i)
			if end < 0 || end > hi {
				break
			}
			i = end
			continue
		}

		if !p.isKeyword(i, hi) {
			continue
		}
		if start, ok := p.declStart(i, floor, lo); ok {
			found = append(found, candidate{keyword: i, start: start})
			floor = i + 1
		}
	}
	return found
}

// isKeyword returns whether the token at i is a word that introduces a
// declaration, ignoring where it appears.
func (p *parser) isKeyword(i, hi int) bool {
	tok := p.buf.At(i)
	switch tok.Kind {
	case token.Keyword:
		if !token.IsDeclarationKeyword(tok.Text) {
			return false
		}
		if tok.Text == "class" {
			// class func, class var, class final ...
			next := p.nextNonTrivia(i, hi)
			return next < 0 || !p.isModifierOrKeyword(next)
		}
		return true
	case token.Identifier:
		switch tok.Text {
		case "actor", "macro":
			// Contextual: only a keyword when a name follows.
			next := p.buf.NextNonSpace(i)
			return next >= 0 && next <= hi && p.buf.At(next).Kind == token.Identifier
		}
	}
	return false
}

func (p *parser) isModifierOrKeyword(i int) bool {
	tok := p.buf.At(i)
	return tok.IsModifier() ||
		(tok.Kind == token.Keyword && token.IsDeclarationKeyword(tok.Text))
}

// declStart returns where the declaration introduced at kw starts, or false
// if kw is not in a declaration position: after its modifiers and
// attributes, it must be the first thing on its line or follow a semicolon.
//
// The start includes the indentation of the declaration's line, and comment
// lines directly above it. It is never before floor.
func (p *parser) declStart(kw, floor, lo int) (int, bool) {
	first := p.prefixStart(kw, floor)

	before := first - 1
	for before >= floor && p.buf.At(before).IsSpaceOrComment() {
		before--
	}
	switch {
	case before < lo:
	case p.buf.At(before).IsLinebreak():
	case before < floor:
		// The previous declaration ends on this line.
		return first, true
	case p.buf.At(before).Is(token.Delimiter, ";"):
		return first, true
	default:
		return 0, false
	}

	start := max(p.buf.StartOfLine(first), floor)
	for start > floor {
		above := p.buf.StartOfLine(start - 1)
		if above < floor || !p.commentLine(above, start-1) {
			break
		}
		start = above
	}
	return start, true
}

// prefixStart returns the index of the first modifier or attribute that
// applies to the keyword at kw, or kw if there are none.
//
// Attributes may sit on the lines above; modifiers must be on the same line
// as the keyword, or on the same line as an attribute.
func (p *parser) prefixStart(kw, floor int) int {
	first := kw
	crossed := false
	for i := kw - 1; i >= floor; i-- {
		tok := p.buf.At(i)
		switch {
		case tok.IsLinebreak():
			crossed = true
		case tok.IsSpaceOrComment():
		case tok.IsAttribute():
			first = i
			crossed = false
		case tok.IsModifier() && !crossed:
			first = i
		case tok.Is(token.EndOfScope, ")"):
			// @available(...) or private(set).
			open := p.buf.StartOfScope(i)
			if open <= floor {
				return first
			}
			owner := p.buf.At(open - 1)
			if !owner.IsAttribute() && (crossed || !owner.IsModifier()) {
				return first
			}
			i = open
		default:
			return first
		}
	}
	return first
}

// commentLine returns whether the line [start, end] holds only comments.
func (p *parser) commentLine(start, end int) bool {
	comment := false
	for i := start; i <= end; i++ {
		tok := p.buf.At(i)
		switch {
		case tok.IsComment():
			comment = true
		case tok.IsSpaceOrLinebreak():
		default:
			return false
		}
	}
	return comment
}

// brace returns the index of the { that opens the body of the type
// declared at kw, or -1.
func (p *parser) brace(kw, end int) int {
	open := p.buf.IndexOf(kw, func(tok token.Token) bool {
		return tok.Is(token.StartOfScope, "{")
	})
	if open < 0 || open > end {
		return -1
	}
	if closer := p.buf.EndOfScope(open); closer < 0 || closer > end {
		return -1
	}
	return open
}

// typeBody returns the range of a type body that holds member declarations.
// It is empty if the body is on a single line, or if the braces share
// their lines with members.
func (p *parser) typeBody(open int) buffer.Range {
	return p.interior(open, p.buf.EndOfScope(open))
}

// conditionalBody returns the range of an #if block that holds member
// declarations. It is empty if the block has #else or #elseif branches.
func (p *parser) conditionalBody(open, end int) buffer.Range {
	closer := p.buf.EndOfScope(open)
	if closer < 0 || closer > end {
		return buffer.Range{Start: end + 1, End: end}
	}
	depth := 0
	for i := open + 1; i < closer; i++ {
		switch tok := p.buf.At(i); {
		case tok.Is(token.StartOfScope, "#if"):
			depth++
		case tok.Is(token.EndOfScope, "#endif"):
			depth--
		case depth == 0 && tok.Kind == token.Keyword && (tok.Text == "#else" || tok.Text == "#elseif"):
			return buffer.Range{Start: end + 1, End: end}
		}
	}
	return p.interior(open, closer)
}

// interior returns the lines strictly between the line of open and the line
// of closer, or an empty range if open or closer shares its line with
// anything but comments and indentation.
func (p *parser) interior(open, closer int) buffer.Range {
	none := buffer.Range{Start: open + 1, End: open}
	if closer < 0 {
		return none
	}

	lo := open + 1
	if p.buf.At(open).Is(token.StartOfScope, "#if") {
		// The condition shares the line.
		lo = p.buf.EndOfLine(lo) + 1
	} else {
		for ; lo < closer && !p.buf.At(lo).IsLinebreak(); lo++ {
			if !p.buf.At(lo).IsSpaceOrComment() {
				return none
			}
		}
		lo++
	}

	hi := p.buf.StartOfLine(closer) - 1
	for i := hi + 1; i < closer; i++ {
		if !p.buf.At(i).IsSpace() {
			return none
		}
	}
	if lo > hi || hi < open {
		return none
	}
	return buffer.Range{Start: lo, End: hi}
}

func (p *parser) nextNonTrivia(after, hi int) int {
	for i := after + 1; i <= hi; i++ {
		if !p.buf.At(i).IsTrivia() {
			return i
		}
	}
	return -1
}
