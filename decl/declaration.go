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
	"fmt"
	"slices"
	"strings"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/internal/debug"
	"github.com/bufbuild/swiftfmt/token"
)

// Declaration is a node in a [Tree].
//
// Declaration is a small value: it holds the tree and the node's [ID], and
// derives everything else from the buffer when asked. The zero Declaration
// is the absent parent of a top-level declaration.
type Declaration struct {
	tree *Tree
	id   ID
}

// IsZero returns whether this is the zero Declaration.
func (d Declaration) IsZero() bool {
	return d.tree == nil || d.id.IsZero()
}

// ID returns this declaration's handle in its tree.
func (d Declaration) ID() ID {
	return d.id
}

// Tree returns the tree this declaration belongs to.
func (d Declaration) Tree() *Tree {
	return d.tree
}

// Kind returns the shape of this declaration.
func (d Declaration) Kind() Kind {
	if d.IsZero() {
		return 0
	}
	return d.node().kind
}

// Keyword returns the text of the token that introduces this declaration,
// such as "func" or "#if", or "" for the zero Declaration.
func (d Declaration) Keyword() string {
	if d.IsZero() {
		return ""
	}
	return d.node().keyword
}

// Range returns the tokens this declaration owns. It is empty once the
// declaration has been removed, or once edits have removed all of its
// tokens.
func (d Declaration) Range() buffer.Range {
	if d.IsZero() || d.node().removed {
		return buffer.Range{Start: 0, End: -1}
	}
	r, ok := d.tree.buf.Tracked(d.node().rng)
	if !ok {
		return buffer.Range{Start: 0, End: -1}
	}
	return r
}

// Valid returns whether this declaration still has its keyword.
func (d Declaration) Valid() bool {
	return !d.Range().Empty() && d.KeywordIndex() >= 0
}

// Parent returns the declaration whose body contains this one, or the zero
// Declaration at top level.
func (d Declaration) Parent() Declaration {
	if d.IsZero() {
		return Declaration{}
	}
	return d.tree.Get(d.node().parent)
}

// Children returns the declarations in this declaration's body, in order.
func (d Declaration) Children() []Declaration {
	if d.IsZero() {
		return nil
	}
	return d.tree.wrap(d.node().children)
}

// KeywordIndex returns the index of this declaration's keyword token, or -1
// if it is gone.
func (d Declaration) KeywordIndex() int {
	r := d.Range()
	if r.Empty() {
		return -1
	}
	buf := d.tree.buf
	keyword := d.node().keyword
	for i := r.Start; i <= r.End; i++ {
		tok := buf.At(i)
		if tok.Text == keyword {
			switch tok.Kind {
			case token.Keyword, token.Identifier, token.StartOfScope:
				return i
			}
		}
		if tok.Kind == token.StartOfScope && tok.Text != ":" {
			end := buf.EndOfScope(i)
			if end < 0 {
				break
			}
			i = end
		}
	}
	debug.Assert(false, "decl: keyword %q of %v is missing from %v", keyword, d.id, r)
	return -1
}

// Name returns the name this declaration declares, or "" if it has none.
// Initializers, deinitializers and subscripts are named after their
// keyword; an #if block is named after its condition.
func (d Declaration) Name() string {
	kw := d.KeywordIndex()
	if kw < 0 {
		return ""
	}
	buf := d.tree.buf
	switch keyword := d.Keyword(); keyword {
	case "init", "deinit", "subscript":
		return keyword
	case "#if":
		end := buf.EndOfLine(kw)
		if buf.At(end).IsLinebreak() {
			end--
		}
		return strings.TrimSpace(buf.Text(buffer.Range{Start: kw + 1, End: end}))
	case "extension":
		var name strings.Builder
		for i := buf.NextNonSpace(kw); i >= 0 && i < buf.Len(); i++ {
			tok := buf.At(i)
			if tok.Kind != token.Identifier && !tok.Is(token.Operator, ".") {
				break
			}
			name.WriteString(tok.Text)
		}
		return name.String()
	}

	next := buf.NextNonSpace(kw)
	if next < 0 {
		return ""
	}
	switch tok := buf.At(next); tok.Kind {
	case token.Identifier, token.Operator:
		return tok.Text
	}
	return ""
}

// Tokens returns a copy of the tokens in this declaration's range.
func (d Declaration) Tokens() []token.Token {
	if d.IsZero() {
		return nil
	}
	return d.tree.buf.Slice(d.Range())
}

// Text returns the source text of this declaration.
func (d Declaration) Text() string {
	if d.IsZero() {
		return ""
	}
	return d.tree.buf.Text(d.Range())
}

// Modifiers returns the modifiers before this declaration's keyword, such
// as "public" or "private(set)".
func (d Declaration) Modifiers() []string {
	mods, _ := d.prefix()
	return mods
}

// Attributes returns the attributes before this declaration's keyword,
// such as "@objc", without their arguments.
func (d Declaration) Attributes() []string {
	_, attrs := d.prefix()
	return attrs
}

// HasModifier returns whether this declaration has the given modifier,
// ignoring any argument it takes.
func (d Declaration) HasModifier(name string) bool {
	return slices.ContainsFunc(d.Modifiers(), func(m string) bool {
		return m == name
	})
}

func (d Declaration) prefix() (mods, attrs []string) {
	kw := d.KeywordIndex()
	if kw < 0 {
		return nil, nil
	}
	buf := d.tree.buf
	for i := d.Range().Start; i < kw; i++ {
		tok := buf.At(i)
		switch {
		case tok.IsAttribute():
			attrs = append(attrs, tok.Text)
		case tok.IsModifier():
			text := tok.Text
			if next := i + 1; next < kw && buf.At(next).Is(token.StartOfScope, "(") {
				if end := buf.EndOfScope(next); end > 0 && end < kw {
					text += buf.Text(buffer.Range{Start: next, End: end})
					i = end
				}
			}
			mods = append(mods, text)
		case tok.Kind == token.StartOfScope && tok.Text != ":":
			if end := buf.EndOfScope(i); end > 0 && end < kw {
				i = end
			}
		}
	}
	return mods, attrs
}

// Body returns the tokens between [Declaration.Open] and
// [Declaration.Close]: the ranges of the children, or for a body without
// children, the lines between its delimiters. It is empty for a simple
// declaration.
func (d Declaration) Body() buffer.Range {
	r := d.Range()
	if r.Empty() || d.Kind() == Simple {
		return buffer.Range{Start: r.End + 1, End: r.End}
	}
	if kids := d.node().children; len(kids) > 0 {
		return buffer.Range{
			Start: d.tree.Get(kids[0]).Range().Start,
			End:   d.tree.Get(kids[len(kids)-1]).Range().End,
		}
	}
	start := d.closeStart()
	return buffer.Range{Start: start, End: start - 1}
}

// Open returns the tokens before the body: comments, attributes,
// modifiers, the keyword and everything up to the first line of the body.
// For a simple declaration, this is its whole range.
func (d Declaration) Open() buffer.Range {
	r := d.Range()
	if d.Kind() == Simple {
		return r
	}
	return buffer.Range{Start: r.Start, End: d.Body().Start - 1}
}

// Close returns the tokens after the body: the line with the closing brace
// or #endif, and anything after it up to the next declaration. It is empty
// for a simple declaration.
func (d Declaration) Close() buffer.Range {
	r := d.Range()
	if d.Kind() == Simple {
		return buffer.Range{Start: r.End + 1, End: r.End}
	}
	return buffer.Range{Start: d.Body().End + 1, End: r.End}
}

// scope returns the indices of the tokens that delimit the body, or -1.
func (d Declaration) scope() (open, closer int) {
	kw := d.KeywordIndex()
	if kw < 0 {
		return -1, -1
	}
	buf := d.tree.buf
	open = kw
	if d.Kind() == Type {
		open = buf.IndexOf(kw, func(tok token.Token) bool {
			return tok.Is(token.StartOfScope, "{")
		})
	}
	return open, buf.EndOfScope(open)
}

// closeStart returns where Close starts when there are no children: the
// start of the closing delimiter's line, if nothing else is on it before
// the delimiter.
func (d Declaration) closeStart() int {
	r := d.Range()
	open, closer := d.scope()
	if open < 0 || closer < 0 || closer > r.End {
		return r.End + 1
	}
	buf := d.tree.buf
	start := buf.StartOfLine(closer)
	if start <= open {
		return closer
	}
	for i := start; i < closer; i++ {
		if !buf.At(i).IsSpace() {
			return closer
		}
	}
	return start
}

// Prepend inserts tokens at the start of this declaration, as part of it.
func (d Declaration) Prepend(tokens ...token.Token) {
	r := d.Range()
	if r.Empty() || len(tokens) == 0 {
		return
	}
	buf := d.tree.buf
	buf.Insert(r.Start, tokens...)
	moved, _ := buf.Tracked(d.node().rng)
	buf.Retrack(d.node().rng, buffer.Range{Start: r.Start, End: moved.End})
}

// Remove deletes this declaration's tokens from the buffer and the
// declaration from the tree.
func (d Declaration) Remove() {
	if d.IsZero() || d.node().removed {
		return
	}
	t := d.tree
	if r := d.Range(); !r.Empty() {
		t.buf.RemoveRange(r)
	}
	siblings := t.siblings(d.id)
	*siblings = slices.DeleteFunc(*siblings, func(id ID) bool { return id == d.id })
	t.release(d.id)
}

// String implements [fmt.Stringer].
func (d Declaration) String() string {
	if d.IsZero() {
		return "<nil>"
	}
	return fmt.Sprintf("%v %s %q %v", d.Kind(), d.Keyword(), d.Name(), d.Range())
}

func (d Declaration) node() *node {
	return d.tree.node(d.id)
}

// release marks id and its descendants removed.
func (t *Tree) release(id ID) {
	n := t.node(id)
	n.removed = true
	t.buf.Untrack(n.rng)
	for _, child := range n.children {
		t.release(child)
	}
}
