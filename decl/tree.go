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

// Package decl builds a tree of the declarations in a [buffer.Buffer].
//
// The tree is shallow: it records where each declaration starts and ends,
// and which declarations are nested in the bodies of types and #if blocks.
// Everything else about a declaration is derived from its tokens on demand.
//
// Each node registers its range with the buffer, so the tree stays correct
// while rules edit the buffer's tokens directly. Moving a declaration is a
// [buffer.Buffer.Reorder] of sibling ranges; deleting one is
// [Declaration.Remove].
package decl

import (
	"fmt"
	"iter"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/internal/debug"
)

// Kind is the shape of a declaration.
type Kind byte

const (
	// Simple is a declaration without member declarations: a binding, a
	// function, an initializer, an enum case, and so on.
	Simple Kind = iota + 1
	// Type is a class, struct, enum, protocol, actor or extension with a
	// body of member declarations.
	Type
	// Conditional is an #if ... #endif block.
	Conditional
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Simple:
		return "Simple"
	case Type:
		return "Type"
	case Conditional:
		return "Conditional"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ID is a handle to a node in a [Tree]. The zero ID refers to no node.
type ID int32

// IsZero returns whether this is the zero ID.
func (id ID) IsZero() bool {
	return id == 0
}

// String implements [fmt.Stringer].
func (id ID) String() string {
	if id.IsZero() {
		return "decl(<nil>)"
	}
	return fmt.Sprintf("decl(%d)", int32(id)-1)
}

// Tree is the declaration tree of a buffer.
//
// Nodes live in an arena and refer to each other by [ID]. A node's parent is
// a plain handle; a node owns its children.
type Tree struct {
	buf   *buffer.Buffer
	nodes []node
	roots []ID
}

type node struct {
	kind    Kind
	keyword string
	rng     buffer.RangeID

	parent   ID
	children []ID

	removed bool
}

// Buffer returns the buffer this tree was parsed from.
func (t *Tree) Buffer() *buffer.Buffer {
	return t.buf
}

// Len returns the number of declarations in the tree, including removed
// ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the declaration with the given ID. It returns a zero
// [Declaration] for the zero ID.
func (t *Tree) Get(id ID) Declaration {
	if id.IsZero() {
		return Declaration{}
	}
	return Declaration{tree: t, id: id}
}

// Roots returns the top-level declarations, in order.
func (t *Tree) Roots() []Declaration {
	return t.wrap(t.roots)
}

// All returns every declaration in the tree, parents before children.
func (t *Tree) All() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		var walk func(ids []ID) bool
		walk = func(ids []ID) bool {
			for _, id := range ids {
				if !yield(t.Get(id)) || !walk(t.node(id).children) {
					return false
				}
			}
			return true
		}
		walk(t.roots)
	}
}

// PostOrder returns every declaration in the tree, children before parents.
func (t *Tree) PostOrder() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		var walk func(ids []ID) bool
		walk = func(ids []ID) bool {
			for _, id := range ids {
				if !walk(t.node(id).children) || !yield(t.Get(id)) {
					return false
				}
			}
			return true
		}
		walk(t.roots)
	}
}

// Release stops the buffer from tracking the tree's ranges. The tree must not
// be used afterwards.
func (t *Tree) Release() {
	for i := range t.nodes {
		if !t.nodes[i].removed {
			t.buf.Untrack(t.nodes[i].rng)
		}
	}
	t.nodes = nil
	t.roots = nil
}

func (t *Tree) node(id ID) *node {
	debug.Assert(!id.IsZero() && int(id) <= len(t.nodes), "decl: bad id %v", id)
	return &t.nodes[id-1]
}

func (t *Tree) add(n node) ID {
	t.nodes = append(t.nodes, n)
	return ID(len(t.nodes))
}

func (t *Tree) wrap(ids []ID) []Declaration {
	out := make([]Declaration, len(ids))
	for i, id := range ids {
		out[i] = t.Get(id)
	}
	return out
}

// siblings returns the slice that holds id among its siblings.
func (t *Tree) siblings(id ID) *[]ID {
	if parent := t.node(id).parent; !parent.IsZero() {
		return &t.node(parent).children
	}
	return &t.roots
}
