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

	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/token"
)

// Visibility is the access level of a declaration.
type Visibility byte

const (
	Open Visibility = iota
	Public
	Package
	Internal
	FilePrivate
	Private
)

var visibilities = [...]struct{ keyword, label string }{
	Open:        {"open", "Open"},
	Public:      {"public", "Public"},
	Package:     {"package", "Package"},
	Internal:    {"internal", "Internal"},
	FilePrivate: {"fileprivate", "File Private"},
	Private:     {"private", "Private"},
}

// String returns the modifier that declares v.
func (v Visibility) String() string {
	if int(v) < len(visibilities) {
		return visibilities[v].keyword
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// Label returns the name of v in a marker comment.
func (v Visibility) Label() string {
	if int(v) < len(visibilities) {
		return visibilities[v].label
	}
	return v.String()
}

// Member is the structural kind of a member declaration. Members are
// ordered by it within their visibility.
type Member byte

const (
	BeforeMarks Member = iota // typealias and associatedtype.
	EnumCase
	NestedType
	StaticProperty
	StaticPropertyWithBody
	ClassPropertyWithBody
	InstanceProperty
	InstancePropertyWithBody
	InstanceLifecycle
	StaticMethod
	ClassMethod
	InstanceMethod
	Other
)

var memberNames = [...]string{
	BeforeMarks:              "BeforeMarks",
	EnumCase:                 "EnumCase",
	NestedType:               "NestedType",
	StaticProperty:           "StaticProperty",
	StaticPropertyWithBody:   "StaticPropertyWithBody",
	ClassPropertyWithBody:    "ClassPropertyWithBody",
	InstanceProperty:         "InstanceProperty",
	InstancePropertyWithBody: "InstancePropertyWithBody",
	InstanceLifecycle:        "InstanceLifecycle",
	StaticMethod:             "StaticMethod",
	ClassMethod:              "ClassMethod",
	InstanceMethod:           "InstanceMethod",
	Other:                    "Other",
}

// String implements [fmt.Stringer].
func (m Member) String() string {
	if int(m) < len(memberNames) {
		return memberNames[m]
	}
	return fmt.Sprintf("Member(%d)", int(m))
}

// Category is where a member declaration goes in an organized type body.
type Category struct {
	Visibility Visibility
	Member     Member
}

// String implements [fmt.Stringer].
func (c Category) String() string {
	return c.Visibility.String() + " " + c.Member.String()
}

// Group is a run of categories that share a marker comment.
type Group struct {
	rank int
	// The category label; empty for members that go before every marker.
	Label string
}

// Group returns the marker group c belongs to under the given mode.
func (c Category) Group(mode options.Mode) Group {
	switch c.Member {
	case BeforeMarks, EnumCase:
		return Group{}
	}
	if mode == options.Visibility {
		if c.Member == InstanceLifecycle {
			return Group{1, "Lifecycle"}
		}
		return Group{2 + int(c.Visibility), c.Visibility.Label()}
	}

	switch c.Member {
	case NestedType:
		return Group{1, "Nested Types"}
	case StaticProperty, StaticPropertyWithBody:
		return Group{2, "Static Properties"}
	case ClassPropertyWithBody:
		return Group{3, "Class Properties"}
	case InstanceProperty:
		return Group{4, "Properties"}
	case InstancePropertyWithBody:
		return Group{5, "Computed Properties"}
	case InstanceLifecycle:
		return Group{6, "Lifecycle"}
	case StaticMethod:
		return Group{7, "Static Functions"}
	case ClassMethod:
		return Group{8, "Class Functions"}
	case InstanceMethod:
		return Group{9, "Functions"}
	default:
		return Group{10, "Other"}
	}
}

// compare orders categories under the given mode: by group, then by member
// kind, then by visibility.
func (c Category) compare(d Category, mode options.Mode) int {
	if n := c.Group(mode).rank - d.Group(mode).rank; n != 0 {
		return n
	}
	if n := int(c.Member) - int(d.Member); n != 0 {
		return n
	}
	return int(c.Visibility) - int(d.Visibility)
}

// groupLabels returns every label a marker may carry.
func groupLabels() []string {
	labels := []string{"Lifecycle", "Nested Types", "Static Properties",
		"Class Properties", "Properties", "Computed Properties",
		"Static Functions", "Class Functions", "Functions", "Other"}
	for _, v := range visibilities {
		labels = append(labels, v.label)
	}
	return labels
}

// Visibility returns the declared access level of d; members without one
// are internal. A setter access level such as private(set) does not count.
func (d Declaration) Visibility() Visibility {
	for _, mod := range d.Modifiers() {
		for v, vis := range visibilities {
			if mod == vis.keyword {
				return Visibility(v)
			}
		}
	}
	return Internal
}

// Category classifies d as a member of a type body.
//
// An #if block is classified by its first member.
func (d Declaration) Category() Category {
	c := Category{Visibility: d.Visibility(), Member: Other}
	switch d.Kind() {
	case Conditional:
		if kids := d.Children(); len(kids) > 0 {
			return kids[0].Category()
		}
		return Category{Visibility: Internal, Member: Other}
	case Type:
		c.Member = NestedType
		return c
	}

	static := d.HasModifier("static")
	class := d.HasModifier("class")
	switch d.Keyword() {
	case "typealias", "associatedtype":
		c.Member = BeforeMarks
	case "case":
		c.Member = EnumCase
	case "init", "deinit":
		c.Member = InstanceLifecycle
	case "class", "struct", "enum", "protocol", "actor":
		c.Member = NestedType
	case "let", "var":
		computed := d.Computed()
		switch {
		case class:
			c.Member = ClassPropertyWithBody
		case static && computed:
			c.Member = StaticPropertyWithBody
		case static:
			c.Member = StaticProperty
		case computed:
			c.Member = InstancePropertyWithBody
		default:
			c.Member = InstanceProperty
		}
	case "func":
		switch {
		case static:
			c.Member = StaticMethod
		case class:
			c.Member = ClassMethod
		default:
			c.Member = InstanceMethod
		}
	}
	return c
}

// Computed returns whether d is a property with accessors instead of
// storage. Properties with only willSet and didSet observers are stored.
func (d Declaration) Computed() bool {
	switch d.Keyword() {
	case "let", "var":
	default:
		return false
	}
	kw := d.KeywordIndex()
	if kw < 0 {
		return false
	}
	buf := d.tree.buf
	end := d.Range().End
	open := buf.IndexOf(kw, func(tok token.Token) bool {
		return tok.Is(token.StartOfScope, "{") || tok.Is(token.Operator, "=")
	})
	if open < 0 || open > end || !buf.At(open).Is(token.StartOfScope, "{") {
		return false
	}
	first := buf.NextNonTrivia(open)
	if first < 0 {
		return true
	}
	switch buf.At(first).Text {
	case "willSet", "didSet":
		return false
	}
	return true
}

// Stored returns whether d is an instance property with storage: one that
// is a parameter of a struct's implicit memberwise initializer.
func (d Declaration) Stored() bool {
	return d.Kind() == Simple && d.Category().Member == InstanceProperty
}
