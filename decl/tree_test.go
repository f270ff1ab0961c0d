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

package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/decl"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/token"
	"github.com/bufbuild/swiftfmt/tokenizer"
)

const thing = `import Foundation

/// A thing.
@objc public final class Thing: NSObject {
    // MARK: Public

    public var name = "x"
    private(set) var count: Int {
        didSet {}
    }

    #if DEBUG
    func debug() {}
    #endif

    init() {}
}

let a = 1; let b = 2
`

func parse(text string) (*buffer.Buffer, *decl.Tree) {
	buf := buffer.New(tokenizer.Tokenize(text), options.Default())
	return buf, decl.Parse(buf)
}

func keywords(ds []decl.Declaration) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Keyword()
	}
	return out
}

func names(ds []decl.Declaration) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name()
	}
	return out
}

// checkCoverage checks that siblings are adjacent, and that the children of
// each body tile it.
func checkCoverage(t *testing.T, tree *decl.Tree) {
	t.Helper()
	var check func(parent decl.Declaration, ds []decl.Declaration)
	check = func(parent decl.Declaration, ds []decl.Declaration) {
		for i, d := range ds {
			require.True(t, d.Valid(), "%v", d)
			assert.Equal(t, parent.ID(), d.Parent().ID(), "%v", d)
			if i > 0 {
				assert.Equal(t, ds[i-1].Range().End+1, d.Range().Start, "%v after %v", d, ds[i-1])
			}
			if d.Kind() == decl.Simple {
				assert.Equal(t, d.Range(), d.Open())
				assert.True(t, d.Close().Empty())
				continue
			}

			open, body, closer := d.Open(), d.Body(), d.Close()
			assert.Equal(t, d.Range().Start, open.Start, "%v", d)
			assert.Equal(t, open.End+1, body.Start, "%v", d)
			assert.Equal(t, body.End+1, closer.Start, "%v", d)
			assert.Equal(t, d.Range().End, closer.End, "%v", d)
			if kids := d.Children(); len(kids) > 0 {
				assert.Equal(t, body.Start, kids[0].Range().Start, "%v", d)
				assert.Equal(t, body.End, kids[len(kids)-1].Range().End, "%v", d)
			}
			check(d, d.Children())
		}
	}
	check(decl.Declaration{}, tree.Roots())
}

func TestParse(t *testing.T) {
	t.Parallel()

	buf, tree := parse(thing)
	checkCoverage(t, tree)

	roots := tree.Roots()
	require.Len(t, roots, 4)
	assert.Equal(t, []string{"import", "class", "let", "let"}, keywords(roots))
	assert.Equal(t, []string{"Foundation", "Thing", "a", "b"}, names(roots))
	assert.Equal(t, "import Foundation\n\n", roots[0].Text())
	assert.Equal(t, "let a = 1; ", roots[2].Text())
	assert.Equal(t, "let b = 2\n", roots[3].Text())
	assert.Equal(t, len(thing), len(roots[0].Text()+roots[1].Text()+roots[2].Text()+roots[3].Text()))

	class := roots[1]
	assert.Equal(t, decl.Type, class.Kind())
	assert.True(t, class.Parent().IsZero())
	assert.Equal(t, []string{"public", "final"}, class.Modifiers())
	assert.Equal(t, []string{"@objc"}, class.Attributes())
	assert.True(t, buf.At(class.KeywordIndex()).Is(token.Keyword, "class"))
	assert.Equal(t, "/// A thing.\n@objc public final class Thing: NSObject {\n    // MARK: Public\n\n", buf.Text(class.Open()))
	assert.Equal(t, "}\n\n", buf.Text(class.Close()))

	members := class.Children()
	assert.Equal(t, []string{"var", "var", "#if", "init"}, keywords(members))
	assert.Equal(t, []string{"name", "count", "DEBUG", "init"}, names(members))
	assert.Equal(t, []string{"private(set)"}, members[1].Modifiers())
	assert.Equal(t, "    private(set) var count: Int {\n        didSet {}\n    }\n\n", members[1].Text())

	cond := members[2]
	assert.Equal(t, decl.Conditional, cond.Kind())
	require.Len(t, cond.Children(), 1)
	assert.Equal(t, "debug", cond.Children()[0].Name())
	assert.Equal(t, cond.ID(), cond.Children()[0].Parent().ID())
	assert.Equal(t, "    #if DEBUG\n", buf.Text(cond.Open()))
	assert.Equal(t, "    #endif\n\n", buf.Text(cond.Close()))
}

func TestParseLeaves(t *testing.T) {
	t.Parallel()

	_, tree := parse("let a = 1\nfunc f() {}\nstruct S {}\n")
	roots := tree.Roots()
	assert.Equal(t, []string{"let", "func", "struct"}, keywords(roots))
	assert.Equal(t, 3, tree.Len())
	for _, d := range roots {
		assert.Empty(t, d.Children(), "%v", d)
	}
	assert.Equal(t, decl.Simple, roots[0].Kind())
	assert.Equal(t, decl.Simple, roots[1].Kind())
}

func TestParseShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		keywords []string
		kinds    []decl.Kind
	}{
		{
			name:     "statements",
			text:     "if let x = y {\n    let z = x\n}\nlet w = 1\n",
			keywords: []string{"let"},
			kinds:    []decl.Kind{decl.Simple},
		},
		{
			name:     "class-modifier",
			text:     "class A {\n    class func f() {}\n    class var v: Int { 1 }\n}\n",
			keywords: []string{"class"},
			kinds:    []decl.Kind{decl.Type},
		},
		{
			name:     "actor",
			text:     "actor A {\n    var actor = 1\n}\nlet x = actor\nfunc f() {}\n",
			keywords: []string{"actor", "let", "func"},
			kinds:    []decl.Kind{decl.Type, decl.Simple, decl.Simple},
		},
		{
			name:     "attributes",
			text:     "@available(iOS 13, *)\n@MainActor\npublic struct S {}\n",
			keywords: []string{"struct"},
			kinds:    []decl.Kind{decl.Type},
		},
		{
			name:     "protocol",
			text:     "protocol P {\n    associatedtype T\n    func f() -> T\n    var x: Int { get set }\n}\n",
			keywords: []string{"protocol"},
			kinds:    []decl.Kind{decl.Type},
		},
		{
			name:     "conditional-else",
			text:     "#if os(iOS)\nimport UIKit\n#else\nimport AppKit\n#endif\n",
			keywords: []string{"#if"},
			kinds:    []decl.Kind{decl.Conditional},
		},
		{
			name:     "extension",
			text:     "extension Foo.Bar: Baz where T == Int {\n    func f() {}\n}\n",
			keywords: []string{"extension"},
			kinds:    []decl.Kind{decl.Type},
		},
		{
			name:     "continuation",
			text:     "let x = foo\n    .init()\nlet y = optional\nfunc f() {}\n",
			keywords: []string{"let", "let", "func"},
			kinds:    []decl.Kind{decl.Simple, decl.Simple, decl.Simple},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			buf, tree := parse(test.text)
			checkCoverage(t, tree)
			roots := tree.Roots()
			assert.Equal(t, test.keywords, keywords(roots))
			kinds := make([]decl.Kind, len(roots))
			for i, d := range roots {
				kinds[i] = d.Kind()
			}
			assert.Equal(t, test.kinds, kinds)
			assert.Equal(t, test.text, buf.String())
		})
	}
}

func TestParseMembers(t *testing.T) {
	t.Parallel()

	_, tree := parse("class A {\n    class func f() {}\n    class var v: Int { 1 }\n}\n")
	members := tree.Roots()[0].Children()
	assert.Equal(t, []string{"func", "var"}, keywords(members))
	assert.Equal(t, []string{"class"}, members[0].Modifiers())

	_, tree = parse("extension Foo.Bar: Baz {\n}\n")
	assert.Equal(t, "Foo.Bar", tree.Roots()[0].Name())
	assert.Empty(t, tree.Roots()[0].Children())

	// Members that share the braces' lines are not parsed.
	_, tree = parse("struct S { var x = 1 }\nstruct T { var x = 1\n}\n")
	for _, d := range tree.Roots() {
		assert.Equal(t, decl.Type, d.Kind())
		assert.Empty(t, d.Children())
	}
	checkCoverage(t, tree)

	// So are the branches of an #if with an #else.
	_, tree = parse("#if os(iOS)\nimport UIKit\n#else\nimport AppKit\n#endif\n")
	assert.Empty(t, tree.Roots()[0].Children())
	assert.Equal(t, "os(iOS)", tree.Roots()[0].Name())
}

func TestTracking(t *testing.T) {
	t.Parallel()

	buf, tree := parse(thing)
	roots := tree.Roots()
	class := roots[1]
	ctor := class.Children()[3]
	before := class.Range()
	after := roots[2].Range()

	// An edit inside a member moves everything after it, and grows its
	// ancestors.
	brace := buf.IndexOf(ctor.KeywordIndex(), func(tok token.Token) bool {
		return tok.Is(token.StartOfScope, "{")
	})
	require.Positive(t, brace)
	buf.Insert(brace+1, token.New(token.Space, " "))
	assert.Equal(t, before.End+1, class.Range().End)
	assert.Equal(t, after.Start+1, roots[2].Range().Start)
	assert.Equal(t, "    init() { }\n", ctor.Text())
	checkCoverage(t, tree)

	// Prepended tokens belong to the declaration.
	b := roots[3]
	b.Prepend(
		token.New(token.StartOfScope, "//"),
		token.New(token.CommentBody, "b"),
		buf.LinebreakToken(b.Range().Start),
	)
	assert.Equal(t, "//b\nlet b = 2\n", b.Text())
	assert.Equal(t, "let a = 1; ", roots[2].Text())
	assert.Equal(t, "b", b.Name())
	checkCoverage(t, tree)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	buf, tree := parse(thing)
	class := tree.Roots()[1]
	cond := class.Children()[2]
	debug := cond.Children()[0]

	cond.Remove()
	assert.False(t, cond.Valid())
	assert.False(t, debug.Valid())
	assert.True(t, cond.Range().Empty())
	assert.Equal(t, []string{"name", "count", "init"}, names(class.Children()))
	assert.NotContains(t, buf.String(), "#if")
	checkCoverage(t, tree)

	// Removing again does nothing.
	cond.Remove()
	assert.Len(t, class.Children(), 3)

	tree.Roots()[0].Remove()
	assert.Equal(t, []string{"class", "let", "let"}, keywords(tree.Roots()))
	assert.Equal(t, "/// A thing.\n", buf.String()[:len("/// A thing.\n")])
}

func TestTraversal(t *testing.T) {
	t.Parallel()

	_, tree := parse(thing)
	var pre, post []string
	for d := range tree.All() {
		pre = append(pre, d.Name())
	}
	for d := range tree.PostOrder() {
		post = append(post, d.Name())
	}
	assert.Equal(t, []string{"Foundation", "Thing", "name", "count", "DEBUG", "debug", "init", "a", "b"}, pre)
	assert.Equal(t, []string{"Foundation", "name", "count", "debug", "DEBUG", "init", "Thing", "a", "b"}, post)
	assert.Equal(t, 9, tree.Len())

	tree.Release()
}
