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

package rules_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/reporter"
	"github.com/bufbuild/swiftfmt/rules"
	"github.com/bufbuild/swiftfmt/token"
	"github.com/bufbuild/swiftfmt/tokenizer"
)

func only(names ...string) options.Options {
	opts := options.Default()
	opts.Rules = names
	return opts
}

func format(t *testing.T, text string, opts options.Options) rules.Result {
	t.Helper()
	res, err := rules.Format(text, rules.Default(), opts, nil)
	require.NoError(t, err)
	return res
}

func changedBy(changes []buffer.Change) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range changes {
		if !seen[c.Rule] {
			seen[c.Rule] = true
			out = append(out, c.Rule)
		}
	}
	return out
}

func TestTable(t *testing.T) {
	t.Parallel()

	noop := func(*buffer.Buffer) {}
	table, err := rules.NewTable(rules.New("b", "", noop), rules.New("a", "", noop))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, table.Names())
	assert.True(t, table.Has("a"))
	assert.False(t, table.Has("c"))

	_, err = rules.NewTable(rules.New("a", "", noop), rules.New("a", "", noop))
	assert.ErrorContains(t, err, `duplicate rule "a"`)
	_, err = rules.NewTable(rules.New("all", "", noop))
	assert.Error(t, err)

	opts := options.Default()
	opts.Disable = []string{"b"}
	enabled := table.Enabled(opts)
	require.Len(t, enabled, 1)
	assert.Equal(t, "a", enabled[0].Name())

	def := rules.Default()
	assert.Equal(t, []string{
		"organizeDeclarations",
		"trailingSpace",
		"consecutiveBlankLines",
		"blankLinesAtStartOfScope",
		"blankLinesAtEndOfScope",
		"linebreakAtEndOfFile",
	}, def.Names())
	for _, r := range def.Rules() {
		assert.NotEmpty(t, r.Help(), r.Name())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	table := rules.Default()
	assert.NoError(t, table.Validate(only("trailingSpace")))

	err := table.Validate(only("trailingSpaces"))
	require.ErrorIs(t, err, rules.ErrUnknownRule)
	assert.EqualError(t, err, `unknown rule "trailingSpaces"; did you mean "trailingSpace"?`)

	opts := options.Default()
	opts.Disable = []string{"zzz"}
	assert.EqualError(t, table.Validate(opts), `unknown rule "zzz"`)
}

func TestRun(t *testing.T) {
	t.Parallel()

	// Grows the buffer to three tokens, one per pass.
	var passes int
	grow := rules.New("grow", "", func(buf *buffer.Buffer) {
		passes++
		if buf.Len() < 3 {
			buf.Insert(buf.Len(), token.New(token.Identifier, "x"))
		}
	})
	table, err := rules.NewTable(grow)
	require.NoError(t, err)
	buf := buffer.New(nil, options.Default())
	require.NoError(t, rules.Run(buf, table))
	assert.Equal(t, "xxx", buf.String())
	assert.Equal(t, 4, passes)

	// Never settles.
	flip := rules.New("flip", "", func(buf *buffer.Buffer) {
		next := "a"
		if buf.At(0).Text == "a" {
			next = "b"
		}
		buf.Replace(0, token.New(token.Identifier, next))
	})
	table, err = rules.NewTable(flip)
	require.NoError(t, err)
	buf = buffer.New(tokenizer.Tokenize("a"), options.Default())
	err = rules.Run(buf, table)
	assert.True(t, errors.Is(err, rules.ErrNotConverged), "%v", err)

	// Rules run in table order, attributed to their names.
	var order []string
	record := func(buf *buffer.Buffer) { order = append(order, buf.Rule()) }
	table, err = rules.NewTable(rules.New("one", "", record), rules.New("two", "", record))
	require.NoError(t, err)
	require.NoError(t, rules.Run(buffer.New(nil, options.Default()), table))
	assert.Equal(t, []string{"one", "two"}, order)
}

func TestWhitespace(t *testing.T) {
	t.Parallel()

	threeBlank := only("consecutiveBlankLines")
	threeBlank.MaxBlankLines = 2

	tests := []struct {
		name string
		opts options.Options
		text string
		want string
	}{
		{
			name: "trailing-space",
			opts: only("trailingSpace"),
			text: "let a = 1   \nlet b = 2 \t\n  \nlet c = 3 ",
			want: "let a = 1\nlet b = 2\n\nlet c = 3",
		},
		{
			name: "trailing-space-in-string",
			opts: only("trailingSpace"),
			text: "let s = \"\"\"\n    a  \n    \"\"\"\n",
			want: "let s = \"\"\"\n    a  \n    \"\"\"\n",
		},
		{
			name: "blank-lines",
			opts: only("consecutiveBlankLines"),
			text: "a\n\n  \n\nb\n",
			want: "a\n\nb\n",
		},
		{
			name: "blank-lines-option",
			opts: threeBlank,
			text: "a\n\n\n\n\nb\n",
			want: "a\n\n\nb\n",
		},
		{
			name: "blank-lines-directive",
			opts: only("consecutiveBlankLines"),
			text: "a\n\n\n// swiftfmt:options --max-blank-lines 0\nb\n\n\nc\n",
			want: "a\n\n// swiftfmt:options --max-blank-lines 0\nb\nc\n",
		},
		{
			name: "blank-lines-in-string",
			opts: only("consecutiveBlankLines"),
			text: "let s = \"\"\"\n    a\n\n\n    b\n    \"\"\"\n",
			want: "let s = \"\"\"\n    a\n\n\n    b\n    \"\"\"\n",
		},
		{
			name: "start-of-scope",
			opts: only("blankLinesAtStartOfScope"),
			text: "func f() {\n\n\n    g(\n\n        x)\n}\n",
			want: "func f() {\n    g(\n        x)\n}\n",
		},
		{
			name: "end-of-scope",
			opts: only("blankLinesAtEndOfScope"),
			text: "func f() {\n    g(x\n\n    )\n\n\n}\n",
			want: "func f() {\n    g(x\n    )\n}\n",
		},
		{
			name: "end-of-file",
			opts: only("linebreakAtEndOfFile"),
			text: "let a = 1",
			want: "let a = 1\n",
		},
		{
			name: "end-of-file-blank",
			opts: only("linebreakAtEndOfFile"),
			text: "let a = 1\n\n  \n",
			want: "let a = 1\n",
		},
		{
			name: "end-of-file-trailing-space",
			opts: only("linebreakAtEndOfFile"),
			text: "let a = 1  \n\n",
			want: "let a = 1  \n",
		},
		{
			name: "end-of-file-no-linebreak-trailing-space",
			opts: only("linebreakAtEndOfFile"),
			text: "let a = 1  ",
			want: "let a = 1  \n",
		},
		{
			name: "end-of-file-disabled",
			opts: only("linebreakAtEndOfFile"),
			text: "// swiftfmt:disable linebreakAtEndOfFile\nlet a = 1",
			want: "// swiftfmt:disable linebreakAtEndOfFile\nlet a = 1",
		},
		{
			name: "empty",
			opts: options.Default(),
			text: "",
			want: "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, format(t, test.text, test.opts).Output)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	text := "class Foo {\n" +
		"    private func b() {}\n" +
		"\n\n\n" +
		"    public init() {}\n" +
		"    var x = 1   \n" +
		"    public func a() {}\n" +
		"}"
	want := `class Foo {
    // MARK: Lifecycle

    public init() {}

    // MARK: Public

    public func a() {}

    // MARK: Internal

    var x = 1

    // MARK: Private

    private func b() {}
}
`
	res := format(t, text, options.Default())
	assert.Equal(t, want, res.Output)
	assert.True(t, res.Changed())
	assert.Subset(t, changedBy(res.Changes),
		[]string{"organizeDeclarations", "trailingSpace", "linebreakAtEndOfFile"})

	again := format(t, res.Output, options.Default())
	assert.Equal(t, want, again.Output)
	assert.False(t, again.Changed())
}

func TestFormatDisabledRule(t *testing.T) {
	t.Parallel()

	opts, err := options.LoadTOML(strings.NewReader(`disable = ["trailingSpace"]`))
	require.NoError(t, err)
	res := format(t, "let a = 1  \n", opts)
	assert.Equal(t, "let a = 1  \n", res.Output)
	assert.Empty(t, res.Changes)
}

func TestFormatDirectives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts options.Options
		text string
		want string
	}{
		{
			name: "disable-enable",
			opts: only("trailingSpace"),
			text: "// swiftfmt:disable trailingSpace\nlet a = 1  \n// swiftfmt:enable trailingSpace\nlet b = 2  \n",
			want: "// swiftfmt:disable trailingSpace\nlet a = 1  \n// swiftfmt:enable trailingSpace\nlet b = 2\n",
		},
		{
			name: "disable-organize",
			opts: options.Default(),
			text: "// swiftfmt:disable:next organizeDeclarations\nclass A {\n    private func b() {}\n    public func a() {}\n}\n",
			want: "// swiftfmt:disable:next organizeDeclarations\nclass A {\n    private func b() {}\n    public func a() {}\n}\n",
		},
		{
			name: "organize-options",
			opts: options.Default(),
			text: "// swiftfmt:options:next --mark-categories false\nclass A {\n    private func b() {}\n    public func a() {}\n}\n",
			want: "// swiftfmt:options:next --mark-categories false\nclass A {\n    public func a() {}\n    private func b() {}\n}\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, format(t, test.text, test.opts).Output)
		})
	}
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	opts := options.Default()
	opts.FilePath = "<input>"

	// A bad directive stops every rule that reaches it.
	var collector reporter.Collector
	handler := reporter.NewHandler(&collector)
	text := "// swiftfmt:disable trailingSpaces\nlet a = 1  \n"
	res, err := rules.Format(text, rules.Default(), opts, handler)
	require.NoError(t, err)
	assert.Equal(t, text, res.Output)
	assert.False(t, res.Changed())
	require.Len(t, collector.Errors, 1)
	assert.EqualError(t, collector.Errors[0],
		`<input>:1:4: unknown rule "trailingSpaces"; did you mean "trailingSpace"?`)
	assert.ErrorIs(t, handler.Error(), reporter.ErrFormatFailed)

	// Input that does not tokenize is left alone.
	collector = reporter.Collector{}
	handler = reporter.NewHandler(&collector)
	res, err = rules.Format("foo()  \n}", rules.Default(), opts, handler)
	require.NoError(t, err)
	assert.Equal(t, "foo()  \n}", res.Output)
	require.Len(t, collector.Errors, 1)
	assert.EqualError(t, collector.Errors[0], `<input>:2:1: unexpected "}"`)

	_, err = rules.Format("let a = \"abc", rules.Default(), opts, nil)
	assert.EqualError(t, err, "<input>:1:13: unexpected end of file")

	// A reporter that aborts stops formatting.
	abort := errors.New("abort")
	handler = reporter.NewHandler(reporter.NewReporter(
		func(reporter.ErrorWithPos) error { return abort }, nil,
	))
	_, err = rules.Format("}", rules.Default(), opts, handler)
	assert.ErrorIs(t, err, abort)
}

func TestFormatWarnings(t *testing.T) {
	t.Parallel()

	opts := options.Default()
	opts.FilePath = "<input>"
	var collector reporter.Collector
	text := "class C {\n    func b() {}; var a = 1\n}\n"
	res, err := rules.Format(text, rules.Default(), opts, reporter.NewHandler(&collector))
	require.NoError(t, err)
	assert.Equal(t, text, res.Output)
	assert.Empty(t, collector.Errors)
	require.Len(t, collector.Warnings, 1, "warned once across passes")
	assert.EqualError(t, collector.Warnings[0],
		"<input>:1:1: organizeDeclarations: class C not organized: members share a line")
}
