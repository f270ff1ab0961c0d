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

package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/swiftfmt/token"
	"github.com/bufbuild/swiftfmt/tokenizer"
)

const sample = `// A sample file.
import Foundation

/// A point.
@frozen public struct Point<T: Numeric>: Equatable {
    public var x: T
    public var y: T

    /* lazily /* computed */ */
    var isOrigin: Bool { x == 0 && y == 0 }

    func scaled(by k: T) -> Point<T> {
        Point(x: x * k, y: y * k)
    }
}

#if DEBUG
let pattern = /a+b/
#endif

func describe(_ v: Int?) -> String {
    switch v {
    case .some(let n) where n > 0:
        return "positive \(n, radix: 16)"
    case nil:
        return #"raw "quoted""#
    default:
        let s = """
            many
              lines \(v!)
            """
        return v! < 0 ? s : "zero"
    }
}
`

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		sample,
		"let a = 1; let b = 2",
		"a\r\nb\rc\n",
		"let s = \"unterminated\nlet t = 1",
		"0b102 + 1",
		"}}}",
		"let x = (1",
		"\x00\x01 garbage ☃ 🙂",
		"#/\nextended\n/#",
		"if a<b && c>d { a<b }",
	}
	for _, input := range inputs {
		assert.Equal(t, input, join(tokenizer.Tokenize(input)), "%q", input)
	}
}

func TestPrefixes(t *testing.T) {
	t.Parallel()

	// Every prefix of a valid file is a plausible editor buffer; none of
	// them may lose text or panic.
	for i := range len(sample) {
		input := sample[:i]
		tokens := tokenizer.Tokenize(input)
		require.Equal(t, input, join(tokens), "%q", input)
		for j, tok := range tokens {
			if tok.IsError() {
				require.Equal(t, len(tokens)-1, j, "error token not last in %q", input)
			}
		}
	}
}

func TestScopesBalanced(t *testing.T) {
	t.Parallel()

	tokens := tokenizer.Tokenize(sample)
	var stack []token.Token
	for _, tok := range tokens {
		require.False(t, tok.IsError(), "unexpected %v", tok)
		switch tok.Kind {
		case token.StartOfScope:
			if token.CloserOf(tok.Text) != "" {
				stack = append(stack, tok)
			}
		case token.EndOfScope:
			if tok.Text == "case" || tok.Text == "default" {
				continue
			}
			require.NotEmpty(t, stack, "unmatched %v", tok)
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			assert.True(t, tok.Closes(top), "%v does not close %v", tok, top)
		}
	}
	assert.Empty(t, stack)
}

func TestStatements(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		kw("let"), sp(" "), id("a"), sp(" "), op("=", token.Infix), sp(" "), num("1"),
		token.New(token.Delimiter, ";"), sp(" "),
		kw("let"), sp(" "), id("b"), sp(" "), op("=", token.Infix), sp(" "), num("2"),
	}, tokenizer.Tokenize("let a = 1; let b = 2"))
}

func TestLinebreaks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		id("a"), token.NewLinebreak("\r\n", 1),
		id("b"), token.NewLinebreak("\r", 2),
		id("c"), token.NewLinebreak("\n", 3),
	}, tokenizer.Tokenize("a\r\nb\rc\n"))
}

func TestLinesIgnoredByEqual(t *testing.T) {
	t.Parallel()

	// A fragment tokenized on its own numbers its lines afresh, but its
	// tokens still compare equal to the same tokens in the whole file.
	whole := tokenizer.Tokenize("a\nb\nc\n")
	part := tokenizer.Tokenize("b\nc\n")
	assert.NotEqual(t, whole[2:], part)
	assert.Empty(t, cmp.Diff(whole[2:], part))
	assert.True(t, token.EqualSlices(whole[2:], part))
}

func TestGenerics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		kw("let"), sp(" "), id("x"), token.New(token.Delimiter, ":"), sp(" "),
		id("Array"), open("<"), id("Int"), end(">"),
		sp(" "), op("=", token.Infix), sp(" "), open("["), end("]"),
	}, tokenizer.Tokenize("let x: Array<Int> = []"))

	tokens := tokenizer.Tokenize("let x: Dictionary<String, Array<Int>> = [:]")
	assert.Equal(t, 2, count(tokens, open("<")))
	assert.Equal(t, 2, count(tokens, end(">")))

	tokens = tokenizer.Tokenize("func f<T: Equatable>(x: T) -> Foo<T?> {}")
	assert.Equal(t, 2, count(tokens, open("<")))
	assert.Equal(t, 2, count(tokens, end(">")))
	assert.Equal(t, 1, count(tokens, op("?", token.Postfix)))
}

func TestComparisons(t *testing.T) {
	t.Parallel()

	tests := []string{
		"if a<b && c>d {}",
		"a<b>c",
		"foo(a<b, c>d)",
		"a<b",
		"let z = x<y\nlet w = 1",
	}
	for _, input := range tests {
		tokens := tokenizer.Tokenize(input)
		assert.Zero(t, count(tokens, open("<")), "%q", input)
		assert.Zero(t, count(tokens, end(">")), "%q", input)
		assert.Equal(t, 1, count(tokens, op("<", token.Infix)), "%q", input)
	}
}

func TestRegex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		kw("let"), sp(" "), id("r"), sp(" "), op("=", token.Infix), sp(" "),
		open("/"), token.New(token.StringBody, "ab+c"), end("/"),
	}, tokenizer.Tokenize("let r = /ab+c/"))

	tokens := tokenizer.Tokenize("x = a / b / c")
	assert.Equal(t, 2, count(tokens, op("/", token.Infix)))
	assert.Zero(t, count(tokens, open("/")))

	assert.Equal(t, []token.Token{
		open("#/"), token.NewLinebreak("\n", 1),
		token.New(token.StringBody, "a"), token.NewLinebreak("\n", 2),
		end("/#"),
	}, tokenizer.Tokenize("#/\na\n/#"))
}

func TestStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		open(`"`), token.New(token.StringBody, `a\`),
		open("("), id("b"), end(")"),
		token.New(token.StringBody, "c"), end(`"`),
	}, tokenizer.Tokenize(`"a\(b)c"`))

	assert.Equal(t, []token.Token{
		open(`#"`), token.New(token.StringBody, `a"b\(c)`), end(`"#`),
	}, tokenizer.Tokenize(`#"a"b\(c)"#`))

	assert.Equal(t, []token.Token{
		open(`"`), token.New(token.StringBody, `\"`), end(`"`),
	}, tokenizer.Tokenize(`"\""`))

	assert.Equal(t, []token.Token{
		kw("let"), sp(" "), id("s"), sp(" "), op("=", token.Infix), sp(" "),
		open(`"""`), token.NewLinebreak("\n", 1),
		sp("    "), token.New(token.StringBody, "hello"), token.NewLinebreak("\n", 2),
		sp("    "), end(`"""`),
	}, tokenizer.Tokenize("let s = \"\"\"\n    hello\n    \"\"\""))
}

func TestNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		radix token.Radix
		bad   bool
	}{
		{text: "42", radix: token.Integer},
		{text: "1_000", radix: token.Integer},
		{text: "3.14", radix: token.Decimal},
		{text: "1e10", radix: token.Decimal},
		{text: "1.5e-3", radix: token.Decimal},
		{text: "0b1010", radix: token.Binary},
		{text: "0o17", radix: token.Octal},
		{text: "0xFF", radix: token.Hex},
		{text: "0x1.8p3", radix: token.Hex},
		{text: "0b102", bad: true},
		{text: "0o8", bad: true},
		{text: "0xG", bad: true},
		{text: "12abc", bad: true},
	}
	for _, tt := range tests {
		tokens := tokenizer.Tokenize(tt.text)
		if tt.bad {
			assert.Equal(t, []token.Token{token.New(token.Error, tt.text)}, tokens, tt.text)
			continue
		}
		assert.Equal(t, []token.Token{token.NewNumber(tt.text, tt.radix)}, tokens, tt.text)
	}

	assert.Equal(t, []token.Token{
		num("1"), op(".", token.Infix), id("description"),
	}, tokenizer.Tokenize("1.description"))
	assert.Equal(t, []token.Token{
		num("0"), op("..<", token.Infix), num("5"),
	}, tokenizer.Tokenize("0..<5"))
	assert.Equal(t, []token.Token{
		id("t"), op(".", token.Infix), num("0"), op(".", token.Infix), num("1"),
	}, tokenizer.Tokenize("t.0.1"))
}

func TestFixity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  token.Token
	}{
		{input: "a + b", want: op("+", token.Infix)},
		{input: "a+b", want: op("+", token.Infix)},
		{input: "-x", want: op("-", token.Prefix)},
		{input: "x!", want: op("!", token.Postfix)},
		{input: "x...", want: op("...", token.Postfix)},
		{input: "a ?? b", want: op("??", token.Infix)},
		{input: "foo(+)", want: op("+", token.None)},
		{input: "prefix operator +++", want: op("+++", token.None)},
		{input: "[.a]", want: op(".", token.Prefix)},
		{input: "x?.y", want: op(".", token.Infix)},
		{input: "try? f()", want: op("?", token.Postfix)},
		{input: `\.count`, want: op(`\`, token.Prefix)},
	}
	for _, tt := range tests {
		assert.Equal(t, 1, count(tokenizer.Tokenize(tt.input), tt.want), "%q", tt.input)
	}
}

func TestTernary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		id("a"), sp(" "), op("?", token.Infix), sp(" "),
		id("b"), sp(" "), op(":", token.Infix), sp(" "), id("c"),
	}, tokenizer.Tokenize("a ? b : c"))
}

func TestSwitch(t *testing.T) {
	t.Parallel()

	tokens := tokenizer.Tokenize("switch x {\ncase .a:\n    break\ndefault:\n    break\n}")
	var scopes []token.Token
	for _, tok := range tokens {
		if tok.Kind == token.StartOfScope || tok.Kind == token.EndOfScope {
			scopes = append(scopes, tok)
		}
	}
	assert.Equal(t, []token.Token{
		open("{"), end("case"), open(":"), end("default"), open(":"), end("}"),
	}, scopes)

	// Outside of a switch, case is an ordinary keyword.
	tokens = tokenizer.Tokenize("enum E {\n    case a\n}")
	assert.Equal(t, 1, count(tokens, kw("case")))
	tokens = tokenizer.Tokenize("switch x {\ncase .a:\n    if case .b = y {}\n}")
	assert.Equal(t, 1, count(tokens, end("case")))
	assert.Equal(t, 1, count(tokens, kw("case")))
}

func TestComments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{
		open("//"), sp(" "), token.New(token.CommentBody, "hello"), sp(" "),
		token.NewLinebreak("\n", 1), id("x"),
	}, tokenizer.Tokenize("// hello \nx"))

	assert.Equal(t, []token.Token{
		open("/*"), sp(" "), token.New(token.CommentBody, "a"), sp(" "),
		open("/*"), sp(" "), token.New(token.CommentBody, "b"), sp(" "), end("*/"),
		sp(" "), token.New(token.CommentBody, "c"), sp(" "), end("*/"),
	}, tokenizer.Tokenize("/* a /* b */ c */"))

	tokens := tokenizer.Tokenize("a +// b")
	assert.Equal(t, 1, count(tokens, open("//")))
	assert.Equal(t, 1, count(tokens, op("+", token.Infix)))
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token.Token{id("x"), op(".", token.Infix), id("default")},
		tokenizer.Tokenize("x.default"))
	assert.Equal(t, []token.Token{id("Foo"), op(".", token.Infix), kw("init")},
		tokenizer.Tokenize("Foo.init"))
	assert.Equal(t, []token.Token{id("`class`")}, tokenizer.Tokenize("`class`"))
	assert.Equal(t, []token.Token{id("$0")}, tokenizer.Tokenize("$0"))

	tokens := tokenizer.Tokenize("@objc func f() { #available }")
	assert.Equal(t, 1, count(tokens, kw("@objc")))
	assert.Equal(t, 1, count(tokens, kw("#available")))

	tokens = tokenizer.Tokenize("#if DEBUG\nx\n#else\ny\n#endif")
	assert.Equal(t, 1, count(tokens, open("#if")))
	assert.Equal(t, 1, count(tokens, kw("#else")))
	assert.Equal(t, 1, count(tokens, end("#endif")))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "let x = (1", want: ""},
		{input: "foo()\n}", want: "}"},
		{input: "#if DEBUG\nfoo()", want: ""},
		{input: "let a = \"abc\nlet b", want: "abc\nlet b"},
		{input: "let a = \"abc", want: ""},
		{input: "/* open", want: ""},
		{input: "#endif", want: "#endif"},
		{input: "x = (]", want: "]"},
	}
	for _, tt := range tests {
		tokens := tokenizer.Tokenize(tt.input)
		require.NotEmpty(t, tokens, "%q", tt.input)
		assert.Equal(t, token.New(token.Error, tt.want), tokens[len(tokens)-1], "%q", tt.input)
		assert.Equal(t, tt.input, join(tokens))
	}
}

func join(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func count(tokens []token.Token, want token.Token) int {
	var n int
	for _, tok := range tokens {
		if tok.Kind == want.Kind && tok.Text == want.Text && tok.Fixity == want.Fixity {
			n++
		}
	}
	return n
}

func kw(text string) token.Token   { return token.New(token.Keyword, text) }
func id(text string) token.Token   { return token.New(token.Identifier, text) }
func sp(text string) token.Token   { return token.New(token.Space, text) }
func num(text string) token.Token  { return token.NewNumber(text, token.Integer) }
func open(text string) token.Token { return token.New(token.StartOfScope, text) }
func end(text string) token.Token  { return token.New(token.EndOfScope, text) }

func op(text string, fixity token.Fixity) token.Token {
	return token.NewOperator(text, fixity)
}
