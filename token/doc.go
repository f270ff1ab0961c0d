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

// Package token defines the lexical units produced by the tokenizer and
// manipulated by the formatting engine.
//
// # Tokens
//
// A [Token] is a small value: a [Kind], the literal text it covers, and a
// few kind-specific attributes (the original line of a linebreak, the radix
// of a number, the fixity of an operator). Concatenating the text of every
// token in a stream reproduces the source exactly; the formatter relies on
// this to serialize its output.
//
// # Scopes
//
// Nested regions are delimited by [StartOfScope] and [EndOfScope] tokens.
// Most scopes are closed by a token with a fixed text (see [Token.Closes]),
// but a "//" comment is closed by the following linebreak, and the ":" that
// begins a switch case body is closed by the next "case", "default" or "}".
package token
