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

package token

// keywords are the reserved words the tokenizer emits as [Keyword] tokens.
// Contextual words such as "open", "final" or "mutating" are identifiers.
var keywords = map[string]struct{}{
	"Any": {}, "Self": {}, "as": {}, "associatedtype": {}, "await": {},
	"break": {}, "case": {}, "catch": {}, "class": {}, "continue": {},
	"default": {}, "defer": {}, "deinit": {}, "do": {}, "else": {}, "enum": {},
	"extension": {}, "fallthrough": {}, "false": {}, "fileprivate": {},
	"for": {}, "func": {}, "guard": {}, "if": {}, "import": {}, "in": {},
	"init": {}, "inout": {}, "internal": {}, "is": {}, "let": {}, "nil": {},
	"operator": {}, "precedencegroup": {}, "private": {}, "protocol": {},
	"public": {}, "repeat": {}, "rethrows": {}, "return": {}, "self": {},
	"static": {}, "struct": {}, "subscript": {}, "super": {}, "switch": {},
	"throw": {}, "throws": {}, "true": {}, "try": {}, "typealias": {},
	"var": {}, "where": {}, "while": {},
}

var modifiers = map[string]struct{}{
	"open": {}, "public": {}, "package": {}, "internal": {}, "fileprivate": {},
	"private": {}, "static": {}, "class": {}, "final": {}, "override": {},
	"mutating": {}, "nonmutating": {}, "lazy": {}, "weak": {}, "unowned": {},
	"convenience": {}, "required": {}, "dynamic": {}, "optional": {},
	"indirect": {}, "nonisolated": {}, "prefix": {}, "postfix": {},
	"infix": {}, "distributed": {}, "consuming": {}, "borrowing": {},
}

var declarationKeywords = map[string]struct{}{
	"let": {}, "var": {}, "func": {}, "init": {}, "deinit": {},
	"subscript": {}, "typealias": {}, "associatedtype": {}, "case": {},
	"import": {}, "operator": {}, "precedencegroup": {}, "macro": {},
	"class": {}, "struct": {}, "enum": {}, "protocol": {}, "extension": {},
	"actor": {},
}

var typeKeywords = map[string]struct{}{
	"class": {}, "struct": {}, "enum": {}, "protocol": {}, "extension": {},
	"actor": {},
}

// IsKeyword returns whether word is a reserved word.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// IsModifier returns whether word is a declaration modifier.
func IsModifier(word string) bool {
	_, ok := modifiers[word]
	return ok
}

// IsDeclarationKeyword returns whether word can introduce a declaration.
//
// Some of these words are ambiguous: "class" is also a modifier, "case" also
// appears in switch statements, and "actor" and "macro" are ordinary
// identifiers outside of a declaration position. Callers resolve these from
// context.
func IsDeclarationKeyword(word string) bool {
	_, ok := declarationKeywords[word]
	return ok
}

// IsTypeKeyword returns whether word introduces a declaration with a body of
// member declarations.
func IsTypeKeyword(word string) bool {
	_, ok := typeKeywords[word]
	return ok
}

func isValueKeyword(word string) bool {
	switch word {
	case "self", "Self", "super", "true", "false", "nil", "Any", "init":
		return true
	}
	return false
}
