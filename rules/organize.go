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

package rules

import (
	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/decl"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/token"
)

// OrganizeDeclarations reorders the members of types by category and marks
// each group. Options in effect at a type's keyword, including those set by
// directives, govern how that type is organized.
var OrganizeDeclarations = New(
	"organizeDeclarations",
	"Organize the members of types by category.",
	func(buf *buffer.Buffer) {
		tree := decl.Parse(buf)
		defer tree.Release()

		types := make(map[int]decl.Declaration)
		for d := range tree.All() {
			if d.Kind() == decl.Type {
				types[d.KeywordIndex()] = d
			}
		}
		if len(types) == 0 {
			return
		}

		selected := make(map[decl.ID]options.Options)
		buf.ForEach(
			func(tok token.Token) bool { return token.IsTypeKeyword(tok.Text) },
			func(i int, _ token.Token) {
				if d, ok := types[i]; ok {
					selected[d.ID()] = buf.Options()
				}
			},
		)
		if buf.Failed() {
			return
		}

		for d := range tree.PostOrder() {
			opts, ok := selected[d.ID()]
			if !ok || !opts.Organizes(d.Keyword()) {
				continue
			}
			if err := decl.Check(d, opts); err != nil {
				buf.Warnf(d.KeywordIndex(), "%s %s not organized: %v", d.Keyword(), d.Name(), err)
				continue
			}
			decl.Organize(d, opts)
		}
	},
)
