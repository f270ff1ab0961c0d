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

package buffer

import (
	"cmp"
	"fmt"
)

// Change is an entry in a buffer's change log: a line that a rule changed.
type Change struct {
	Line int
	Rule string
	Path string
}

func (c Change) String() string {
	if c.Path == "" {
		return fmt.Sprintf("%d: %s", c.Line, c.Rule)
	}
	return fmt.Sprintf("%s:%d: %s", c.Path, c.Line, c.Rule)
}

func (c Change) less(d Change) bool {
	return cmp.Or(
		cmp.Compare(c.Line, d.Line),
		cmp.Compare(c.Rule, d.Rule),
		cmp.Compare(c.Path, d.Path),
	) < 0
}

// Changes returns the change log, sorted by line and then rule, without
// duplicates. It returns nil unless the buffer was created with
// [WithTrackChanges].
func (b *Buffer) Changes() []Change {
	if b.changes == nil {
		return nil
	}
	out := make([]Change, 0, b.changes.Len())
	b.changes.Scan(func(c Change) bool {
		out = append(out, c)
		return true
	})
	return out
}

func (b *Buffer) recordChange(at int) {
	if b.changes == nil {
		return
	}
	b.changes.Set(Change{
		Line: b.Line(at),
		Rule: b.rule,
		Path: b.opts.FilePath,
	})
}
