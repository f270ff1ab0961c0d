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

import "fmt"

// Range is a closed range of token indices. A range with End == Start-1 is
// empty; it still has a position, which matters for insertions.
type Range struct {
	Start, End int
}

// Len returns the number of tokens in r.
func (r Range) Len() int {
	return max(0, r.End-r.Start+1)
}

// Empty returns whether r contains no tokens.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Contains returns whether index i is within r.
func (r Range) Contains(i int) bool {
	return r.Start <= i && i <= r.End
}

// ContainsRange returns whether every index of s is within r.
func (r Range) ContainsRange(s Range) bool {
	return r.Start <= s.Start && s.End <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// RangeID is a handle to a range tracked by a [Buffer]. The zero value is
// never a valid handle.
type RangeID int32

type tracked struct {
	Range
	live, free bool
}

// splice describes an edit that replaces the tokens in removed with n new
// tokens.
type splice struct {
	removed Range
	n       int
}

func (s splice) delta() int {
	return s.n - s.removed.Len()
}

// mapStart returns where the first token of a range that started at i
// lives after the edit.
func (s splice) mapStart(i int) int {
	switch {
	case i > s.removed.End:
		return i + s.delta()
	case i >= s.removed.Start:
		return s.removed.Start
	default:
		return i
	}
}

// mapEnd returns where the last token of a range that ended at i lives
// after the edit.
func (s splice) mapEnd(i int) int {
	switch {
	case i > s.removed.End:
		return i + s.delta()
	case i >= s.removed.Start:
		return s.removed.Start + s.n - 1
	default:
		return i
	}
}

// apply returns r adjusted for the edit, and false if the edit removed
// every token of r.
func (s splice) apply(r Range) (Range, bool) {
	out := Range{s.mapStart(r.Start), s.mapEnd(r.End)}
	return out, !out.Empty()
}

// Track registers r with the buffer, so that it is adjusted by every
// subsequent edit. The range is invalidated when an edit removes all of its
// tokens.
func (b *Buffer) Track(r Range) RangeID {
	b.assert(r.Start >= 0 && r.End < len(b.tokens) && !r.Empty(), "tracking invalid range %v", r)

	if n := len(b.free); n > 0 {
		id := b.free[n-1]
		b.free = b.free[:n-1]
		b.ranges[id-1] = tracked{Range: r, live: true}
		return id
	}
	b.ranges = append(b.ranges, tracked{Range: r, live: true})
	return RangeID(len(b.ranges))
}

// Tracked returns the current value of a tracked range, and false if it
// has been invalidated or untracked.
func (b *Buffer) Tracked(id RangeID) (Range, bool) {
	if id <= 0 || int(id) > len(b.ranges) {
		return Range{}, false
	}
	t := b.ranges[id-1]
	return t.Range, t.live
}

// Retrack replaces the value of a tracked range, reviving it if it had been
// invalidated.
func (b *Buffer) Retrack(id RangeID, r Range) {
	if id <= 0 || int(id) > len(b.ranges) || b.ranges[id-1].free {
		panic(fmt.Sprintf("buffer: retrack of unknown range %d", id))
	}
	b.ranges[id-1] = tracked{Range: r, live: !r.Empty()}
}

// Untrack stops tracking a range. Its handle may be reused.
func (b *Buffer) Untrack(id RangeID) {
	if id <= 0 || int(id) > len(b.ranges) || b.ranges[id-1].free {
		return
	}
	b.ranges[id-1] = tracked{free: true}
	b.free = append(b.free, id)
}

// adjust updates the cursor, the active range and every tracked range for
// an edit.
func (b *Buffer) adjust(s splice) {
	if b.enumerating() {
		b.cursor = s.mapEnd(b.cursor)
	}
	if b.active != nil {
		// The active range may legitimately become empty; it keeps its
		// position.
		b.active.Start = s.mapStart(b.active.Start)
		b.active.End = s.mapEnd(b.active.End)
	}
	for i := range b.ranges {
		t := &b.ranges[i]
		if t.live {
			t.Range, t.live = s.apply(t.Range)
		}
	}
}
