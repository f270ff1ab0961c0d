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
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bufbuild/swiftfmt/buffer"
	"github.com/bufbuild/swiftfmt/options"
	"github.com/bufbuild/swiftfmt/token"
)

// OrganizeAll organizes every type in t whose keyword opts selects, nested
// types first. It returns the number of types that changed.
func OrganizeAll(t *Tree, opts options.Options) int {
	var changed int
	for d := range t.PostOrder() {
		if d.Kind() == Type && opts.Organizes(d.Keyword()) && Organize(d, opts) {
			changed++
		}
	}
	return changed
}

// Organize reorders the members of the type d by category, and inserts a
// marker comment before the first member of each marker group. It does not
// organize nested types. It returns whether the buffer changed.
//
// Members are sorted stably by category, and by name within a category if
// opts.Alphabetize is set or a sort directive precedes d. A struct without
// an initializer gets a memberwise initializer whose parameters follow its
// stored properties, and enum cases may be numbered in order, so an order
// that moves either relative to the others is retried with only the marker
// groups sorted, and d is left alone if that moves them too.
//
// Stale marker comments are removed, and blank lines are normalized: none
// after the opening brace or before the closing one, at most one between
// members, and one on either side of a marker.
func Organize(d Declaration, opts options.Options) bool {
	if d.Kind() != Type {
		return false
	}
	kids := d.Children()
	if len(kids) == 0 {
		return false
	}
	buf := d.tree.buf
	if opts.OrganizeThreshold > 0 {
		open, closer := d.scope()
		if open < 0 || closer < 0 || buf.Line(closer)-buf.Line(open)-1 < opts.OrganizeThreshold {
			return false
		}
	}

	o := organizer{buf: buf, opts: opts, labels: markers(opts)}
	members, ok := o.members(kids)
	if !ok {
		return false
	}

	mode := opts.OrganizeMode
	alphabetize := opts.Alphabetize || d.sortDirective()
	order := sorted(members, func(a, b *member) int {
		n := a.category.compare(b.category, mode)
		if n == 0 && alphabetize {
			n = cmp.Or(
				strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)),
				strings.Compare(a.name, b.name),
			)
		}
		return cmp.Or(n, a.index-b.index)
	})
	if !preserves(d, members, order) {
		order = sorted(members, func(a, b *member) int {
			return cmp.Or(
				a.category.Group(mode).rank-b.category.Group(mode).rank,
				a.index-b.index,
			)
		})
		if !preserves(d, members, order) {
			return false
		}
	}

	region := o.region(d, members[0])
	target := o.target(order)
	if token.EqualSlices(buf.Slice(region), target) {
		return false
	}

	// Rebuild the body in place, so that the ranges of the members and of
	// everything nested in them move with their tokens.
	if region.Start < kids[0].Range().Start {
		buf.RemoveRange(buffer.Range{Start: region.Start, End: kids[0].Range().Start - 1})
	}
	for i := len(members) - 1; i >= 0; i-- {
		m := &members[i]
		r := m.decl.Range()
		if m.trailing > 0 {
			buf.RemoveRange(buffer.Range{Start: r.End - m.trailing + 1, End: r.End})
		}
		if m.leading > 0 {
			buf.RemoveRange(buffer.Range{Start: r.Start, End: r.Start + m.leading - 1})
		}
	}
	parts := make([]buffer.Range, len(order))
	ids := make([]ID, len(order))
	for i, m := range order {
		parts[i] = m.decl.Range()
		ids[i] = m.decl.id
	}
	buf.Reorder(parts)
	d.node().children = ids

	for i := len(order) - 1; i >= 0; i-- {
		order[i].decl.Prepend(o.separator(order, i)...)
	}
	return true
}

// ErrSharedLine is returned by [Check] for a type whose members cannot be
// told apart line by line.
var ErrSharedLine = errors.New("members share a line")

// Check returns an error if d is a type with members that [Organize] will
// not move.
func Check(d Declaration, opts options.Options) error {
	kids := d.Children()
	if d.Kind() != Type || len(kids) < 2 {
		return nil
	}
	o := organizer{buf: d.tree.buf, opts: opts, labels: markers(opts)}
	if _, ok := o.members(kids); !ok {
		return ErrSharedLine
	}
	return nil
}

// member is a child of the type being organized.
type member struct {
	decl     Declaration
	index    int
	category Category
	name     string
	indent   string

	// Marker and blank lines at either end of the member's range are not
	// part of the member; these count their tokens.
	leading, trailing int
	// Blank lines that followed the member, at most one.
	gap int
}

type organizer struct {
	buf    *buffer.Buffer
	opts   options.Options
	labels []string
}

// members classifies the children of a type. It returns false if any two
// of them share a line.
func (o *organizer) members(kids []Declaration) ([]member, bool) {
	members := make([]member, len(kids))
	for i, kid := range kids {
		r := kid.Range()
		if r.Empty() || !o.buf.At(r.End).IsLinebreak() {
			return nil, false
		}
		m := member{
			decl:     kid,
			index:    i,
			category: kid.Category(),
			name:     kid.Name(),
		}

		lines := o.lines(r)
		first, last := 0, len(lines)-1
		for first <= last && o.skippable(lines[first]) {
			m.leading += lines[first].Len()
			first++
		}
		for last >= first && o.skippable(lines[last]) {
			if o.blank(lines[last]) {
				m.gap = 1
			}
			m.trailing += lines[last].Len()
			last--
		}
		if first > last {
			return nil, false
		}
		m.indent = o.buf.Indent(lines[first].Start)
		members[i] = m
	}

	// The last member had nothing to be separated from; give it the gap
	// the others use if it moves.
	last := &members[len(members)-1]
	last.gap = 0
	for _, m := range members[:len(members)-1] {
		last.gap = max(last.gap, m.gap)
	}
	return members, true
}

// region returns the part of the body that organizing rewrites: the
// members, and the lines above the first one if they hold only blank lines
// and markers.
func (o *organizer) region(d Declaration, first member) buffer.Range {
	body := d.Body()
	r := buffer.Range{Start: first.decl.Range().Start, End: body.End}
	open, _ := d.scope()
	lo := o.buf.EndOfLine(open) + 1
	if lo >= r.Start {
		return r
	}
	for _, line := range o.lines(buffer.Range{Start: lo, End: r.Start - 1}) {
		if !o.skippable(line) {
			return r
		}
	}
	r.Start = lo
	return r
}

// target returns the tokens of the organized region.
func (o *organizer) target(order []*member) []token.Token {
	var out []token.Token
	for i, m := range order {
		out = append(out, o.separator(order, i)...)
		r := m.decl.Range()
		out = append(out, o.buf.Slice(buffer.Range{
			Start: r.Start + m.leading,
			End:   r.End - m.trailing,
		})...)
	}
	return out
}

// separator returns the lines that go above the i-th member of the
// organized body.
func (o *organizer) separator(order []*member, i int) []token.Token {
	m := order[i]
	mode := o.opts.OrganizeMode
	group := m.category.Group(mode)
	blank := o.buf.LinebreakToken(m.decl.Range().Start)

	if o.opts.MarkCategories && o.opts.MarkTemplate != "" && group.Label != "" &&
		(i == 0 || order[i-1].category.Group(mode) != group) {
		var out []token.Token
		if i > 0 {
			out = append(out, blank)
		}
		if m.indent != "" {
			out = append(out, token.New(token.Space, m.indent))
		}
		return append(out,
			token.New(token.StartOfScope, "//"),
			token.New(token.Space, " "),
			token.New(token.CommentBody, o.opts.Mark(group.Label)),
			blank,
			blank,
		)
	}

	if i == 0 || order[i-1].gap == 0 {
		return nil
	}
	return []token.Token{blank}
}

// lines splits r into lines, each ending with its linebreak.
func (o *organizer) lines(r buffer.Range) []buffer.Range {
	var lines []buffer.Range
	start := r.Start
	for i := r.Start; i <= r.End; i++ {
		if o.buf.At(i).IsLinebreak() {
			lines = append(lines, buffer.Range{Start: start, End: i})
			start = i + 1
		}
	}
	if start <= r.End {
		lines = append(lines, buffer.Range{Start: start, End: r.End})
	}
	return lines
}

// skippable returns whether a line is blank or a marker.
func (o *organizer) skippable(line buffer.Range) bool {
	return o.blank(line) || o.marker(line)
}

func (o *organizer) blank(line buffer.Range) bool {
	for i := line.Start; i <= line.End; i++ {
		if !o.buf.At(i).IsSpaceOrLinebreak() {
			return false
		}
	}
	return true
}

// marker returns whether a line is a // comment close enough to a marker
// comment to be taken for one.
func (o *organizer) marker(line buffer.Range) bool {
	var body string
	slashes := false
	for i := line.Start; i <= line.End; i++ {
		switch tok := o.buf.At(i); {
		case tok.IsSpaceOrLinebreak():
		case tok.Is(token.StartOfScope, "//") && !slashes:
			slashes = true
		case tok.Kind == token.CommentBody && slashes && body == "":
			body = tok.Text
		default:
			return false
		}
	}
	return body != "" && isMarker(body, o.labels, o.opts.MarkSimilarity)
}

// markers returns the text of every marker comment opts can produce.
func markers(opts options.Options) []string {
	if opts.MarkTemplate == "" {
		return nil
	}
	labels := groupLabels()
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = opts.Mark(label)
	}
	return out
}

// isMarker returns whether comment is within the given edit distance,
// as a fraction of the marker's length, of one of markers.
func isMarker(comment string, markers []string, similarity float64) bool {
	comment = strings.ToLower(strings.TrimSpace(comment))
	for _, m := range markers {
		dist := fuzzy.LevenshteinDistance(comment, strings.ToLower(m))
		if float64(dist) <= similarity*float64(len(m)) {
			return true
		}
	}
	return false
}

// sorted returns pointers to members in the order given by compare.
func sorted(members []member, compare func(a, b *member) int) []*member {
	out := make([]*member, len(members))
	for i := range members {
		out[i] = &members[i]
	}
	slices.SortStableFunc(out, compare)
	return out
}

// preserves returns whether order keeps the members whose relative order
// is significant to the compiler in their original order.
func preserves(d Declaration, members []member, order []*member) bool {
	var significant func(Declaration) bool
	switch d.Keyword() {
	case "struct":
		for _, m := range members {
			if hasInit(m.decl) {
				return true
			}
		}
		significant = func(d Declaration) bool { return d.Stored() }
	case "enum":
		significant = func(d Declaration) bool { return d.Keyword() == "case" }
	default:
		return true
	}

	last := -1
	for _, m := range order {
		if !affects(m.decl, significant) {
			continue
		}
		if m.index < last {
			return false
		}
		last = m.index
	}
	return true
}

// affects returns whether d, or for an #if block any of its members, is
// significant.
func affects(d Declaration, significant func(Declaration) bool) bool {
	if d.Kind() == Conditional {
		return slices.ContainsFunc(d.Children(), func(d Declaration) bool {
			return affects(d, significant)
		})
	}
	return significant(d)
}

func hasInit(d Declaration) bool {
	if d.Kind() == Conditional {
		return slices.ContainsFunc(d.Children(), hasInit)
	}
	return d.Keyword() == "init"
}

// sortDirective returns whether a sort directive comment precedes d's
// keyword.
func (d Declaration) sortDirective() bool {
	kw := d.KeywordIndex()
	if kw < 0 {
		return false
	}
	buf := d.tree.buf
	for i := d.Range().Start; i < kw; i++ {
		tok := buf.At(i)
		if tok.Kind != token.CommentBody {
			continue
		}
		if dir, ok := buf.ParseDirective(tok.Text); ok && dir.Name == buffer.DirectiveSort {
			return true
		}
	}
	return false
}
