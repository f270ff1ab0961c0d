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

// Package options contains the formatting options shared by the tokenizer
// consumers, the rules and the command-line driver.
//
// An [Options] is a plain value: rules receive a copy, and directives such
// as "swiftfmt:options --mark-categories false" produce a modified copy for
// the span they govern without affecting anything else.
package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownOption is returned, wrapped, when a configuration file or
	// argument list names an option that does not exist.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidValue is returned, wrapped, when an option's value cannot be
	// parsed.
	ErrInvalidValue = errors.New("invalid option value")
)

// Options is the full set of formatting options.
type Options struct {
	// Linebreak is the linebreak sequence used for inserted linebreaks.
	Linebreak Linebreak `yaml:"linebreak" toml:"linebreak"`

	// OrganizeTypes lists the type keywords whose bodies are reorganized.
	OrganizeTypes []string `yaml:"organize-types" toml:"organize-types"`
	// OrganizeMode selects how members are grouped.
	OrganizeMode Mode `yaml:"organization-mode" toml:"organization-mode"`
	// OrganizeThreshold is the minimum number of body lines a type must
	// have before it is reorganized; zero organizes every type.
	OrganizeThreshold int `yaml:"organize-threshold" toml:"organize-threshold"`
	// MarkCategories controls insertion of category marker comments.
	MarkCategories bool `yaml:"mark-categories" toml:"mark-categories"`
	// MarkTemplate is the text of a marker comment; %c is replaced with the
	// category label.
	MarkTemplate string `yaml:"category-mark" toml:"category-mark"`
	// MarkSimilarity is the largest edit distance, as a fraction of a
	// marker's length, at which an existing comment is taken to be a stale
	// marker and replaced.
	MarkSimilarity float64 `yaml:"mark-similarity" toml:"mark-similarity"`
	// Alphabetize sorts members of the same category by name.
	Alphabetize bool `yaml:"alphabetize" toml:"alphabetize"`

	// MaxBlankLines is the most consecutive blank lines kept anywhere.
	MaxBlankLines int `yaml:"max-blank-lines" toml:"max-blank-lines"`

	// DirectiveMarker is the word that introduces directive comments.
	DirectiveMarker string `yaml:"directive-marker" toml:"directive-marker"`

	// Rules restricts formatting to the named rules; empty means all.
	Rules []string `yaml:"rules" toml:"rules"`
	// Disable lists rules that never run.
	Disable []string `yaml:"disable" toml:"disable"`
	// Exclude lists doublestar glob patterns of paths not to format.
	Exclude []string `yaml:"exclude" toml:"exclude"`

	// FilePath is the path of the file being formatted, if any. It is set
	// per file and never read from configuration.
	FilePath string `yaml:"-" toml:"-"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		Linebreak:       "\n",
		OrganizeTypes:   []string{"actor", "class", "enum", "struct"},
		OrganizeMode:    Visibility,
		MarkCategories:  true,
		MarkTemplate:    "MARK: %c",
		MarkSimilarity:  0.2,
		MaxBlankLines:   1,
		DirectiveMarker: "swiftfmt",
	}
}

// Organizes reports whether bodies of types introduced by keyword are
// reorganized.
func (o Options) Organizes(keyword string) bool {
	for _, k := range o.OrganizeTypes {
		if k == keyword {
			return true
		}
	}
	return false
}

// Mark returns the marker comment text for a category label.
func (o Options) Mark(label string) string {
	return strings.ReplaceAll(o.MarkTemplate, "%c", label)
}

// RuleEnabled reports whether the named rule should run.
func (o Options) RuleEnabled(name string) bool {
	for _, d := range o.Disable {
		if d == name {
			return false
		}
	}
	if len(o.Rules) == 0 {
		return true
	}
	for _, r := range o.Rules {
		if r == name {
			return true
		}
	}
	return false
}

// Mode is the member grouping used when reorganizing a type body.
type Mode int

const (
	// Visibility groups members by access level.
	Visibility Mode = iota
	// Type groups members by the kind of declaration.
	Type
)

func (m Mode) String() string {
	switch m {
	case Visibility:
		return "visibility"
	case Type:
		return "type"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "visibility":
		*m = Visibility
	case "type":
		*m = Type
	default:
		return fmt.Errorf("%w: organization mode %q", ErrInvalidValue, text)
	}
	return nil
}

// Linebreak is a linebreak sequence. In configuration it is spelled
// "lf", "crlf" or "cr".
type Linebreak string

func (l Linebreak) MarshalText() ([]byte, error) {
	switch l {
	case "\r\n":
		return []byte("crlf"), nil
	case "\r":
		return []byte("cr"), nil
	default:
		return []byte("lf"), nil
	}
}

func (l *Linebreak) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "lf":
		*l = "\n"
	case "crlf":
		*l = "\r\n"
	case "cr":
		*l = "\r"
	default:
		return fmt.Errorf("%w: linebreak %q", ErrInvalidValue, text)
	}
	return nil
}

func parseBool(name, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: --%s %q", ErrInvalidValue, name, value)
	}
	return b, nil
}

func parseList(value string) []string {
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
