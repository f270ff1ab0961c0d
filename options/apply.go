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

package options

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// setters maps each option's argument name to a function that parses and
// stores its value.
var setters = map[string]func(o *Options, name, value string) error{
	"linebreak": func(o *Options, _, value string) error {
		return o.Linebreak.UnmarshalText([]byte(value))
	},
	"organize-types": func(o *Options, _, value string) error {
		o.OrganizeTypes = parseList(value)
		return nil
	},
	"organization-mode": func(o *Options, _, value string) error {
		return o.OrganizeMode.UnmarshalText([]byte(value))
	},
	"organize-threshold": func(o *Options, name, value string) (err error) {
		o.OrganizeThreshold, err = parseInt(name, value)
		return err
	},
	"mark-categories": func(o *Options, name, value string) (err error) {
		o.MarkCategories, err = parseBool(name, value)
		return err
	},
	"category-mark": func(o *Options, _, value string) error {
		o.MarkTemplate = value
		return nil
	},
	"mark-similarity": func(o *Options, name, value string) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("%w: --%s %q", ErrInvalidValue, name, value)
		}
		o.MarkSimilarity = f
		return nil
	},
	"alphabetize": func(o *Options, name, value string) (err error) {
		o.Alphabetize, err = parseBool(name, value)
		return err
	},
	"max-blank-lines": func(o *Options, name, value string) (err error) {
		o.MaxBlankLines, err = parseInt(name, value)
		return err
	},
	"directive-marker": func(o *Options, _, value string) error {
		o.DirectiveMarker = value
		return nil
	},
	"rules": func(o *Options, _, value string) error {
		o.Rules = parseList(value)
		return nil
	},
	"disable": func(o *Options, _, value string) error {
		o.Disable = parseList(value)
		return nil
	},
	"exclude": func(o *Options, _, value string) error {
		o.Exclude = parseList(value)
		return nil
	},
}

// Names returns the argument names of all options, sorted.
func Names() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply returns a copy of o with the options in args applied. Arguments are
// "--name value" pairs; a value may also be attached as "--name=value".
//
// On error, the returned error wraps [ErrUnknownOption] or
// [ErrInvalidValue], and o is returned unchanged.
func (o Options) Apply(args []string) (Options, error) {
	out := o.clone()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, ok := strings.CutPrefix(arg, "--")
		if !ok || name == "" {
			return o, fmt.Errorf("%w: expected --name, got %q", ErrInvalidValue, arg)
		}

		name, value, attached := strings.Cut(name, "=")
		set, ok := setters[name]
		if !ok {
			return o, fmt.Errorf("%w: --%s", ErrUnknownOption, name)
		}
		if !attached {
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				return o, fmt.Errorf("%w: --%s requires a value", ErrInvalidValue, name)
			}
			i++
			value = args[i]
		}
		if err := set(&out, name, value); err != nil {
			return o, err
		}
	}
	return out, nil
}

// clone returns a copy of o that shares no slices with it.
func (o Options) clone() Options {
	o.OrganizeTypes = slices.Clone(o.OrganizeTypes)
	o.Rules = slices.Clone(o.Rules)
	o.Disable = slices.Clone(o.Disable)
	o.Exclude = slices.Clone(o.Exclude)
	return o
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: --%s %q", ErrInvalidValue, name, value)
	}
	return n, nil
}
