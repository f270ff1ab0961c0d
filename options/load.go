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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file. The format is chosen by extension:
// .yaml and .yml files are YAML, .toml files are TOML. Options the file does
// not mention keep their default values.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	var o Options
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		o, err = LoadYAML(f)
	case ".toml":
		o, err = LoadTOML(f)
	default:
		return Options{}, fmt.Errorf("%s: unsupported configuration format %q", path, ext)
	}
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// LoadYAML reads YAML configuration from r.
func LoadYAML(r io.Reader) (Options, error) {
	o := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return Options{}, fmt.Errorf("%w: %v", ErrUnknownOption, err)
		}
		return Options{}, err
	}
	return o, o.Validate()
}

// LoadTOML reads TOML configuration from r.
func LoadTOML(r io.Reader) (Options, error) {
	o := Default()
	md, err := toml.NewDecoder(r).Decode(&o)
	if err != nil {
		return Options{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, fmt.Errorf("%w: %s", ErrUnknownOption, undecoded[0])
	}
	return o, o.Validate()
}

// Validate checks that the numeric options are in range.
func (o Options) Validate() error {
	switch {
	case o.MarkSimilarity < 0 || o.MarkSimilarity > 1:
		return fmt.Errorf("%w: mark-similarity %v not in [0, 1]", ErrInvalidValue, o.MarkSimilarity)
	case o.MaxBlankLines < 0:
		return fmt.Errorf("%w: max-blank-lines %d is negative", ErrInvalidValue, o.MaxBlankLines)
	case o.OrganizeThreshold < 0:
		return fmt.Errorf("%w: organize-threshold %d is negative", ErrInvalidValue, o.OrganizeThreshold)
	case o.DirectiveMarker == "":
		return fmt.Errorf("%w: directive-marker is empty", ErrInvalidValue)
	}
	return nil
}
