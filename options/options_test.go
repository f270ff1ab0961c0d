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

package options_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/swiftfmt/options"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	o := options.Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, "// MARK: Public", "// "+o.Mark("Public"))
	assert.True(t, o.Organizes("struct"))
	assert.False(t, o.Organizes("protocol"))
	assert.True(t, o.RuleEnabled("organizeDeclarations"))
}

func TestApply(t *testing.T) {
	t.Parallel()

	base := options.Default()
	o, err := base.Apply([]string{
		"--alphabetize", "true",
		"--organization-mode=type",
		"--organize-types", "class, struct",
		"--linebreak", "crlf",
		"--mark-similarity", "0.5",
	})
	require.NoError(t, err)
	assert.True(t, o.Alphabetize)
	assert.Equal(t, options.Type, o.OrganizeMode)
	assert.Equal(t, []string{"class", "struct"}, o.OrganizeTypes)
	assert.Equal(t, options.Linebreak("\r\n"), o.Linebreak)
	assert.InDelta(t, 0.5, o.MarkSimilarity, 1e-9)

	// The receiver is unchanged.
	assert.False(t, base.Alphabetize)
	assert.Equal(t, options.Default(), base)
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want error
	}{
		{args: []string{"--no-such-option", "1"}, want: options.ErrUnknownOption},
		{args: []string{"--alphabetize", "maybe"}, want: options.ErrInvalidValue},
		{args: []string{"--alphabetize"}, want: options.ErrInvalidValue},
		{args: []string{"alphabetize", "true"}, want: options.ErrInvalidValue},
		{args: []string{"--organization-mode", "random"}, want: options.ErrInvalidValue},
		{args: []string{"--max-blank-lines", "-1"}, want: options.ErrInvalidValue},
	}
	for _, tt := range tests {
		o := options.Default()
		got, err := o.Apply(tt.args)
		require.ErrorIs(t, err, tt.want, "%q", tt.args)
		assert.Equal(t, o, got)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := options.Names()
	assert.Contains(t, names, "alphabetize")
	assert.IsIncreasing(t, names)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	o, err := options.LoadYAML(strings.NewReader(`
organization-mode: type
mark-categories: false
linebreak: crlf
exclude: ["vendor/**"]
`))
	require.NoError(t, err)
	assert.Equal(t, options.Type, o.OrganizeMode)
	assert.False(t, o.MarkCategories)
	assert.Equal(t, options.Linebreak("\r\n"), o.Linebreak)
	assert.Equal(t, []string{"vendor/**"}, o.Exclude)
	// Untouched options keep their defaults.
	assert.Equal(t, "MARK: %c", o.MarkTemplate)

	_, err = options.LoadYAML(strings.NewReader("colour: red\n"))
	assert.ErrorIs(t, err, options.ErrUnknownOption)

	o, err = options.LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, options.Default(), o)
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	o, err := options.LoadTOML(strings.NewReader(`
alphabetize = true
organize-threshold = 10
rules = ["organizeDeclarations"]
`))
	require.NoError(t, err)
	assert.True(t, o.Alphabetize)
	assert.Equal(t, 10, o.OrganizeThreshold)
	assert.True(t, o.RuleEnabled("organizeDeclarations"))
	assert.False(t, o.RuleEnabled("trailingSpace"))

	_, err = options.LoadTOML(strings.NewReader("colour = \"red\"\n"))
	assert.ErrorIs(t, err, options.ErrUnknownOption)

	_, err = options.LoadTOML(strings.NewReader("mark-similarity = 3.0\n"))
	assert.ErrorIs(t, err, options.ErrInvalidValue)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".swiftfmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alphabetize: true\n"), 0o600))
	o, err := options.Load(path)
	require.NoError(t, err)
	assert.True(t, o.Alphabetize)

	_, err = options.Load(filepath.Join(dir, "config.json"))
	assert.Error(t, err)
}
