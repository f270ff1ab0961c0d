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

// Package debug holds the structural assertions used by the buffer and the
// declaration tree. They are checked only when the SWIFTFMT_DEBUG
// environment variable is set, and panic when violated.
package debug

import (
	"fmt"
	"os"
	"strings"
)

// Enabled is the status of the SWIFTFMT_DEBUG environment variable at
// startup. This cannot be set in any way except by environment variable.
var Enabled = func() bool {
	switch strings.ToLower(os.Getenv("SWIFTFMT_DEBUG")) {
	case "", "0", "off", "false":
		return false
	default:
		return true
	}
}()

// Assert panics with a formatted message if debugging is enabled and cond
// is false.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic("swiftfmt: internal error: " + fmt.Sprintf(format, args...))
	}
}
