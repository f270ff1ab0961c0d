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

// Package reporter carries the diagnostics produced while formatting a
// file: tokenizer failures, bad directive comments, and rule warnings. Each
// is tied to a position in the file, and the calling program decides
// whether an error stops formatting or is merely recorded.
package reporter

import (
	"fmt"
	"sync"
)

// ErrorReporter receives an error diagnostic. Returning a non-nil error
// stops formatting with that error; returning nil lets formatting go on
// without the rule that hit the error.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter receives a warning: something a rule skipped that the user
// may want to fix by hand, such as a type whose members share a line.
type WarningReporter func(ErrorWithPos)

// Reporter receives the diagnostics of a [Handler].
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

// NewReporter returns a [Reporter] that calls errs and warnings. A nil errs
// stops formatting at the first error; a nil warnings drops warnings.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return funcs{errs: errs, warnings: warnings}
}

type funcs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (f funcs) Error(err ErrorWithPos) error {
	if f.errs == nil {
		return err
	}
	return f.errs(err)
}

func (f funcs) Warning(err ErrorWithPos) {
	if f.warnings != nil {
		f.warnings(err)
	}
}

// Handler is where the tokenizer, the buffer and the rules send the
// diagnostics for one formatting run. It forwards them to a [Reporter],
// counts them, and remembers the error that stopped the run, after which
// further errors are not forwarded.
//
// A Handler may be shared by goroutines formatting different files.
type Handler struct {
	reporter Reporter

	mu       sync.Mutex
	errors   int
	warnings int
	stopped  error
}

// NewHandler returns a handler that forwards to rep. A nil rep stops at the
// first error.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf reports an error at pos, and returns non-nil if formatting
// must stop.
func (h *Handler) HandleErrorf(pos SourcePos, format string, args ...any) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError reports err. An error without a position cannot be attributed
// to the file, and stops formatting as is.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped != nil {
		return h.stopped
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errors++
		err = h.reporter.Error(ewp)
	}
	h.stopped = err
	return err
}

// HandleWarningf reports a warning at pos.
func (h *Handler) HandleWarningf(pos SourcePos, format string, args ...any) {
	h.mu.Lock()
	h.warnings++
	h.mu.Unlock()
	h.reporter.Warning(Errorf(pos, format, args...))
}

// Counts returns how many errors and warnings have been reported.
func (h *Handler) Counts() (errors, warnings int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errors, h.warnings
}

// Error returns the error that stopped formatting. If none did but errors
// were reported, it returns [ErrFormatFailed] wrapped with their count.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped == nil && h.errors > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrFormatFailed, h.errors)
	}
	return h.stopped
}

// ReporterError returns the error that stopped formatting, if any.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stopped
}

// Collector is a [Reporter] that keeps every diagnostic and never stops
// formatting.
type Collector struct {
	mu       sync.Mutex
	Errors   []ErrorWithPos
	Warnings []ErrorWithPos
}

func (c *Collector) Error(err ErrorWithPos) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Errors = append(c.Errors, err)
	return nil
}

func (c *Collector) Warning(err ErrorWithPos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Warnings = append(c.Warnings, err)
}
