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

package reporter

import "sync"

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, formatting of the file will abort with that error.
// If the reporter returns nil, the offending occurrence is left untouched and
// formatting continues with the next one.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. Warnings do
// not stop formatting; they describe input that was kept verbatim because it
// could not be formatted, such as a nested view that failed to parse.
type WarningReporter func(ErrorWithPos)

// Reporter is the combination of an [ErrorReporter] and a [WarningReporter].
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on
// errors and warnings. A nil errs reports every error back to the caller.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler records what has been reported so far for one file.
//
// Once the reporter returns an error, every later call returns that same
// error.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler wraps rep. A nil rep reports every error back to the caller.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleError hands err to the reporter if it carries a position, and
// returns the error formatting should abort with, if any.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning hands err to the warning reporter.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(err)
}

// Error returns the error formatting aborted with, or [ErrInvalidSource] if
// errors were reported but all of them were swallowed.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the reporter, if any.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
