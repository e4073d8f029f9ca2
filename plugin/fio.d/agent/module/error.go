// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"fmt"
)

// PluginError is the single error type a module cycle reports to the job.
// Err keeps the underlying cause, so errors.Is can tell an execution failure
// from a parse failure or a full queue.
type PluginError struct {
	Module string
	Op     string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Module, e.Op, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err.
func Wrap(module, op string, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PluginError); ok {
		return pe
	}
	return &PluginError{Module: module, Op: op, Err: err}
}
