// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import "errors"

var (
	// ErrExecution means fio-status could not be run or its output could not be read.
	ErrExecution = errors.New("fio-status execution failed")
	// ErrParse means fio-status output is not a JSON object.
	ErrParse = errors.New("can not load fio-status output")
)
