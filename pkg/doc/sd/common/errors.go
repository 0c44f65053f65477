/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import "fmt"

// FormatError reports malformed wire data: a wrong disclosure element count,
// a non-conforming segment shape or a bad encoding. The originating decode
// failure, when any, is carried as the cause.
type FormatError struct {
	Msg   string
	Cause error
}

// NewFormatError creates a FormatError with a cause.
func NewFormatError(cause error, format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Cause.Error())
	}

	return e.Msg
}

// Unwrap returns the originating decode failure.
func (e *FormatError) Unwrap() error {
	return e.Cause
}
