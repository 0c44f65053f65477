/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"errors"
	"fmt"
)

// ErrArrayIndexSelection is returned when a pointer navigates into an array.
// Array-index selection is not supported; wrap detection with errors.Is to
// distinguish it from a data mismatch.
var ErrArrayIndexSelection = errors.New("array index selection is not supported")

// ResolutionError reports a pointer that failed to resolve against a
// document.
type ResolutionError struct {
	Pointer string
	Token   string
	Reason  string
	cause   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("pointer %q failed to resolve at token %q: %s", e.Pointer, e.Token, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.cause
}

func newResolutionError(pointer Pointer, token, reason string) *ResolutionError {
	return &ResolutionError{Pointer: pointer.String(), Token: token, Reason: reason}
}

func newUnsupportedError(pointer Pointer, token string, cause error) *ResolutionError {
	return &ResolutionError{Pointer: pointer.String(), Token: token, Reason: cause.Error(), cause: cause}
}
