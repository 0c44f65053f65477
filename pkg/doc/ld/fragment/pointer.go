/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"fmt"
	"strings"
)

// Pointer is a parsed RFC 6901 JSON pointer.
type Pointer struct {
	raw    string
	tokens []string
}

// ParsePointer parses an RFC 6901 JSON pointer. The empty string addresses
// the whole document.
func ParsePointer(pointer string) (Pointer, error) {
	if pointer == "" {
		return Pointer{}, nil
	}

	if !strings.HasPrefix(pointer, "/") {
		return Pointer{}, fmt.Errorf("invalid JSON pointer %q: must start with '/'", pointer)
	}

	parts := strings.Split(pointer[1:], "/")

	tokens := make([]string, len(parts))

	for i, part := range parts {
		// order matters: '~1' before '~0', RFC 6901 section 4
		token := strings.ReplaceAll(part, "~1", "/")
		tokens[i] = strings.ReplaceAll(token, "~0", "~")
	}

	return Pointer{raw: pointer, tokens: tokens}, nil
}

// MustParsePointer is like ParsePointer but panics on a malformed pointer.
// It simplifies declaring fixed pointers in tests and examples.
func MustParsePointer(pointer string) Pointer {
	p, err := ParsePointer(pointer)
	if err != nil {
		panic(err)
	}

	return p
}

// Tokens returns the decoded reference tokens in order.
func (p Pointer) Tokens() []string {
	tokens := make([]string, len(p.tokens))
	copy(tokens, p.tokens)

	return tokens
}

// IsRoot reports whether the pointer addresses the whole document.
func (p Pointer) IsRoot() bool {
	return len(p.tokens) == 0
}

// String returns the pointer in its original RFC 6901 encoding.
func (p Pointer) String() string {
	return p.raw
}
