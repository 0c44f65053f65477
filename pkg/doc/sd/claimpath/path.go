/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package claimpath provides structural addresses into a claim tree and the
// parent grouping used to drive redaction.
package claimpath

import (
	"fmt"
	"strings"
)

type segment struct {
	name    string
	index   int
	isIndex bool
}

// Path is an immutable structural address into a claim tree. The zero value
// is Root, the empty path.
type Path struct {
	segments []segment
}

// Root is the empty path.
var Root = Path{} // nolint:gochecknoglobals

// New creates a path from property-name segments.
func New(names ...string) Path {
	p := Path{segments: make([]segment, len(names))}
	for i, n := range names {
		p.segments[i] = segment{name: n}
	}

	return p
}

// Parse creates a path from a dot-separated rendering of property names.
// Names that themselves contain dots cannot be expressed this way; use New.
func Parse(s string) Path {
	if s == "" {
		return Root
	}

	return New(strings.Split(s, ".")...)
}

// Append returns a new path extended with a property-name segment.
func (p Path) Append(name string) Path {
	segments := make([]segment, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = segment{name: name}

	return Path{segments: segments}
}

// AppendIndex returns a new path extended with an array-index segment.
// Index segments are representable but not accepted for disclosure
// addressing; see GroupByParent.
func (p Path) AppendIndex(i int) Path {
	segments := make([]segment, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = segment{index: i, isIndex: true}

	return Path{segments: segments}
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path is empty.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Names returns the property-name segments. It must not be called on paths
// holding index segments.
func (p Path) Names() []string {
	names := make([]string, len(p.segments))
	for i, s := range p.segments {
		if s.isIndex {
			names[i] = fmt.Sprintf("[%d]", s.index)
			continue
		}

		names[i] = s.name
	}

	return names
}

// Parent returns the path with the last segment removed. Parent of Root is
// Root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return Root
	}

	segments := make([]segment, len(p.segments)-1)
	copy(segments, p.segments)

	return Path{segments: segments}
}

// Leaf returns the rendering of the last segment. Leaf of Root is "".
func (p Path) Leaf() string {
	if len(p.segments) == 0 {
		return ""
	}

	s := p.segments[len(p.segments)-1]
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}

	return s.name
}

// HasIndexSegment reports whether any segment is an array index.
func (p Path) HasIndexSegment() bool {
	for _, s := range p.segments {
		if s.isIndex {
			return true
		}
	}

	return false
}

// Equal reports whether two paths have the same segment sequence.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}

	for i, s := range p.segments {
		if s != other.segments[i] {
			return false
		}
	}

	return true
}

// HasPrefix reports whether prefix is a (non-strict) leading sub-sequence
// of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}

	for i, s := range prefix.segments {
		if s != p.segments[i] {
			return false
		}
	}

	return true
}

// String returns the stable dotted rendering of the path. Root renders as
// the empty string, index segments as "[i]".
func (p Path) String() string {
	var sb strings.Builder

	for i, s := range p.segments {
		if i > 0 {
			sb.WriteString(".")
		}

		if s.isIndex {
			fmt.Fprintf(&sb, "[%d]", s.index)
			continue
		}

		sb.WriteString(s.name)
	}

	return sb.String()
}

// key is the collision-free map key for the full segment sequence.
func (p Path) key() string {
	var sb strings.Builder

	for _, s := range p.segments {
		if s.isIndex {
			fmt.Fprintf(&sb, "\x00#%d", s.index)
			continue
		}

		sb.WriteString("\x00")
		sb.WriteString(s.name)
	}

	return sb.String()
}
