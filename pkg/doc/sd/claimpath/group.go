/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package claimpath

import (
	"errors"
	"fmt"
)

// ErrIndexSegment is returned when a disclosable path addresses an array
// element. Disclosure addressing is limited to named properties; callers can
// distinguish this from a path that simply does not match the data.
var ErrIndexSegment = errors.New("array-index disclosure addressing is not implemented")

// Grouping maps each parent path to the immediate child names disclosable
// under it, plus the ancestor index needed to decide recursion.
type Grouping struct {
	children map[string]map[string]bool
	prefixes map[string]bool
}

// GroupByParent groups the disclosable paths by parent. Root itself cannot be
// disclosable and paths holding index segments are rejected with
// ErrIndexSegment.
func GroupByParent(paths []Path) (*Grouping, error) {
	g := &Grouping{
		children: make(map[string]map[string]bool),
		prefixes: make(map[string]bool),
	}

	for _, p := range paths {
		if p.IsRoot() {
			return nil, errors.New("disclosable path must not be empty")
		}

		if p.HasIndexSegment() {
			return nil, fmt.Errorf("path %q: %w", p.String(), ErrIndexSegment)
		}

		parent := p.Parent()
		parentKey := parent.key()

		if g.children[parentKey] == nil {
			g.children[parentKey] = make(map[string]bool)
		}

		g.children[parentKey][p.Leaf()] = true

		// every proper ancestor of p has disclosable descendants
		for ancestor := parent; ; ancestor = ancestor.Parent() {
			g.prefixes[ancestor.key()] = true

			if ancestor.IsRoot() {
				break
			}
		}
	}

	return g, nil
}

// IsDisclosable reports whether name is disclosable directly under parent.
func (g *Grouping) IsDisclosable(parent Path, name string) bool {
	return g.children[parent.key()][name]
}

// ChildNames returns the disclosable child names under parent.
func (g *Grouping) ChildNames(parent Path) map[string]bool {
	return g.children[parent.key()]
}

// HasDisclosableDescendants reports whether any disclosable path lies
// strictly below p, telling the walker whether to recurse into an
// otherwise-mandatory subtree.
func (g *Grouping) HasDisclosableDescendants(p Path) bool {
	return g.prefixes[p.key()]
}
