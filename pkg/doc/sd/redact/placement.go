/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redact

import (
	"fmt"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

// PlaceDigests inserts one digest-array property per parent path into the
// mandatory claims tree, preserving digest processing order, and sets the
// reserved hash-algorithm identifier at the root once any digest was placed.
// The operation is additive: a parent path that no longer addresses an
// object node, or a node that already holds a digest array, fails it.
func PlaceDigests(claims *value.Object, digests []ParentDigests, algorithm string) error {
	placed := false

	for _, entry := range digests {
		node, err := resolveParent(claims, entry)
		if err != nil {
			return err
		}

		if node.Has(common.SDKey) {
			return fmt.Errorf("digest array already present at %q", entry.Parent.String())
		}

		arr := make(value.Sequence, len(entry.Digests))
		for i, digest := range entry.Digests {
			arr[i] = value.String(digest)
		}

		node.Set(common.SDKey, arr)

		placed = true
	}

	if placed {
		claims.Set(common.SDAlgorithmKey, value.String(algorithm))
	}

	return nil
}

func resolveParent(claims *value.Object, entry ParentDigests) (*value.Object, error) {
	node := claims

	for _, name := range entry.Parent.Names() {
		child, ok := node.Get(name)
		if !ok {
			return nil, fmt.Errorf("digest parent path %q: property %q not found", entry.Parent.String(), name)
		}

		childObj, ok := child.(*value.Object)
		if !ok {
			return nil, fmt.Errorf("digest parent path %q: property %q does not address an object node",
				entry.Parent.String(), name)
		}

		node = childObj
	}

	return node, nil
}
