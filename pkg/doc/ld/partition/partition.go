/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package partition splits the canonical RDF statements of a JSON-LD
// document into mandatory and non-mandatory sets, based on a set of
// mandatory JSON pointers. Index sets are returned instead of statement
// strings because indexes stay valid after an order-preserving blank node
// relabeling performed downstream by a signer.
package partition

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/ld/fragment"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/ld/processor"
)

// CanonicalizeFn turns a JSON-LD document into ordered canonical RDF
// statement strings. RDF canonicalization is injected; the partitioner
// itself performs no I/O.
type CanonicalizeFn func(ctx context.Context, doc map[string]interface{}) ([]string, error)

// Result is the outcome of partitioning a document's canonical statements.
// MandatoryIndexes and NonMandatoryIndexes are disjoint, each in ascending
// order, and together cover every index of All.
type Result struct {
	All                 []string
	MandatoryIndexes    []int
	NonMandatoryIndexes []int
}

// Statements canonicalizes doc and partitions the resulting statements by
// whether they are produced by the fragment covering mandatoryPointers.
// With no mandatory pointers every statement is non-mandatory.
func Statements(ctx context.Context, doc map[string]interface{},
	mandatoryPointers []fragment.Pointer, canonicalize CanonicalizeFn) (*Result, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}

	if canonicalize == nil {
		return nil, errors.New("canonicalize function is required")
	}

	all, err := canonicalize(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("canonicalize document: %w", err)
	}

	result := &Result{
		All:                 all,
		MandatoryIndexes:    []int{},
		NonMandatoryIndexes: []int{},
	}

	if len(mandatoryPointers) == 0 {
		for i := range all {
			result.NonMandatoryIndexes = append(result.NonMandatoryIndexes, i)
		}

		return result, nil
	}

	reduced, err := fragment.SelectAll(doc, mandatoryPointers)
	if err != nil {
		return nil, err
	}

	mandatory, err := canonicalize(ctx, reduced)
	if err != nil {
		return nil, fmt.Errorf("canonicalize mandatory fragment: %w", err)
	}

	mandatorySet := make(map[string]bool, len(mandatory))
	for _, statement := range mandatory {
		mandatorySet[statement] = true
	}

	for i, statement := range all {
		if mandatorySet[statement] {
			result.MandatoryIndexes = append(result.MandatoryIndexes, i)
		} else {
			result.NonMandatoryIndexes = append(result.NonMandatoryIndexes, i)
		}
	}

	return result, nil
}

// FromProcessor adapts a JSON-LD processor into a CanonicalizeFn,
// propagating context cancellation before each canonicalization.
func FromProcessor(p *processor.Processor, opts ...processor.Opts) CanonicalizeFn {
	return func(ctx context.Context, doc map[string]interface{}) ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return p.CanonicalStatements(doc, opts...)
	}
}
