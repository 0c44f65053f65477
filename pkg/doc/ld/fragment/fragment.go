/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fragment builds minimal valid sub-documents of a JSON-LD document
// for statement-level partial disclosure. A fragment keeps, along each
// selected pointer path, just enough linking structure (identifiers, types,
// root context) for the fragment to canonicalize to a subset of the full
// document's RDF statements.
package fragment

import (
	"errors"

	"github.com/xeipuuv/gojsonpointer"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/util/maphelpers"
)

const (
	contextKey = "@context"

	blankNodePrefix = "_:"
)

var idAliases = []string{"id", "@id"}

var typeAliases = []string{"type", "@type"}

// Select builds the reduced document for a single pointer.
func Select(doc map[string]interface{}, pointer Pointer) (map[string]interface{}, error) {
	return SelectAll(doc, []Pointer{pointer})
}

// SelectAll builds one reduced document covering every given pointer.
// Intermediate nodes shared between pointers appear once.
func SelectAll(doc map[string]interface{}, pointers []Pointer) (map[string]interface{}, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}

	selection := newShell(doc, true)

	for _, pointer := range pointers {
		if err := selectInto(selection, doc, pointer); err != nil {
			return nil, err
		}
	}

	return selection, nil
}

// TryEvaluate resolves a pointer against a document without failing.
// It returns the addressed value and true, or nil and false when the
// pointer does not resolve.
func TryEvaluate(doc map[string]interface{}, pointer string) (interface{}, bool) {
	jp, err := gojsonpointer.NewJsonPointer(pointer)
	if err != nil {
		return nil, false
	}

	value, _, err := jp.Get(doc)
	if err != nil {
		return nil, false
	}

	return value, true
}

func selectInto(selection, doc map[string]interface{}, pointer Pointer) error {
	if pointer.IsRoot() {
		for key, val := range doc {
			if _, ok := selection[key]; !ok {
				selection[key] = maphelpers.CopyValue(val)
			}
		}

		return nil
	}

	tokens := pointer.tokens

	curDoc := doc
	curSel := selection

	for i, token := range tokens {
		next, ok := curDoc[token]
		if !ok {
			return newResolutionError(pointer, token, "property not found")
		}

		if i == len(tokens)-1 {
			curSel[token] = maphelpers.CopyValue(next)

			return nil
		}

		switch nextDoc := next.(type) {
		case map[string]interface{}:
			nextSel, ok := curSel[token].(map[string]interface{})
			if !ok {
				nextSel = newShell(nextDoc, false)
				curSel[token] = nextSel
			}

			curDoc = nextDoc
			curSel = nextSel
		case []interface{}:
			return newUnsupportedError(pointer, token, ErrArrayIndexSelection)
		default:
			return newResolutionError(pointer, token, "cannot navigate past a scalar value")
		}
	}

	return nil
}

// newShell creates the skeleton of a selected node: root context, the node
// identifier unless it is locally scoped, and the node type(s).
func newShell(node map[string]interface{}, root bool) map[string]interface{} {
	shell := make(map[string]interface{})

	if root {
		if context, ok := node[contextKey]; ok {
			shell[contextKey] = maphelpers.CopyValue(context)
		}
	}

	for _, key := range idAliases {
		if id, ok := node[key].(string); ok && !isBlankNodeID(id) {
			shell[key] = id
		}
	}

	for _, key := range typeAliases {
		if types, ok := node[key]; ok {
			shell[key] = maphelpers.CopyValue(types)
		}
	}

	return shell
}

func isBlankNodeID(id string) bool {
	return len(id) >= len(blankNodePrefix) && id[:len(blankNodePrefix)] == blankNodePrefix
}
