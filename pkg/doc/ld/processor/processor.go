/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package processor canonicalizes JSON-LD documents into RDF statements for
// statement-level selective disclosure.
package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/piprate/json-gold/ld"
)

const (
	format             = "application/n-quads"
	defaultAlgorithm   = "URDNA2015"
	handleNormalizeErr = "error while parsing N-Quads; invalid quad. line:"
)

var logger = log.New("selective-disclosure/json-ld-processor")

// ErrInvalidRDFFound is returned when the normalized view contains invalid
// RDF and validation was requested.
var ErrInvalidRDFFound = errors.New("invalid JSON-LD context")

// processorOpts holds options for canonicalization of JSON-LD docs.
type processorOpts struct {
	removeInvalidRDF bool
	validateRDF      bool
	documentLoader   ld.DocumentLoader
	externalContexts []string
}

// Opts are the options for JSON-LD canonicalization.
type Opts func(opts *processorOpts)

// WithRemoveAllInvalidRDF option for removing all invalid RDF dataset from normalized document.
func WithRemoveAllInvalidRDF() Opts {
	return func(opts *processorOpts) {
		opts.removeInvalidRDF = true
	}
}

// WithDocumentLoader option is for passing a custom JSON-LD document loader.
func WithDocumentLoader(loader ld.DocumentLoader) Opts {
	return func(opts *processorOpts) {
		opts.documentLoader = loader
	}
}

// WithExternalContext option is for definition of external context when doing JSON-LD operations.
func WithExternalContext(context ...string) Opts {
	return func(opts *processorOpts) {
		opts.externalContexts = context
	}
}

// WithValidateRDF option validates the result view and fails if any invalid
// RDF dataset is found. It takes precedence over 'WithRemoveAllInvalidRDF'.
func WithValidateRDF() Opts {
	return func(opts *processorOpts) {
		opts.validateRDF = true
	}
}

// Processor is a JSON-LD processor.
// processing mode JSON-LD 1.1 {spec: https://www.w3.org/TR/json-ld11}
type Processor struct {
	algorithm string
}

// NewProcessor returns a new JSON-LD processor for the given RDF dataset
// algorithm.
func NewProcessor(algorithm string) *Processor {
	if algorithm == "" {
		return Default()
	}

	return &Processor{algorithm}
}

// Default returns a new JSON-LD processor with the default RDF dataset
// algorithm.
func Default() *Processor {
	return &Processor{defaultAlgorithm}
}

// GetCanonicalDocument returns the canonized document of the given JSON-LD.
func (p *Processor) GetCanonicalDocument(doc map[string]interface{}, opts ...Opts) ([]byte, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Algorithm = p.algorithm
	ldOptions.Format = format
	ldOptions.ProduceGeneralizedRdf = true
	ldOptions.DocumentLoader = procOptions.documentLoader

	if len(procOptions.externalContexts) > 0 {
		doc["@context"] = AppendExternalContexts(doc["@context"], procOptions.externalContexts...)
	}

	proc := ld.NewJsonLdProcessor()

	view, err := proc.Normalize(doc, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize JSON-LD document: %w", err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, errors.New("failed to normalize JSON-LD document, invalid view")
	}

	result, err = p.removeMatchingInvalidRDFs(result, procOptions)
	if err != nil {
		return nil, err
	}

	return []byte(result), nil
}

// CanonicalStatements returns the canonized document as ordered,
// line-terminated statement strings with blank lines dropped.
func (p *Processor) CanonicalStatements(doc map[string]interface{}, opts ...Opts) ([]string, error) {
	view, err := p.GetCanonicalDocument(doc, opts...)
	if err != nil {
		return nil, err
	}

	return SplitStatements(string(view)), nil
}

// AppendExternalContexts appends external context(s) to the JSON-LD context,
// which can have one or several contexts already.
func AppendExternalContexts(context interface{}, extraContexts ...string) []interface{} {
	var contexts []interface{}

	switch c := context.(type) {
	case string:
		contexts = append(contexts, c)
	case []interface{}:
		contexts = append(contexts, c...)
	}

	for i := range extraContexts {
		contexts = append(contexts, extraContexts[i])
	}

	return contexts
}

// removeMatchingInvalidRDFs validates the normalized view to find invalid
// RDF and returns the filtered view after removing all invalid data.
// [Note: handling invalid RDF data, by following pattern https://github.com/digitalbazaar/jsonld.js/issues/199]
func (p *Processor) removeMatchingInvalidRDFs(view string, opts *processorOpts) (string, error) {
	if !opts.removeInvalidRDF && !opts.validateRDF {
		return view, nil
	}

	views := strings.Split(view, "\n")

	var filteredViews []string

	var foundInvalid bool

	for _, v := range views {
		_, err := ld.ParseNQuads(v)
		if err != nil {
			if !strings.Contains(err.Error(), handleNormalizeErr) {
				return "", err
			}

			foundInvalid = true

			continue
		}

		filteredViews = append(filteredViews, v)
	}

	if !foundInvalid {
		// clean RDF view, no need to regenerate
		return view, nil
	} else if opts.validateRDF {
		return "", ErrInvalidRDFFound
	}

	filteredView := strings.Join(filteredViews, "\n")

	logger.Debugf("Found invalid RDF dataset, canonicalizing JSON-LD again after removing invalid data")

	// all invalid RDF dataset from view are removed, re-generate
	return p.normalizeFilteredDataset(filteredView)
}

// normalizeFilteredDataset recreates JSON-LD from the RDF view and returns
// the normalized RDF dataset of the recreated document.
func (p *Processor) normalizeFilteredDataset(view string) (string, error) {
	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Algorithm = p.algorithm
	ldOptions.Format = format

	proc := ld.NewJsonLdProcessor()

	filteredJSONLd, err := proc.FromRDF(view, ldOptions)
	if err != nil {
		return "", err
	}

	result, err := proc.Normalize(filteredJSONLd, ldOptions)
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// prepareOpts prepare processorOpts from the given options.
func prepareOpts(opts []Opts) *processorOpts {
	procOpts := &processorOpts{}

	for _, opt := range opts {
		opt(procOpts)
	}

	return procOpts
}

// SplitStatements splits a canonical view into statement lines, dropping
// blank lines.
func SplitStatements(view string) []string {
	rows := strings.Split(view, "\n")

	statements := make([]string, 0, len(rows))

	for i := range rows {
		if strings.TrimSpace(rows[i]) != "" {
			statements = append(statements, rows[i])
		}
	}

	return statements
}

// TransformBlankNode replaces a blank node identifier in an RDF statement
// with a relabeling-stable IRI. For example, "_:c14n0" becomes
// "<urn:bnid:_:c14n0>".
func TransformBlankNode(row string) string {
	prefixIndex := strings.Index(row, "_:c14n")
	if prefixIndex < 0 {
		return row
	}

	sepIndex := strings.Index(row[prefixIndex:], " ")
	if sepIndex < 0 {
		sepIndex = len(row)
	} else {
		sepIndex += prefixIndex
	}

	prefix := row[:prefixIndex]
	blankNode := row[prefixIndex:sepIndex]
	suffix := row[sepIndex:]

	return fmt.Sprintf("%s<urn:bnid:%s>%s", prefix, blankNode, suffix)
}
