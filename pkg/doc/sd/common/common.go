/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package common holds the reserved wire constants and digest helpers shared
// by the selective disclosure packages.
package common

import (
	"crypto"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// CombinedFormatSeparator separates the token segments. The character is
	// absent from the base64url alphabet used by every segment.
	CombinedFormatSeparator = "~"

	// SDKey is the reserved digest-array property name.
	SDKey = "_sd"

	// SDAlgorithmKey is the reserved hash-algorithm-identifier property name,
	// set once at the root of the mandatory claims.
	SDAlgorithmKey = "_sd_alg"
)

// GetHash calculates the digest of value using the given hash function and
// returns it base64url-encoded without padding.
func GetHash(hash crypto.Hash, value string) (string, error) {
	if !hash.Available() {
		return "", fmt.Errorf("hash function not available for: %d", hash)
	}

	h := hash.New()

	if _, hashErr := h.Write([]byte(value)); hashErr != nil {
		return "", hashErr
	}

	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

// HashAlgorithm returns the wire identifier for a hash function, as stored
// under the reserved hash-algorithm property.
func HashAlgorithm(hash crypto.Hash) string {
	return strings.ToLower(hash.String())
}

// GetCryptoHash maps a wire hash-algorithm identifier to a crypto.Hash.
// Weak algorithms are not accepted.
func GetCryptoHash(alg string) (crypto.Hash, error) {
	var err error

	var cryptoHash crypto.Hash

	switch strings.ToUpper(alg) {
	case crypto.SHA256.String():
		cryptoHash = crypto.SHA256
	case crypto.SHA384.String():
		cryptoHash = crypto.SHA384
	case crypto.SHA512.String():
		cryptoHash = crypto.SHA512
	default:
		err = fmt.Errorf("%s '%s' not supported", SDAlgorithmKey, alg)
	}

	return cryptoHash, err
}

// SliceToMap converts a slice of digests to a membership set.
func SliceToMap(ids []string) map[string]bool {
	values := make(map[string]bool, len(ids))
	for _, id := range ids {
		values[id] = true
	}

	return values
}
