/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package maphelpers provides helpers for generic JSON-like maps.
package maphelpers

// CopyMap performs a deep copy of a map with nested maps and arrays.
func CopyMap(m map[string]interface{}) map[string]interface{} {
	cm := make(map[string]interface{}, len(m))

	for k, v := range m {
		cm[k] = CopyValue(v)
	}

	return cm
}

// CopyValue performs a deep copy of a JSON-like value.
func CopyValue(v interface{}) interface{} {
	switch cv := v.(type) {
	case map[string]interface{}:
		return CopyMap(cv)
	case []interface{}:
		ca := make([]interface{}, len(cv))
		for i := range cv {
			ca[i] = CopyValue(cv[i])
		}

		return ca
	default:
		return v
	}
}
