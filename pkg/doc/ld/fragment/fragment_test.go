/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCredential() map[string]interface{} {
	return map[string]interface{}{
		"@context": []interface{}{"https://www.w3.org/2018/credentials/v1"},
		"id":       "urn:credential:1",
		"type":     []interface{}{"VerifiableCredential"},
		"issuer":   "did:example:issuer",
		"credentialSubject": map[string]interface{}{
			"id":   "did:example:holder",
			"type": "Person",
			"degree": map[string]interface{}{
				"type": "BachelorDegree",
				"name": "Bachelor of Science",
				"gpa":  "3.9",
			},
			"address": map[string]interface{}{
				"id":      "_:b0",
				"country": "DE",
			},
		},
	}
}

func TestParsePointer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p, err := ParsePointer("/credentialSubject/degree/name")
		require.NoError(t, err)
		require.Equal(t, []string{"credentialSubject", "degree", "name"}, p.Tokens())
		require.Equal(t, "/credentialSubject/degree/name", p.String())
		require.False(t, p.IsRoot())
	})

	t.Run("success - root pointer", func(t *testing.T) {
		p, err := ParsePointer("")
		require.NoError(t, err)
		require.True(t, p.IsRoot())
	})

	t.Run("success - escaped tokens", func(t *testing.T) {
		p, err := ParsePointer("/a~1b/c~0d")
		require.NoError(t, err)
		require.Equal(t, []string{"a/b", "c~d"}, p.Tokens())
	})

	t.Run("error - missing leading slash", func(t *testing.T) {
		_, err := ParsePointer("credentialSubject")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must start with '/'")
	})

	t.Run("panic - must parse", func(t *testing.T) {
		require.Panics(t, func() {
			MustParsePointer("bad")
		})

		require.NotPanics(t, func() {
			MustParsePointer("/ok")
		})
	})
}

func TestSelect(t *testing.T) {
	t.Run("success - nested value with linking structure", func(t *testing.T) {
		selected, err := Select(testCredential(), MustParsePointer("/credentialSubject/degree/name"))
		require.NoError(t, err)

		// root shell
		require.Equal(t, []interface{}{"https://www.w3.org/2018/credentials/v1"}, selected["@context"])
		require.Equal(t, "urn:credential:1", selected["id"])
		require.Equal(t, []interface{}{"VerifiableCredential"}, selected["type"])
		require.NotContains(t, selected, "issuer")

		// intermediate shell keeps id and type only, plus the path
		subject := selected["credentialSubject"].(map[string]interface{})
		require.Equal(t, "did:example:holder", subject["id"])
		require.Equal(t, "Person", subject["type"])
		require.NotContains(t, subject, "address")

		degree := subject["degree"].(map[string]interface{})
		require.Equal(t, "BachelorDegree", degree["type"])
		require.Equal(t, "Bachelor of Science", degree["name"])
		require.NotContains(t, degree, "gpa")
	})

	t.Run("success - blank node identifiers are not selected", func(t *testing.T) {
		selected, err := Select(testCredential(), MustParsePointer("/credentialSubject/address/country"))
		require.NoError(t, err)

		subject := selected["credentialSubject"].(map[string]interface{})
		address := subject["address"].(map[string]interface{})

		require.NotContains(t, address, "id")
		require.Equal(t, "DE", address["country"])
	})

	t.Run("success - terminal object copied verbatim", func(t *testing.T) {
		doc := testCredential()

		selected, err := Select(doc, MustParsePointer("/credentialSubject/degree"))
		require.NoError(t, err)

		subject := selected["credentialSubject"].(map[string]interface{})
		degree := subject["degree"].(map[string]interface{})
		require.Equal(t, "3.9", degree["gpa"])

		// deep copy, not aliased
		degree["gpa"] = "4.0"

		srcDegree := doc["credentialSubject"].(map[string]interface{})["degree"].(map[string]interface{})
		require.Equal(t, "3.9", srcDegree["gpa"])
	})

	t.Run("success - root pointer selects whole document", func(t *testing.T) {
		doc := testCredential()

		selected, err := Select(doc, MustParsePointer(""))
		require.NoError(t, err)
		require.Equal(t, doc, selected)
	})

	t.Run("error - missing property", func(t *testing.T) {
		_, err := Select(testCredential(), MustParsePointer("/credentialSubject/missing/name"))
		require.Error(t, err)

		var re *ResolutionError

		require.ErrorAs(t, err, &re)
		require.Equal(t, "missing", re.Token)
		require.Equal(t, "/credentialSubject/missing/name", re.Pointer)
		require.Contains(t, re.Reason, "not found")
	})

	t.Run("error - navigating past a scalar", func(t *testing.T) {
		_, err := Select(testCredential(), MustParsePointer("/issuer/name"))
		require.Error(t, err)

		var re *ResolutionError

		require.ErrorAs(t, err, &re)
		require.Equal(t, "issuer", re.Token)
		require.Contains(t, re.Reason, "scalar")
	})

	t.Run("error - array index selection", func(t *testing.T) {
		_, err := Select(testCredential(), MustParsePointer("/type/0/x"))
		require.Error(t, err)
		require.ErrorIs(t, err, ErrArrayIndexSelection)

		var re *ResolutionError

		require.ErrorAs(t, err, &re)
		require.Equal(t, "type", re.Token)
	})

	t.Run("error - nil document", func(t *testing.T) {
		_, err := SelectAll(nil, nil)
		require.Error(t, err)
	})
}

func TestSelectAll(t *testing.T) {
	t.Run("success - merge shares intermediate nodes", func(t *testing.T) {
		doc := testCredential()

		p1 := MustParsePointer("/credentialSubject/degree/name")
		p2 := MustParsePointer("/credentialSubject/degree/gpa")

		merged, err := SelectAll(doc, []Pointer{p1, p2})
		require.NoError(t, err)

		s1, err := Select(doc, p1)
		require.NoError(t, err)

		s2, err := Select(doc, p2)
		require.NoError(t, err)

		subject := merged["credentialSubject"].(map[string]interface{})
		degree := subject["degree"].(map[string]interface{})

		// everything either single selection contains
		for _, single := range []map[string]interface{}{s1, s2} {
			singleDegree := single["credentialSubject"].(map[string]interface{})["degree"].(map[string]interface{})
			for k, v := range singleDegree {
				require.Equal(t, v, degree[k])
			}
		}

		// one shared subject node, not duplicated structure
		require.Len(t, merged, 4)
		require.Len(t, subject, 3)
	})
}

func TestTryEvaluate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		v, ok := TryEvaluate(testCredential(), "/credentialSubject/degree/name")
		require.True(t, ok)
		require.Equal(t, "Bachelor of Science", v)
	})

	t.Run("success - array index", func(t *testing.T) {
		v, ok := TryEvaluate(testCredential(), "/type/0")
		require.True(t, ok)
		require.Equal(t, "VerifiableCredential", v)
	})

	t.Run("failure - unresolved", func(t *testing.T) {
		v, ok := TryEvaluate(testCredential(), "/missing")
		require.False(t, ok)
		require.Nil(t, v)
	})

	t.Run("failure - malformed pointer", func(t *testing.T) {
		v, ok := TryEvaluate(testCredential(), "missing-slash")
		require.False(t, ok)
		require.Nil(t, v)
	})
}
