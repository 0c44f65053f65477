/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redact

import (
	"crypto"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/claimpath"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

const testSaltSize = 16

func testSalt() ([]byte, error) {
	salt := make([]byte, testSaltSize)

	_, err := rand.Read(salt)

	return salt, err
}

func testCredential(t *testing.T) *value.Object {
	t.Helper()

	doc, err := value.UnmarshalObject([]byte(`{
		"@context": "https://ex/v1",
		"id": "urn:1",
		"credentialSubject": {
			"id": "urn:2",
			"degree": {
				"type": "Bachelor",
				"name": "CS"
			}
		}
	}`))
	require.NoError(t, err)

	return doc
}

func TestRedact(t *testing.T) {
	t.Run("success - nested disclosable claim", func(t *testing.T) {
		doc := testCredential(t)

		result, err := Redact(doc,
			[]claimpath.Path{claimpath.New("credentialSubject", "degree", "name")},
			testSalt, WithDigestSuite(SHA256Suite()))
		require.NoError(t, err)

		require.Len(t, result.Disclosures, 1)
		require.Equal(t, "name", result.Disclosures[0].Name)
		require.Equal(t, value.String("CS"), result.Disclosures[0].Value)
		require.NotEmpty(t, result.Disclosures[0].Encoded)
		require.Len(t, result.Disclosures[0].Salt, testSaltSize)

		subject, ok := result.Claims.Get("credentialSubject")
		require.True(t, ok)

		degree, ok := subject.(*value.Object).Get("degree")
		require.True(t, ok)

		degreeObj := degree.(*value.Object)

		// retained mandatory sibling
		typ, ok := degreeObj.Get("type")
		require.True(t, ok)
		require.Equal(t, value.String("Bachelor"), typ)

		// disclosed claim removed, one digest placed at original depth
		require.False(t, degreeObj.Has("name"))

		sd, ok := degreeObj.Get(common.SDKey)
		require.True(t, ok)
		require.Len(t, sd.(value.Sequence), 1)

		expectedDigest, err := common.GetHash(crypto.SHA256, result.Disclosures[0].Encoded)
		require.NoError(t, err)
		require.Equal(t, value.String(expectedDigest), sd.(value.Sequence)[0])

		// algorithm identifier at root only
		alg, ok := result.Claims.Get(common.SDAlgorithmKey)
		require.True(t, ok)
		require.Equal(t, value.String("sha-256"), alg)
		require.False(t, subject.(*value.Object).Has(common.SDAlgorithmKey))
	})

	t.Run("success - structural completeness", func(t *testing.T) {
		doc := testCredential(t)

		paths := []claimpath.Path{
			claimpath.New("credentialSubject", "degree", "name"),
			claimpath.New("credentialSubject", "id"),
		}

		result, err := Redact(doc, paths, testSalt, WithDigestSuite(SHA256Suite()))
		require.NoError(t, err)
		require.Len(t, result.Disclosures, 2)

		subject, _ := result.Claims.Get("credentialSubject")
		require.False(t, subject.(*value.Object).Has("id"))

		byName := make(map[string]value.Value)
		for _, d := range result.Disclosures {
			byName[d.Name] = d.Value
		}

		require.Equal(t, value.String("urn:2"), byName["id"])
		require.Equal(t, value.String("CS"), byName["name"])
	})

	t.Run("success - split-only mode", func(t *testing.T) {
		doc := testCredential(t)

		result, err := Redact(doc,
			[]claimpath.Path{claimpath.New("credentialSubject", "degree", "name")},
			testSalt)
		require.NoError(t, err)

		require.Len(t, result.Disclosures, 1)
		require.Empty(t, result.Disclosures[0].Encoded)
		require.Nil(t, result.DigestsByParent)

		subject, _ := result.Claims.Get("credentialSubject")
		degree, _ := subject.(*value.Object).Get("degree")
		require.False(t, degree.(*value.Object).Has(common.SDKey))
		require.False(t, result.Claims.Has(common.SDAlgorithmKey))
	})

	t.Run("success - whole subtree disclosed", func(t *testing.T) {
		doc := testCredential(t)

		result, err := Redact(doc,
			[]claimpath.Path{claimpath.New("credentialSubject", "degree")},
			testSalt, WithDigestSuite(SHA256Suite()))
		require.NoError(t, err)
		require.Len(t, result.Disclosures, 1)
		require.Equal(t, "degree", result.Disclosures[0].Name)
		require.Equal(t, value.KindObject, result.Disclosures[0].Value.Kind())

		subject, _ := result.Claims.Get("credentialSubject")
		subjectObj := subject.(*value.Object)
		require.False(t, subjectObj.Has("degree"))
		require.True(t, subjectObj.Has(common.SDKey))
	})

	t.Run("success - decoy digests follow real digests", func(t *testing.T) {
		doc := testCredential(t)

		result, err := Redact(doc,
			[]claimpath.Path{claimpath.New("credentialSubject", "degree", "name")},
			testSalt, WithDigestSuite(SHA256Suite()), WithDecoyDigests(2))
		require.NoError(t, err)
		require.Len(t, result.Disclosures, 1)

		subject, _ := result.Claims.Get("credentialSubject")
		degree, _ := subject.(*value.Object).Get("degree")

		sd, ok := degree.(*value.Object).Get(common.SDKey)
		require.True(t, ok)
		require.Len(t, sd.(value.Sequence), 3)

		realDigest, err := common.GetHash(crypto.SHA256, result.Disclosures[0].Encoded)
		require.NoError(t, err)
		require.Equal(t, value.String(realDigest), sd.(value.Sequence)[0])
	})

	t.Run("success - no disclosable paths", func(t *testing.T) {
		doc := testCredential(t)

		result, err := Redact(doc, nil, nil, WithDigestSuite(SHA256Suite()))
		require.NoError(t, err)
		require.Empty(t, result.Disclosures)
		require.True(t, value.Equal(doc, result.Claims))
		require.False(t, result.Claims.Has(common.SDAlgorithmKey))
	})

	t.Run("success - input document not modified", func(t *testing.T) {
		doc := testCredential(t)
		original := doc.Copy()

		_, err := Redact(doc,
			[]claimpath.Path{claimpath.New("credentialSubject", "degree", "name")},
			testSalt, WithDigestSuite(SHA256Suite()))
		require.NoError(t, err)
		require.True(t, value.Equal(original, doc))
	})

	t.Run("error - nil document", func(t *testing.T) {
		result, err := Redact(nil, nil, testSalt)
		require.Error(t, err)
		require.Nil(t, result)
		require.Contains(t, err.Error(), "document must be provided")
	})

	t.Run("error - missing salt factory", func(t *testing.T) {
		result, err := Redact(testCredential(t),
			[]claimpath.Path{claimpath.New("id")}, nil)
		require.Error(t, err)
		require.Nil(t, result)
		require.Contains(t, err.Error(), "salt factory must be provided")
	})

	t.Run("error - index segment path", func(t *testing.T) {
		result, err := Redact(testCredential(t),
			[]claimpath.Path{claimpath.New("colors").AppendIndex(0)}, testSalt)
		require.Error(t, err)
		require.Nil(t, result)
		require.ErrorIs(t, err, claimpath.ErrIndexSegment)
	})

	t.Run("error - salt factory failure aborts walk", func(t *testing.T) {
		failing := func() ([]byte, error) {
			return nil, errors.New("entropy exhausted")
		}

		result, err := Redact(testCredential(t),
			[]claimpath.Path{claimpath.New("credentialSubject", "id")}, failing)
		require.Error(t, err)
		require.Nil(t, result)
		require.Contains(t, err.Error(), "entropy exhausted")
	})
}

func TestPlaceDigests(t *testing.T) {
	t.Run("error - parent path not found", func(t *testing.T) {
		claims := value.NewObject()
		claims.Set("a", value.String("x"))

		err := PlaceDigests(claims, []ParentDigests{
			{Parent: claimpath.New("missing"), Digests: []string{"d1"}},
		}, "sha-256")
		require.Error(t, err)
		require.Contains(t, err.Error(), `property "missing" not found`)
	})

	t.Run("error - parent path addresses scalar", func(t *testing.T) {
		claims := value.NewObject()
		claims.Set("a", value.String("x"))

		err := PlaceDigests(claims, []ParentDigests{
			{Parent: claimpath.New("a"), Digests: []string{"d1"}},
		}, "sha-256")
		require.Error(t, err)
		require.Contains(t, err.Error(), "does not address an object node")
	})

	t.Run("error - digest array already present", func(t *testing.T) {
		claims := value.NewObject()
		claims.Set(common.SDKey, value.Sequence{value.String("existing")})

		err := PlaceDigests(claims, []ParentDigests{
			{Parent: claimpath.Root, Digests: []string{"d1"}},
		}, "sha-256")
		require.Error(t, err)
		require.Contains(t, err.Error(), "digest array already present")
	})

	t.Run("success - nothing to place", func(t *testing.T) {
		claims := value.NewObject()

		require.NoError(t, PlaceDigests(claims, nil, "sha-256"))
		require.False(t, claims.Has(common.SDAlgorithmKey))
	})
}

func TestNewDigestSuite(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		suite, err := NewDigestSuite(crypto.SHA512, nil)
		require.NoError(t, err)
		require.Equal(t, "sha-512", suite.Algorithm)
		require.NotNil(t, suite.Codec)

		digest, err := suite.Digest("abc")
		require.NoError(t, err)
		require.NotEmpty(t, digest)
	})

	t.Run("error - hash not available", func(t *testing.T) {
		suite, err := NewDigestSuite(0, nil)
		require.Error(t, err)
		require.Nil(t, suite)
	})
}
