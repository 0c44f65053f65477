/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package claimpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	t.Run("success - construction and rendering", func(t *testing.T) {
		p := New("credentialSubject", "degree", "name")
		require.Equal(t, 3, p.Len())
		require.False(t, p.IsRoot())
		require.Equal(t, "credentialSubject.degree.name", p.String())
		require.Equal(t, "name", p.Leaf())
		require.Equal(t, []string{"credentialSubject", "degree", "name"}, p.Names())
	})

	t.Run("success - parse round trip", func(t *testing.T) {
		p := Parse("credentialSubject.degree")
		require.True(t, p.Equal(New("credentialSubject", "degree")))
		require.Equal(t, "credentialSubject.degree", p.String())

		require.True(t, Parse("").IsRoot())
	})

	t.Run("success - append does not alias", func(t *testing.T) {
		base := New("a")
		p1 := base.Append("b")
		p2 := base.Append("c")

		require.Equal(t, "a.b", p1.String())
		require.Equal(t, "a.c", p2.String())
		require.Equal(t, "a", base.String())
	})

	t.Run("success - parent and root", func(t *testing.T) {
		p := New("a", "b")
		require.True(t, p.Parent().Equal(New("a")))
		require.True(t, New("a").Parent().IsRoot())
		require.True(t, Root.Parent().IsRoot())
		require.Equal(t, "", Root.Leaf())
	})

	t.Run("success - index segments", func(t *testing.T) {
		p := New("colors").AppendIndex(2)
		require.True(t, p.HasIndexSegment())
		require.Equal(t, "colors.[2]", p.String())
		require.Equal(t, "[2]", p.Leaf())
		require.False(t, New("colors").HasIndexSegment())
	})

	t.Run("success - prefix", func(t *testing.T) {
		p := New("a", "b", "c")
		require.True(t, p.HasPrefix(New("a", "b")))
		require.True(t, p.HasPrefix(Root))
		require.True(t, p.HasPrefix(p))
		require.False(t, p.HasPrefix(New("a", "x")))
		require.False(t, New("a").HasPrefix(p))
	})

	t.Run("success - equal distinguishes index from name", func(t *testing.T) {
		require.False(t, New("a").AppendIndex(0).Equal(New("a", "[0]")))
	})
}

func TestGroupByParent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		g, err := GroupByParent([]Path{
			New("credentialSubject", "degree", "name"),
			New("credentialSubject", "degree", "type"),
			New("issuanceDate"),
		})
		require.NoError(t, err)

		degree := New("credentialSubject", "degree")

		require.True(t, g.IsDisclosable(degree, "name"))
		require.True(t, g.IsDisclosable(degree, "type"))
		require.False(t, g.IsDisclosable(degree, "id"))
		require.True(t, g.IsDisclosable(Root, "issuanceDate"))

		names := g.ChildNames(degree)
		require.Len(t, names, 2)
		require.True(t, names["name"])
		require.True(t, names["type"])
	})

	t.Run("success - ancestor index", func(t *testing.T) {
		g, err := GroupByParent([]Path{New("credentialSubject", "degree", "name")})
		require.NoError(t, err)

		require.True(t, g.HasDisclosableDescendants(Root))
		require.True(t, g.HasDisclosableDescendants(New("credentialSubject")))
		require.True(t, g.HasDisclosableDescendants(New("credentialSubject", "degree")))
		require.False(t, g.HasDisclosableDescendants(New("credentialSubject", "degree", "name")))
		require.False(t, g.HasDisclosableDescendants(New("other")))
	})

	t.Run("error - empty path", func(t *testing.T) {
		g, err := GroupByParent([]Path{Root})
		require.Error(t, err)
		require.Nil(t, g)
		require.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("error - index segment", func(t *testing.T) {
		g, err := GroupByParent([]Path{New("colors").AppendIndex(1)})
		require.Error(t, err)
		require.Nil(t, g)
		require.ErrorIs(t, err, ErrIndexSegment)
	})
}
