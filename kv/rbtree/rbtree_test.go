// Copyright 2024 The kvstore-go Authors
// This file is part of kvstore-go.
//
// kvstore-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// kvstore-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with kvstore-go. If not, see <http://www.gnu.org/licenses/>.

package rbtree_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lymdgit/kvstore-go/kv"
	"github.com/lymdgit/kvstore-go/kv/rbtree"
)

func TestSetGetRoundTrip(t *testing.T) {
	e := rbtree.New()
	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v1"))

	v, status := e.Get("k1")
	require.Equal(t, kv.StatusSuccess, status)
	require.Equal(t, "v1", v)
}

func TestSetOverwritesExistingValue(t *testing.T) {
	e := rbtree.New()
	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v1"))
	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v2"))

	v, _ := e.Get("k1")
	require.Equal(t, "v2", v)
	require.Equal(t, 1, e.Count())
}

func TestDeletePresentAndAbsent(t *testing.T) {
	e := rbtree.New()
	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v1"))
	require.Equal(t, kv.StatusSuccess, e.Delete("k1"))

	_, status := e.Get("k1")
	require.Equal(t, kv.StatusNotFound, status)
	require.Equal(t, kv.StatusNotFound, e.Delete("k1"))
}

func TestModifyRequiresExistingKey(t *testing.T) {
	e := rbtree.New()
	require.Equal(t, kv.StatusNotFound, e.Modify("missing", "v"))

	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v1"))
	require.Equal(t, kv.StatusSuccess, e.Modify("k1", "v2"))
	v, _ := e.Get("k1")
	require.Equal(t, "v2", v)
}

func TestModifyRejectsEmptyArgs(t *testing.T) {
	e := rbtree.New()
	require.Equal(t, kv.StatusSuccess, e.Set("k1", "v1"))

	require.Equal(t, kv.StatusError, e.Modify("", "v2"))
	require.Equal(t, kv.StatusError, e.Modify("k1", ""))
}

// TestKeysStayOrderedThroughInsertsAndDeletes inserts keys out of order,
// deletes a scattering of them (forcing both red-uncle and rotation
// branches of the fixup routines), and checks Keys() is strictly ascending
// after the inserts and again after the deletes.
func TestKeysStayOrderedThroughInsertsAndDeletes(t *testing.T) {
	e := rbtree.New()
	keys := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		// A non-monotonic key order stresses rotations both directions.
		k := fmt.Sprintf("k%03d", (i*37+11)%200)
		if _, status := e.Get(k); status == kv.StatusSuccess {
			continue
		}
		keys = append(keys, k)
		require.Equal(t, kv.StatusSuccess, e.Set(k, "v"))
	}
	require.Equal(t, len(keys), e.Count())
	assertAscending(t, e.Keys())

	for i, k := range keys {
		if i%3 != 0 {
			continue
		}
		require.Equal(t, kv.StatusSuccess, e.Delete(k))
	}
	assertAscending(t, e.Keys())
}

func assertAscending(t *testing.T, keys []string) {
	t.Helper()
	require.True(t, sort.StringsAreSorted(keys), "keys not ascending: %v", keys)
	for i := 1; i < len(keys); i++ {
		require.NotEqual(t, keys[i-1], keys[i], "duplicate key in walk")
	}
}
