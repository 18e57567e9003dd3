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

// Package registry owns one instance of each compiled-in engine (spec
// §4.7, C7) and their construction/teardown order (spec §4.9, C9).
package registry

import (
	"time"

	"github.com/lymdgit/kvstore-go/kv"
	"github.com/lymdgit/kvstore-go/kv/array"
	"github.com/lymdgit/kvstore-go/kv/btree"
	"github.com/lymdgit/kvstore-go/kv/hashtable"
	"github.com/lymdgit/kvstore-go/kv/rbtree"
	"github.com/lymdgit/kvstore-go/kv/skiplist"
)

// Prefix is the single verb-leading letter that selects an engine (spec
// §4.7). PrefixArray is the empty-prefix default.
type Prefix byte

const (
	PrefixArray  Prefix = 0
	PrefixRBTree Prefix = 'R'
	PrefixHash   Prefix = 'H'
	PrefixSkip   Prefix = 'S'
	PrefixBTree  Prefix = 'B'
)

// Enabled selects which engines are compiled in, the config-time
// replacement for the source's ENABLE_*_KVENGINE build flags (spec §4.7,
// §4.9, SPEC_FULL.md §4.7).
type Enabled struct {
	Array, RBTree, Hash, SkipList, BTree bool

	// SkipListSeed seeds the skip list's RNG. Zero means "derive one from
	// the current time at construction" (spec §9's "Global random state").
	SkipListSeed int64
}

// AllEnabled returns an Enabled with every engine compiled in.
func AllEnabled() Enabled {
	return Enabled{Array: true, RBTree: true, Hash: true, SkipList: true, BTree: true}
}

// Registry holds one instance of each enabled engine for the process
// lifetime. It performs no locking; per spec §5 it is mutated only by the
// dispatcher's single logical executor (the dispatcher package serializes
// multi-connection access before reaching the registry).
type Registry struct {
	engines map[Prefix]kv.Engine
}

// New constructs every enabled engine in the fixed order the spec
// prescribes for C9: array, RB tree, hash, skip list, B-tree.
func New(enabled Enabled) *Registry {
	r := &Registry{engines: make(map[Prefix]kv.Engine, 5)}
	if enabled.Array {
		r.engines[PrefixArray] = array.New()
	}
	if enabled.RBTree {
		r.engines[PrefixRBTree] = rbtree.New()
	}
	if enabled.Hash {
		r.engines[PrefixHash] = hashtable.New()
	}
	if enabled.SkipList {
		seed := enabled.SkipListSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		r.engines[PrefixSkip] = skiplist.New(seed)
	}
	if enabled.BTree {
		r.engines[PrefixBTree] = btree.New()
	}
	return r
}

// Resolve returns the engine registered for prefix, and false if that
// engine was never compiled in (spec §4.7: "an engine whose feature flag
// is off is simply absent from the registry").
func (r *Registry) Resolve(prefix Prefix) (kv.Engine, bool) {
	e, ok := r.engines[prefix]
	return e, ok
}

// Close is the reverse-order teardown point (spec §4.9). Go's garbage
// collector reclaims every node, key, and value reachable only from a
// discarded engine, so "destruction is total" falls out of dropping the
// last reference - there is no manual free loop to write. Close exists as
// the one place that reference is dropped, so a future engine needing
// explicit teardown (e.g. one backed by an external resource) has
// somewhere to hook in.
func (r *Registry) Close() {
	for _, prefix := range []Prefix{PrefixBTree, PrefixSkip, PrefixHash, PrefixRBTree, PrefixArray} {
		delete(r.engines, prefix)
	}
}
