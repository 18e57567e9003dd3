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

// Package btree implements the B-prefixed engine: a minimum-degree-3
// B-tree with split-on-descent insert and fill-on-descent delete (spec
// §4.6). Every non-root node holds 2..5 keys; the root holds 1..5; all
// leaves sit at equal depth.
package btree

import "github.com/lymdgit/kvstore-go/kv"

const (
	degree  = 3             // minimum degree t
	maxKeys = 2*degree - 1  // 5
	minKeys = degree - 1    // 2
)

type node struct {
	leaf     bool
	entries  []kv.Entry
	children []*node
}

// Engine is a B-tree of minimum degree 3 ordered by lexicographic key
// compare.
type Engine struct {
	root  *node
	count int
}

// New returns an empty B-tree engine.
func New() *Engine {
	return &Engine{root: &node{leaf: true}}
}

var _ kv.Engine = (*Engine)(nil)

// search performs the iterative-by-recursion descent of spec §4.6: scan
// keys left to right within a node until key >= target; return on match,
// otherwise descend into the matching child.
func search(n *node, key string) (*node, int) {
	i := 0
	for i < len(n.entries) && key > n.entries[i].Key {
		i++
	}
	if i < len(n.entries) && n.entries[i].Key == key {
		return n, i
	}
	if n.leaf {
		return nil, -1
	}
	return search(n.children[i], key)
}

func (e *Engine) Get(key string) (string, kv.Status) {
	n, i := search(e.root, key)
	if n == nil {
		return "", kv.StatusNotFound
	}
	return n.entries[i].Value, kv.StatusSuccess
}

// Set performs a prior lookup (spec §4.6): an existing key is updated in
// place rather than descending the classical insert path, so Set is
// always an upsert with no duplicate ever created.
func (e *Engine) Set(key, value string) kv.Status {
	entry, err := kv.NewEntry(key, value)
	if err != nil {
		return kv.StatusError
	}
	if n, i := search(e.root, key); n != nil {
		n.entries[i].Value = entry.Value
		return kv.StatusSuccess
	}
	if len(e.root.entries) == maxKeys {
		newRoot := &node{leaf: false, children: []*node{e.root}}
		splitChild(newRoot, 0)
		e.root = newRoot
	}
	insertNonFull(e.root, entry)
	e.count++
	return kv.StatusSuccess
}

// splitChild splits the full child x.children[i] about its median key,
// lifting that key into x (spec §4.6, "split on the way down").
func splitChild(x *node, i int) {
	y := x.children[i]
	z := &node{leaf: y.leaf}

	z.entries = append(z.entries, y.entries[degree:]...)
	median := y.entries[degree-1]
	y.entries = y.entries[:degree-1]

	if !y.leaf {
		z.children = append(z.children, y.children[degree:]...)
		y.children = y.children[:degree]
	}

	x.children = append(x.children, nil)
	copy(x.children[i+2:], x.children[i+1:])
	x.children[i+1] = z

	x.entries = append(x.entries, kv.Entry{})
	copy(x.entries[i+1:], x.entries[i:])
	x.entries[i] = median
}

// insertNonFull implements spec §4.6's leaf insertion and the recursive
// "split the full child first, then choose left/right of the splitter"
// step for internal nodes.
func insertNonFull(x *node, entry kv.Entry) {
	if x.leaf {
		pos := len(x.entries)
		x.entries = append(x.entries, kv.Entry{})
		for pos > 0 && entry.Key < x.entries[pos-1].Key {
			x.entries[pos] = x.entries[pos-1]
			pos--
		}
		x.entries[pos] = entry
		return
	}

	i := len(x.entries) - 1
	for i >= 0 && entry.Key < x.entries[i].Key {
		i--
	}
	i++

	if len(x.children[i].entries) == maxKeys {
		splitChild(x, i)
		if entry.Key > x.entries[i].Key {
			i++
		}
	}
	insertNonFull(x.children[i], entry)
}

func (e *Engine) Modify(key, value string) kv.Status {
	if key == "" || value == "" {
		return kv.StatusError
	}
	n, i := search(e.root, key)
	if n == nil {
		return kv.StatusNotFound
	}
	n.entries[i].Value = value
	return kv.StatusSuccess
}

// Delete removes key if present. The public layer checks existence first
// (spec §4.6), so the "key not in subtree" branch of deleteKey is a
// safety net that should never actually fire from here.
func (e *Engine) Delete(key string) kv.Status {
	if n, _ := search(e.root, key); n == nil {
		return kv.StatusNotFound
	}
	deleteKey(e.root, key)
	if len(e.root.entries) == 0 && !e.root.leaf {
		e.root = e.root.children[0]
	}
	e.count--
	return kv.StatusSuccess
}

func deleteKey(x *node, key string) {
	i := 0
	for i < len(x.entries) && key > x.entries[i].Key {
		i++
	}

	if i < len(x.entries) && x.entries[i].Key == key {
		if x.leaf {
			x.entries = append(x.entries[:i], x.entries[i+1:]...)
			return
		}
		removeFromInternal(x, i)
		return
	}

	if x.leaf {
		// Key absent: the public Delete checked existence already, so this
		// is unreachable in practice. Kept as the spec's safety net.
		return
	}

	atEnd := i == len(x.entries)
	if len(x.children[i].entries) < degree {
		fill(x, i)
	}
	if atEnd && i > len(x.entries) {
		deleteKey(x.children[i-1], key)
	} else {
		deleteKey(x.children[i], key)
	}
}

// removeFromInternal resolves deletion of a key held by an internal node:
// predecessor swap, successor swap, or merge (spec §4.6 case 2). The swap
// always copies the donor's (key,value) - Go strings already are
// immutable values, so "fresh copy" is just struct assignment - before
// the donor is recursively deleted, so no string is ever referenced from
// two places at once.
func removeFromInternal(x *node, i int) {
	switch {
	case len(x.children[i].entries) >= degree:
		pred := predecessor(x.children[i])
		x.entries[i] = pred
		deleteKey(x.children[i], pred.Key)
	case len(x.children[i+1].entries) >= degree:
		succ := successor(x.children[i+1])
		x.entries[i] = succ
		deleteKey(x.children[i+1], succ.Key)
	default:
		key := x.entries[i].Key
		merge(x, i)
		deleteKey(x.children[i], key)
	}
}

func predecessor(n *node) kv.Entry {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	return n.entries[len(n.entries)-1]
}

func successor(n *node) kv.Entry {
	for !n.leaf {
		n = n.children[0]
	}
	return n.entries[0]
}

// fill restores child i to at least `degree` keys before descent, by
// borrowing from a sibling or merging (spec §4.6, glossary "Fill").
func fill(x *node, i int) {
	switch {
	case i != 0 && len(x.children[i-1].entries) >= degree:
		borrowFromPrev(x, i)
	case i != len(x.entries) && len(x.children[i+1].entries) >= degree:
		borrowFromNext(x, i)
	case i != len(x.entries):
		merge(x, i)
	default:
		merge(x, i-1)
	}
}

func borrowFromPrev(x *node, i int) {
	child := x.children[i]
	sibling := x.children[i-1]

	child.entries = append(child.entries, kv.Entry{})
	copy(child.entries[1:], child.entries[:len(child.entries)-1])
	child.entries[0] = x.entries[i-1]

	if !child.leaf {
		lastChild := sibling.children[len(sibling.children)-1]
		child.children = append(child.children, nil)
		copy(child.children[1:], child.children[:len(child.children)-1])
		child.children[0] = lastChild
		sibling.children = sibling.children[:len(sibling.children)-1]
	}

	x.entries[i-1] = sibling.entries[len(sibling.entries)-1]
	sibling.entries = sibling.entries[:len(sibling.entries)-1]
}

func borrowFromNext(x *node, i int) {
	child := x.children[i]
	sibling := x.children[i+1]

	child.entries = append(child.entries, x.entries[i])

	if !child.leaf {
		child.children = append(child.children, sibling.children[0])
		sibling.children = sibling.children[1:]
	}

	x.entries[i] = sibling.entries[0]
	sibling.entries = sibling.entries[1:]
}

// merge folds x.children[i], x.entries[i], and x.children[i+1] into a
// single node holding 2*degree-1 keys, in place of children[i] (spec
// §4.6). Keys and children pointers move, they are never copied.
func merge(x *node, i int) {
	child := x.children[i]
	sibling := x.children[i+1]

	child.entries = append(child.entries, x.entries[i])
	child.entries = append(child.entries, sibling.entries...)
	if !child.leaf {
		child.children = append(child.children, sibling.children...)
	}

	x.entries = append(x.entries[:i], x.entries[i+1:]...)
	x.children = append(x.children[:i+1], x.children[i+2:]...)
}

func (e *Engine) Count() int {
	return e.count
}

// Keys returns every key via an in-order (level-0-equivalent) walk, in
// ascending lexicographic order, for testing the ordering invariant (spec
// §8).
func (e *Engine) Keys() []string {
	keys := make([]string, 0, e.count)
	var walk func(*node)
	walk = func(n *node) {
		for i, entry := range n.entries {
			if !n.leaf {
				walk(n.children[i])
			}
			keys = append(keys, entry.Key)
		}
		if !n.leaf {
			walk(n.children[len(n.children)-1])
		}
	}
	walk(e.root)
	return keys
}

// Validate checks the structural invariants spec §8's stress property
// requires: equal leaf depth, 2..5 keys per non-root node, n+1 children per
// internal node, and ascending key order within each node. The root's key
// count is not checked, and neither is key order across nodes (Keys gives
// the in-order walk for that). It is a test helper, not used on any
// production path.
func (e *Engine) Validate() error {
	depth := -1
	var walk func(n *node, isRoot bool, level int) error
	walk = func(n *node, isRoot bool, level int) error {
		if !isRoot && (len(n.entries) < minKeys || len(n.entries) > maxKeys) {
			return errKeyCount(len(n.entries))
		}
		for i := 1; i < len(n.entries); i++ {
			if !(n.entries[i-1].Key < n.entries[i].Key) {
				return errUnsorted{}
			}
		}
		if n.leaf {
			if depth == -1 {
				depth = level
			} else if depth != level {
				return errUnequalDepth{}
			}
			return nil
		}
		if len(n.children) != len(n.entries)+1 {
			return errChildCount(len(n.children))
		}
		for _, c := range n.children {
			if err := walk(c, false, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(e.root, true, 0)
}
