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

// Package skiplist implements the S-prefixed engine: a probabilistic
// ordered map with max 16 levels and p=0.5 (spec §4.5).
package skiplist

import (
	"math/rand"

	"github.com/lymdgit/kvstore-go/kv"
)

// MaxLevel bounds the height any node (including the header) can reach.
const MaxLevel = 16

type node struct {
	entry   kv.Entry
	forward []*node
}

// List is a skip list ordered by lexicographic key compare. The header is
// a sentinel with MaxLevel forward slots and a key that compares less than
// any real key (it never participates in a key comparison).
type List struct {
	header *node
	level  int
	count  int
	rng    *rand.Rand
}

// New returns an empty skip list seeded with seed. Callers that need
// deterministic behavior (tests) should pass a fixed seed; production
// callers typically derive one from time.Now().UnixNano() once at process
// start (see kv/registry), never from a shared global generator (spec
// §5, §9: the RNG is owned by the instance, not process-global).
func New(seed int64) *List {
	return &List{
		header: &node{forward: make([]*node, MaxLevel)},
		level:  1,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

var _ kv.Engine = (*List)(nil)

func (l *List) randomLevel() int {
	level := 1
	for level < MaxLevel && l.rng.Float64() < 0.5 {
		level++
	}
	return level
}

// search walks from the top level down, recording in update the rightmost
// node per level whose forward key is still less than key (spec §4.5).
func (l *List) search(key string) (update [MaxLevel]*node, target *node) {
	cur := l.header
	for level := l.level - 1; level >= 0; level-- {
		for cur.forward[level] != nil && cur.forward[level].entry.Key < key {
			cur = cur.forward[level]
		}
		update[level] = cur
	}
	target = cur.forward[0]
	return update, target
}

func (l *List) Set(key, value string) kv.Status {
	entry, err := kv.NewEntry(key, value)
	if err != nil {
		return kv.StatusError
	}
	update, target := l.search(key)
	if target != nil && target.entry.Key == key {
		target.entry.Value = entry.Value
		return kv.StatusSuccess
	}

	newLevel := l.randomLevel()
	if newLevel > l.level {
		for lvl := l.level; lvl < newLevel; lvl++ {
			update[lvl] = l.header
		}
		l.level = newLevel
	}

	n := &node{entry: entry, forward: make([]*node, newLevel)}
	for lvl := 0; lvl < newLevel; lvl++ {
		n.forward[lvl] = update[lvl].forward[lvl]
		update[lvl].forward[lvl] = n
	}
	l.count++
	return kv.StatusSuccess
}

func (l *List) Get(key string) (string, kv.Status) {
	_, target := l.search(key)
	if target != nil && target.entry.Key == key {
		return target.entry.Value, kv.StatusSuccess
	}
	return "", kv.StatusNotFound
}

func (l *List) Modify(key, value string) kv.Status {
	if key == "" || value == "" {
		return kv.StatusError
	}
	_, target := l.search(key)
	if target == nil || target.entry.Key != key {
		return kv.StatusNotFound
	}
	target.entry.Value = value
	return kv.StatusSuccess
}

// Delete removes key, splicing it out at every level it participates in,
// then lowering the list-wide level while the header's top forward slot is
// empty (spec §4.5).
func (l *List) Delete(key string) kv.Status {
	update, target := l.search(key)
	if target == nil || target.entry.Key != key {
		return kv.StatusNotFound
	}
	for lvl := 0; lvl < l.level; lvl++ {
		if update[lvl].forward[lvl] != target {
			continue
		}
		update[lvl].forward[lvl] = target.forward[lvl]
	}
	for l.level > 1 && l.header.forward[l.level-1] == nil {
		l.level--
	}
	l.count--
	return kv.StatusSuccess
}

func (l *List) Count() int {
	return l.count
}

// Keys returns every key in ascending lexicographic order (level 0 walk),
// used to test the ordering invariant (spec §8).
func (l *List) Keys() []string {
	keys := make([]string, 0, l.count)
	for n := l.header.forward[0]; n != nil; n = n.forward[0] {
		keys = append(keys, n.entry.Key)
	}
	return keys
}
