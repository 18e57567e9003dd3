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

// Package hashtable implements the H-prefixed engine: a separate-chaining
// hash table with power-of-two buckets that doubles when the load factor
// crosses loadFactorThreshold (spec §4.3).
package hashtable

import (
	"github.com/spaolacci/murmur3"

	"github.com/lymdgit/kvstore-go/kv"
)

const (
	initialBuckets      = 1024
	loadFactorThreshold = 0.75
)

type node struct {
	entry kv.Entry
	next  *node
}

// Engine is a separate-chaining hash table. Bucket count is always a power
// of two; Set/Delete/Modify/Count are O(1) amortized.
type Engine struct {
	buckets []*node
	count   int
	mask    uint64
}

// New returns an empty hash engine with the default bucket count.
func New() *Engine {
	return &Engine{
		buckets: make([]*node, initialBuckets),
		mask:    uint64(initialBuckets - 1),
	}
}

var _ kv.Engine = (*Engine)(nil)

func (e *Engine) bucketIndex(key string) uint64 {
	return murmur3.Sum64([]byte(key)) & e.mask
}

func (e *Engine) find(key string) (*node, *node, uint64) {
	idx := e.bucketIndex(key)
	var prev *node
	for n := e.buckets[idx]; n != nil; n = n.next {
		if n.entry.Key == key {
			return n, prev, idx
		}
		prev = n
	}
	return nil, nil, idx
}

func (e *Engine) Set(key, value string) kv.Status {
	entry, err := kv.NewEntry(key, value)
	if err != nil {
		return kv.StatusError
	}
	if n, _, _ := e.find(key); n != nil {
		n.entry.Value = entry.Value
		return kv.StatusSuccess
	}
	idx := e.bucketIndex(key)
	e.buckets[idx] = &node{entry: entry, next: e.buckets[idx]}
	e.count++
	if float64(e.count) > loadFactorThreshold*float64(len(e.buckets)) {
		e.resize(len(e.buckets) * 2)
	}
	return kv.StatusSuccess
}

func (e *Engine) resize(newSize int) {
	newBuckets := make([]*node, newSize)
	newMask := uint64(newSize - 1)
	for _, head := range e.buckets {
		for n := head; n != nil; {
			next := n.next
			idx := murmur3.Sum64([]byte(n.entry.Key)) & newMask
			n.next = newBuckets[idx]
			newBuckets[idx] = n
			n = next
		}
	}
	e.buckets = newBuckets
	e.mask = newMask
}

func (e *Engine) Get(key string) (string, kv.Status) {
	if n, _, _ := e.find(key); n != nil {
		return n.entry.Value, kv.StatusSuccess
	}
	return "", kv.StatusNotFound
}

func (e *Engine) Delete(key string) kv.Status {
	n, prev, idx := e.find(key)
	if n == nil {
		return kv.StatusNotFound
	}
	if prev == nil {
		e.buckets[idx] = n.next
	} else {
		prev.next = n.next
	}
	e.count--
	return kv.StatusSuccess
}

func (e *Engine) Modify(key, value string) kv.Status {
	if key == "" || value == "" {
		return kv.StatusError
	}
	n, _, _ := e.find(key)
	if n == nil {
		return kv.StatusNotFound
	}
	n.entry.Value = value
	return kv.StatusSuccess
}

func (e *Engine) Count() int {
	return e.count
}
