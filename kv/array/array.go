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

// Package array implements the default (no-prefix) engine: an unsorted
// dynamic array of entries with linear-scan lookup.
package array

import "github.com/lymdgit/kvstore-go/kv"

const initialCapacity = 16

// Engine is an unsorted vector of entries. Deletes swap the last live
// element into the vacated slot; there is no shrink.
type Engine struct {
	entries []kv.Entry
}

// New returns an empty array engine.
func New() *Engine {
	return &Engine{entries: make([]kv.Entry, 0, initialCapacity)}
}

var _ kv.Engine = (*Engine)(nil)

func (e *Engine) indexOf(key string) int {
	for i := range e.entries {
		if e.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Set inserts key/value, or overwrites the value if key already exists
// (spec §4.1: set always acts as upsert).
func (e *Engine) Set(key, value string) kv.Status {
	entry, err := kv.NewEntry(key, value)
	if err != nil {
		return kv.StatusError
	}
	if i := e.indexOf(key); i >= 0 {
		e.entries[i].Value = entry.Value
		return kv.StatusSuccess
	}
	e.entries = append(e.entries, entry)
	return kv.StatusSuccess
}

func (e *Engine) Get(key string) (string, kv.Status) {
	if i := e.indexOf(key); i >= 0 {
		return e.entries[i].Value, kv.StatusSuccess
	}
	return "", kv.StatusNotFound
}

// Delete removes key, swapping the last live entry into the vacated slot
// so the scan never needs to shift a tail (spec §4.2).
func (e *Engine) Delete(key string) kv.Status {
	i := e.indexOf(key)
	if i < 0 {
		return kv.StatusNotFound
	}
	last := len(e.entries) - 1
	e.entries[i] = e.entries[last]
	e.entries = e.entries[:last]
	return kv.StatusSuccess
}

func (e *Engine) Modify(key, value string) kv.Status {
	if key == "" || value == "" {
		return kv.StatusError
	}
	i := e.indexOf(key)
	if i < 0 {
		return kv.StatusNotFound
	}
	e.entries[i].Value = value
	return kv.StatusSuccess
}

func (e *Engine) Count() int {
	return len(e.entries)
}
