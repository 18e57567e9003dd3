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

// Package rbtree implements the R-prefixed engine: a classical red-black
// tree keyed by lexicographic string compare, with a shared sentinel nil
// node (spec §4.4).
package rbtree

import (
	"github.com/lymdgit/kvstore-go/kv"
)

type color bool

const (
	red   color = true
	black color = false
)

type node struct {
	entry               kv.Entry
	color               color
	left, right, parent *node
}

// Engine is a red-black tree ordered by key. In-order traversal visits
// keys in strictly ascending lexicographic order.
type Engine struct {
	nilNode *node
	root    *node
	count   int
}

// New returns an empty red-black tree engine.
func New() *Engine {
	sentinel := &node{color: black}
	sentinel.left, sentinel.right, sentinel.parent = sentinel, sentinel, sentinel
	return &Engine{nilNode: sentinel, root: sentinel}
}

var _ kv.Engine = (*Engine)(nil)

func (e *Engine) find(key string) *node {
	n := e.root
	for n != e.nilNode {
		switch {
		case key == n.entry.Key:
			return n
		case key < n.entry.Key:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

func (e *Engine) rotateLeft(x *node) {
	y := x.right
	x.right = y.left
	if y.left != e.nilNode {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == e.nilNode:
		e.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (e *Engine) rotateRight(x *node) {
	y := x.left
	x.left = y.right
	if y.right != e.nilNode {
		y.right.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == e.nilNode:
		e.root = y
	case x == x.parent.right:
		x.parent.right = y
	default:
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (e *Engine) insertFixup(z *node) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			uncle := z.parent.parent.right
			if uncle.color == red {
				z.parent.color = black
				uncle.color = black
				z.parent.parent.color = red
				z = z.parent.parent
				continue
			}
			if z == z.parent.right {
				z = z.parent
				e.rotateLeft(z)
			}
			z.parent.color = black
			z.parent.parent.color = red
			e.rotateRight(z.parent.parent)
		} else {
			uncle := z.parent.parent.left
			if uncle.color == red {
				z.parent.color = black
				uncle.color = black
				z.parent.parent.color = red
				z = z.parent.parent
				continue
			}
			if z == z.parent.left {
				z = z.parent
				e.rotateRight(z)
			}
			z.parent.color = black
			z.parent.parent.color = red
			e.rotateLeft(z.parent.parent)
		}
	}
	e.root.color = black
}

func (e *Engine) Set(key, value string) kv.Status {
	entry, err := kv.NewEntry(key, value)
	if err != nil {
		return kv.StatusError
	}
	if n := e.find(key); n != nil {
		n.entry.Value = entry.Value
		return kv.StatusSuccess
	}
	e.insert(entry)
	return kv.StatusSuccess
}

func (e *Engine) insert(entry kv.Entry) {
	var parent *node = e.nilNode
	cur := e.root
	for cur != e.nilNode {
		parent = cur
		if entry.Key < cur.entry.Key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	z := &node{entry: entry, color: red, left: e.nilNode, right: e.nilNode, parent: parent}
	switch {
	case parent == e.nilNode:
		e.root = z
	case entry.Key < parent.entry.Key:
		parent.left = z
	default:
		parent.right = z
	}
	e.count++
	e.insertFixup(z)
}

func (e *Engine) Get(key string) (string, kv.Status) {
	if n := e.find(key); n != nil {
		return n.entry.Value, kv.StatusSuccess
	}
	return "", kv.StatusNotFound
}

func (e *Engine) Modify(key, value string) kv.Status {
	if key == "" || value == "" {
		return kv.StatusError
	}
	n := e.find(key)
	if n == nil {
		return kv.StatusNotFound
	}
	n.entry.Value = value
	return kv.StatusSuccess
}

func (e *Engine) minimum(n *node) *node {
	for n.left != e.nilNode {
		n = n.left
	}
	return n
}

func (e *Engine) transplant(u, v *node) {
	switch {
	case u.parent == e.nilNode:
		e.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	v.parent = u.parent
}

func (e *Engine) Delete(key string) kv.Status {
	z := e.find(key)
	if z == nil {
		return kv.StatusNotFound
	}
	e.deleteNode(z)
	e.count--
	return kv.StatusSuccess
}

func (e *Engine) deleteNode(z *node) {
	y := z
	yOriginalColor := y.color
	var x *node

	switch {
	case z.left == e.nilNode:
		x = z.right
		e.transplant(z, z.right)
	case z.right == e.nilNode:
		x = z.left
		e.transplant(z, z.left)
	default:
		y = e.minimum(z.right)
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			e.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		e.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	if yOriginalColor == black {
		e.deleteFixup(x)
	}
}

func (e *Engine) deleteFixup(x *node) {
	for x != e.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				e.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
				continue
			}
			if w.right.color == black {
				w.left.color = black
				w.color = red
				e.rotateRight(w)
				w = x.parent.right
			}
			w.color = x.parent.color
			x.parent.color = black
			w.right.color = black
			e.rotateLeft(x.parent)
			x = e.root
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				e.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
				continue
			}
			if w.left.color == black {
				w.right.color = black
				w.color = red
				e.rotateLeft(w)
				w = x.parent.left
			}
			w.color = x.parent.color
			x.parent.color = black
			w.left.color = black
			e.rotateRight(x.parent)
			x = e.root
		}
	}
	x.color = black
}

func (e *Engine) Count() int {
	return e.count
}

// Keys returns every key in ascending lexicographic order, for testing the
// ordering invariant (spec §8).
func (e *Engine) Keys() []string {
	keys := make([]string, 0, e.count)
	var walk func(*node)
	walk = func(n *node) {
		if n == e.nilNode {
			return
		}
		walk(n.left)
		keys = append(keys, n.entry.Key)
		walk(n.right)
	}
	walk(e.root)
	return keys
}
