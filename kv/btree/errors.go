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

package btree

import "fmt"

type errKeyCount int

func (e errKeyCount) Error() string {
	return fmt.Sprintf("btree: node holds %d keys, want %d..%d", int(e), minKeys, maxKeys)
}

type errChildCount int

func (e errChildCount) Error() string {
	return fmt.Sprintf("btree: internal node holds %d children, want n+1", int(e))
}

type errUnsorted struct{}

func (errUnsorted) Error() string { return "btree: keys out of order within a node" }

type errUnequalDepth struct{}

func (errUnequalDepth) Error() string { return "btree: leaves at unequal depth" }
