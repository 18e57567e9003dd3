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

package dispatcher

import "strings"

// maxTokens bounds how many space-separated tokens a single request line
// is split into (spec §4.8). No verb needs more than 3; the extra room
// just avoids a pathological line producing an unbounded slice.
const maxTokens = 128

// tokenize splits line on single-space separators, the wire format's only
// delimiter (spec §6: "no quoting, no escaping"). Tokens are substrings of
// line - no copying - mirroring the source's strtok-over-the-request-
// buffer borrow, valid only until the next request.
func tokenize(line string) []string {
	tokens := make([]string, 0, 4)
	for _, field := range strings.SplitN(line, " ", maxTokens) {
		if field == "" {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
