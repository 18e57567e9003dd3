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

// Package dispatcher implements the stateless command dispatcher (spec
// §4.8, C8): tokenize a request line, resolve it to (engine, verb), invoke
// the engine operation, and format the reply line.
package dispatcher

import (
	"strconv"
	"sync"

	"github.com/lymdgit/kvstore-go/kv"
	"github.com/lymdgit/kvstore-go/kv/registry"
)

// verb identifies one of the five operation families, independent of
// engine prefix.
type verb int

const (
	verbSet verb = iota
	verbGet
	verbDel
	verbMod
	verbCount
)

// verbRoots maps the verb suffix of a request's first token to its verb
// and the number of tokens required (verb + args), per the table in spec
// §4.8. Built once at package init and resolved by map lookup rather than
// the source's linear scan over a commands[] array (Design Notes §9).
var verbRoots = map[string]struct {
	verb        verb
	requiredLen int
}{
	"SET":   {verbSet, 3},
	"GET":   {verbGet, 2},
	"DEL":   {verbDel, 2},
	"MOD":   {verbMod, 3},
	"COUNT": {verbCount, 1},
}

// Reply literals (spec §6).
const (
	replySuccess = "SUCCESS"
	replyFailed  = "FAILED"
	replyError   = "ERROR"
	replyNoExist = "NO EXIST"
)

// Dispatcher is the stateless (spec §4.8: "holds no buffers of its own")
// command router. It is safe for concurrent use: Dispatch serializes
// access to the registry with a single mutex, satisfying spec §5's
// requirement that a multi-threaded transport "must serialize command
// execution ... before entering the dispatcher" - here, inside it, so
// every transport gets the guarantee for free.
type Dispatcher struct {
	registry *registry.Registry
	observer Observer
	mu       sync.Mutex
}

// Observer receives one notification per dispatched command, used by
// internal/metrics to count commands and reply kinds without the
// dispatcher importing a metrics package directly.
type Observer interface {
	ObserveCommand(prefix registry.Prefix, v string, reply string)
}

type noopObserver struct{}

func (noopObserver) ObserveCommand(registry.Prefix, string, string) {}

// New returns a Dispatcher bound to reg. A nil observer is replaced with a
// no-op.
func New(reg *registry.Registry, observer Observer) *Dispatcher {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Dispatcher{registry: reg, observer: observer}
}

// Dispatch parses one request line and returns one reply line, per spec
// §6 ("one request produces exactly one reply line"). It never panics on
// malformed input; the only panic path is an internal assertion failure
// (spec §7) that tokenization itself should make unreachable.
func (d *Dispatcher) Dispatch(line string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	tokens := tokenize(line)
	if len(tokens) == 0 {
		return replyError
	}

	prefix, root, ok := splitVerb(tokens[0])
	if !ok {
		return replyError
	}
	spec, ok := verbRoots[root]
	if !ok {
		return replyError
	}
	if len(tokens) != spec.requiredLen {
		return replyError
	}

	engine, ok := d.registry.Resolve(prefix)
	if !ok {
		return replyError
	}

	reply := d.invoke(engine, spec.verb, tokens)
	d.observer.ObserveCommand(prefix, root, reply)
	return reply
}

// splitVerb extracts the engine-prefix letter from a verb token (spec
// §4.7, §6's grammar "(A|R|H|S|B)?(SET|GET|DEL|MOD|COUNT)"). The empty
// prefix selects the array engine.
func splitVerb(token string) (registry.Prefix, string, bool) {
	for _, root := range []string{"SET", "GET", "DEL", "MOD", "COUNT"} {
		if token == root {
			return registry.PrefixArray, root, true
		}
		if len(token) == len(root)+1 && token[1:] == root {
			switch token[0] {
			case 'R', 'H', 'S', 'B':
				return registry.Prefix(token[0]), root, true
			}
		}
	}
	return 0, "", false
}

func (d *Dispatcher) invoke(engine kv.Engine, v verb, tokens []string) string {
	switch v {
	case verbSet:
		switch engine.Set(tokens[1], tokens[2]) {
		case kv.StatusSuccess:
			return replySuccess
		case kv.StatusError:
			return replyError
		default:
			return replyFailed
		}
	case verbGet:
		value, status := engine.Get(tokens[1])
		if status == kv.StatusSuccess {
			return value
		}
		return replyNoExist
	case verbDel:
		switch engine.Delete(tokens[1]) {
		case kv.StatusSuccess:
			return replySuccess
		case kv.StatusNotFound:
			return replyNoExist
		default:
			return replyError
		}
	case verbMod:
		switch engine.Modify(tokens[1], tokens[2]) {
		case kv.StatusSuccess:
			return replySuccess
		case kv.StatusNotFound:
			return replyNoExist
		default:
			return replyError
		}
	case verbCount:
		return strconv.Itoa(engine.Count())
	default:
		// Unreachable: verbRoots only ever produces the cases above (spec
		// §7, "internal assertion (impossible cases): fatal").
		panic("dispatcher: unknown verb slipped through dispatch table")
	}
}
