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

package dispatcher_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lymdgit/kvstore-go/dispatcher"
	"github.com/lymdgit/kvstore-go/kv/registry"
)

func newDispatcher() *dispatcher.Dispatcher {
	reg := registry.New(registry.AllEnabled())
	return dispatcher.New(reg, nil)
}

func TestBTreeRoundTripAndCount(t *testing.T) {
	d := newDispatcher()

	require.Equal(t, "SUCCESS", d.Dispatch("BSET foo bar"))
	require.Equal(t, "bar", d.Dispatch("BGET foo"))
	require.Equal(t, "1", d.Dispatch("BCOUNT"))
}

func TestSetOverwrite(t *testing.T) {
	d := newDispatcher()

	require.Equal(t, "SUCCESS", d.Dispatch("SET foo bar"))
	require.Equal(t, "SUCCESS", d.Dispatch("SET foo baz"))
	require.Equal(t, "baz", d.Dispatch("GET foo"))
	require.Equal(t, "1", d.Dispatch("COUNT"))
}

func TestDeleteThenGetNoExist(t *testing.T) {
	d := newDispatcher()

	require.Equal(t, "SUCCESS", d.Dispatch("SET foo bar"))
	require.Equal(t, "SUCCESS", d.Dispatch("DEL foo"))
	require.Equal(t, "NO EXIST", d.Dispatch("GET foo"))
}

func TestDeleteAbsentKey(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "NO EXIST", d.Dispatch("DEL missing"))
}

// TestInsertThenDeleteMiddleKeyScenario mirrors the B-tree engine unit
// test's scenario through the dispatcher's line protocol: insert k01..k50,
// delete k25, and check the rest survive.
func TestInsertThenDeleteMiddleKeyScenario(t *testing.T) {
	d := newDispatcher()
	for i := 1; i <= 50; i++ {
		key := fmt.Sprintf("k%02d", i)
		require.Equal(t, "SUCCESS", d.Dispatch(fmt.Sprintf("BSET %s v%02d", key, i)))
	}
	require.Equal(t, "SUCCESS", d.Dispatch("BDEL k25"))
	require.Equal(t, "NO EXIST", d.Dispatch("BGET k25"))
	require.Equal(t, "49", d.Dispatch("BCOUNT"))

	for i := 1; i <= 50; i++ {
		if i == 25 {
			continue
		}
		key := fmt.Sprintf("k%02d", i)
		require.Equal(t, fmt.Sprintf("v%02d", i), d.Dispatch(fmt.Sprintf("BGET %s", key)))
	}
}

// TestCrossEnginePrefixesAreIndependent checks that the same key under
// different engine prefixes resolves to independent stores.
func TestCrossEnginePrefixesAreIndependent(t *testing.T) {
	d := newDispatcher()

	require.Equal(t, "SUCCESS", d.Dispatch("SET shared array-value"))
	require.Equal(t, "SUCCESS", d.Dispatch("HSET shared hash-value"))
	require.Equal(t, "SUCCESS", d.Dispatch("RSET shared rbtree-value"))

	require.Equal(t, "array-value", d.Dispatch("GET shared"))
	require.Equal(t, "hash-value", d.Dispatch("HGET shared"))
	require.Equal(t, "rbtree-value", d.Dispatch("RGET shared"))

	require.Equal(t, "NO EXIST", d.Dispatch("SGET shared"))
	require.Equal(t, "NO EXIST", d.Dispatch("BGET shared"))
}

func TestUnknownVerbIsError(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "ERROR", d.Dispatch("FOO x"))
}

func TestUnknownPrefixIsError(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "ERROR", d.Dispatch("ZSET foo bar"))
}

func TestWrongArgumentCountIsError(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "ERROR", d.Dispatch("SET onlykey"))
	require.Equal(t, "ERROR", d.Dispatch("GET"))
}

func TestEmptyLineIsError(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "ERROR", d.Dispatch(""))
	require.Equal(t, "ERROR", d.Dispatch("   "))
}

func TestModifyRequiresExistingKey(t *testing.T) {
	d := newDispatcher()
	require.Equal(t, "NO EXIST", d.Dispatch("MOD missing v"))

	require.Equal(t, "SUCCESS", d.Dispatch("SET foo bar"))
	require.Equal(t, "SUCCESS", d.Dispatch("MOD foo baz"))
	require.Equal(t, "baz", d.Dispatch("GET foo"))
}

// observerSpy records every command dispatched, for testing that the
// Observer hook used by internal/metrics fires with the expected values.
type observerSpy struct {
	prefixes []registry.Prefix
	verbs    []string
	replies  []string
}

func (o *observerSpy) ObserveCommand(prefix registry.Prefix, v string, reply string) {
	o.prefixes = append(o.prefixes, prefix)
	o.verbs = append(o.verbs, v)
	o.replies = append(o.replies, reply)
}

func TestObserverReceivesEveryDispatchedCommand(t *testing.T) {
	reg := registry.New(registry.AllEnabled())
	spy := &observerSpy{}
	d := dispatcher.New(reg, spy)

	require.Equal(t, "SUCCESS", d.Dispatch("SET foo bar"))
	require.Equal(t, "bar", d.Dispatch("GET foo"))

	require.Equal(t, []string{"SET", "GET"}, spy.verbs)
	require.Equal(t, []string{"SUCCESS", "bar"}, spy.replies)
	require.Equal(t, []registry.Prefix{registry.PrefixArray, registry.PrefixArray}, spy.prefixes)
}
