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

// Package config loads the TOML file that selects which engines are
// compiled in and which address the reference transport listens on - the
// config-time substitute for the source's ENABLE_*_KVENGINE build flags
// (spec §4.7, §4.9; SPEC_FULL.md §4.7).
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lymdgit/kvstore-go/kv/registry"
)

// Engines lists which engine is opt-in, keyed the same way TOML keys it.
type Engines struct {
	Array    bool `toml:"array"`
	RBTree   bool `toml:"rbtree"`
	Hash     bool `toml:"hash"`
	SkipList bool `toml:"skiplist"`
	BTree    bool `toml:"btree"`
}

// Config is the top-level shape of kvstore.toml.
type Config struct {
	Listen       string  `toml:"listen"`
	Engines      Engines `toml:"engines"`
	SkipListSeed int64   `toml:"skiplist_seed"`
	MetricsAddr  string  `toml:"metrics_addr"`
}

// Default returns the configuration used when no file is supplied: every
// engine enabled, listening on localhost:6380.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:6380",
		Engines: Engines{
			Array: true, RBTree: true, Hash: true, SkipList: true, BTree: true,
		},
		MetricsAddr: "127.0.0.1:9090",
	}
}

// Load reads and parses a TOML config file at path. A path of "" returns
// Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Enabled converts the config's engine selection into the registry's
// construction parameters.
func (c Config) Enabled() registry.Enabled {
	return registry.Enabled{
		Array:        c.Engines.Array,
		RBTree:       c.Engines.RBTree,
		Hash:         c.Engines.Hash,
		SkipList:     c.Engines.SkipList,
		BTree:        c.Engines.BTree,
		SkipListSeed: c.SkipListSeed,
	}
}
