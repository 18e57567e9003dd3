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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lymdgit/kvstore-go/internal/config"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadParsesFileAndOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvstore.toml")
	require.NoError(t, writeFile(path, `
listen = "0.0.0.0:7000"
metrics_addr = ""
skiplist_seed = 99

[engines]
array = true
rbtree = false
hash = true
skiplist = false
btree = true
`))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:7000", cfg.Listen)
	require.Equal(t, "", cfg.MetricsAddr)
	require.Equal(t, int64(99), cfg.SkipListSeed)

	enabled := cfg.Enabled()
	require.True(t, enabled.Array)
	require.False(t, enabled.RBTree)
	require.True(t, enabled.Hash)
	require.False(t, enabled.SkipList)
	require.True(t, enabled.BTree)
	require.Equal(t, int64(99), enabled.SkipListSeed)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
