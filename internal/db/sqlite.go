// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteLocation extracts the file path from a sqlite DSN. memory is true
// for ":memory:" and "mode=memory" DSNs, which never exist on disk.
func sqliteLocation(dsn string) (path string, memory bool) {
	p, query, _ := strings.Cut(dsn, "?")
	for _, kv := range strings.Split(query, "&") {
		if kv == "mode=memory" {
			return "", true
		}
	}
	p = strings.TrimPrefix(p, "file:")
	if p == "" || p == ":memory:" {
		return "", true
	}
	return p, false
}
