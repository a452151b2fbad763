// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/moygit/keymaster/internal/model"
)

// memDSN returns a shared-cache in-memory DSN unique to the running test.
func memDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:memdb_%s?mode=memory&cache=shared", name)
}

// newTestStore opens an empty in-memory store that is closed on cleanup.
func newTestStore(t *testing.T) *BunStore {
	t.Helper()
	s, err := Open(context.Background(), Options{Type: TypeSqlite, DSN: memDSN(t)}, false)
	if err != nil {
		t.Fatalf("Open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(nick, user, host string) model.Entry {
	e := model.NewEntry(nick)
	e.Username = user
	e.Hostname = host
	return e
}
