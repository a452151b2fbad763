// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"testing"
)

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
	dups := []string{
		"constraint failed: UNIQUE constraint failed: passwords.nickname (2067)",
		"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)",
		"Error 1062 (23000): Duplicate entry 'alice' for key 'nickname'",
	}
	for _, msg := range dups {
		if got := MapDBError(errors.New(msg)); !errors.Is(got, ErrDuplicate) {
			t.Errorf("MapDBError(%q) = %v, want ErrDuplicate", msg, got)
		}
	}
	other := errors.New("disk I/O error")
	if got := MapDBError(other); got != other {
		t.Fatalf("unrelated error should pass through, got %v", got)
	}
}
