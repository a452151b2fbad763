// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the store does not exist and creation was
	// declined, or when no entry has the requested nickname.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when inserting a nickname that already exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrSchema is returned when the backing database exists but does not
	// hold a usable passwords table.
	ErrSchema = errors.New("schema mismatch")

	// ErrUnsupported is returned for an unknown database type.
	ErrUnsupported = errors.New("unsupported database type")
)

// MapDBError inspects low-level driver errors and maps unique constraint
// violations to ErrDuplicate. The mapping is string based so this file does
// not depend on any particular driver's error types.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
