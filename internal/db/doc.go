// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides durable CRUD over password entries.
//
// A store is opened with Open (or recreated with Create) and released with
// Close. All access goes through a long-lived *bun.DB; the dialect is chosen
// from Options.Type ("sqlite", "postgres", "mysql").
//
// Schema
//   - One table, `passwords`, with the nine entry columns in storage order.
//   - There is no migration mechanism. Create drops and recreates the table
//     from the embedded schema/<type>.sql file.
//   - Nicknames carry a UNIQUE constraint; inserting a duplicate returns
//     ErrDuplicate.
//
// Testing notes
//   - Use Open with a "file:<name>?mode=memory&cache=shared" DSN for real
//     sqlite semantics without touching disk.
//   - sqlOpenFunc can be replaced to hand the package a sqlmock connection.
package db
