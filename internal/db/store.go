// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/moygit/keymaster/internal/model"
)

// Store defines every operation on persisted entries. Every mutating call
// commits before it returns. The store performs no validation of field
// semantics beyond nickname uniqueness.
type Store interface {
	// LoadAll reads every entry into a fresh map keyed by nickname.
	LoadAll(ctx context.Context) (map[string]model.Entry, error)
	// ListNicknames returns all nicknames in ascending lexical order.
	ListNicknames(ctx context.Context) ([]string, error)
	// Get returns the entry stored under nickname or ErrNotFound.
	Get(ctx context.Context, nickname string) (model.Entry, error)

	Create(ctx context.Context, e model.Entry) error
	// Update deletes oldNickname and inserts e in one transaction, so the
	// nickname itself may change.
	Update(ctx context.Context, oldNickname string, e model.Entry) error
	Delete(ctx context.Context, nickname string) error
	// ReplaceAll wipes the table and inserts entries in one transaction.
	ReplaceAll(ctx context.Context, entries []model.Entry) error

	// Close releases the underlying connection. It is safe to call twice.
	Close() error
}

var _ Store = (*BunStore)(nil)
