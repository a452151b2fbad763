// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package core owns the in-memory view of the entry store for one front-end
// session and applies every mutation to both the store and that view.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/moygit/keymaster/internal/db"
	"github.com/moygit/keymaster/internal/derive"
	"github.com/moygit/keymaster/internal/model"
	"github.com/moygit/keymaster/internal/security"
)

var (
	// ErrMismatch is returned when two proto-password captures differ.
	ErrMismatch = errors.New("passwords do not match")
	// ErrInvalidNickname is returned for an empty nickname.
	ErrInvalidNickname = errors.New("nickname cannot be empty")
	// ErrNicknameInUse is returned when a nickname belongs to another entry.
	ErrNicknameInUse = errors.New("nickname already in use")
	// ErrOutOfRange is returned by At for a position outside the list.
	ErrOutOfRange = errors.New("position out of range")
)

// Session caches every entry of a store keyed by nickname.
type Session struct {
	store   db.Store
	entries map[string]model.Entry
}

// NewSession wraps store and loads its entries.
func NewSession(ctx context.Context, store db.Store) (*Session, error) {
	s := &Session{store: store}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the cached mapping with the store's current contents.
func (s *Session) Load(ctx context.Context) error {
	entries, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.entries = entries
	return nil
}

// Len reports how many entries are cached.
func (s *Session) Len() int { return len(s.entries) }

// Nicknames returns every nickname in ascending byte order.
func (s *Session) Nicknames() []string {
	names := make([]string, 0, len(s.entries))
	for n := range s.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns every entry sorted by nickname.
func (s *Session) Entries() []model.Entry {
	out := make([]model.Entry, 0, len(s.entries))
	for _, n := range s.Nicknames() {
		out = append(out, s.entries[n])
	}
	return out
}

func (s *Session) Lookup(nickname string) (model.Entry, bool) {
	e, ok := s.entries[nickname]
	return e, ok
}

// At returns the entry at 1-based position pos of the sorted nickname list.
func (s *Session) At(pos int) (model.Entry, error) {
	names := s.Nicknames()
	if pos < 1 || pos > len(names) {
		return model.Entry{}, fmt.Errorf("%w: %d (1..%d)", ErrOutOfRange, pos, len(names))
	}
	return s.entries[names[pos-1]], nil
}

// ValidateNickname checks that nickname is non-empty and unused. current is
// the nickname of the entry being edited, which may keep its own name; pass
// "" when creating.
func (s *Session) ValidateNickname(nickname, current string) error {
	if nickname == "" {
		return ErrInvalidNickname
	}
	if _, taken := s.entries[nickname]; taken && nickname != current {
		return fmt.Errorf("%w: %s", ErrNicknameInUse, nickname)
	}
	return nil
}

func (s *Session) Create(ctx context.Context, e model.Entry) error {
	if err := s.ValidateNickname(e.Nickname, ""); err != nil {
		return err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return err
	}
	s.entries[e.Nickname] = e
	return nil
}

// Update replaces the entry stored under oldNickname with e. The nickname
// may change as long as it does not collide with another entry.
func (s *Session) Update(ctx context.Context, oldNickname string, e model.Entry) error {
	if _, ok := s.entries[oldNickname]; !ok {
		return fmt.Errorf("entry %q: %w", oldNickname, db.ErrNotFound)
	}
	if err := s.ValidateNickname(e.Nickname, oldNickname); err != nil {
		return err
	}
	if err := s.store.Update(ctx, oldNickname, e); err != nil {
		return err
	}
	delete(s.entries, oldNickname)
	s.entries[e.Nickname] = e
	return nil
}

func (s *Session) Delete(ctx context.Context, nickname string) error {
	if err := s.store.Delete(ctx, nickname); err != nil {
		return err
	}
	delete(s.entries, nickname)
	return nil
}

// Integrate adds the entries whose nicknames are not present yet and
// reports how many were added.
func (s *Session) Integrate(ctx context.Context, entries []model.Entry) (int, error) {
	added := 0
	for _, e := range entries {
		if _, ok := s.entries[e.Nickname]; ok || e.Nickname == "" {
			continue
		}
		if err := s.Create(ctx, e); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Replace wipes the store and fills it with entries.
func (s *Session) Replace(ctx context.Context, entries []model.Entry) error {
	if err := s.store.ReplaceAll(ctx, entries); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Derive computes the password for the entry named nickname.
func (s *Session) Derive(nickname string, proto security.Secret) (string, error) {
	e, ok := s.entries[nickname]
	if !ok {
		return "", fmt.Errorf("entry %q: %w", nickname, db.ErrNotFound)
	}
	return derive.Password(proto.Reveal(), e), nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}

// ConfirmProto checks that the two captures of the proto-password agree.
func ConfirmProto(first, second security.Secret) error {
	if !first.Equal(second) {
		return ErrMismatch
	}
	return nil
}
