// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/moygit/keymaster/internal/model"
)

func TestStore_CreateListGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bob := entry("bob", "b", "y.org")
	bob.SpecialChars = true
	bob.Base = model.Base64
	bob.Iteration = 4
	bob.Hint = "old one"
	bob.Start = 3
	bob.End = 20

	for _, e := range []model.Entry{bob, entry("alice", "a", "x.com")} {
		if err := s.Create(ctx, e); err != nil {
			t.Fatalf("Create(%s): %v", e.Nickname, err)
		}
	}

	names, err := s.ListNicknames(ctx)
	if err != nil {
		t.Fatalf("ListNicknames: %v", err)
	}
	if want := []string{"alice", "bob"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("ListNicknames = %v, want %v", names, want)
	}

	got, err := s.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("Get(bob): %v", err)
	}
	if got != bob {
		t.Fatalf("Get(bob) = %v, want %v", got, bob)
	}

	all, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 2 || all["alice"].Hostname != "x.com" {
		t.Fatalf("LoadAll unexpected result: %v", all)
	}
}

func TestStore_EmptyList(t *testing.T) {
	s := newTestStore(t)
	names, err := s.ListNicknames(context.Background())
	if err != nil {
		t.Fatalf("ListNicknames: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no nicknames, got %v", names)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Create(ctx, entry("alice", "a", "x.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create(ctx, entry("alice", "other", "z.com"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_UpdateRenames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Create(ctx, entry("alice", "a", "x.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	renamed := entry("alicia", "a", "x.com")
	renamed.Iteration = 2
	if err := s.Update(ctx, "alice", renamed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old nickname gone, got %v", err)
	}
	got, err := s.Get(ctx, "alicia")
	if err != nil {
		t.Fatalf("Get(alicia): %v", err)
	}
	if got.Iteration != 2 {
		t.Fatalf("expected iteration 2, got %d", got.Iteration)
	}
}

func TestStore_UpdateInPlace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Create(ctx, entry("alice", "a", "x.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	e := entry("alice", "a", "x.com")
	e.Hint = "rotated"
	if err := s.Update(ctx, "alice", e); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Get(ctx, "alice")
	if got.Hint != "rotated" {
		t.Fatalf("expected hint to be updated, got %q", got.Hint)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), "ghost", entry("ghost", "g", "h"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateIntoExistingRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_ = s.Create(ctx, entry("alice", "a", "x.com"))
	_ = s.Create(ctx, entry("bob", "b", "y.org"))

	err := s.Update(ctx, "alice", entry("bob", "a", "x.com"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.Get(ctx, "alice"); err != nil {
		t.Fatalf("alice should survive a failed update: %v", err)
	}
	bob, _ := s.Get(ctx, "bob")
	if bob.Username != "b" {
		t.Fatalf("bob should be untouched, got %v", bob)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_ = s.Create(ctx, entry("alice", "a", "x.com"))
	_ = s.Create(ctx, entry("bob", "b", "y.org"))

	if err := s.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	names, _ := s.ListNicknames(ctx)
	if !reflect.DeepEqual(names, []string{"bob"}) {
		t.Fatalf("expected [bob], got %v", names)
	}
	if err := s.Delete(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_ = s.Create(ctx, entry("old", "o", "o.net"))

	if err := s.ReplaceAll(ctx, []model.Entry{entry("a", "1", "h"), entry("b", "2", "h")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	names, _ := s.ListNicknames(ctx)
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("unexpected nicknames after ReplaceAll: %v", names)
	}

	if err := s.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("ReplaceAll(nil): %v", err)
	}
	names, _ = s.ListNicknames(ctx)
	if len(names) != 0 {
		t.Fatalf("expected empty store, got %v", names)
	}
}

func TestStore_CloseTwice(t *testing.T) {
	s, err := Open(context.Background(), Options{Type: TypeSqlite, DSN: memDSN(t)}, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
