// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/moygit/keymaster/internal/model"
	"github.com/uptrace/bun"
)

// EntryModel is the Bun row for the passwords table.
type EntryModel struct {
	bun.BaseModel `bun:"table:passwords"`
	Nickname      string `bun:"nickname"`
	Username      string `bun:"username"`
	Hostname      string `bun:"hostname"`
	SpecialChar   bool   `bun:"special_char"`
	Base          int    `bun:"base"`
	Iteration     int    `bun:"iteration"`
	Hint          string `bun:"hint"`
	Start         int    `bun:"start"`
	Finish        int    `bun:"finish"`
}

func entryModelToModel(m EntryModel) model.Entry {
	return model.Entry{
		Nickname:     m.Nickname,
		Username:     m.Username,
		Hostname:     m.Hostname,
		SpecialChars: m.SpecialChar,
		Base:         model.Base(m.Base),
		Iteration:    m.Iteration,
		Hint:         m.Hint,
		Start:        m.Start,
		End:          m.Finish,
	}
}

func modelToEntryModel(e model.Entry) EntryModel {
	return EntryModel{
		Nickname:    e.Nickname,
		Username:    e.Username,
		Hostname:    e.Hostname,
		SpecialChar: e.SpecialChars,
		Base:        int(e.Base),
		Iteration:   e.Iteration,
		Hint:        e.Hint,
		Start:       e.Start,
		Finish:      e.End,
	}
}

// BunStore implements Store on top of a long-lived *bun.DB.
type BunStore struct {
	bun    *bun.DB
	dbType string

	closeOnce sync.Once
	closeErr  error
}

// Type reports the backend type the store was opened with.
func (s *BunStore) Type() string { return s.dbType }

// BunDB exposes the underlying Bun handle for maintenance helpers and tests.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

func (s *BunStore) LoadAll(ctx context.Context) (map[string]model.Entry, error) {
	var rows []EntryModel
	if err := s.bun.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	out := make(map[string]model.Entry, len(rows))
	for _, r := range rows {
		out[r.Nickname] = entryModelToModel(r)
	}
	dbLogf("loaded %d entries", len(out))
	return out, nil
}

func (s *BunStore) ListNicknames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.bun.NewSelect().Model((*EntryModel)(nil)).Column("nickname").Scan(ctx, &names); err != nil {
		return nil, fmt.Errorf("failed to list nicknames: %w", err)
	}
	// Collation differs between backends; sort here for a stable byte order.
	sort.Strings(names)
	return names, nil
}

func (s *BunStore) Get(ctx context.Context, nickname string) (model.Entry, error) {
	var m EntryModel
	err := s.bun.NewSelect().Model(&m).Where("nickname = ?", nickname).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, fmt.Errorf("entry %q: %w", nickname, ErrNotFound)
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to get entry %q: %w", nickname, err)
	}
	return entryModelToModel(m), nil
}

func (s *BunStore) Create(ctx context.Context, e model.Entry) error {
	return insertEntry(ctx, s.bun, e)
}

func (s *BunStore) Update(ctx context.Context, oldNickname string, e model.Entry) error {
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteEntry(ctx, tx, oldNickname); err != nil {
			return err
		}
		return insertEntry(ctx, tx, e)
	})
}

func (s *BunStore) Delete(ctx context.Context, nickname string) error {
	return deleteEntry(ctx, s.bun, nickname)
}

func (s *BunStore) ReplaceAll(ctx context.Context, entries []model.Entry) error {
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM passwords"); err != nil {
			return fmt.Errorf("failed to clear passwords: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		rows := make([]EntryModel, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, modelToEntryModel(e))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert entries: %w", MapDBError(err))
		}
		return nil
	})
}

func (s *BunStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.bun.Close()
	})
	return s.closeErr
}

func insertEntry(ctx context.Context, idb bun.IDB, e model.Entry) error {
	m := modelToEntryModel(e)
	if _, err := idb.NewInsert().Model(&m).Exec(ctx); err != nil {
		if mapped := MapDBError(err); errors.Is(mapped, ErrDuplicate) {
			return fmt.Errorf("entry %q: %w", e.Nickname, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert entry %q: %w", e.Nickname, err)
	}
	return nil
}

func deleteEntry(ctx context.Context, idb bun.IDB, nickname string) error {
	res, err := idb.NewDelete().Model((*EntryModel)(nil)).Where("nickname = ?", nickname).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete entry %q: %w", nickname, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %q: %w", nickname, ErrNotFound)
	}
	return nil
}
