// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/db"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/logging"
	"github.com/spf13/cobra"
)

// clipboardWriteAll is replaced in tests so they never touch the real clipboard.
var clipboardWriteAll = clipboard.WriteAll

func storeOptions() db.Options {
	return db.Options{Type: appConfig.Database.Type, DSN: appConfig.Database.Dsn}
}

// describeStore names the store for messages without leaking server DSNs,
// which may carry credentials.
func describeStore(opts db.Options) string {
	if opts.Type == "" || opts.Type == db.TypeSqlite {
		return opts.DSN
	}
	return opts.Type
}

// openSession opens the configured store and loads it into a session. A
// missing store is only created after the user agrees; declining leaves no
// trace on disk and fails the command.
func openSession(cmd *cobra.Command, p *prompter) (*core.Session, error) {
	ctx := cmd.Context()
	opts := storeOptions()

	st, err := db.Open(ctx, opts, false)
	if errors.Is(err, db.ErrNotFound) {
		p.println(i18n.T("store.missing"))
		ok, perr := p.confirm(i18n.T("store.create_prompt"))
		if perr != nil || !ok {
			return nil, errors.New(i18n.T("store.error_opening"))
		}
		if st, err = db.Open(ctx, opts, true); err == nil {
			p.println(i18n.T("store.created", describeStore(opts)))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i18n.T("store.error_opening"), err)
	}

	sess, err := core.NewSession(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	logging.Debugf("session: loaded %d entries from %s store", sess.Len(), opts.Type)
	return sess, nil
}

// withSession runs fn with an open session and always closes it afterwards.
func withSession(cmd *cobra.Command, fn func(p *prompter, sess *core.Session) error) error {
	p := newPrompter(cmd)
	sess, err := openSession(cmd, p)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	return fn(p, sess)
}

func nicknameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
