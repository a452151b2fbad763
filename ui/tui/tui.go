// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/logging"
)

// newProgram is swapped in tests to run without a terminal.
var newProgram = func(ctx context.Context, m tea.Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Run shows the list view until the user quits. A clipboard that received a
// password is cleared on the way out.
func Run(ctx context.Context, sess *core.Session, opts Options) error {
	final, err := newProgram(ctx, New(ctx, sess, opts)).Run()
	if fm, ok := final.(Model); ok && fm.Copied() && opts.Clipboard != nil {
		if cerr := opts.Clipboard(""); cerr != nil {
			logging.Warnf("could not clear clipboard: %v", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
