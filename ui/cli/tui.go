// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/ui/tui"
	"github.com/spf13/cobra"
)

// startTUI is replaced in tests, which have no terminal to draw on.
var startTUI = tui.Run

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse entries and derive passwords interactively",
		Long: `Opens a full-screen list of all nicknames. Type the proto-password,
pick an entry and press enter to derive it; the password is shown and copied
to the clipboard, which is cleared again on exit. ctrl+h shows the hint,
ctrl+d deletes the selected entry and esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
}

// runTUI is also the root command's default action.
func runTUI(cmd *cobra.Command) error {
	return withSession(cmd, func(p *prompter, sess *core.Session) error {
		return startTUI(cmd.Context(), sess, tui.Options{Clipboard: clipboardWriteAll})
	})
}
