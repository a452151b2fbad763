// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/db"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/logging"
	"github.com/moygit/keymaster/internal/model"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [nickname]",
		Short: "Create a new password entry",
		Long: `Prompts for the metadata of a new site (username, hostname, encoding,
iteration, hint and character window) and stores it under a unique nickname.
Pressing enter accepts the default shown in brackets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				e, err := p.readEntry(sess, model.NewEntry(""), nicknameArg(args), "")
				if err != nil {
					return err
				}
				if err := sess.Create(cmd.Context(), e); err != nil {
					return err
				}
				p.println(i18n.T("entry.saved", e.Nickname))
				return nil
			})
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [nickname]",
		Short: "Update an existing password entry",
		Long: `Shows the selected entry and prompts for new values, offering the current
ones as defaults. The nickname itself may change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				old, err := p.selectEntry(sess, nicknameArg(args))
				if err != nil {
					return err
				}
				p.println(i18n.T("update.about"))
				p.println(old.String())
				p.println(i18n.T("update.enter_new"))
				e, err := p.readEntry(sess, old, "", old.Nickname)
				if err != nil {
					return err
				}
				if err := sess.Update(cmd.Context(), old.Nickname, e); err != nil {
					return err
				}
				p.println(i18n.T("entry.saved", e.Nickname))
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list [nickname]",
		Short: "List details of an existing password entry (or all)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				if nick := nicknameArg(args); nick != "" {
					if e, ok := sess.Lookup(nick); ok {
						p.println(e.String())
					} else {
						p.errorln(i18n.T("nick.not_found", nick))
					}
					return nil
				}

				entries := sess.Entries()
				tokens := db.SearchTokens(search)
				if len(tokens) == 0 {
					p.printEntries(entries)
					return nil
				}
				keep := make(map[string]bool)
				for _, e := range db.FilterEntries(entries, tokens) {
					keep[e.Nickname] = true
				}
				if len(keep) == 0 {
					p.errorln(i18n.T("entry.no_matches", search))
					return nil
				}
				// Positions stay those of the full list so they can be used
				// at a "Choose identity" prompt.
				for i, e := range entries {
					if keep[e.Nickname] {
						p.printf("%d: %s\n", i+1, e)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list entries whose nickname, username, hostname or hint contain every word")
	return cmd
}

func newHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint [nickname]",
		Short: "Get the hint for an existing password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				e, err := p.selectEntry(sess, nicknameArg(args))
				if err != nil {
					return err
				}
				p.println(i18n.T("hint.show", e.Hint))
				return nil
			})
		},
	}
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [nickname]",
		Short: "Get an existing password",
		Long: `Asks for the proto-password twice (without echo) and prints the derived
password. With --copy, or clipboard: true in the config file, the password
is copied to the clipboard instead of being printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				e, err := p.selectEntry(sess, nicknameArg(args))
				if err != nil {
					return err
				}
				proto, err := p.readProto()
				if err != nil {
					return err
				}
				defer proto.Zero()

				pw, err := sess.Derive(e.Nickname, proto)
				if err != nil {
					return err
				}
				logging.Debugf("derived password for %s", e.Nickname)
				if appConfig.Clipboard {
					err := clipboardWriteAll(pw)
					if err == nil {
						p.println(i18n.T("get.copied"))
						return nil
					}
					p.errorln(i18n.T("get.copy_failed", err))
				}
				p.println(i18n.T("get.password", pw))
				return nil
			})
		},
	}
	cmd.Flags().BoolP("copy", "c", false, "Copy the password to the clipboard instead of printing it")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [nickname]",
		Short: "Delete an existing password entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				e, err := p.selectEntry(sess, nicknameArg(args))
				if err != nil {
					return err
				}
				if !yes {
					ok, err := p.confirm(i18n.T("delete.confirm", e.Nickname))
					if err != nil {
						return err
					}
					if !ok {
						p.println(i18n.T("common.cancelled"))
						return nil
					}
				}
				if err := sess.Delete(cmd.Context(), e.Nickname); err != nil {
					return err
				}
				p.println(i18n.T("entry.deleted", e.Nickname))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}
