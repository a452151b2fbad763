// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/moygit/keymaster/internal/backup"
	"github.com/moygit/keymaster/internal/config"
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/db"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/logging"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new, empty password database",
		Long: `Creates the passwords table in the configured store. If a store already
exists you are asked before it is recreated, since every entry is lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd)
			opts := storeOptions()

			st, err := db.Open(ctx, opts, false)
			switch {
			case err == nil:
				_ = st.Close()
				fallthrough
			case errors.Is(err, db.ErrSchema):
				if !force {
					p.println(i18n.T("init.exists", describeStore(opts)))
					ok, err := p.confirm(i18n.T("init.confirm"))
					if err != nil {
						return err
					}
					if !ok {
						p.println(i18n.T("common.cancelled"))
						return nil
					}
				}
			case errors.Is(err, db.ErrNotFound):
			default:
				return err
			}

			st, err = db.Create(ctx, opts)
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return err
			}
			p.println(i18n.T("init.done", describeStore(opts)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Recreate an existing store without asking")
	return cmd
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of all entries",
		Long: `Dumps every entry into a single, Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, a default filename 'keymaster-backup-YYYY-MM-DD.json.zst' is used.

The backup holds metadata only; derived passwords are never stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			outputFile := fmt.Sprintf("keymaster-backup-%s.json.zst", now.Format("2006-01-02"))
			if len(args) > 0 {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				p.println(i18n.T("backup.cli_starting"))
				entries := sess.Entries()
				outf, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("could not create file: %w", err)
				}
				if err := backup.Write(outf, backup.New(entries, now)); err != nil {
					_ = outf.Close()
					return err
				}
				if err := outf.Close(); err != nil {
					return err
				}
				p.println(i18n.T("backup.cli_success", len(entries), outputFile))
				return nil
			})
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Restore entries from a compressed JSON backup",
		Long: `By default, this command performs a non-destructive "integration" restore,
only adding entries whose nickname does not exist yet.

To perform a full, destructive restore that WIPES all existing entries before
importing, use the --full flag.

Example (Integrate):
  keymaster restore ./keymaster-backup-2026-03-01.json.zst

Example (Full Restore):
  keymaster restore --full ./keymaster-backup-2026-03-01.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				p.println(i18n.T("restore.cli_starting", inputFile))
				f, err := os.Open(inputFile)
				if err != nil {
					return fmt.Errorf("could not open file: %w", err)
				}
				defer func() { _ = f.Close() }()
				data, err := backup.Read(f)
				if err != nil {
					return err
				}
				if full {
					if err := sess.Replace(cmd.Context(), data.Entries); err != nil {
						return err
					}
					p.println(i18n.T("restore.cli_full", sess.Len()))
					return nil
				}
				added, err := sess.Integrate(cmd.Context(), data.Entries)
				if err != nil {
					return err
				}
				p.println(i18n.T("restore.cli_integrated", added))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Perform a full, destructive restore (wipes all existing entries first)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var targetType, targetDsn string
	cmd := &cobra.Command{
		Use:   "migrate --to-type <db-type> --to-dsn <target-dsn>",
		Short: "Copy all entries from the current store to a new one",
		Long: `Reads every entry from the configured store, (re)creates the passwords
table in the target store and writes the entries there.

Example:
  keymaster migrate --to-type postgres --to-dsn "postgres://keymaster@localhost/keymaster"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := db.Options{Type: targetType, DSN: targetDsn}
			if target.DSN == "" {
				return errors.New("--to-dsn is required")
			}
			return withSession(cmd, func(p *prompter, sess *core.Session) error {
				entries := sess.Entries()
				p.println(i18n.T("migrate.cli_starting", len(entries), target.Type))
				dst, err := db.Create(cmd.Context(), target)
				if err != nil {
					return err
				}
				defer func() { _ = dst.Close() }()
				if err := dst.ReplaceAll(cmd.Context(), entries); err != nil {
					return err
				}
				p.println(i18n.T("migrate.cli_success"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&targetType, "to-type", db.TypeSqlite, `Target database type ("sqlite", "postgres", "mysql")`)
	cmd.Flags().StringVar(&targetDsn, "to-dsn", "", "Target database path or DSN")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	var skipIntegrity bool
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd)
			opts := storeOptions()

			// Maintenance must never create a store as a side effect.
			st, err := db.Open(ctx, opts, false)
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return err
			}

			if skipIntegrity {
				p.println(i18n.T("maintain.skip_integrity"))
			}
			mopts := db.MaintenanceOptions{SkipIntegrity: skipIntegrity, Timeout: time.Duration(timeoutSec) * time.Second}
			start := time.Now()
			if err := db.RunDBMaintenance(ctx, opts, mopts); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			logging.Debugf("maintenance finished in %s", time.Since(start))
			p.println(i18n.T("maintain.success"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipIntegrity, "skip-integrity", false, "Skip integrity_check (SQLite) during maintenance")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout in seconds for maintenance (0 uses the default of two minutes)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or persist the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(&appConfig)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var system bool
	write := &cobra.Command{
		Use:   "write",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteConfigFile(&appConfig, system); err != nil {
				return err
			}
			path, err := config.GetConfigPath(system)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	write.Flags().BoolVar(&system, "system", false, "Write the system-wide file instead of the user file")

	cmd.AddCommand(show, write)
	return cmd
}
