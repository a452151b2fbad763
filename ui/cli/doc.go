// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Keymaster using Cobra.
// It wires configuration, logging and localization, opens the entry store and
// hands a core.Session to each command. Commands stay thin: prompting and
// printing live here, everything else is delegated to `core` and `db`.
package cli
