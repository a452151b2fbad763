// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Keymaster. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
//
// Precedence, highest first: explicitly set command-line flags, KEYMASTER_*
// environment variables, the configuration file, built-in defaults.
package config
