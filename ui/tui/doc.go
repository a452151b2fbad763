// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui implements the interactive terminal view of the password
// store: a nickname list, a masked proto-password field and key bindings to
// derive, copy, show hints for and delete entries. Store access goes through
// core.Session; this package only holds presentation state.
package tui
