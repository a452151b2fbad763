// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures used throughout Keymaster.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Base selects the binary-to-text encoding applied to the digest.
type Base int

const (
	Base32 Base = 32
	Base64 Base = 64
)

// Default values for a freshly created entry.
const (
	DefaultBase      = Base32
	DefaultIteration = 1
	DefaultStart     = 0
	DefaultEnd       = 15
)

// Valid reports whether b is one of the supported encodings.
func (b Base) Valid() bool {
	return b == Base32 || b == Base64
}

// ParseBase converts user text ("32", "64") into a Base.
func ParseBase(s string) (Base, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid base %q: %w", s, err)
	}
	b := Base(n)
	if !b.Valid() {
		return 0, fmt.Errorf("unsupported base %d (want 32 or 64)", n)
	}
	return b, nil
}

// Entry is the metadata needed to re-derive one site password.
// The derived password itself is never stored.
type Entry struct {
	Nickname     string `json:"nickname"`
	Username     string `json:"username"`
	Hostname     string `json:"hostname"`
	SpecialChars bool   `json:"special_char"`
	Base         Base   `json:"base"`
	Iteration    int    `json:"iteration"`
	Hint         string `json:"hint"`
	Start        int    `json:"start"`
	End          int    `json:"finish"`
}

// NewEntry returns an entry with the given nickname and default settings.
func NewEntry(nickname string) Entry {
	return Entry{
		Nickname:  nickname,
		Base:      DefaultBase,
		Iteration: DefaultIteration,
		Start:     DefaultStart,
		End:       DefaultEnd,
	}
}

// Account returns the user@host representation.
func (e Entry) Account() string {
	return fmt.Sprintf("%s@%s", e.Username, e.Hostname)
}

// String renders every field in storage order.
func (e Entry) String() string {
	return fmt.Sprintf("Password(%s, %s, %s, %t, %d, %d, %s, %d, %d)",
		e.Nickname, e.Username, e.Hostname, e.SpecialChars, e.Base,
		e.Iteration, e.Hint, e.Start, e.End)
}
