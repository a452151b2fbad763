// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"

	"github.com/moygit/keymaster/internal/model"
)

// SearchTokens breaks a `list --search` query into lower-cased words. A blank
// query has no tokens.
func SearchTokens(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	return words
}

// FilterEntries keeps the entries in which every token occurs, ignoring case,
// somewhere in the nickname, username, hostname or hint. Tokens are expected
// in the form SearchTokens returns them. With no tokens all entries match.
func FilterEntries(entries []model.Entry, tokens []string) []model.Entry {
	if len(tokens) == 0 {
		return entries
	}
	var out []model.Entry
	for _, e := range entries {
		haystack := strings.ToLower(strings.Join([]string{e.Nickname, e.Username, e.Hostname, e.Hint}, "\n"))
		if containsAll(haystack, tokens) {
			out = append(out, e)
		}
	}
	return out
}

func containsAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}
