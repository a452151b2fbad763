// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package derive turns a proto-password and an entry's metadata into the
// site password. It is a pure function: no I/O, no state, no errors.
package derive

import (
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/moygit/keymaster/internal/model"
)

// mixedCase lists the letters whose first occurrence is upper-cased, in order.
var mixedCase = []string{"b", "d", "z"}

// specials is the fixed substitution table used when special chars are on.
var specials = strings.NewReplacer(
	"a", "@",
	"c", "(",
	"e", "*",
	"r", "^",
	"s", "$",
)

// Password derives the site password for e from proto.
func Password(proto string, e model.Entry) string {
	encoded := Encoded(proto, e)
	pw := strings.ToLower(Window(encoded, e.Start, e.End))
	for _, l := range mixedCase {
		pw = strings.Replace(pw, l, strings.ToUpper(l), 1)
	}
	if e.SpecialChars {
		pw = specials.Replace(pw)
	}
	return pw
}

// Encoded returns the full text encoding of the digest for proto and e,
// before any windowing or character mangling.
func Encoded(proto string, e model.Entry) string {
	input := proto + e.Username + "@" + e.Hostname + strconv.Itoa(e.Iteration)
	sum := sha512.Sum512([]byte(input))
	if e.Base == model.Base64 {
		return base64.StdEncoding.EncodeToString(sum[:])
	}
	// Anything that is not base 64 is encoded as base 32.
	return base32.StdEncoding.EncodeToString(sum[:])
}

// Window returns the inclusive substring [start, end] of s with the
// indexing rules of a Python slice s[start:end+1]: negative indices count
// from the end of the text, out-of-range indices are clamped, and a start at
// or beyond the resolved end yields "".
func Window(s string, start, end int) string {
	lo := sliceIndex(start, len(s))
	hi := sliceIndex(end+1, len(s))
	if lo >= hi {
		return ""
	}
	return s[lo:hi]
}

// sliceIndex resolves i against a text of length n.
func sliceIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}
