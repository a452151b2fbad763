// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package security holds helpers for handling the proto-password in memory.
package security

const redacted = "[SECRET]"

// Secret is a byte slice that never prints its contents. It is used for the
// proto-password so that it cannot leak through logging or JSON encoding,
// and so it can be wiped once a derivation is done.
type Secret []byte

// FromString copies s into a new Secret.
func FromString(s string) Secret { return Secret([]byte(s)) }

// FromBytes copies b into a new Secret; the caller may wipe b afterwards.
func FromBytes(b []byte) Secret {
	out := make(Secret, len(b))
	copy(out, b)
	return out
}

// Bytes returns the underlying bytes without copying.
func (s Secret) Bytes() []byte { return s }

// Reveal returns the secret as a string for the single place that needs it.
func (s Secret) Reveal() string { return string(s) }

// Equal compares two secrets in full.
func (s Secret) Equal(o Secret) bool {
	if len(s) != len(o) {
		return false
	}
	var diff byte
	for i := range s {
		diff |= s[i] ^ o[i]
	}
	return diff == 0
}

func (s Secret) String() string { return redacted }
func (s Secret) GoString() string { return redacted }
func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Zero overwrites the secret in place.
func (s *Secret) Zero() {
	for i := range *s {
		(*s)[i] = 0
	}
}
