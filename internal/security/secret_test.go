// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedactionAndJSON(t *testing.T) {
	s := FromString("supersecret")
	if fmt.Sprintf("%v", s) != "[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%v", s))
	}
	if fmt.Sprintf("%#v", s) != "[SECRET]" {
		t.Fatalf("unexpected GoString output: %q", fmt.Sprintf("%#v", s))
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[SECRET]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
	if s.Reveal() != "supersecret" {
		t.Fatalf("Reveal returned %q", s.Reveal())
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("abc123")
	(&s).Zero()
	for i, c := range s.Bytes() {
		if c != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, c)
		}
	}
}

func TestSecretEqual(t *testing.T) {
	if !FromString("pw").Equal(FromString("pw")) {
		t.Fatalf("identical secrets should be equal")
	}
	if FromString("pw").Equal(FromString("pW")) || FromString("pw").Equal(FromString("pw2")) {
		t.Fatalf("different secrets should not be equal")
	}
}

func TestFromBytesCopies(t *testing.T) {
	raw := []byte("hunter2")
	s := FromBytes(raw)
	raw[0] = 'X'
	if s.Reveal() != "hunter2" {
		t.Fatalf("FromBytes should copy its input, got %q", s.Reveal())
	}
}
