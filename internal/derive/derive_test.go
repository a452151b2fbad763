// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package derive

import (
	"strings"
	"testing"

	"github.com/moygit/keymaster/internal/model"
)

func basicEntry(special bool, iteration int) model.Entry {
	base := model.Base32
	if special {
		base = model.Base64
	}
	return model.Entry{
		Nickname:     "nick",
		Username:     "user",
		Hostname:     "host",
		SpecialChars: special,
		Base:         base,
		Iteration:    iteration,
		Hint:         "hint",
		Start:        0,
		End:          15,
	}
}

func TestPassword_KnownVectors(t *testing.T) {
	cases := []struct {
		name  string
		proto string
		entry model.Entry
		want  string
	}{
		{"base32 no special chars", "", basicEntry(false, 1), "5wjDnwdyj4uxZd6g"},
		{"base64 with special chars", "", basicEntry(true, 2), "$ifZ6kv@p9xmyf(1"},
		{
			"shifted window",
			"pw",
			model.Entry{Username: "alice", Hostname: "example.com", SpecialChars: true, Base: model.Base64, Iteration: 3, Start: 2, End: 21},
			"6qkB^^j3h^Do5^+v$gnd",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Password(c.proto, c.entry); got != c.want {
				t.Fatalf("Password() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestPassword_Deterministic(t *testing.T) {
	e := basicEntry(true, 7)
	first := Password("correct horse", e)
	for i := 0; i < 10; i++ {
		if got := Password("correct horse", e); got != first {
			t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
		}
	}
}

func TestPassword_Sensitivity(t *testing.T) {
	e := basicEntry(false, 1)
	e.End = 40
	base := Password("secret", e)

	changed := []struct {
		name  string
		proto string
		entry func(model.Entry) model.Entry
	}{
		{"proto-password", "secret2", func(e model.Entry) model.Entry { return e }},
		{"username", "secret", func(e model.Entry) model.Entry { e.Username = "user2"; return e }},
		{"hostname", "secret", func(e model.Entry) model.Entry { e.Hostname = "host2"; return e }},
		{"iteration", "secret", func(e model.Entry) model.Entry { e.Iteration = 2; return e }},
	}
	for _, c := range changed {
		t.Run(c.name, func(t *testing.T) {
			if got := Password(c.proto, c.entry(e)); got == base {
				t.Fatalf("changing %s did not change the output %q", c.name, got)
			}
		})
	}

	// The hint and nickname never feed the derivation.
	other := e
	other.Hint = "something else"
	other.Nickname = "renamed"
	if got := Password("secret", other); got != base {
		t.Fatalf("hint/nickname changed the output: %q vs %q", got, base)
	}
}

func TestPassword_WindowLength(t *testing.T) {
	e := basicEntry(false, 1)
	full := Encoded("", e)
	if len(full) != 104 {
		t.Fatalf("base32 of a 64-byte digest should be 104 chars, got %d", len(full))
	}
	e64 := basicEntry(true, 1)
	if n := len(Encoded("", e64)); n != 88 {
		t.Fatalf("base64 of a 64-byte digest should be 88 chars, got %d", n)
	}

	for _, w := range [][2]int{{0, 0}, {0, 15}, {5, 30}, {90, 103}} {
		e.Start, e.End = w[0], w[1]
		want := w[1] - w[0] + 1
		if got := len(Password("x", e)); got != want {
			t.Fatalf("window %v: got length %d, want %d", w, got, want)
		}
	}
}

func TestPassword_Clamping(t *testing.T) {
	e := basicEntry(false, 1)

	e.Start, e.End = 100, 200
	if got := Password("", e); got != "3hy=" {
		t.Fatalf("end past the text should clamp, got %q", got)
	}

	e.Start, e.End = 104, 200
	if got := Password("", e); got != "" {
		t.Fatalf("start at text length should give empty output, got %q", got)
	}

	e.Start, e.End = 500, 600
	if got := Password("", e); got != "" {
		t.Fatalf("start beyond text length should give empty output, got %q", got)
	}

	e.Start, e.End = 10, 5
	if got := Password("", e); got != "" {
		t.Fatalf("end before start should give empty output, got %q", got)
	}

	// Negative indices count from the end of the encoded text.
	negative := []struct {
		start, end int
		want       string
	}{
		{-5, 200, "63hy="},
		{-3, 15, ""},
		{-16, -2, "kwgk6oB7bvD63hy"},
		{-16, -1, ""},
		{0, -2, "5wjDnwdyj4uxZd6gfx7afjvxfhe5ypvexf6wnn2tajhxm5ofoz2kmqrpg56rkttxtgjeBrry2gtsfz2hsav3koblkwgk6ob7bvd63hy"},
	}
	for _, c := range negative {
		e.Start, e.End = c.start, c.end
		if got := Password("", e); got != c.want {
			t.Errorf("window [%d, %d] = %q, want %q", c.start, c.end, got, c.want)
		}
	}
}

func TestPassword_MixedCaseOnlyFirstOccurrence(t *testing.T) {
	e := basicEntry(false, 1)
	e.End = 103
	pw := Password("", e)
	for _, l := range []string{"B", "D", "Z"} {
		if strings.Count(pw, l) > 1 {
			t.Fatalf("letter %s upper-cased more than once in %q", l, pw)
		}
		lower := strings.ToLower(l)
		if strings.Contains(pw, lower) && !strings.Contains(pw, l) {
			t.Fatalf("letter %s present but first occurrence not upper-cased in %q", lower, pw)
		}
		if i, j := strings.Index(pw, l), strings.Index(pw, lower); i >= 0 && j >= 0 && j < i {
			t.Fatalf("a lower-case %s precedes the upper-cased one in %q", lower, pw)
		}
	}
}

func TestPassword_SpecialCharsTable(t *testing.T) {
	e := basicEntry(true, 1)
	e.End = 87
	pw := Password("", e)
	for _, l := range []string{"a", "c", "e", "r", "s"} {
		if strings.Contains(pw, l) {
			t.Fatalf("letter %q should have been substituted in %q", l, pw)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		s          string
		start, end int
		want       string
	}{
		{"abcdef", 0, 2, "abc"},
		{"abcdef", 2, 2, "c"},
		{"abcdef", 3, 99, "def"},
		{"abcdef", 6, 9, ""},
		{"abcdef", -3, 1, ""},
		{"abcdef", -3, 99, "def"},
		{"abcdef", -2, -2, "e"},
		{"abcdef", -10, 2, "abc"},
		{"abcdef", 0, -2, "abcde"},
		{"abcdef", 0, -1, ""},
		{"abcdef", -3, -1, ""},
		{"", 0, 15, ""},
	}
	for _, c := range cases {
		if got := Window(c.s, c.start, c.end); got != c.want {
			t.Errorf("Window(%q, %d, %d) = %q, want %q", c.s, c.start, c.end, got, c.want)
		}
	}
}
