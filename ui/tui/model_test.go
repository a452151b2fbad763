// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/db"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/model"
)

func newSession(t *testing.T, nicks ...string) *core.Session {
	t.Helper()
	i18n.Init("en")
	name := strings.ReplaceAll(t.Name(), "/", "_")
	store, err := db.Open(context.Background(), db.Options{
		Type: db.TypeSqlite,
		DSN:  fmt.Sprintf("file:tui_%s?mode=memory&cache=shared", name),
	}, false)
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	sess, err := core.NewSession(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for _, nick := range nicks {
		e := model.NewEntry(nick)
		e.Username, e.Hostname = "user", "host"
		e.Hint = "hint for " + nick
		if err := sess.Create(context.Background(), e); err != nil {
			t.Fatalf("Create %s: %v", nick, err)
		}
	}
	return sess
}

// clipboardStub records every write.
type clipboardStub struct {
	writes []string
	err    error
}

func (c *clipboardStub) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, s)
	return nil
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyHint  = tea.KeyMsg{Type: tea.KeyCtrlH}
	keyDel   = tea.KeyMsg{Type: tea.KeyCtrlD}
)

func TestModel_DeriveCopiesAndShowsPassword(t *testing.T) {
	sess := newSession(t, "site")
	clip := &clipboardStub{}
	m := New(context.Background(), sess, Options{Clipboard: clip.write})

	// An empty proto-password is refused.
	m = send(t, m, keyEnter)
	if m.err == nil || m.copied {
		t.Fatalf("deriving without proto-password: err=%v copied=%v", m.err, m.copied)
	}

	m = send(t, m, typeText("secret"), keyEnter)
	if m.err != nil {
		t.Fatalf("derive: %v", m.err)
	}
	if len(clip.writes) != 1 {
		t.Fatalf("clipboard writes = %v, want one", clip.writes)
	}
	pw := clip.writes[0]
	if len(pw) != 16 {
		t.Fatalf("derived password %q has length %d, want 16", pw, len(pw))
	}
	if !strings.Contains(m.status, pw) || !strings.Contains(m.status, "copied") {
		t.Fatalf("status %q should show the password and the copy notice", m.status)
	}
	if !m.Copied() {
		t.Fatal("Copied() = false after a successful copy")
	}
	if strings.Contains(m.View(), "secret") {
		t.Fatal("view leaks the proto-password")
	}
}

func TestModel_DeriveWithoutClipboard(t *testing.T) {
	sess := newSession(t, "site")
	m := New(context.Background(), sess, Options{})
	m = send(t, m, typeText("secret"), keyEnter)
	if m.err != nil || m.Copied() {
		t.Fatalf("err=%v copied=%v", m.err, m.Copied())
	}
	if !strings.HasPrefix(m.status, "Password for site: ") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModel_CopyFailureIsReported(t *testing.T) {
	sess := newSession(t, "site")
	clip := &clipboardStub{err: errors.New("no display")}
	m := New(context.Background(), sess, Options{Clipboard: clip.write})
	m = send(t, m, typeText("secret"), keyEnter)
	if m.err == nil || m.Copied() {
		t.Fatalf("err=%v copied=%v, want copy error", m.err, m.Copied())
	}
	if !strings.Contains(m.View(), "no display") {
		t.Fatal("view should show the clipboard error")
	}
}

func TestModel_CursorMovesWithinBounds(t *testing.T) {
	sess := newSession(t, "b", "a", "c")
	m := New(context.Background(), sess, Options{})

	m = send(t, m, keyUp)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after up at top", m.cursor)
	}
	m = send(t, m, keyDown, keyDown, keyDown, keyDown)
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	if nick, _ := m.selected(); nick != "c" {
		t.Fatalf("selected %q, want c (sorted order)", nick)
	}
}

func TestModel_Hint(t *testing.T) {
	sess := newSession(t, "a", "b")
	m := New(context.Background(), sess, Options{})
	m = send(t, m, keyDown, keyHint)
	if m.status != "Hint for b: hint for b" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModel_DeleteConfirmed(t *testing.T) {
	sess := newSession(t, "a", "b")
	m := New(context.Background(), sess, Options{})
	m = send(t, m, keyDown, keyDel)
	if m.mode != confirmingDelete || !strings.Contains(m.View(), "Delete b?") {
		t.Fatalf("expected delete confirmation, mode=%v", m.mode)
	}
	m = send(t, m, typeText("y"))
	if m.mode != browsing {
		t.Fatal("still confirming after answer")
	}
	if _, ok := sess.Lookup("b"); ok {
		t.Fatal("b still in session")
	}
	if len(m.nicknames) != 1 || m.cursor != 0 {
		t.Fatalf("nicknames=%v cursor=%d", m.nicknames, m.cursor)
	}
	if m.proto.Value() != "" {
		t.Fatalf("confirmation answer leaked into proto field: %q", m.proto.Value())
	}
}

func TestModel_DeleteCancelled(t *testing.T) {
	sess := newSession(t, "a")
	m := New(context.Background(), sess, Options{})
	m = send(t, m, keyDel, typeText("n"))
	if _, ok := sess.Lookup("a"); !ok {
		t.Fatal("a deleted despite cancel")
	}
	if m.status != "Cancelled." {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModel_EmptyStore(t *testing.T) {
	sess := newSession(t)
	m := New(context.Background(), sess, Options{})
	m = send(t, m, typeText("x"), keyEnter, keyHint, keyDel)
	if m.mode != browsing || m.status != "" || m.err != nil {
		t.Fatalf("empty store: mode=%v status=%q err=%v", m.mode, m.status, m.err)
	}
	if !strings.Contains(m.View(), "No passwords stored yet") {
		t.Fatal("view should show the empty notice")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	sess := newSession(t, "a")
	m := New(context.Background(), sess, Options{})
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}

func TestRun_ClearsClipboardOnExit(t *testing.T) {
	sess := newSession(t, "site")
	clip := &clipboardStub{}

	orig := newProgram
	t.Cleanup(func() { newProgram = orig })
	newProgram = func(ctx context.Context, m tea.Model) *tea.Program {
		return tea.NewProgram(m,
			tea.WithContext(ctx),
			tea.WithInput(strings.NewReader("secret\r\x03")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		)
	}

	if err := Run(context.Background(), sess, Options{Clipboard: clip.write}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(clip.writes) != 2 || clip.writes[1] != "" {
		t.Fatalf("clipboard writes = %q, want password then clear", clip.writes)
	}
}
