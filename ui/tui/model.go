// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/logging"
	"github.com/moygit/keymaster/internal/security"
)

// Options configures the terminal view.
type Options struct {
	// Clipboard receives derived passwords. Nil disables copying and the
	// password is only shown.
	Clipboard func(string) error
}

type mode int

const (
	browsing mode = iota
	confirmingDelete
)

// Model is the bubbletea model of the list view.
type Model struct {
	ctx  context.Context
	sess *core.Session
	copy func(string) error

	keys  keyMap
	help  help.Model
	proto textinput.Model

	nicknames []string
	cursor    int
	mode      mode
	pending   string // nickname awaiting delete confirmation

	status string
	err    error
	copied bool

	width, height int
}

// New builds the list view over the entries currently held by sess.
func New(ctx context.Context, sess *core.Session, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = i18n.T("tui.proto_placeholder")
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = "> "
	ti.Focus()

	return Model{
		ctx:       ctx,
		sess:      sess,
		copy:      opts.Clipboard,
		keys:      newKeyMap(),
		help:      help.New(),
		proto:     ti,
		nicknames: sess.Nicknames(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.mode == confirmingDelete {
			return m.updateConfirm(msg), nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nicknames)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Derive):
			return m.derive(), nil
		case key.Matches(msg, m.keys.Hint):
			return m.hint(), nil
		case key.Matches(msg, m.keys.Delete):
			if nick, ok := m.selected(); ok {
				m.mode = confirmingDelete
				m.pending = nick
				m.status, m.err = "", nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.proto, cmd = m.proto.Update(msg)
	return m, cmd
}

func (m Model) selected() (string, bool) {
	if len(m.nicknames) == 0 {
		return "", false
	}
	return m.nicknames[m.cursor], true
}

func (m Model) derive() Model {
	nick, ok := m.selected()
	if !ok {
		return m
	}
	m.status, m.err = "", nil

	proto := security.FromString(m.proto.Value())
	defer proto.Zero()
	if len(proto) == 0 {
		m.err = errors.New(i18n.T("tui.need_proto"))
		return m
	}

	pw, err := m.sess.Derive(nick, proto)
	if err != nil {
		m.err = err
		return m
	}
	logging.Debugf("derived password for %s", nick)
	m.status = i18n.T("tui.password", nick, pw)
	if m.copy == nil {
		return m
	}
	if err := m.copy(pw); err != nil {
		m.err = err
		return m
	}
	m.copied = true
	m.status += "\n" + i18n.T("tui.copied", nick)
	return m
}

func (m Model) hint() Model {
	nick, ok := m.selected()
	if !ok {
		return m
	}
	m.err = nil
	if e, found := m.sess.Lookup(nick); found {
		m.status = i18n.T("tui.hint", nick, e.Hint)
	}
	return m
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	nick := m.pending
	m.mode, m.pending = browsing, ""

	switch strings.ToLower(msg.String()) {
	case "y", "j":
	default:
		m.status = i18n.T("common.cancelled")
		return m
	}

	if err := m.sess.Delete(m.ctx, nick); err != nil {
		m.err = err
		return m
	}
	m.nicknames = m.sess.Nicknames()
	if m.cursor >= len(m.nicknames) && m.cursor > 0 {
		m.cursor = len(m.nicknames) - 1
	}
	m.status = i18n.T("tui.deleted", nick)
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.title")))
	b.WriteString("\n")

	if len(m.nicknames) == 0 {
		b.WriteString(emptyStyle.Render(i18n.T("tui.empty")))
		b.WriteString("\n")
	}
	for i, nick := range m.nicknames {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("» " + nick))
		} else {
			b.WriteString(itemStyle.Render(nick))
		}
		b.WriteString("\n")
	}

	b.WriteString(inputStyle.Render(m.proto.View()))
	b.WriteString("\n")

	switch {
	case m.mode == confirmingDelete:
		b.WriteString(specialStyle.Render(i18n.T("tui.confirm_delete", m.pending)))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(i18n.T("tui.error", m.err)))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return docStyle.Render(b.String())
}

// Copied reports whether a password was put on the clipboard during the
// session.
func (m Model) Copied() bool { return m.copied }
