// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/moygit/keymaster/internal/i18n"
)

// keyMap holds the bindings of the list view. Letters are left to the
// proto-password field, so every action sits on a control key.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Derive key.Binding
	Hint   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Derive, km.Hint, km.Delete, km.Quit}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Up, km.Down}, {km.Derive, km.Hint, km.Delete}, {km.Quit}}
}

var _ help.KeyMap = keyMap{}

// newKeyMap builds the bindings with help texts in the active language.
func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/↓", i18n.T("tui.help_select")),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", i18n.T("tui.help_select")),
		),
		Derive: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("tui.help_derive")),
		),
		Hint: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", i18n.T("tui.help_hint")),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", i18n.T("tui.help_delete")),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", i18n.T("tui.help_quit")),
		),
	}
}
