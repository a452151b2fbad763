// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/moygit/keymaster/internal/core"
	"github.com/moygit/keymaster/internal/i18n"
	"github.com/moygit/keymaster/internal/model"
	"github.com/moygit/keymaster/internal/security"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Terminal hooks, replaceable in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// prompter reads answers from the command's input and writes prompts to its
// output. Diagnostics such as "not found" go to the error stream.
type prompter struct {
	in     *bufio.Reader
	tty    *os.File
	out    io.Writer
	errOut io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{
		in:     bufio.NewReader(in),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		p.tty = f
	}
	return p
}

func (p *prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) println(msg string) {
	_, _ = fmt.Fprintln(p.out, msg)
}

func (p *prompter) errorln(msg string) {
	_, _ = fmt.Fprintln(p.errOut, msg)
}

// readLine prints prompt and returns the next input line without its line
// terminator. A final line without newline is accepted; EOF before any
// input is an error so that retry loops always end.
func (p *prompter) readLine(prompt string) (string, error) {
	p.printf("%s", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readString asks for a free-form value; an empty answer keeps def.
func (p *prompter) readString(label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	s, err := p.readLine(prompt)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// readInt re-prompts until the answer is a number. An empty answer returns
// def when hasDef is set and re-prompts otherwise.
func (p *prompter) readInt(prompt string, def int, hasDef bool) (int, error) {
	for {
		s, err := p.readLine(prompt)
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			if hasDef {
				return def, nil
			}
			continue
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, nil
		}
		p.errorln(i18n.T("input.invalid_number"))
	}
}

func (p *prompter) readField(labelID string, def int) (int, error) {
	return p.readInt(fmt.Sprintf("%s [%d]: ", i18n.T(labelID), def), def, true)
}

// confirm asks a yes/no question where anything but an explicit yes is no.
func (p *prompter) confirm(prompt string) (bool, error) {
	return p.confirmDefault(prompt, false)
}

func (p *prompter) confirmDefault(prompt string, def bool) (bool, error) {
	s, err := p.readLine(prompt)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	// "j" covers the German "ja".
	return s[0] == 'y' || s[0] == 'j', nil
}

// readSecret reads one line without echo when attached to a terminal.
func (p *prompter) readSecret(prompt string) (security.Secret, error) {
	if p.tty == nil {
		s, err := p.readLine(prompt)
		if err != nil {
			return nil, err
		}
		return security.FromString(s), nil
	}
	p.printf("%s", prompt)
	b, err := readPassword(int(p.tty.Fd()))
	p.printf("\n")
	if err != nil {
		return nil, err
	}
	s := security.FromBytes(b)
	for i := range b {
		b[i] = 0
	}
	return s, nil
}

// readProto asks for the proto-password twice until both captures match.
func (p *prompter) readProto() (security.Secret, error) {
	for {
		first, err := p.readSecret(i18n.T("get.proto_first"))
		if err != nil {
			return nil, err
		}
		second, err := p.readSecret(i18n.T("get.proto_second"))
		if err != nil {
			first.Zero()
			return nil, err
		}
		err = core.ConfirmProto(first, second)
		second.Zero()
		if err == nil {
			return first, nil
		}
		first.Zero()
		p.errorln(i18n.T("get.mismatch"))
	}
}

// printEntries lists entries with their 1-based position.
func (p *prompter) printEntries(entries []model.Entry) {
	for i, e := range entries {
		p.printf("%d: %s\n", i+1, e)
	}
}

// selectEntry resolves nick against the session. When nick is empty or
// unknown it lists every entry and asks for a position until one is valid.
func (p *prompter) selectEntry(sess *core.Session, nick string) (model.Entry, error) {
	if nick != "" {
		if e, ok := sess.Lookup(nick); ok {
			return e, nil
		}
		p.errorln(i18n.T("nick.not_found", nick))
	}
	if sess.Len() == 0 {
		return model.Entry{}, errors.New(i18n.T("nick.none"))
	}
	p.printEntries(sess.Entries())
	for {
		pos, err := p.readInt(i18n.T("nick.choose"), 0, false)
		if err != nil {
			return model.Entry{}, err
		}
		if e, err := sess.At(pos); err == nil {
			return e, nil
		}
	}
}

// readNickname validates given (or a prompted value) against the session,
// re-prompting while it is empty or taken. current is the nickname of the
// entry being edited and doubles as the prompt default.
func (p *prompter) readNickname(sess *core.Session, given, current string) (string, error) {
	nick := given
	var err error
	if nick == "" {
		if nick, err = p.readString(i18n.T("field.nickname"), current); err != nil {
			return "", err
		}
	}
	for {
		verr := sess.ValidateNickname(nick, current)
		if verr == nil {
			return nick, nil
		}
		if errors.Is(verr, core.ErrInvalidNickname) {
			p.errorln(i18n.T("nick.empty"))
		} else {
			p.errorln(i18n.T("nick.in_use"))
		}
		if nick, err = p.readString(i18n.T("field.nickname"), current); err != nil {
			return "", err
		}
	}
}

// readEntry collects a full entry. Values of defaults are offered as the
// answer for an empty line, so editing only needs the fields that change.
func (p *prompter) readEntry(sess *core.Session, defaults model.Entry, given, current string) (model.Entry, error) {
	var e model.Entry
	var err error

	if e.Nickname, err = p.readNickname(sess, given, current); err != nil {
		return e, err
	}
	if e.Username, err = p.readString(i18n.T("field.username"), defaults.Username); err != nil {
		return e, err
	}
	if e.Hostname, err = p.readString(i18n.T("field.hostname"), defaults.Hostname); err != nil {
		return e, err
	}
	for {
		n, err := p.readField("field.base", int(defaults.Base))
		if err != nil {
			return e, err
		}
		if e.Base = model.Base(n); e.Base.Valid() {
			break
		}
		p.errorln(i18n.T("input.invalid_base"))
	}

	// Base 64 entries default to special characters.
	special := defaults.SpecialChars || e.Base == model.Base64
	choice := " (y/[n]): "
	if special {
		choice = " ([y]/n): "
	}
	if e.SpecialChars, err = p.confirmDefault(i18n.T("field.special")+choice, special); err != nil {
		return e, err
	}

	for {
		if e.Iteration, err = p.readField("field.iteration", defaults.Iteration); err != nil {
			return e, err
		}
		if e.Iteration >= 1 {
			break
		}
		p.errorln(i18n.T("input.invalid_iteration"))
	}
	if e.Hint, err = p.readString(i18n.T("field.hint"), defaults.Hint); err != nil {
		return e, err
	}
	if e.Start, err = p.readField("field.start", defaults.Start); err != nil {
		return e, err
	}
	if e.End, err = p.readField("field.end", defaults.End); err != nil {
		return e, err
	}
	return e, nil
}
