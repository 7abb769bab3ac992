// Package terminal holds the interactive glue: masked secret entry, yes/no
// confirmation and the clipboard.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

var (
	// ErrInterrupted is returned when the operator presses Ctrl-C or Ctrl-D during masked entry.
	ErrInterrupted = errors.New("input interrupted")
	// ErrNoInput is returned when a prompt is needed but prompts are disabled.
	ErrNoInput = errors.New("interactive input disabled")
)

const (
	keyCtrlC     = 3
	keyCtrlD     = 4
	keyBackspace = 8
	keyDelete    = 127
)

// SecretReader reads a secret without echoing it.
type SecretReader interface {
	ReadSecret(prompt string) (string, error)
}

// Terminal prompts on the controlling terminal.
// Prompts are written to out so stdout stays scriptable.
type Terminal struct {
	in      *os.File
	lines   *bufio.Reader
	out     io.Writer
	noInput bool
}

// New returns a Terminal over stdin and stderr.
// With noInput set every prompt fails with ErrNoInput.
func New(noInput bool) *Terminal {
	return &Terminal{
		in:      os.Stdin,
		lines:   bufio.NewReader(os.Stdin),
		out:     os.Stderr,
		noInput: noInput,
	}
}

// ReadSecret prints prompt and reads a secret, echoing '*' per character.
// When stdin is not a terminal a single line is read instead.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	if t.noInput {
		return "", ErrNoInput
	}

	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		line, err := t.lines.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	fmt.Fprint(t.out, prompt)
	secret, err := ReadMasked(t.in, t.out)
	fmt.Fprint(t.out, "\r\n")
	return secret, err
}

// Confirm asks a yes/no question. Only "y" or "yes" count as yes.
func (t *Terminal) Confirm(question string) (bool, error) {
	if t.noInput {
		return false, ErrNoInput
	}

	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	line, err := t.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return IsAffirmative(line), nil
}

// IsAffirmative reports whether an answer is an explicit yes.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ReadMasked reads raw keystrokes from r until newline or carriage return,
// writing one '*' to w per character and erasing it again on backspace.
// End of input terminates the secret like a newline.
func ReadMasked(r io.Reader, w io.Writer) (string, error) {
	var buf []byte
	b := make([]byte, 1)

	for {
		n, err := r.Read(b)
		if n == 0 {
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				return string(buf), nil
			}
			return "", err
		}

		switch c := b[0]; c {
		case '\r', '\n':
			return string(buf), nil
		case keyCtrlC, keyCtrlD:
			return "", ErrInterrupted
		case keyBackspace, keyDelete:
			if len(buf) == 0 {
				continue
			}
			_, size := utf8.DecodeLastRune(buf)
			buf = buf[:len(buf)-size]
			fmt.Fprint(w, "\b \b")
		default:
			buf = append(buf, c)
			// continuation bytes of a multi-byte rune get no extra star
			if c&0xC0 != 0x80 {
				fmt.Fprint(w, "*")
			}
		}
	}
}
