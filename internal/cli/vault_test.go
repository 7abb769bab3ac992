package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/kvault/internal/config"
	"github.com/semmy-space/kvault/internal/output"
	"github.com/semmy-space/kvault/internal/record"
	"github.com/semmy-space/kvault/internal/secrets"
	"github.com/semmy-space/kvault/internal/terminal"
	"github.com/semmy-space/kvault/internal/vault"
)

type fakeInput struct {
	secret string
	err    error
	asked  int
}

func (f *fakeInput) ReadSecret(string) (string, error) {
	f.asked++
	return f.secret, f.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type harness struct {
	sess      *Session
	store     *secrets.MemoryStore
	input     *fakeInput
	clipboard *fakeClipboard
	answers   []bool
	fp        *FormatterProvider
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:     secrets.NewMemoryStore("kali_creds"),
		input:     &fakeInput{},
		clipboard: &fakeClipboard{},
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	}
	h.fp = &FormatterProvider{Formatter: output.NewTo("plain", h.stdout, h.stderr)}
	h.sess = &Session{
		Owner:     "kali_creds",
		Config:    &config.Config{},
		Globals:   &Globals{},
		Log:       zerolog.Nop(),
		Input:     h.input,
		Clipboard: h.clipboard,
		Confirm: vault.ConfirmFunc(func(string) (bool, error) {
			if len(h.answers) == 0 {
				return false, nil
			}
			yes := h.answers[0]
			h.answers = h.answers[1:]
			return yes, nil
		}),
		OpenStore: func(string) (secrets.Store, error) {
			return h.store, nil
		},
	}
	return h
}

func (h *harness) seed(t *testing.T, service, username, secret string) {
	t.Helper()
	v, err := h.sess.Vault()
	require.NoError(t, err)
	_, err = v.Set(service, username, secret)
	require.NoError(t, err)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	return cliErr.ExitCode
}

func TestSetCmdWithPasswordFlag(t *testing.T) {
	h := newHarness(t)

	cmd := &SetCmd{Name: "mysql", Username: "root", Password: "toor"}
	require.NoError(t, cmd.Run(h.sess, h.fp))

	assert.Equal(t, "Service\tmysql\nStatus\tcreated\n", h.stdout.String())
	assert.Zero(t, h.input.asked)
	assert.NotContains(t, h.stdout.String(), "toor")
}

func TestSetCmdPromptsForPassword(t *testing.T) {
	h := newHarness(t)
	h.input.secret = "prompted"

	cmd := &SetCmd{Name: "mysql", Username: "root"}
	require.NoError(t, cmd.Run(h.sess, h.fp))
	assert.Equal(t, 1, h.input.asked)

	v, err := h.sess.Vault()
	require.NoError(t, err)
	cred, err := v.Get("mysql")
	require.NoError(t, err)
	assert.Equal(t, "prompted", cred.Secret)
}

func TestSetCmdPromptInterrupted(t *testing.T) {
	h := newHarness(t)
	h.input.err = terminal.ErrInterrupted

	err := (&SetCmd{Name: "mysql", Username: "root"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitInterrupted, exitCode(t, err))
}

func TestSetCmdOverwrite(t *testing.T) {
	tests := []struct {
		name     string
		answers  []bool
		force    bool
		status   string
		username string
	}{
		{name: "declined", answers: []bool{false}, status: "unchanged", username: "root"},
		{name: "confirmed", answers: []bool{true}, status: "replaced", username: "admin"},
		{name: "forced", force: true, status: "replaced", username: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.sess.Globals.Force = tt.force
			h.seed(t, "mysql", "root", "toor")
			h.answers = tt.answers

			cmd := &SetCmd{Name: "mysql", Username: "admin", Password: "hunter2"}
			require.NoError(t, cmd.Run(h.sess, h.fp))
			assert.Contains(t, h.stdout.String(), "Status\t"+tt.status+"\n")

			v, err := h.sess.Vault()
			require.NoError(t, err)
			cred, err := v.Get("mysql")
			require.NoError(t, err)
			assert.Equal(t, tt.username, cred.Username)
		})
	}
}

func TestSetCmdNoInputOnExisting(t *testing.T) {
	h := newHarness(t)
	h.sess.Confirm = terminal.New(true)
	h.seed(t, "mysql", "root", "toor")

	err := (&SetCmd{Name: "mysql", Username: "admin", Password: "x"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitUsage, exitCode(t, err))
	assert.ErrorIs(t, err, terminal.ErrNoInput)
}

func TestSetCmdInvalidName(t *testing.T) {
	h := newHarness(t)

	err := (&SetCmd{Name: "my sql", Username: "root"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitUsage, exitCode(t, err))
	assert.Zero(t, h.input.asked, "no prompt for an unusable name")
}

func TestSetCmdRejectsInvalidUTF8Secret(t *testing.T) {
	h := newHarness(t)
	h.input.secret = "pa\xffss"

	err := (&SetCmd{Name: "mysql", Username: "root"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitUsage, exitCode(t, err))
	assert.ErrorIs(t, err, record.ErrInvalidText)

	items, err := h.store.Enumerate()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCmdCopiesToClipboard(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "mysql", "root", "toor")

	require.NoError(t, (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp))

	assert.Equal(t, "toor", h.clipboard.text)
	assert.Equal(t, "Service\tmysql\nUsername\troot\n", h.stdout.String())
	assert.NotContains(t, h.stdout.String()+h.stderr.String(), "toor")
	assert.Contains(t, h.stderr.String(), "Password copied to clipboard")
}

func TestGetCmdShow(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "mysql", "root", "toor")

	require.NoError(t, (&GetCmd{Name: "mysql", Show: true}).Run(h.sess, h.fp))

	assert.Equal(t, "Service\tmysql\nUsername\troot\nPassword\ttoor\n", h.stdout.String())
	assert.Empty(t, h.clipboard.text)
}

func TestGetCmdClipboardFailure(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "mysql", "root", "toor")
	h.clipboard.err = terminal.ErrClipboardUnavailable

	err := (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitGeneral, exitCode(t, err))
	assert.ErrorIs(t, err, terminal.ErrClipboardUnavailable)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Contains(t, cliErr.Hint, "--show")
	assert.NotContains(t, h.stdout.String(), "toor")
}

func TestGetCmdClipboardDisabled(t *testing.T) {
	h := newHarness(t)
	h.sess.Config.Clipboard = "off"
	h.seed(t, "mysql", "root", "toor")

	require.NoError(t, (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp))
	assert.Empty(t, h.clipboard.text)
	assert.NotContains(t, h.stdout.String(), "toor")
	assert.Contains(t, h.stderr.String(), "--show")
}

func TestGetCmdNotFound(t *testing.T) {
	h := newHarness(t)

	err := (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitNotFound, exitCode(t, err))
	assert.EqualError(t, err, "Service not found: mysql")
}

func TestGetCmdUnreadableRecord(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set("mysql", []byte("garbage")))

	err := (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitNotFound, exitCode(t, err))
	assert.Contains(t, err.Error(), "unreadable")
}

func TestDelCmd(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "mysql", "root", "toor")

	require.NoError(t, (&DelCmd{Name: "mysql"}).Run(h.sess, h.fp))
	assert.Equal(t, "Service\tmysql\nStatus\tdeleted\n", h.stdout.String())

	err := (&DelCmd{Name: "mysql"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitNotFound, exitCode(t, err))
}

func TestViewCmd(t *testing.T) {
	h := newHarness(t)
	h.store.AddForeign(secrets.Item{Label: "Chrome Safe Storage"})
	require.NoError(t, h.store.ForOwner("someone_else").Set("redis", []byte(`{"a":"b"}`)))
	h.seed(t, "mysql", "root", "toor")
	h.seed(t, "aws", "ec2-user", "s3cr3t")

	require.NoError(t, (&ViewCmd{}).Run(h.sess, h.fp))
	assert.Equal(t, "Service\nmysql\naws\n", h.stdout.String())
}

func TestViewCmdEmpty(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, (&ViewCmd{}).Run(h.sess, h.fp))
	assert.Equal(t, "Service\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "No credentials stored for owner kali_creds")
}

func TestCommandsReportStoreOpenFailure(t *testing.T) {
	h := newHarness(t)
	h.sess.OpenStore = func(string) (secrets.Store, error) {
		return nil, &secrets.StoreError{Op: "open", Err: errors.New("dbus: no session bus")}
	}

	err := (&ViewCmd{}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitStore, exitCode(t, err))

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Contains(t, cliErr.Hint, "backend file")
	assert.Contains(t, cliErr.Message, "no session bus")
}

func TestSessionRejectsInvalidOwner(t *testing.T) {
	h := newHarness(t)
	h.sess.Owner = "two words"

	err := (&GetCmd{Name: "mysql"}).Run(h.sess, h.fp)
	assert.Equal(t, output.ExitConfigError, exitCode(t, err))
}

func TestSessionOpensStoreOnce(t *testing.T) {
	h := newHarness(t)
	opened := 0
	h.sess.OpenStore = func(string) (secrets.Store, error) {
		opened++
		return h.store, nil
	}

	_, err := h.sess.Vault()
	require.NoError(t, err)
	_, err = h.sess.Vault()
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
}

func TestOwnerIsolationAcrossSessions(t *testing.T) {
	alice := newHarness(t)
	alice.seed(t, "mysql", "root", "toor")

	bob := newHarness(t)
	bob.sess.Owner = "bob"
	bob.sess.OpenStore = func(owner string) (secrets.Store, error) {
		return alice.store.ForOwner(owner), nil
	}

	require.NoError(t, (&ViewCmd{}).Run(bob.sess, bob.fp))
	assert.Equal(t, "Service\n", bob.stdout.String())

	err := (&GetCmd{Name: "mysql"}).Run(bob.sess, bob.fp)
	assert.Equal(t, output.ExitNotFound, exitCode(t, err))
}
