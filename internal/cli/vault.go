package cli

import (
	"fmt"

	"github.com/semmy-space/kvault/internal/output"
	"github.com/semmy-space/kvault/internal/vault"
)

// SetCmd implements the set command
type SetCmd struct {
	Name     string `short:"n" required:"" help:"Service name (e.g. mysql)" predictor:"service"`
	Username string `short:"u" required:"" help:"Username to store"`
	Password string `short:"p" help:"Password to store (prompted without echo when omitted)"`
}

type setResult struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Run executes the set command
func (cmd *SetCmd) Run(sess *Session, fp *FormatterProvider) error {
	if err := vault.ValidateName(cmd.Name); err != nil {
		return vaultError(err, cmd.Name)
	}

	v, err := sess.Vault()
	if err != nil {
		return err
	}

	secret := cmd.Password
	if secret == "" {
		secret, err = sess.Input.ReadSecret("Password: ")
		if err != nil {
			return vaultError(err, cmd.Name)
		}
	}

	outcome, err := v.Set(cmd.Name, cmd.Username, secret)
	if err != nil {
		return vaultError(err, cmd.Name)
	}

	status := outcome.String()
	if outcome == vault.OutcomeAborted {
		status = "unchanged"
	}
	return fp.Formatter.Print(setResult{Service: cmd.Name, Status: status})
}

// GetCmd implements the get command
type GetCmd struct {
	Name string `short:"n" required:"" help:"Service name" predictor:"service"`
	Show bool   `help:"Print the password instead of copying it to the clipboard"`
}

type getResult struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// Run executes the get command
func (cmd *GetCmd) Run(sess *Session, fp *FormatterProvider) error {
	v, err := sess.Vault()
	if err != nil {
		return err
	}

	cred, err := v.Get(cmd.Name)
	if err != nil {
		return vaultError(err, cmd.Name)
	}

	result := getResult{Service: cmd.Name, Username: cred.Username}
	if cmd.Show {
		result.Password = cred.Secret
		return fp.Formatter.Print(result)
	}

	if !sess.Config.ClipboardEnabled() {
		if err := fp.Formatter.Print(result); err != nil {
			return err
		}
		fp.Formatter.PrintHint("Clipboard is disabled; use --show to print the password")
		return nil
	}

	if err := sess.Clipboard.Copy(cred.Secret); err != nil {
		if perr := fp.Formatter.Print(result); perr != nil {
			return perr
		}
		return output.NewCLIError(output.ExitGeneral, fmt.Sprintf("Failed to copy password to clipboard: %v", err)).
			WithHint("Use --show to print the password instead").
			Wrap(err)
	}

	if err := fp.Formatter.Print(result); err != nil {
		return err
	}
	fp.Formatter.PrintHint("Password copied to clipboard")
	return nil
}

// DelCmd implements the del command
type DelCmd struct {
	Name string `short:"n" required:"" help:"Service name" predictor:"service"`
}

// Run executes the del command
func (cmd *DelCmd) Run(sess *Session, fp *FormatterProvider) error {
	v, err := sess.Vault()
	if err != nil {
		return err
	}

	if err := v.Delete(cmd.Name); err != nil {
		return vaultError(err, cmd.Name)
	}

	return fp.Formatter.Print(setResult{Service: cmd.Name, Status: "deleted"})
}

// ViewCmd implements the view command
type ViewCmd struct{}

type serviceRow struct {
	Service string `json:"service"`
}

// Run executes the view command
func (cmd *ViewCmd) Run(sess *Session, fp *FormatterProvider) error {
	v, err := sess.Vault()
	if err != nil {
		return err
	}

	services, err := v.ListAll()
	if err != nil {
		return vaultError(err, "")
	}

	rows := make([]serviceRow, len(services))
	for i, s := range services {
		rows[i] = serviceRow{Service: s}
	}

	if len(rows) == 0 {
		fp.Formatter.PrintHint(fmt.Sprintf("No credentials stored for owner %s", v.Owner()))
	}

	cols := []output.Column{
		{Name: "Service", Key: "Service"},
	}
	return fp.Formatter.PrintList(rows, cols)
}
