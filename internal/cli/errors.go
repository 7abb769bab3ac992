package cli

import (
	"errors"
	"fmt"

	"github.com/semmy-space/kvault/internal/output"
	"github.com/semmy-space/kvault/internal/record"
	"github.com/semmy-space/kvault/internal/secrets"
	"github.com/semmy-space/kvault/internal/terminal"
	"github.com/semmy-space/kvault/internal/vault"
)

// UsageError converts a command line parse failure into a CLIError, so bad
// usage follows the same exit convention as failing commands.
func UsageError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return output.NewCLIError(output.ExitUsage, err.Error()).
		WithHint("Run: kvault --help").
		Wrap(err)
}

// vaultError converts a vault failure into a CLIError for service
func vaultError(err error, service string) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, record.ErrMalformed):
		return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("Service not found: %s (stored record is unreadable)", service)).
			WithHint(fmt.Sprintf("Run: kvault set --name %s --force to replace it", service)).
			Wrap(err)
	case errors.Is(err, vault.ErrNotFound):
		return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("Service not found: %s", service)).
			WithHint("Run: kvault view to list stored services").
			Wrap(err)
	case errors.Is(err, vault.ErrInvalidName), errors.Is(err, record.ErrEmptyField),
		errors.Is(err, record.ErrInvalidText):
		return output.NewCLIError(output.ExitUsage, err.Error()).Wrap(err)
	case errors.Is(err, terminal.ErrNoInput):
		return output.NewCLIError(output.ExitUsage, "Input required but prompts are disabled").
			WithHint("Pass --password, or --force to overwrite without asking").
			Wrap(err)
	case errors.Is(err, terminal.ErrInterrupted):
		return output.NewCLIError(output.ExitInterrupted, "Interrupted").Wrap(err)
	}

	return storeError(err)
}

// storeError converts a secret store failure into a CLIError
func storeError(err error) error {
	var storeErr *secrets.StoreError
	if errors.As(err, &storeErr) {
		cliErr := output.NewCLIError(output.ExitStore, fmt.Sprintf("Secret store error: %v", storeErr)).Wrap(err)
		if storeErr.Op == "open" {
			cliErr.WithHint("Run: kvault config set backend file to use the encrypted file store")
		}
		return cliErr
	}

	return output.NewCLIError(output.ExitGeneral, err.Error()).Wrap(err)
}
