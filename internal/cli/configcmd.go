package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/semmy-space/kvault/internal/config"
	"github.com/semmy-space/kvault/internal/output"
	"github.com/semmy-space/kvault/internal/secrets"
	"github.com/semmy-space/kvault/internal/vault"
)

var (
	validOutputs   = []string{"json", "plain", "rich", "auto"}
	validClipboard = []string{"on", "off"}
)

// validateConfigValue checks a value before it is written to the config file
func validateConfigValue(key, value string) error {
	oneOf := func(valid []string) error {
		if slices.Contains(valid, value) {
			return nil
		}
		return &output.CLIError{
			Message:  fmt.Sprintf("Invalid %s: %s. Valid values: %s", key, value, strings.Join(valid, ", ")),
			ExitCode: output.ExitUsage,
		}
	}

	switch key {
	case "owner", "collection":
		if err := vault.ValidateName(value); err != nil {
			return &output.CLIError{
				Message:  fmt.Sprintf("Invalid %s: %v", key, err),
				ExitCode: output.ExitUsage,
			}
		}
	case "backend":
		return oneOf(secrets.Backends)
	case "default_output":
		return oneOf(validOutputs)
	case "clipboard":
		return oneOf(validClipboard)
	}
	return nil
}

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., owner, backend)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
			ExitCode: output.ExitNotFound,
		}
	}

	return fp.Formatter.Print(value)
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	// Validate key exists
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
			ExitCode: output.ExitUsage,
		}
	}

	if err := validateConfigValue(cmd.Key, cmd.Value); err != nil {
		return err
	}

	// Hint for owner: entries stored under the old owner become invisible
	if cmd.Key == "owner" && cfg.Owner != "" && cfg.Owner != cmd.Value {
		fp.Formatter.PrintHint(fmt.Sprintf("Entries stored under owner %s are hidden until you switch back", cfg.Owner))
	}

	// Set and save
	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	if err := cfg.Save(); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to save config: %v", err),
			ExitCode: output.ExitConfigError,
		}
	}

	fmt.Fprintf(os.Stderr, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	// Validate key exists
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
		}
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to unset config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	if err := cfg.Save(); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to save config: %v", err),
			ExitCode: output.ExitConfigError,
		}
	}

	fmt.Fprintf(os.Stderr, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	type ConfigItem struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	keys := config.Keys()
	items := make([]ConfigItem, 0, len(keys))
	for _, key := range keys {
		value, _ := cfg.Get(key)
		items = append(items, ConfigItem{Key: key, Value: value})
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(fp *FormatterProvider) error {
	path := config.ConfigPath()

	if err := fp.Formatter.Print(path); err != nil {
		return err
	}

	// Print existence hint to stderr
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(os.Stderr, "(file exists)\n")
	}

	return nil
}
