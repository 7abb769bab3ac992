package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/kvault/internal/config"
	"github.com/semmy-space/kvault/internal/logging"
	"github.com/semmy-space/kvault/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Set     SetCmd     `cmd:"" help:"Store a credential"`
	Get     GetCmd     `cmd:"" help:"Retrieve a credential"`
	Del     DelCmd     `cmd:"" help:"Delete a credential"`
	View    ViewCmd    `cmd:"" aliases:"view_all,ls" help:"List stored services"`
	Config  ConfigCmd  `cmd:"" help:"Configuration commands"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// AfterApply hook runs once flags are parsed
// It loads config, resolves owner and output mode, and binds dependencies
func (c *CLI) AfterApply(ctx *kong.Context) error {
	// Load config from XDG path (returns defaults if missing)
	cfg, err := config.Load()
	if err != nil {
		return output.NewCLIError(output.ExitConfigError, err.Error()).
			WithHint(fmt.Sprintf("Check %s", config.ConfigPath())).
			Wrap(err)
	}

	// Output: flag/env > config > auto
	if c.Output == "auto" && cfg.DefaultOutput != "" {
		c.Output = cfg.DefaultOutput
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	log := logging.NewStderr(c.Verbose)
	owner := ResolveOwner(cfg, ctx.Model.Vars()["owner"])
	session := NewSession(cfg, &c.Globals, log, owner)

	// Bind dependencies to kong context
	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(session)

	return nil
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, sess *Session) error {
	version := ctx.Model.Vars()["version"]
	fmt.Fprintf(ctx.Stdout, "kvault version %s (owner %s)\n", version, sess.Owner)
	return nil
}
