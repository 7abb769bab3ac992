package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/kvault/internal/cli"
	"github.com/semmy-space/kvault/internal/output"
)

var (
	version = "dev"
	// defaultOwner is the vault identity used when neither KVAULT_OWNER nor the
	// config file sets one. Override at build time with -ldflags "-X main.defaultOwner=...".
	defaultOwner = "kvault"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("kvault"),
		kong.Description("Store and retrieve credentials in the OS keyring"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
			"owner":   defaultOwner,
		},
	)

	// Handles shell completion requests and exits; no-op otherwise
	kongplete.Complete(parser,
		kongplete.WithPredictor("service", cli.ServicePredictor(defaultOwner)),
	)

	// No arguments: show help and exit 0
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"--help"}
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		// Hook failures are already CLIErrors; only bad usage gets the usage text
		var cliErr *output.CLIError
		var parseErr *kong.ParseError
		if !errors.As(err, &cliErr) && errors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		os.Exit(output.Report(output.New("plain"), cli.UsageError(err), cliInstance.StrictExit))
	}

	// Run command with bound dependencies
	err = ctx.Run()
	os.Exit(output.Report(output.New(cliInstance.ResolvedOutput()), err, cliInstance.StrictExit))
}
