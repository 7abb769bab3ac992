package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Output     string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"KVAULT_OUTPUT"`
	Verbose    bool   `help:"Verbose diagnostics on stderr" short:"v" env:"KVAULT_VERBOSE"`
	NoInput    bool   `help:"Disable interactive prompts (fail instead)" env:"KVAULT_NO_INPUT"`
	Force      bool   `help:"Overwrite existing entries without asking" env:"KVAULT_FORCE"`
	StrictExit bool   `help:"Exit non-zero when a command fails" name:"strict-exit" env:"KVAULT_STRICT_EXIT"`
	Backend    string `help:"Secret store backend" default:"" enum:"auto,keyring,file,memory," env:"KVAULT_BACKEND"`
}

// ResolvedOutput returns the effective output mode
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput() string {
	if g.Output != "auto" && g.Output != "" {
		return g.Output
	}

	// Detect if stdout is a TTY
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
