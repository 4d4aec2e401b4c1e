package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/dupleter/cmd"
	"github.com/lepinkainen/dupleter/types"
)

var Version = "dev"

// usageExitCode is returned for --help and for every parse or validation error
const usageExitCode = 1

// CLI is the root command: dupleter has a single scan action driven by flags
type CLI struct {
	cmd.ScanCmd

	Version versionFlag `help:"Print version and exit"`
}

// exitFunc ends the process for flags that succeed without running a scan.
// kong.Exit cannot be used for it: every exit through kong maps to usageExitCode.
type exitFunc func(code int)

// versionFlag prints the version and exits successfully, unlike --help
type versionFlag bool

func (v versionFlag) BeforeApply(app *kong.Kong, vars kong.Vars, exit exitFunc) error {
	fmt.Fprintln(app.Stdout, vars["version"])
	exit(0)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) *kong.Kong {
	options = append([]kong.Option{
		kong.Name("dupleter"),
		kong.Description("Find and optionally delete duplicate files, by content or by copy-style file names."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		kong.Bind(exitFunc(os.Exit)),
	}, options...)
	return kong.Must(cli, options...)
}

func main() {
	var cli CLI
	parser := newParser(&cli, kong.Exit(func(int) { os.Exit(usageExitCode) }))

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(types.NewAppContext(Version))
	ctx.FatalIfErrorf(err)
}
