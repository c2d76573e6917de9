// Command fakegen writes fake_gen.go files for the fake structs declared
// in fakestub files.
//
// A fakestub file carries the fakestub build constraint and declares
// structs embedding the interfaces they fake:
//
//	//go:build fakestub
//
//	package weather
//
//	type FakeStation struct {
//		Station
//	}
//
// fakegen replaces the embedded interfaces with verstub.Double and emits a
// method per interface method, dispatching through the verstub registry.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	cmdfakegen "github.com/Versent/go-verstub/internal/cmd/fakegen"
)

func main() {
	logger := cmdfakegen.NewLogger()

	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(cmdfakegen.NewGenCmd(logger, flag.NewFlagSet("gen", flag.ContinueOnError)), "")

	ctx := context.Background()

	allCmds := map[string]bool{}
	subcommands.DefaultCommander.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) { allCmds[cmd.Name()] = true })
	// Default to running the "gen" command.
	if args := os.Args[1:]; len(args) == 0 || !allCmds[args[0]] {
		f := flag.NewFlagSet("gen", flag.ContinueOnError)
		genCmd := cmdfakegen.NewGenCmd(logger, f)
		f.Usage = func() {
			cdr := subcommands.DefaultCommander
			cdr.ExplainCommand(cdr.Error, genCmd)
		}
		if f.Parse(args) != nil {
			os.Exit(int(subcommands.ExitUsageError))
		}
		os.Exit(int(genCmd.Execute(ctx, f)))
	}
	flag.Parse()
	os.Exit(int(subcommands.Execute(ctx)))
}
