package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range tradingCommands {
		commander.Register(c, "trading")
	}
	for _, c := range educationCommands {
		commander.Register(c, "learning")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
