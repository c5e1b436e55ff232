package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&questionsCmd{}, "profile")
	subcommands.Register(&profileCmd{}, "profile")

	subcommands.Register(&portfolioCmd{}, "portfolios")
	subcommands.Register(&exportCmd{}, "portfolios")
	subcommands.Register(&etfsCmd{}, "portfolios")

	subcommands.Register(&simulateCmd{}, "simulation")
	subcommands.Register(&compareCmd{}, "simulation")
	subcommands.Register(&fetchCmd{}, "simulation")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
