package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&loginCmd{}, "auth")
	commander.Register(&registerCmd{}, "auth")
	commander.Register(&logoutCmd{}, "auth")
	commander.Register(&whoamiCmd{}, "auth")

	commander.Register(&portfoliosCmd{}, "portfolio")
	commander.Register(&portfolioCmd{}, "portfolio")
	commander.Register(&portfolioCreateCmd{}, "portfolio")
	commander.Register(&portfolioRmCmd{}, "portfolio")
	commander.Register(&holdingRmCmd{}, "portfolio")
	commander.Register(&perfCmd{}, "portfolio")

	commander.Register(&txCmd{}, "transactions")
	commander.Register(&txAddCmd{}, "transactions")
	commander.Register(&txRmCmd{}, "transactions")

	commander.Register(&watchlistsCmd{}, "watchlist")
	commander.Register(&watchlistCmd{}, "watchlist")
	commander.Register(&watchlistCreateCmd{}, "watchlist")
	commander.Register(&watchlistRenameCmd{}, "watchlist")
	commander.Register(&watchlistRmCmd{}, "watchlist")
	commander.Register(&watchCmd{}, "watchlist")
	commander.Register(&unwatchCmd{}, "watchlist")

	commander.Register(&stockCmd{}, "market")
	commander.Register(&stocksCmd{}, "market")
	commander.Register(&indicesCmd{}, "market")
	commander.Register(&indexCmd{}, "market")
	commander.Register(&dashboardCmd{}, "market")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
