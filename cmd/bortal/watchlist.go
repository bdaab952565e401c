package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/bortal/bortal-go/internal/format"
	"github.com/bortal/bortal-go/internal/models"
)

type watchlistsCmd struct{}

func (*watchlistsCmd) Name() string     { return "watchlists" }
func (*watchlistsCmd) Synopsis() string { return "list watchlists" }
func (*watchlistsCmd) Usage() string {
	return `bortal watchlists
`
}
func (*watchlistsCmd) SetFlags(*flag.FlagSet) {}

func (c *watchlistsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	lists := a.watchlists.Watchlists()
	if len(lists) == 0 {
		fmt.Println("No watchlists yet; create one with `bortal watchlist-create -name <name>`.")
		return subcommands.ExitSuccess
	}

	active := a.watchlists.Active()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tSTOCKS")
	for _, wl := range lists {
		marker := " "
		if active != nil && wl.ID == active.ID {
			marker = "*"
		}
		name := wl.Name
		if wl.IsDefault {
			name += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", marker, wl.ID, name, wl.StockCount())
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type watchlistCmd struct {
	id string
}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "show a watchlist with quotes" }
func (*watchlistCmd) Usage() string {
	return `bortal watchlist [-id <watchlist>]

  Shows the tracked stocks with their latest prices. Without -id the default
  watchlist is shown; an unknown id falls back to the default and is reported.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Watchlist id (defaults to the default watchlist).")
}

func (c *watchlistCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	if c.id != "" {
		if err := a.watchlists.Select(c.id); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; showing the default watchlist\n", err)
		}
	}

	active := a.watchlists.Active()
	if active == nil {
		fmt.Println("No watchlists yet; create one with `bortal watchlist-create -name <name>`.")
		return subcommands.ExitSuccess
	}

	renderWatchlist(active)
	return subcommands.ExitSuccess
}

func renderWatchlist(wl *models.Watchlist) {
	fmt.Printf("%s  [%s]\n", wl.Name, wl.ID)
	if wl.Description != "" {
		fmt.Println(wl.Description)
	}
	fmt.Println()

	if len(wl.Stocks) == 0 {
		fmt.Println("No stocks tracked yet; add one with `bortal watch -symbol <symbol>`.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tSECTOR\tLAST\tCHANGE")
	for _, s := range wl.Stocks {
		last, change := "-", "-"
		if s.LatestPrice != nil {
			last = format.Number(s.LatestPrice.Price)
			change = format.SignedPercent(s.LatestPrice.ChangePercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Symbol, s.Name, s.Sector, last, change)
	}
	w.Flush()
}

type watchlistCreateCmd struct {
	name        string
	description string
}

func (*watchlistCreateCmd) Name() string     { return "watchlist-create" }
func (*watchlistCreateCmd) Synopsis() string { return "create a watchlist" }
func (*watchlistCreateCmd) Usage() string {
	return `bortal watchlist-create -name <name> [-desc <description>]
`
}

func (c *watchlistCreateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Watchlist name.")
	f.StringVar(&c.description, "desc", "", "Optional description.")
}

func (c *watchlistCreateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	created, err := a.watchlists.Create(ctx, c.name, c.description)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created watchlist %q [%s]\n", created.Name, created.ID)
	return subcommands.ExitSuccess
}

type watchlistRenameCmd struct {
	id          string
	name        string
	description string
}

func (*watchlistRenameCmd) Name() string     { return "watchlist-rename" }
func (*watchlistRenameCmd) Synopsis() string { return "rename a watchlist" }
func (*watchlistRenameCmd) Usage() string {
	return `bortal watchlist-rename -id <watchlist> -name <new name> [-desc <description>]
`
}

func (c *watchlistRenameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Watchlist id.")
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.description, "desc", "", "New description.")
}

func (c *watchlistRenameCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	if err := a.watchlists.Rename(ctx, c.id, c.name, c.description); err != nil {
		return fail(err)
	}
	fmt.Printf("Renamed watchlist %s to %q\n", c.id, c.name)
	return subcommands.ExitSuccess
}

type watchlistRmCmd struct {
	id  string
	yes bool
}

func (*watchlistRmCmd) Name() string     { return "watchlist-rm" }
func (*watchlistRmCmd) Synopsis() string { return "delete a watchlist" }
func (*watchlistRmCmd) Usage() string {
	return `bortal watchlist-rm -id <watchlist> [-y]
`
}

func (c *watchlistRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Watchlist id.")
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *watchlistRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	if !c.yes && !confirm(fmt.Sprintf("Delete watchlist %s?", c.id)) {
		fmt.Println("Aborted")
		return subcommands.ExitSuccess
	}

	if err := a.watchlists.Delete(ctx, c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted watchlist %s\n", c.id)
	return subcommands.ExitSuccess
}

type watchCmd struct {
	id     string
	symbol string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "add a stock to a watchlist" }
func (*watchCmd) Usage() string {
	return `bortal watch -symbol <symbol> [-id <watchlist>]

  Adds a stock to the watchlist. Symbols already tracked are rejected locally
  before any request is made.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Watchlist id (defaults to the default watchlist).")
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol to track.")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required")
		return subcommands.ExitUsageError
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	id := c.id
	if id == "" {
		active := a.watchlists.Active()
		if active == nil {
			fmt.Fprintln(os.Stderr, "Error: no watchlist to add to")
			return subcommands.ExitFailure
		}
		id = active.ID
	}

	if err := a.watchlists.AddStock(ctx, id, c.symbol); err != nil {
		return fail(err)
	}
	fmt.Printf("Now watching %s\n", c.symbol)
	return subcommands.ExitSuccess
}

type unwatchCmd struct {
	id     string
	symbol string
}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "remove a stock from a watchlist" }
func (*unwatchCmd) Usage() string {
	return `bortal unwatch -symbol <symbol> [-id <watchlist>]
`
}

func (c *unwatchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Watchlist id (defaults to the default watchlist).")
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol to stop tracking.")
}

func (c *unwatchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required")
		return subcommands.ExitUsageError
	}
	if err := a.watchlists.Refresh(ctx); err != nil {
		return fail(err)
	}

	id := c.id
	if id == "" {
		active := a.watchlists.Active()
		if active == nil {
			fmt.Fprintln(os.Stderr, "Error: no watchlist selected")
			return subcommands.ExitFailure
		}
		id = active.ID
	}

	if err := a.watchlists.RemoveStock(ctx, id, c.symbol); err != nil {
		return fail(err)
	}
	fmt.Printf("Stopped watching %s\n", c.symbol)
	return subcommands.ExitSuccess
}
