package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/format"
	"github.com/bortal/bortal-go/internal/models"
)

type stockCmd struct {
	rng string
}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "show a stock with price history" }
func (*stockCmd) Usage() string {
	return `bortal stock [-range 1w|1m|1y|3y|5y] <symbol>

  Shows the latest quote, fundamentals and the price history for the range.
`
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "range", "1m", "History range: 1w, 1m, 1y, 3y or 5y.")
}

func (c *stockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	symbol := f.Arg(0)
	if symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: symbol argument is required")
		return subcommands.ExitUsageError
	}

	rng := models.HistoryRange(c.rng)
	if !rng.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown range %q\n", c.rng)
		return subcommands.ExitUsageError
	}

	view, err := a.detail.Load(ctx, symbol, rng)
	if err != nil {
		return fail(err)
	}

	d := view.Detail
	fmt.Printf("%s  %s\n", d.Symbol, d.Name)
	if d.Description != "" {
		fmt.Println(d.Description)
	}
	if d.LatestPrice != nil {
		fmt.Printf("Last %s (%s, %s)   O %s  H %s  L %s  Vol %d\n",
			format.Number(d.LatestPrice.Close),
			format.SignedCurrency(d.PriceChange),
			format.SignedPercent(d.PriceChangePercent),
			format.Number(d.LatestPrice.Open),
			format.Number(d.LatestPrice.High),
			format.Number(d.LatestPrice.Low),
			d.LatestPrice.Volume)
	}

	if fd := d.Fundamentals; fd != nil {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Market cap\t%s\n", format.Currency(fd.MarketCap))
		fmt.Fprintf(w, "P/E\t%s\tP/B\t%s\n", format.Number(fd.PERatio), format.Number(fd.PBRatio))
		fmt.Fprintf(w, "EPS\t%s\tBeta\t%s\n", format.Number(fd.EPS), format.Number(fd.Beta))
		fmt.Fprintf(w, "Dividend yield\t%s\n", format.Percent(fd.DividendYield))
		w.Flush()
	}

	if len(d.PriceHistory) > 0 {
		first := d.PriceHistory[0]
		last := d.PriceHistory[len(d.PriceHistory)-1]
		fmt.Printf("\nHistory (%s): %d points, %s -> %s, close %s -> %s\n",
			view.Range, len(d.PriceHistory), first.Date, last.Date,
			format.Number(first.Close), format.Number(last.Close))
	}
	return subcommands.ExitSuccess
}

type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "search stocks" }
func (*stocksCmd) Usage() string {
	return `bortal stocks <query>

  Searches the stock reference by symbol or name.
`
}
func (*stocksCmd) SetFlags(*flag.FlagSet) {}

func (c *stocksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	stocks, err := a.stocks.Search(ctx, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	if len(stocks) == 0 {
		fmt.Println("No stocks found.")
		return subcommands.ExitSuccess
	}

	renderStocks(stocks)
	return subcommands.ExitSuccess
}

func renderStocks(stocks []models.Stock) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tSECTOR\tLAST\tCHANGE")
	for _, s := range stocks {
		last, change := "-", "-"
		if s.LatestPrice != nil {
			last = format.Number(s.LatestPrice.Price)
			change = format.SignedPercent(s.LatestPrice.ChangePercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Symbol, s.Name, s.Sector, last, change)
	}
	w.Flush()
}

type indicesCmd struct{}

func (*indicesCmd) Name() string     { return "indices" }
func (*indicesCmd) Synopsis() string { return "list market indices" }
func (*indicesCmd) Usage() string {
	return `bortal indices
`
}
func (*indicesCmd) SetFlags(*flag.FlagSet) {}

func (c *indicesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	indices, err := a.indices.List(ctx)
	if err != nil {
		return fail(err)
	}

	renderIndices(indices)
	return subcommands.ExitSuccess
}

func renderIndices(indices []models.MarketIndex) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tLEVEL\tCHANGE\tSTOCKS")
	for _, idx := range indices {
		count := "-"
		if idx.StockCount > 0 {
			count = fmt.Sprintf("%d", idx.StockCount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", idx.Name,
			format.Number(idx.LastValue),
			format.SignedPercent(idx.ChangePercent),
			count)
	}
	w.Flush()
}

type indexCmd struct{}

func (*indexCmd) Name() string     { return "index" }
func (*indexCmd) Synopsis() string { return "show an index with its constituents" }
func (*indexCmd) Usage() string {
	return `bortal index <name>

  Shows one index (e.g. BIST100) with its constituent stocks.
`
}
func (*indexCmd) SetFlags(*flag.FlagSet) {}

func (c *indexCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	name := f.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: index name argument is required")
		return subcommands.ExitUsageError
	}

	detail, err := a.indices.Get(ctx, name)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s   %s (%s)\n", detail.Name,
		format.Number(detail.LastValue),
		format.SignedPercent(detail.ChangePercent))
	if len(detail.Stocks) > 0 {
		fmt.Println()
		renderStocks(detail.Stocks)
	}
	return subcommands.ExitSuccess
}

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the portal landing page" }
func (*dashboardCmd) Usage() string {
	return `bortal dashboard

  Shows the aggregated overview: market indices, watchlists and portfolios.
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}

	common.PrintBanner(a.config, a.config.Session.ResolvePath())

	dash, err := a.dashboard.Get(ctx)
	if err != nil {
		return fail(err)
	}

	if len(dash.MarketOverview) > 0 {
		fmt.Println("Market overview")
		renderIndices(dash.MarketOverview)
		fmt.Println()
	}

	if len(dash.Watchlists) > 0 {
		fmt.Println("Watchlists")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, wl := range dash.Watchlists {
			fmt.Fprintf(w, "  %s\t%d stocks\n", wl.Name, wl.StockCount())
		}
		w.Flush()
		fmt.Println()
	}

	if len(dash.Portfolios) > 0 {
		fmt.Println("Portfolios")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, p := range dash.Portfolios {
			if p.Summary != nil {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Name,
					format.CurrencyCode(p.Summary.TotalValue, p.Currency),
					format.SignedPercent(p.Summary.ProfitLossPercent))
			} else {
				fmt.Fprintf(w, "  %s\t-\t-\n", p.Name)
			}
		}
		w.Flush()
	}
	return subcommands.ExitSuccess
}
