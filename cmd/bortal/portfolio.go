package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/bortal/bortal-go/internal/format"
	"github.com/bortal/bortal-go/internal/models"
)

type portfoliosCmd struct{}

func (*portfoliosCmd) Name() string     { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list portfolios with their summaries" }
func (*portfoliosCmd) Usage() string {
	return `bortal portfolios

  Lists every portfolio with its server-computed value and profit/loss rollup.
`
}
func (*portfoliosCmd) SetFlags(*flag.FlagSet) {}

func (c *portfoliosCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}

	portfolios := a.portfolios.Portfolios()
	if len(portfolios) == 0 {
		fmt.Println("No portfolios yet; create one with `bortal portfolio-create -name <name>`.")
		return subcommands.ExitSuccess
	}

	active := a.portfolios.Active()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tVALUE\tP/L\tP/L%\tHOLDINGS")
	for _, p := range portfolios {
		marker := " "
		if active != nil && p.ID == active.ID {
			marker = "*"
		}
		name := p.Name
		if p.IsDefault {
			name += " (default)"
		}
		if p.Summary != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				marker, p.ID, name,
				format.CurrencyCode(p.Summary.TotalValue, p.Currency),
				format.SignedCurrency(p.Summary.ProfitLoss),
				format.SignedPercent(p.Summary.ProfitLossPercent),
				p.Summary.HoldingCount)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\t-\n", marker, p.ID, name)
		}
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type portfolioCmd struct {
	id string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show a portfolio and its holdings" }
func (*portfolioCmd) Usage() string {
	return `bortal portfolio [-id <portfolio>]

  Shows the selected portfolio with derived holdings. Without -id the default
  portfolio is shown; an unknown id falls back to the default and is reported.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}

	if c.id != "" {
		if err := a.portfolios.Select(ctx, c.id); err != nil {
			// Stale reference: the selection already fell back deterministically.
			fmt.Fprintf(os.Stderr, "Warning: %v; showing the default portfolio\n", err)
		}
	}

	active := a.portfolios.Active()
	if active == nil {
		fmt.Println("No portfolios yet; create one with `bortal portfolio-create -name <name>`.")
		return subcommands.ExitSuccess
	}

	renderPortfolio(active, a.portfolios.Holdings())
	return subcommands.ExitSuccess
}

func renderPortfolio(p *models.Portfolio, holdings []models.Holding) {
	fmt.Printf("%s  [%s]\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	if p.Summary != nil {
		fmt.Printf("Value %s   P/L %s (%s)\n",
			format.CurrencyCode(p.Summary.TotalValue, p.Currency),
			format.SignedCurrency(p.Summary.ProfitLoss),
			format.SignedPercent(p.Summary.ProfitLossPercent))
	}
	fmt.Println()

	if len(holdings) == 0 {
		fmt.Println("No open positions.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tQTY\tAVG COST\tLAST\tVALUE\tP/L\tP/L%\tWEIGHT")
	for _, h := range holdings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			h.Stock.Symbol, h.Stock.Name,
			format.Number(h.Quantity),
			format.Number(h.AverageCost),
			format.Number(h.LastPrice),
			format.Currency(h.CurrentValue),
			format.SignedCurrency(h.ProfitLoss),
			format.SignedPercent(h.ProfitLossPercent),
			format.Percent(h.WeightPercent))
	}
	w.Flush()
}

type portfolioCreateCmd struct {
	name        string
	description string
}

func (*portfolioCreateCmd) Name() string     { return "portfolio-create" }
func (*portfolioCreateCmd) Synopsis() string { return "create a portfolio" }
func (*portfolioCreateCmd) Usage() string {
	return `bortal portfolio-create -name <name> [-desc <description>]
`
}

func (c *portfolioCreateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Portfolio name.")
	f.StringVar(&c.description, "desc", "", "Optional description.")
}

func (c *portfolioCreateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}

	created, err := a.portfolios.Create(ctx, c.name, c.description)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created portfolio %q [%s]\n", created.Name, created.ID)
	return subcommands.ExitSuccess
}

type portfolioRmCmd struct {
	id  string
	yes bool
}

func (*portfolioRmCmd) Name() string     { return "portfolio-rm" }
func (*portfolioRmCmd) Synopsis() string { return "delete a portfolio and all its transactions" }
func (*portfolioRmCmd) Usage() string {
	return `bortal portfolio-rm -id <portfolio> [-y]

  Deletes the portfolio; the server cascades to its holdings and transactions.
`
}

func (c *portfolioRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id.")
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *portfolioRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}

	if !c.yes && !confirm(fmt.Sprintf("Delete portfolio %s and all its transactions?", c.id)) {
		fmt.Println("Aborted")
		return subcommands.ExitSuccess
	}

	if err := a.portfolios.Delete(ctx, c.id); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted portfolio %s\n", c.id)
	return subcommands.ExitSuccess
}

type holdingRmCmd struct {
	id     string
	symbol string
	yes    bool
}

func (*holdingRmCmd) Name() string     { return "holding-rm" }
func (*holdingRmCmd) Synopsis() string { return "close a position by deleting its transactions" }
func (*holdingRmCmd) Usage() string {
	return `bortal holding-rm -symbol <symbol> [-id <portfolio>] [-y]

  Removes a position by deleting every transaction for the stock. There is no
  direct holding delete; partial failures are reported step by step.
`
}

func (c *holdingRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol of the position to remove.")
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *holdingRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}
	if c.id != "" {
		if err := a.portfolios.Select(ctx, c.id); err != nil {
			return fail(err)
		}
	}

	var target *models.Holding
	for _, h := range a.portfolios.Holdings() {
		if strings.EqualFold(h.Stock.Symbol, c.symbol) {
			target = &h
			break
		}
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "Error: no open position in %s\n", strings.ToUpper(c.symbol))
		return subcommands.ExitFailure
	}

	if !c.yes && !confirm(fmt.Sprintf("Delete all transactions for %s?", target.Stock.Symbol)) {
		fmt.Println("Aborted")
		return subcommands.ExitSuccess
	}

	if err := a.portfolios.DeleteHolding(ctx, *target); err != nil {
		return fail(err)
	}
	fmt.Printf("Removed position in %s\n", target.Stock.Symbol)
	return subcommands.ExitSuccess
}

type perfCmd struct {
	id    string
	frame string
	chart string
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "show portfolio performance over a time frame" }
func (*perfCmd) Usage() string {
	return `bortal perf [-id <portfolio>] [-frame 1w|1m|3m|1y|all] [-chart <file.png>]

  Prints the daily value series windowed to the trailing time frame. With
  -chart the series is also rendered as a PNG line chart.
`
}

func (c *perfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
	f.StringVar(&c.frame, "frame", "1m", "Time frame: 1w, 1m, 3m, 1y or all.")
	f.StringVar(&c.chart, "chart", "", "Write a PNG chart to this path.")
}

func (c *perfCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}

	tf := models.TimeFrame(c.frame)
	switch tf {
	case models.TimeFrameWeek, models.TimeFrameMonth, models.TimeFrameThreeMonth, models.TimeFrameYear, models.TimeFrameAll:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown time frame %q\n", c.frame)
		return subcommands.ExitUsageError
	}

	if err := a.portfolios.Refresh(ctx); err != nil {
		return fail(err)
	}
	if c.id != "" {
		if err := a.portfolios.Select(ctx, c.id); err != nil {
			return fail(err)
		}
	}
	active := a.portfolios.Active()
	if active == nil {
		fmt.Println("No portfolios yet.")
		return subcommands.ExitSuccess
	}

	series, err := a.portfolios.Performance(ctx, active.ID, tf)
	if err != nil {
		return fail(err)
	}
	if len(series) == 0 {
		fmt.Printf("No data points in the %s window.\n", tf)
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tVALUE\tCOST BASIS")
	for _, dv := range series {
		cost := "-"
		if dv.CostBasis != 0 {
			cost = format.Currency(dv.CostBasis)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", dv.Date, format.Currency(dv.Value), cost)
	}
	w.Flush()

	first, last := series[0], series[len(series)-1]
	change := last.Value - first.Value
	fmt.Printf("\n%s: %s -> %s (%s)\n", tf, format.Currency(first.Value), format.Currency(last.Value), format.SignedCurrency(change))

	if c.chart != "" {
		if err := renderPerformanceChart(c.chart, active.Name, series); err != nil {
			return fail(err)
		}
		fmt.Printf("Chart written to %s\n", c.chart)
	}
	return subcommands.ExitSuccess
}
