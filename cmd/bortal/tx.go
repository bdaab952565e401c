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

type txCmd struct {
	id       string
	page     int
	pageSize int
	typ      string
	symbol   string
	days     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions of a portfolio" }
func (*txCmd) Usage() string {
	return `bortal tx [-id <portfolio>] [-page <n>] [-size <n>] [-type buy|sell|dividend] [-symbol <symbol>] [-days <n>]

  Lists one filtered page of the portfolio's transaction history.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
	f.IntVar(&c.page, "page", 1, "Page number.")
	f.IntVar(&c.pageSize, "size", 20, "Page size.")
	f.StringVar(&c.typ, "type", "", "Filter by transaction type.")
	f.StringVar(&c.symbol, "symbol", "", "Filter by stock symbol.")
	f.IntVar(&c.days, "days", 0, "Restrict to the trailing N days.")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
			return fail(err)
		}
	}

	items, pagination, err := a.portfolios.Transactions(ctx, models.TransactionQuery{
		Page:     c.page,
		PageSize: c.pageSize,
		Type:     models.TransactionType(c.typ),
		Symbol:   c.symbol,
		Days:     c.days,
	})
	if err != nil {
		return fail(err)
	}

	if len(items) == 0 {
		fmt.Println("No transactions match.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tSYMBOL\tQTY\tPRICE\tFEES")
	for _, t := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.TransactionDate, t.TransactionType, t.StockSymbol,
			format.Number(t.Quantity),
			format.Number(t.PricePerUnit),
			format.Number(t.Fees))
	}
	w.Flush()

	if pagination != nil && pagination.TotalPages > 1 {
		fmt.Printf("\nPage %d of %d (%d transactions)\n", pagination.Page, pagination.TotalPages, pagination.TotalCount)
	}
	return subcommands.ExitSuccess
}

type txAddCmd struct {
	id     string
	symbol string
	typ    string
	qty    float64
	price  float64
	fees   float64
	date   string
	notes  string
}

func (*txAddCmd) Name() string     { return "tx-add" }
func (*txAddCmd) Synopsis() string { return "record a buy, sell or dividend" }
func (*txAddCmd) Usage() string {
	return `bortal tx-add -symbol <symbol> -type buy|sell|dividend -qty <n> -price <n> -date <YYYY-MM-DD> [-fees <n>] [-notes <text>] [-id <portfolio>]

  Records a transaction. For dividends -price is the dividend per share.
  On success the portfolio's holdings and summary are re-fetched.
`
}

func (c *txAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol.")
	f.StringVar(&c.typ, "type", "buy", "Transaction type: buy, sell or dividend.")
	f.Float64Var(&c.qty, "qty", 0, "Quantity of shares.")
	f.Float64Var(&c.price, "price", 0, "Price per unit.")
	f.Float64Var(&c.fees, "fees", 0, "Brokerage fees.")
	f.StringVar(&c.date, "date", "", "Transaction date (YYYY-MM-DD).")
	f.StringVar(&c.notes, "notes", "", "Free-text note.")
}

func (c *txAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
			return fail(err)
		}
	}
	active := a.portfolios.Active()
	if active == nil {
		fmt.Fprintln(os.Stderr, "Error: no portfolio to record into")
		return subcommands.ExitFailure
	}

	txn, err := a.portfolios.AddTransaction(ctx, active.ID, &models.TransactionDraft{
		StockSymbol:     c.symbol,
		TransactionType: models.TransactionType(c.typ),
		Quantity:        c.qty,
		PricePerUnit:    c.price,
		Fees:            c.fees,
		TransactionDate: c.date,
		Notes:           c.notes,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Recorded %s of %s x %s @ %s [%s]\n",
		txn.TransactionType, txn.StockSymbol,
		format.Number(txn.Quantity), format.Number(txn.PricePerUnit), txn.ID)
	return subcommands.ExitSuccess
}

type txRmCmd struct {
	id   string
	txID string
	yes  bool
}

func (*txRmCmd) Name() string     { return "tx-rm" }
func (*txRmCmd) Synopsis() string { return "delete a single transaction" }
func (*txRmCmd) Usage() string {
	return `bortal tx-rm -tx <transaction> [-id <portfolio>] [-y]
`
}

func (c *txRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio id (defaults to the default portfolio).")
	f.StringVar(&c.txID, "tx", "", "Transaction id.")
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *txRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	if err := a.requireAuth(); err != nil {
		return fail(err)
	}
	if c.txID == "" {
		fmt.Fprintln(os.Stderr, "Error: -tx is required")
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
		fmt.Fprintln(os.Stderr, "Error: no portfolio selected")
		return subcommands.ExitFailure
	}

	if !c.yes && !confirm(fmt.Sprintf("Delete transaction %s?", c.txID)) {
		fmt.Println("Aborted")
		return subcommands.ExitSuccess
	}

	if err := a.portAPI.DeleteTransaction(ctx, active.ID, c.txID); err != nil {
		return fail(err)
	}
	// Re-fetch so the next read reflects the server's new rollups.
	if err := a.portfolios.Select(ctx, active.ID); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted transaction %s\n", c.txID)
	return subcommands.ExitSuccess
}
