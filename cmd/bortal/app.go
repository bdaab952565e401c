package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/subcommands"

	"github.com/bortal/bortal-go/internal/api"
	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/reconcile"
	"github.com/bortal/bortal-go/internal/session"
)

// app wires the client stack for one command invocation: config, logger,
// session store, gateway client, resource services and reconcilers.
type app struct {
	config  *common.Config
	logger  *common.Logger
	session *session.Store

	auth      *api.Auth
	portAPI   *api.Portfolios
	stocks    *api.Stocks
	indices   *api.Indices
	dashboard *api.Dashboard

	portfolios *reconcile.Portfolio
	watchlists *reconcile.Watchlist
	detail     *reconcile.DetailLoader
}

// newApp loads configuration and builds the full client stack. Config files
// are optional; env overrides always apply.
func newApp() (*app, error) {
	config, err := common.LoadConfig(os.Getenv("BORTAL_CONFIG"), "bortal.toml")
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store := session.NewStore(config.Session.ResolvePath(), logger)
	if err := store.Load(); err != nil {
		logger.Warn().Err(err).Msg("Failed to load session; starting signed out")
	}

	gw := gateway.NewClient(config.Gateway.BaseURL, store,
		gateway.WithLogger(logger),
		gateway.WithTimeout(config.Gateway.GetTimeout()),
		gateway.WithRateLimit(config.Gateway.RateLimit),
		gateway.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run `bortal login` to sign in again.")
		}),
	)

	a := &app{
		config:    config,
		logger:    logger,
		session:   store,
		auth:      api.NewAuth(gw),
		portAPI:   api.NewPortfolios(gw),
		stocks:    api.NewStocks(gw),
		indices:   api.NewIndices(gw),
		dashboard: api.NewDashboard(gw),
	}
	a.portfolios = reconcile.NewPortfolio(a.portAPI, logger)
	a.watchlists = reconcile.NewWatchlist(api.NewWatchlists(gw), logger)
	a.detail = reconcile.NewDetailLoader(a.stocks, logger)
	return a, nil
}

// requireAuth fails early with a sign-in hint instead of letting a protected
// request bounce off the server.
func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return errors.New("not signed in; run `bortal login`")
	}
	return nil
}

// confirm prompts on stderr and reads a y/N answer from stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// promptLine prompts on stderr and reads one trimmed line from stdin.
func promptLine(prompt string) string {
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// fail renders an error for the terminal and returns the exit status.
// Validation and field errors are expanded per field; everything else prints
// its own message.
func fail(err error) subcommands.ExitStatus {
	var verr *reconcile.ValidationError
	var perr *reconcile.PartialFailure
	var herr *gateway.HTTPError

	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(os.Stderr, "Error: invalid input")
		for _, field := range sortedKeys(verr.Fields) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, verr.Fields[field])
		}

	case errors.As(err, &perr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
		for _, id := range perr.Succeeded {
			fmt.Fprintf(os.Stderr, "  ok      %s\n", id)
		}
		for _, id := range sortedErrKeys(perr.Failed) {
			fmt.Fprintf(os.Stderr, "  failed  %s: %v\n", id, perr.Failed[id])
		}
		fmt.Fprintln(os.Stderr, "The server state shown above is authoritative; re-run to retry the failed steps.")

	case gateway.IsUnauthorized(err):
		fmt.Fprintln(os.Stderr, "Error: not authorized; run `bortal login`")

	case gateway.IsNetwork(err):
		fmt.Fprintf(os.Stderr, "Error: cannot reach the API: %v\n", err)

	case errors.As(err, &herr) && len(herr.Fields) > 0:
		fmt.Fprintf(os.Stderr, "Error: %v\n", herr)
		for _, field := range sortedFieldKeys(herr.Fields) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, strings.Join(herr.Fields[field], "; "))
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedErrKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFieldKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
