package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// txnKey identifies one cached transaction page of the active portfolio.
type txnKey struct {
	page     int
	pageSize int
	typ      models.TransactionType
	symbol   string
	days     int
}

type txnPage struct {
	items      []models.Transaction
	pagination *models.Pagination
}

// Portfolio owns the client's view of the signed-in user's portfolios: the
// list, the active selection, the derived holdings for the active portfolio
// and a transaction page cache. Mutations are optimistic only in intent — on
// success the affected slice is replaced wholesale with fresh server state,
// never hand-patched, because holding aggregates are server-computed rollups.
type Portfolio struct {
	api    interfaces.PortfolioAPI
	logger *common.Logger
	now    func() time.Time

	mu         sync.RWMutex
	portfolios []models.Portfolio
	activeID   string
	holdings   []models.Holding
	txnCache   map[txnKey]txnPage
}

// NewPortfolio creates a portfolio reconciler
func NewPortfolio(api interfaces.PortfolioAPI, logger *common.Logger) *Portfolio {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Portfolio{
		api:      api,
		logger:   logger,
		now:      time.Now,
		txnCache: make(map[txnKey]txnPage),
	}
}

// Refresh replaces the portfolio list with fresh server state, preserving the
// active selection when it survives and falling back otherwise.
func (r *Portfolio) Refresh(ctx context.Context) error {
	portfolios, err := r.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch portfolios: %w", err)
	}

	r.mu.Lock()
	r.portfolios = portfolios
	wanted := r.activeID
	r.resolveSelectionLocked(wanted)
	active := r.activeID
	r.mu.Unlock()

	if active == "" {
		return nil
	}
	return r.refetchActive(ctx, active)
}

// Select makes id the active portfolio and loads its holdings. An unknown id
// still resolves deterministically: the selection falls back to the default
// portfolio (first flagged is_default, else first in list) and a NotFoundError
// is returned so the caller can correct its reference.
func (r *Portfolio) Select(ctx context.Context, id string) error {
	r.mu.Lock()
	found := r.containsLocked(id)
	r.resolveSelectionLocked(id)
	active := r.activeID
	r.mu.Unlock()

	var notFound error
	if !found {
		notFound = &NotFoundError{Resource: "portfolio", ID: id}
	}

	if active != "" {
		if err := r.refetchActive(ctx, active); err != nil {
			return err
		}
	}
	return notFound
}

// Create creates a portfolio and selects it.
func (r *Portfolio) Create(ctx context.Context, name, description string) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "name must not be empty"}}
	}

	created, err := r.api.Create(ctx, name, description)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.portfolios = append(r.portfolios, *created)
	r.activeID = created.ID
	r.invalidateLocked()
	r.mu.Unlock()

	r.logger.Info().Str("portfolio", created.Name).Msg("Portfolio created")

	if err := r.refetchActive(ctx, created.ID); err != nil {
		return created, err
	}
	return created, nil
}

// Delete removes a portfolio. Deleting the active portfolio reselects per the
// Select fallback rule; deleting the last one leaves the defined empty state.
func (r *Portfolio) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.portfolios[:0]
	for _, p := range r.portfolios {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.portfolios = kept

	wasActive := r.activeID == id
	if wasActive {
		r.resolveSelectionLocked("")
	}
	active := r.activeID
	r.mu.Unlock()

	r.logger.Info().Str("portfolio_id", id).Msg("Portfolio deleted")

	if wasActive && active != "" {
		return r.refetchActive(ctx, active)
	}
	return nil
}

// AddTransaction validates the draft and records it. Success triggers a full
// holdings-and-summary refetch for the portfolio: average cost and realized
// P/L are rollups over the whole transaction history, which the client must
// not approximate locally.
func (r *Portfolio) AddTransaction(ctx context.Context, portfolioID string, draft *models.TransactionDraft) (*models.Transaction, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	txn, err := r.api.CreateTransaction(ctx, portfolioID, draft)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("symbol", draft.StockSymbol).
		Str("type", string(draft.TransactionType)).
		Msg("Transaction recorded")

	if err := r.refetchActive(ctx, portfolioID); err != nil {
		return txn, err
	}
	return txn, nil
}

// validateDraft collects every violated field, not just the first.
func validateDraft(draft *models.TransactionDraft) error {
	fields := map[string]string{}

	if strings.TrimSpace(draft.StockSymbol) == "" {
		fields["stock_symbol"] = "symbol is required"
	}
	if !draft.TransactionType.Valid() {
		fields["transaction_type"] = "must be buy, sell or dividend"
	}
	if draft.Quantity <= 0 {
		fields["quantity"] = "must be greater than zero"
	}
	if draft.PricePerUnit <= 0 {
		fields["price_per_unit"] = "must be greater than zero"
	}
	if strings.TrimSpace(draft.TransactionDate) == "" {
		fields["transaction_date"] = "date is required"
	}
	if draft.Fees < 0 {
		fields["fees"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// DeleteHolding removes a position by deleting every transaction for its
// (portfolio, stock) pair — there is no direct holding delete on the server.
// Each delete is attempted independently; if any fails the caller gets a
// PartialFailure naming exactly which steps succeeded and which did not, and
// the true resulting state comes from the refetch, never local reconstruction.
func (r *Portfolio) DeleteHolding(ctx context.Context, holding models.Holding) error {
	r.mu.RLock()
	portfolioID := r.activeID
	r.mu.RUnlock()
	if portfolioID == "" {
		return &NotFoundError{Resource: "portfolio", ID: ""}
	}

	symbol := holding.Stock.Symbol
	transactions, _, err := r.api.Transactions(ctx, portfolioID, models.TransactionQuery{Symbol: symbol})
	if err != nil {
		return fmt.Errorf("failed to fetch transactions for %s: %w", symbol, err)
	}

	var succeeded []string
	failed := map[string]error{}
	for _, txn := range transactions {
		if err := r.api.DeleteTransaction(ctx, portfolioID, txn.ID); err != nil {
			failed[txn.ID] = err
		} else {
			succeeded = append(succeeded, txn.ID)
		}
	}

	refetchErr := r.refetchActive(ctx, portfolioID)

	if len(failed) > 0 {
		return &PartialFailure{Succeeded: succeeded, Failed: failed}
	}
	if refetchErr != nil {
		return refetchErr
	}

	r.logger.Info().Str("portfolio_id", portfolioID).Str("symbol", symbol).Msg("Holding removed")
	return nil
}

// Transactions returns one filtered page for the active portfolio, served from
// the page cache when the same query was fetched since the last mutation.
func (r *Portfolio) Transactions(ctx context.Context, q models.TransactionQuery) ([]models.Transaction, *models.Pagination, error) {
	r.mu.RLock()
	portfolioID := r.activeID
	r.mu.RUnlock()
	if portfolioID == "" {
		return nil, nil, &NotFoundError{Resource: "portfolio", ID: ""}
	}

	key := txnKey{page: q.Page, pageSize: q.PageSize, typ: q.Type, symbol: q.Symbol, days: q.Days}

	r.mu.RLock()
	cached, ok := r.txnCache[key]
	r.mu.RUnlock()
	if ok {
		return cached.items, cached.pagination, nil
	}

	items, pagination, err := r.api.Transactions(ctx, portfolioID, q)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	r.txnCache[key] = txnPage{items: items, pagination: pagination}
	r.mu.Unlock()

	return items, pagination, nil
}

// Performance returns the daily value series for a portfolio filtered to the
// requested trailing window. The server returns the full series once; the
// windowing is client-side.
func (r *Portfolio) Performance(ctx context.Context, portfolioID string, tf models.TimeFrame) ([]models.DailyValue, error) {
	perf, err := r.api.Performance(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return WindowDailyValues(perf.DailyValues, tf, r.now()), nil
}

// Portfolios returns the cached portfolio list.
func (r *Portfolio) Portfolios() []models.Portfolio {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Portfolio, len(r.portfolios))
	copy(out, r.portfolios)
	return out
}

// Active returns the active portfolio, or nil in the empty state.
func (r *Portfolio) Active() *models.Portfolio {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.portfolios {
		if r.portfolios[i].ID == r.activeID {
			p := r.portfolios[i]
			return &p
		}
	}
	return nil
}

// Holdings returns the derived holdings of the active portfolio.
func (r *Portfolio) Holdings() []models.Holding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Holding, len(r.holdings))
	copy(out, r.holdings)
	return out
}

// refetchActive replaces the holdings, summary and transaction cache of one
// portfolio with fresh server state.
func (r *Portfolio) refetchActive(ctx context.Context, portfolioID string) error {
	detail, err := r.api.Get(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to fetch portfolio %s: %w", portfolioID, err)
	}

	holdings := DeriveHoldings(detail.Holdings)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.portfolios {
		if r.portfolios[i].ID == detail.ID {
			r.portfolios[i] = detail.Portfolio
			break
		}
	}
	if r.activeID == portfolioID {
		r.holdings = holdings
	}
	r.invalidateLocked()
	return nil
}

// resolveSelectionLocked applies the fallback rule: wanted id if present, else
// the first default, else the first element, else the empty state.
func (r *Portfolio) resolveSelectionLocked(wanted string) {
	if wanted != "" && r.containsLocked(wanted) {
		r.setActiveLocked(wanted)
		return
	}

	if len(r.portfolios) == 0 {
		r.setActiveLocked("")
		return
	}

	for _, p := range r.portfolios {
		if p.IsDefault {
			r.setActiveLocked(p.ID)
			return
		}
	}
	r.setActiveLocked(r.portfolios[0].ID)
}

func (r *Portfolio) setActiveLocked(id string) {
	if r.activeID != id {
		r.holdings = nil
		r.invalidateLocked()
	}
	r.activeID = id
}

func (r *Portfolio) containsLocked(id string) bool {
	for _, p := range r.portfolios {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (r *Portfolio) invalidateLocked() {
	r.txnCache = make(map[txnKey]txnPage)
}
