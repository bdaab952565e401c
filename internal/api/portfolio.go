package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioAPI = (*Portfolios)(nil)

// Portfolios wraps the portfolio resource family
type Portfolios struct {
	gw *gateway.Client
}

// NewPortfolios creates the portfolio service
func NewPortfolios(gw *gateway.Client) *Portfolios {
	return &Portfolios{gw: gw}
}

// List retrieves all portfolios owned by the signed-in user
func (p *Portfolios) List(ctx context.Context) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := p.gw.Get(ctx, "portfolios/", nil, &portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

// Get retrieves one portfolio with holdings and recent transactions
func (p *Portfolios) Get(ctx context.Context, id string) (*models.PortfolioDetail, error) {
	var detail models.PortfolioDetail
	if err := p.gw.Get(ctx, fmt.Sprintf("portfolios/%s/", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create creates a new portfolio
func (p *Portfolios) Create(ctx context.Context, name, description string) (*models.Portfolio, error) {
	payload := map[string]string{"name": name, "description": description}

	var portfolio models.Portfolio
	if err := p.gw.Post(ctx, "portfolios/", payload, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// Delete removes a portfolio; the server cascades to holdings and transactions
func (p *Portfolios) Delete(ctx context.Context, id string) error {
	return p.gw.Delete(ctx, fmt.Sprintf("portfolios/%s/", id))
}

// Transactions retrieves a filtered transaction page
func (p *Portfolios) Transactions(ctx context.Context, id string, q models.TransactionQuery) ([]models.Transaction, *models.Pagination, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Symbol != "" {
		params.Set("symbol", q.Symbol)
	}
	if q.Days > 0 {
		params.Set("days", strconv.Itoa(q.Days))
	}

	var transactions []models.Transaction
	pagination, err := p.gw.Do(ctx, http.MethodGet, fmt.Sprintf("portfolios/%s/transactions/", id), params, nil, &transactions)
	if err != nil {
		return nil, nil, err
	}
	return transactions, pagination, nil
}

// CreateTransaction records a new transaction
func (p *Portfolios) CreateTransaction(ctx context.Context, id string, draft *models.TransactionDraft) (*models.Transaction, error) {
	var txn models.Transaction
	if err := p.gw.Post(ctx, fmt.Sprintf("portfolios/%s/transactions/", id), draft, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a single transaction
func (p *Portfolios) DeleteTransaction(ctx context.Context, id, transactionID string) error {
	return p.gw.Delete(ctx, fmt.Sprintf("portfolios/%s/transactions/%s/", id, transactionID))
}

// Performance retrieves the full daily value series
func (p *Portfolios) Performance(ctx context.Context, id string) (*models.Performance, error) {
	var perf models.Performance
	if err := p.gw.Get(ctx, fmt.Sprintf("portfolios/%s/performance/", id), nil, &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}
