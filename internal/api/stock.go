package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Compile-time interface checks
var (
	_ interfaces.StockAPI     = (*Stocks)(nil)
	_ interfaces.IndexAPI     = (*Indices)(nil)
	_ interfaces.DashboardAPI = (*Dashboard)(nil)
)

// Stocks wraps the stock reference resource family
type Stocks struct {
	gw *gateway.Client
}

// NewStocks creates the stock service
func NewStocks(gw *gateway.Client) *Stocks {
	return &Stocks{gw: gw}
}

// Search finds stocks matching a free-text query
func (s *Stocks) Search(ctx context.Context, query string) ([]models.Stock, error) {
	params := url.Values{}
	if query != "" {
		params.Set("search", query)
	}

	var stocks []models.Stock
	if err := s.gw.Get(ctx, "stocks/", params, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// Detail retrieves latest price, fundamentals and range-trimmed history
func (s *Stocks) Detail(ctx context.Context, symbol string, rng models.HistoryRange) (*models.StockDetail, error) {
	params := url.Values{}
	if rng != "" {
		params.Set("range", string(rng))
	}

	var detail models.StockDetail
	if err := s.gw.Get(ctx, fmt.Sprintf("stocks/%s/", symbol), params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Indices wraps the market index resource family
type Indices struct {
	gw *gateway.Client
}

// NewIndices creates the index service
func NewIndices(gw *gateway.Client) *Indices {
	return &Indices{gw: gw}
}

// List retrieves all tracked market indices
func (i *Indices) List(ctx context.Context) ([]models.MarketIndex, error) {
	var indices []models.MarketIndex
	if err := i.gw.Get(ctx, "indices/", nil, &indices); err != nil {
		return nil, err
	}
	return indices, nil
}

// Get retrieves one index with constituents and history
func (i *Indices) Get(ctx context.Context, name string) (*models.MarketIndexDetail, error) {
	var detail models.MarketIndexDetail
	if err := i.gw.Get(ctx, fmt.Sprintf("indices/%s/", name), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Dashboard wraps the aggregated dashboard endpoint
type Dashboard struct {
	gw *gateway.Client
}

// NewDashboard creates the dashboard service
func NewDashboard(gw *gateway.Client) *Dashboard {
	return &Dashboard{gw: gw}
}

// Get retrieves the dashboard widgets payload
func (d *Dashboard) Get(ctx context.Context) (*models.Dashboard, error) {
	var dash models.Dashboard
	if err := d.gw.Get(ctx, "dashboard/", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
