package api

import (
	"context"
	"fmt"

	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistAPI = (*Watchlists)(nil)

// Watchlists wraps the watchlist resource family
type Watchlists struct {
	gw *gateway.Client
}

// NewWatchlists creates the watchlist service
func NewWatchlists(gw *gateway.Client) *Watchlists {
	return &Watchlists{gw: gw}
}

// List retrieves all watchlists owned by the signed-in user
func (w *Watchlists) List(ctx context.Context) ([]models.Watchlist, error) {
	var lists []models.Watchlist
	if err := w.gw.Get(ctx, "watchlists/", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// Create creates a new watchlist
func (w *Watchlists) Create(ctx context.Context, name, description string) (*models.Watchlist, error) {
	payload := map[string]string{"name": name, "description": description}

	var list models.Watchlist
	if err := w.gw.Post(ctx, "watchlists/", payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Update renames a watchlist or changes its description
func (w *Watchlists) Update(ctx context.Context, id, name, description string) (*models.Watchlist, error) {
	payload := map[string]string{"name": name, "description": description}

	var list models.Watchlist
	if err := w.gw.Put(ctx, fmt.Sprintf("watchlists/%s/", id), payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Delete removes a watchlist
func (w *Watchlists) Delete(ctx context.Context, id string) error {
	return w.gw.Delete(ctx, fmt.Sprintf("watchlists/%s/", id))
}

// AddStock adds a symbol; the server rejects duplicates with a conflict
func (w *Watchlists) AddStock(ctx context.Context, id, symbol string) error {
	payload := map[string]string{"symbol": symbol}
	return w.gw.Post(ctx, fmt.Sprintf("watchlists/%s/stocks/", id), payload, nil)
}

// RemoveStock removes a symbol from the watchlist
func (w *Watchlists) RemoveStock(ctx context.Context, id, symbol string) error {
	return w.gw.Delete(ctx, fmt.Sprintf("watchlists/%s/stocks/%s/", id, symbol))
}
