package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Watchlist owns the client's view of the user's watchlists, with the same
// selection fallback rule as the portfolio reconciler. Membership mutations
// follow call-then-refetch: the cached stock set is never patched locally.
type Watchlist struct {
	api    interfaces.WatchlistAPI
	logger *common.Logger

	mu       sync.RWMutex
	lists    []models.Watchlist
	activeID string
}

// NewWatchlist creates a watchlist reconciler
func NewWatchlist(api interfaces.WatchlistAPI, logger *common.Logger) *Watchlist {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Watchlist{api: api, logger: logger}
}

// Refresh replaces the watchlist collection with fresh server state,
// preserving the active selection when it survives.
func (r *Watchlist) Refresh(ctx context.Context) error {
	lists, err := r.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch watchlists: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = lists
	r.resolveSelectionLocked(r.activeID)
	return nil
}

// Select makes id the active watchlist. An unknown id falls back to the
// default watchlist and returns a NotFoundError, mirroring the portfolio rule.
func (r *Watchlist) Select(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := r.containsLocked(id)
	r.resolveSelectionLocked(id)

	if !found {
		return &NotFoundError{Resource: "watchlist", ID: id}
	}
	return nil
}

// Create creates a watchlist and selects it.
func (r *Watchlist) Create(ctx context.Context, name, description string) (*models.Watchlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "name must not be empty"}}
	}

	created, err := r.api.Create(ctx, name, description)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.lists = append(r.lists, *created)
	r.activeID = created.ID
	r.mu.Unlock()

	r.logger.Info().Str("watchlist", created.Name).Msg("Watchlist created")
	return created, nil
}

// Rename updates the name/description of a watchlist and refetches the list.
func (r *Watchlist) Rename(ctx context.Context, id, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Fields: map[string]string{"name": "name must not be empty"}}
	}

	if _, err := r.api.Update(ctx, id, name, description); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Delete removes a watchlist, reselecting per the fallback rule when the
// active one is deleted.
func (r *Watchlist) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.lists[:0]
	for _, wl := range r.lists {
		if wl.ID != id {
			kept = append(kept, wl)
		}
	}
	r.lists = kept
	if r.activeID == id {
		r.resolveSelectionLocked("")
	}
	r.mu.Unlock()

	r.logger.Info().Str("watchlist_id", id).Msg("Watchlist deleted")
	return nil
}

// AddStock adds a symbol to a watchlist. Symbols already present are rejected
// locally with a ConflictError before any network call; the server remains the
// authority for races between clients, and its conflict response passes
// through unmodified rather than being swallowed.
func (r *Watchlist) AddStock(ctx context.Context, id, symbol string) error {
	r.mu.RLock()
	var target *models.Watchlist
	for i := range r.lists {
		if r.lists[i].ID == id {
			target = &r.lists[i]
			break
		}
	}
	if target == nil {
		r.mu.RUnlock()
		return &NotFoundError{Resource: "watchlist", ID: id}
	}
	if target.Contains(symbol) {
		r.mu.RUnlock()
		return &ConflictError{Resource: "watchlist", Key: strings.ToUpper(symbol)}
	}
	r.mu.RUnlock()

	if err := r.api.AddStock(ctx, id, symbol); err != nil {
		return err
	}

	r.logger.Info().Str("watchlist_id", id).Str("symbol", symbol).Msg("Stock added to watchlist")
	return r.Refresh(ctx)
}

// RemoveStock removes a symbol from a watchlist and refetches.
func (r *Watchlist) RemoveStock(ctx context.Context, id, symbol string) error {
	if err := r.api.RemoveStock(ctx, id, symbol); err != nil {
		return err
	}

	r.logger.Info().Str("watchlist_id", id).Str("symbol", symbol).Msg("Stock removed from watchlist")
	return r.Refresh(ctx)
}

// Watchlists returns the cached watchlist collection.
func (r *Watchlist) Watchlists() []models.Watchlist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Watchlist, len(r.lists))
	copy(out, r.lists)
	return out
}

// Active returns the active watchlist, or nil in the empty state.
func (r *Watchlist) Active() *models.Watchlist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.lists {
		if r.lists[i].ID == r.activeID {
			wl := r.lists[i]
			return &wl
		}
	}
	return nil
}

func (r *Watchlist) resolveSelectionLocked(wanted string) {
	if wanted != "" && r.containsLocked(wanted) {
		r.activeID = wanted
		return
	}

	if len(r.lists) == 0 {
		r.activeID = ""
		return
	}

	for _, wl := range r.lists {
		if wl.IsDefault {
			r.activeID = wl.ID
			return
		}
	}
	r.activeID = r.lists[0].ID
}

func (r *Watchlist) containsLocked(id string) bool {
	for _, wl := range r.lists {
		if wl.ID == id {
			return true
		}
	}
	return false
}
