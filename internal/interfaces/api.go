// Package interfaces defines contracts between the BORTAL client layers
package interfaces

import (
	"context"

	"github.com/bortal/bortal-go/internal/models"
)

// TokenStore is the slice of the session the gateway may read and mutate.
// Only the gateway's refresh path calls SetAccessToken; Clear demotes the
// session when a refresh is impossible or rejected.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	Clear() error
}

// AuthAPI provides access to the auth resource family
type AuthAPI interface {
	// Login exchanges credentials for a user and token pair
	Login(ctx context.Context, username, password string) (*models.User, *models.Tokens, error)

	// Register creates an account and returns the signed-in user and tokens
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Tokens, error)

	// Logout invalidates the refresh token server-side
	Logout(ctx context.Context, refreshToken string) error

	// Profile retrieves the current user's profile
	Profile(ctx context.Context) (*models.User, error)
}

// PortfolioAPI provides access to the portfolio resource family
type PortfolioAPI interface {
	// List retrieves all portfolios owned by the signed-in user
	List(ctx context.Context) ([]models.Portfolio, error)

	// Get retrieves one portfolio with holdings and recent transactions
	Get(ctx context.Context, id string) (*models.PortfolioDetail, error)

	// Create creates a new portfolio
	Create(ctx context.Context, name, description string) (*models.Portfolio, error)

	// Delete removes a portfolio; the server cascades to holdings and transactions
	Delete(ctx context.Context, id string) error

	// Transactions retrieves a filtered transaction page
	Transactions(ctx context.Context, id string, q models.TransactionQuery) ([]models.Transaction, *models.Pagination, error)

	// CreateTransaction records a new transaction
	CreateTransaction(ctx context.Context, id string, draft *models.TransactionDraft) (*models.Transaction, error)

	// DeleteTransaction removes a single transaction
	DeleteTransaction(ctx context.Context, id, transactionID string) error

	// Performance retrieves the full daily value series
	Performance(ctx context.Context, id string) (*models.Performance, error)
}

// WatchlistAPI provides access to the watchlist resource family
type WatchlistAPI interface {
	// List retrieves all watchlists owned by the signed-in user
	List(ctx context.Context) ([]models.Watchlist, error)

	// Create creates a new watchlist
	Create(ctx context.Context, name, description string) (*models.Watchlist, error)

	// Update renames a watchlist or changes its description
	Update(ctx context.Context, id, name, description string) (*models.Watchlist, error)

	// Delete removes a watchlist
	Delete(ctx context.Context, id string) error

	// AddStock adds a symbol; the server rejects duplicates with a conflict
	AddStock(ctx context.Context, id, symbol string) error

	// RemoveStock removes a symbol from the watchlist
	RemoveStock(ctx context.Context, id, symbol string) error
}

// StockAPI provides access to stock reference data
type StockAPI interface {
	// Search finds stocks matching a free-text query
	Search(ctx context.Context, query string) ([]models.Stock, error)

	// Detail retrieves latest price, fundamentals and range-trimmed history
	Detail(ctx context.Context, symbol string, rng models.HistoryRange) (*models.StockDetail, error)
}

// IndexAPI provides access to market index data
type IndexAPI interface {
	// List retrieves all tracked market indices
	List(ctx context.Context) ([]models.MarketIndex, error)

	// Get retrieves one index with constituents and history
	Get(ctx context.Context, name string) (*models.MarketIndexDetail, error)
}

// DashboardAPI provides access to the aggregated dashboard payload
type DashboardAPI interface {
	// Get retrieves the dashboard widgets payload
	Get(ctx context.Context) (*models.Dashboard, error)
}
