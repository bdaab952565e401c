package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/models"
)

// staticTokens satisfies the gateway's token store with fixed values.
type staticTokens struct{ access, refresh string }

func (s *staticTokens) AccessToken() string         { return s.access }
func (s *staticTokens) RefreshToken() string        { return s.refresh }
func (s *staticTokens) SetAccessToken(string) error { return nil }
func (s *staticTokens) Clear() error                { return nil }

func envelope(data any) map[string]any {
	return map[string]any{"status": "success", "data": data}
}

func newTestClient(t *testing.T, router chi.Router) *gateway.Client {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return gateway.NewClient(server.URL+"/api", &staticTokens{access: "tok", refresh: "ref"})
}

func TestAuthLogin(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ayse", body["username"])
		assert.Equal(t, "s3cret", body["password"])

		json.NewEncoder(w).Encode(envelope(map[string]any{
			"user":   models.User{ID: 7, Username: "ayse", Email: "ayse@example.com"},
			"tokens": models.Tokens{Access: "a1", Refresh: "r1"},
		}))
	})

	auth := NewAuth(newTestClient(t, router))

	user, tokens, err := auth.Login(context.Background(), "ayse", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "a1", tokens.Access)
	assert.Equal(t, "r1", tokens.Refresh)
}

func TestAuthLoginMissingTokens(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope(map[string]any{"user": models.User{ID: 7}}))
	})

	auth := NewAuth(newTestClient(t, router))

	_, _, err := auth.Login(context.Background(), "ayse", "s3cret")
	require.Error(t, err)
}

func TestAuthLogoutSendsRefreshToken(t *testing.T) {
	var gotBody map[string]string

	router := chi.NewRouter()
	router.Post("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(envelope(nil))
	})

	auth := NewAuth(newTestClient(t, router))

	require.NoError(t, auth.Logout(context.Background(), "ref-42"))
	assert.Equal(t, "ref-42", gotBody["refresh_token"])
}

func TestPortfoliosTransactionsQueryShaping(t *testing.T) {
	var gotQuery map[string]string

	router := chi.NewRouter()
	router.Get("/api/portfolios/{id}/transactions/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p-1", chi.URLParam(r, "id"))
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": []models.Transaction{
				{ID: "t-1", StockSymbol: "THYAO", TransactionType: models.TransactionBuy},
			},
			"pagination": models.Pagination{TotalCount: 41, Page: 2, PageSize: 20, TotalPages: 3},
		})
	})

	portfolios := NewPortfolios(newTestClient(t, router))

	items, pagination, err := portfolios.Transactions(context.Background(), "p-1", models.TransactionQuery{
		Page:     2,
		PageSize: 20,
		Type:     models.TransactionBuy,
		Symbol:   "THYAO",
		Days:     90,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"page":      "2",
		"page_size": "20",
		"type":      "buy",
		"symbol":    "THYAO",
		"days":      "90",
	}, gotQuery)

	require.Len(t, items, 1)
	require.NotNil(t, pagination)
	assert.Equal(t, 41, pagination.TotalCount)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestPortfoliosTransactionsOmitsZeroFilters(t *testing.T) {
	var rawQuery string

	router := chi.NewRouter()
	router.Get("/api/portfolios/{id}/transactions/", func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(envelope([]models.Transaction{}))
	})

	portfolios := NewPortfolios(newTestClient(t, router))

	_, _, err := portfolios.Transactions(context.Background(), "p-1", models.TransactionQuery{})
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

func TestPortfoliosCreateTransaction(t *testing.T) {
	var gotDraft models.TransactionDraft

	router := chi.NewRouter()
	router.Post("/api/portfolios/{id}/transactions/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDraft))
		json.NewEncoder(w).Encode(envelope(models.Transaction{ID: "t-9", StockSymbol: gotDraft.StockSymbol}))
	})

	portfolios := NewPortfolios(newTestClient(t, router))

	txn, err := portfolios.CreateTransaction(context.Background(), "p-1", &models.TransactionDraft{
		StockSymbol:     "THYAO",
		TransactionType: models.TransactionBuy,
		Quantity:        120,
		PricePerUnit:    183.75,
		TransactionDate: "2026-01-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-9", txn.ID)
	assert.Equal(t, "THYAO", gotDraft.StockSymbol)
	assert.Equal(t, 120.0, gotDraft.Quantity)
}

func TestPortfoliosDeleteTransactionPath(t *testing.T) {
	var gotPath string

	router := chi.NewRouter()
	router.Delete("/api/portfolios/{id}/transactions/{txn}/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	portfolios := NewPortfolios(newTestClient(t, router))

	require.NoError(t, portfolios.DeleteTransaction(context.Background(), "p-1", "t-3"))
	assert.Equal(t, "/api/portfolios/p-1/transactions/t-3/", gotPath)
}

func TestWatchlistsAddStock(t *testing.T) {
	var gotBody map[string]string

	router := chi.NewRouter()
	router.Post("/api/watchlists/{id}/stocks/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "w-1", chi.URLParam(r, "id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope(nil))
	})

	watchlists := NewWatchlists(newTestClient(t, router))

	require.NoError(t, watchlists.AddStock(context.Background(), "w-1", "GARAN"))
	assert.Equal(t, map[string]string{"symbol": "GARAN"}, gotBody)
}

func TestWatchlistsRemoveStockPath(t *testing.T) {
	var gotPath string

	router := chi.NewRouter()
	router.Delete("/api/watchlists/{id}/stocks/{symbol}/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	watchlists := NewWatchlists(newTestClient(t, router))

	require.NoError(t, watchlists.RemoveStock(context.Background(), "w-1", "GARAN"))
	assert.Equal(t, "/api/watchlists/w-1/stocks/GARAN/", gotPath)
}

func TestWatchlistsUpdateUsesPut(t *testing.T) {
	var gotMethod string

	router := chi.NewRouter()
	router.Put("/api/watchlists/{id}/", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewEncoder(w).Encode(envelope(models.Watchlist{ID: "w-1", Name: "Airlines"}))
	})

	watchlists := NewWatchlists(newTestClient(t, router))

	updated, err := watchlists.Update(context.Background(), "w-1", "Airlines", "")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Airlines", updated.Name)
}

func TestStocksDetailRangeParam(t *testing.T) {
	var gotRange string

	router := chi.NewRouter()
	router.Get("/api/stocks/{symbol}/", func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.URL.Query().Get("range")
		json.NewEncoder(w).Encode(envelope(models.StockDetail{
			Symbol: chi.URLParam(r, "symbol"),
			PriceHistory: []models.PricePoint{
				{Date: "2026-08-27", Close: 190},
			},
		}))
	})

	stocks := NewStocks(newTestClient(t, router))

	detail, err := stocks.Detail(context.Background(), "THYAO", models.RangeYear)
	require.NoError(t, err)
	assert.Equal(t, "1y", gotRange)
	assert.Equal(t, "THYAO", detail.Symbol)
	require.Len(t, detail.PriceHistory, 1)
}

func TestStocksSearch(t *testing.T) {
	var gotSearch string

	router := chi.NewRouter()
	router.Get("/api/stocks/", func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		json.NewEncoder(w).Encode(envelope([]models.Stock{
			{Symbol: "THYAO", Name: "Türk Hava Yolları"},
		}))
	})

	stocks := NewStocks(newTestClient(t, router))

	results, err := stocks.Search(context.Background(), "hava")
	require.NoError(t, err)
	assert.Equal(t, "hava", gotSearch)
	require.Len(t, results, 1)
}

func TestDashboardGet(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/dashboard/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope(models.Dashboard{
			MarketOverview: []models.MarketIndex{{Name: "BIST100", LastValue: 11250.4, ChangePercent: 1.2}},
			Portfolios:     []models.Portfolio{{ID: "p-1", Name: "Growth"}},
		}))
	})

	dashboard := NewDashboard(newTestClient(t, router))

	dash, err := dashboard.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, dash.MarketOverview, 1)
	assert.Equal(t, "BIST100", dash.MarketOverview[0].Name)
	require.Len(t, dash.Portfolios, 1)
}

func TestIndicesGetPath(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/indices/{name}/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope(models.MarketIndexDetail{
			MarketIndex: models.MarketIndex{Name: chi.URLParam(r, "name"), LastValue: 11250.4},
			Stocks:      []models.Stock{{Symbol: "THYAO"}},
		}))
	})

	indices := NewIndices(newTestClient(t, router))

	detail, err := indices.Get(context.Background(), "BIST100")
	require.NoError(t, err)
	assert.Equal(t, "BIST100", detail.Name)
	require.Len(t, detail.Stocks, 1)
}
