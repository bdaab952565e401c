package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bortal/bortal-go/internal/models"
)

// memTokens is an in-memory token store for gateway tests.
type memTokens struct {
	mu       sync.Mutex
	access   string
	refresh  string
	setCalls int
	cleared  bool
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
	m.setCalls++
	return nil
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.cleared = true
	return nil
}

func writeEnvelope(w http.ResponseWriter, data any, pagination *models.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "success",
		"data":       data,
		"pagination": pagination,
	})
}

func TestClientGetDecodesEnvelope(t *testing.T) {
	var gotAuth, gotRequestID string

	router := chi.NewRouter()
	router.Get("/api/stocks/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeEnvelope(w, []map[string]any{{"symbol": "THYAO", "name": "Türk Hava Yolları"}}, &models.Pagination{TotalCount: 1})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-1", refresh: "ref-1"}
	client := NewClient(server.URL+"/api", tokens)

	var stocks []models.Stock
	pagination, err := client.Do(context.Background(), http.MethodGet, "stocks/", nil, nil, &stocks)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	require.Len(t, stocks, 1)
	assert.Equal(t, "THYAO", stocks[0].Symbol)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestClientAnonymousRequestOmitsBearer(t *testing.T) {
	var sawAuthHeader bool

	router := chi.NewRouter()
	router.Get("/api/stocks/", func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		writeEnvelope(w, []models.Stock{}, nil)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/api", &memTokens{})

	var stocks []models.Stock
	require.NoError(t, client.Get(context.Background(), "stocks/", nil, &stocks))
	assert.False(t, sawAuthHeader)
}

func TestClientRefreshAndRetryOn401(t *testing.T) {
	var protectedHits, refreshHits int32

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&protectedHits, 1)
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, []models.Portfolio{{ID: "p1", Name: "Growth"}}, nil)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref-1", body["refresh"])
		// The refresh request itself carries no bearer token.
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access": "tok-new"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-stale", refresh: "ref-1"}
	client := NewClient(server.URL+"/api", tokens)

	var portfolios []models.Portfolio
	require.NoError(t, client.Get(context.Background(), "portfolios/", nil, &portfolios))

	require.Len(t, portfolios, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&protectedHits)) // original + one replay
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshHits))
	assert.Equal(t, "tok-new", tokens.AccessToken())
	assert.Equal(t, 1, tokens.setCalls)
}

func TestClientNoRefreshTokenFailsFast(t *testing.T) {
	var refreshHits int32
	expired := false

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-stale"}
	client := NewClient(server.URL+"/api", tokens,
		WithSessionExpiredHook(func() { expired = true }),
	)

	err := client.Get(context.Background(), "portfolios/", nil, &[]models.Portfolio{})

	require.ErrorIs(t, err, ErrNoRefreshToken)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshHits)) // no HTTP call was made
	assert.True(t, tokens.cleared)
	assert.True(t, expired)
}

func TestClientRejectedRefreshExpiresSession(t *testing.T) {
	expired := false

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token is blacklisted"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-stale", refresh: "ref-dead"}
	client := NewClient(server.URL+"/api", tokens,
		WithSessionExpiredHook(func() { expired = true }),
	)

	err := client.Get(context.Background(), "portfolios/", nil, &[]models.Portfolio{})

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, tokens.cleared)
	assert.True(t, expired)
}

func TestClientRefreshResponseMissingAccessToken(t *testing.T) {
	expired := false

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-stale", refresh: "ref-1"}
	client := NewClient(server.URL+"/api", tokens,
		WithSessionExpiredHook(func() { expired = true }),
	)

	err := client.Get(context.Background(), "portfolios/", nil, &[]models.Portfolio{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access token")
	assert.True(t, tokens.cleared)
	assert.True(t, expired)
}

func TestClientAnonymous401DoesNotExpireSession(t *testing.T) {
	var refreshHits int32
	expired := false

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	// Signed-out store: no access token was ever attached to the request.
	tokens := &memTokens{}
	client := NewClient(server.URL+"/api", tokens,
		WithSessionExpiredHook(func() { expired = true }),
	)

	err := client.Get(context.Background(), "portfolios/", nil, &[]models.Portfolio{})

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err)) // the 401 passes through unchanged
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshHits))
	assert.False(t, tokens.cleared)
	assert.False(t, expired)
}

func TestClientRejectedLoginIsNotRetried(t *testing.T) {
	var refreshHits int32

	router := chi.NewRouter()
	router.Post("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{refresh: "ref-1"}
	client := NewClient(server.URL+"/api", tokens)

	err := client.Post(context.Background(), "auth/login/", map[string]string{"username": "x", "password": "y"}, nil)

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshHits))
	assert.False(t, tokens.cleared)
}

func TestClientConcurrent401sShareOneRefresh(t *testing.T) {
	const workers = 5
	var refreshHits int32
	arrived := make(chan struct{}, workers)
	release := make(chan struct{})
	var gateOnce sync.Once

	router := chi.NewRouter()
	router.Get("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			// Hold every stale request until all workers are in flight, so
			// their 401s land together.
			arrived <- struct{}{}
			<-release
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, []models.Portfolio{}, nil)
	})
	router.Post("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		time.Sleep(200 * time.Millisecond) // widen the singleflight window
		json.NewEncoder(w).Encode(map[string]string{"access": "tok-new"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tokens := &memTokens{access: "tok-stale", refresh: "ref-1"}
	client := NewClient(server.URL+"/api", tokens, WithRateLimit(workers*4))

	go func() {
		for i := 0; i < workers; i++ {
			<-arrived
		}
		gateOnce.Do(func() { close(release) })
	}()

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "portfolios/", nil, &[]models.Portfolio{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshHits))
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/stocks/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/api", &memTokens{}, WithTimeout(50*time.Millisecond))

	err := client.Get(context.Background(), "stocks/", nil, &[]models.Stock{})

	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestClientHTTPErrorCarriesServerFields(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/portfolios/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors":  map[string][]string{"name": {"This field may not be blank."}},
		})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/api", &memTokens{access: "tok"})

	err := client.Post(context.Background(), "portfolios/", map[string]string{"name": ""}, nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "validation failed", he.Message)
	assert.Contains(t, he.Fields, "name")
}

func TestClientNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/portfolios/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/api", &memTokens{access: "tok"})

	err := client.Get(context.Background(), "portfolios/p-gone/", nil, &models.PortfolioDetail{})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Not found.", he.Message)
}

func TestClientQueryEncoding(t *testing.T) {
	var gotQuery url.Values

	router := chi.NewRouter()
	router.Get("/api/stocks/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeEnvelope(w, []models.Stock{}, nil)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/api", &memTokens{})

	q := url.Values{}
	q.Set("search", "türk hava")
	require.NoError(t, client.Get(context.Background(), "stocks/", q, &[]models.Stock{}))

	assert.Equal(t, "türk hava", gotQuery.Get("search"))
}
