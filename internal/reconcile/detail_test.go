package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// gatedStockAPI serves stock details, optionally holding a response until the
// test releases it so request interleavings can be forced.
type gatedStockAPI struct {
	mu    sync.Mutex
	gates map[string]chan struct{} // keyed by range
}

var _ interfaces.StockAPI = (*gatedStockAPI)(nil)

func (g *gatedStockAPI) gate(rng models.HistoryRange) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = map[string]chan struct{}{}
	}
	ch, ok := g.gates[string(rng)]
	if !ok {
		ch = make(chan struct{})
		g.gates[string(rng)] = ch
	}
	return ch
}

func (g *gatedStockAPI) Search(context.Context, string) ([]models.Stock, error) {
	return nil, nil
}

func (g *gatedStockAPI) Detail(ctx context.Context, symbol string, rng models.HistoryRange) (*models.StockDetail, error) {
	select {
	case <-g.gate(rng):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &models.StockDetail{
		Symbol: symbol,
		Name:   symbol,
		PriceHistory: []models.PricePoint{
			{Date: "2026-08-27", Close: 190},
		},
	}, nil
}

func (g *gatedStockAPI) release(rng models.HistoryRange) {
	close(g.gate(rng))
}

func TestDetailLoaderLoad(t *testing.T) {
	api := &gatedStockAPI{}
	api.release(models.RangeMonth)
	l := NewDetailLoader(api, nil)

	view, err := l.Load(context.Background(), "THYAO", models.RangeMonth)
	require.NoError(t, err)
	assert.Equal(t, "THYAO", view.Symbol)
	assert.Equal(t, models.RangeMonth, view.Range)
	require.NotNil(t, view.Detail)

	current := l.Current()
	require.NotNil(t, current)
	assert.Equal(t, view, current)
}

func TestDetailLoaderDiscardsSupersededResponse(t *testing.T) {
	api := &gatedStockAPI{}
	l := NewDetailLoader(api, nil)

	// Request A (1y) starts first and is held at the fake server.
	resultA := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "THYAO", models.RangeYear)
		resultA <- err
	}()

	// Give A time to register its sequence before B supersedes it.
	time.Sleep(20 * time.Millisecond)

	// Request B (1w) is issued and completes while A is still in flight.
	api.release(models.RangeWeek)
	viewB, err := l.Load(context.Background(), "THYAO", models.RangeWeek)
	require.NoError(t, err)
	assert.Equal(t, models.RangeWeek, viewB.Range)

	// A's response now arrives late; it must be discarded, not rendered.
	api.release(models.RangeYear)
	require.ErrorIs(t, <-resultA, ErrStale)

	current := l.Current()
	require.NotNil(t, current)
	assert.Equal(t, models.RangeWeek, current.Range)
}

func TestDetailLoaderPropagatesFetchError(t *testing.T) {
	api := &gatedStockAPI{}
	l := NewDetailLoader(api, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, "THYAO", models.RangeMonth)
	require.Error(t, err)
	assert.Nil(t, l.Current())
}
