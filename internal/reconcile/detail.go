package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// ErrStale is returned by DetailLoader.Load when the response arrived after a
// newer (symbol, range) selection was issued. The caller's view was not
// updated; the newer load owns the state.
var ErrStale = errors.New("stale detail response discarded")

// DetailView is the loaded state for one (symbol, range) selection.
type DetailView struct {
	Symbol string
	Range  models.HistoryRange
	Detail *models.StockDetail
}

// DetailLoader fetches the stock detail payload for a (symbol, range)
// selection. There is no cancellation signal; instead each load captures a
// monotonically increasing sequence number, and a response is applied only if
// its sequence is still the latest issued. A superseded request's result is
// discarded on arrival, never rendered.
type DetailLoader struct {
	api    interfaces.StockAPI
	logger *common.Logger

	mu      sync.Mutex
	seq     uint64
	current *DetailView
}

// NewDetailLoader creates a stock detail range loader
func NewDetailLoader(api interfaces.StockAPI, logger *common.Logger) *DetailLoader {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DetailLoader{api: api, logger: logger}
}

// Load fetches the detail payload for symbol and rng and applies it unless a
// newer load was issued while this one was in flight, in which case ErrStale
// is returned and the state is untouched. The fetch itself runs outside the
// lock so concurrent loads proceed in parallel.
func (l *DetailLoader) Load(ctx context.Context, symbol string, rng models.HistoryRange) (*DetailView, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	detail, err := l.api.Detail(ctx, symbol, rng)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		l.logger.Debug().Str("symbol", symbol).Str("range", string(rng)).Msg("Discarding superseded detail response")
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}

	l.current = &DetailView{Symbol: symbol, Range: rng, Detail: detail}
	return l.current, nil
}

// Current returns the most recently applied view, or nil before the first
// successful load.
func (l *DetailLoader) Current() *DetailView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
