package warehouse

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/resilience"
)

// Guarded wraps a Source so that it never fails a render: queries are
// throttled, failures are logged and replaced with empty results. With a
// breaker attached, a failing warehouse is skipped until it recovers.
type Guarded struct {
	src     Source
	limiter *rate.Limiter
	breaker *resilience.Breaker
	log     *zap.Logger
}

// NewGuarded wraps src with a qps/burst limiter. A non-positive qps disables
// throttling.
func NewGuarded(src Source, qps float64, burst int) *Guarded {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Guarded{
		src:     src,
		limiter: rate.NewLimiter(limit, burst),
		log:     zap.L().With(zap.String("component", "warehouse")),
	}
}

// WithBreaker routes queries through b.
func (g *Guarded) WithBreaker(b *resilience.Breaker) *Guarded {
	g.breaker = b
	return g
}

func (g *Guarded) Fundamentals(ctx context.Context, q Query) ([]model.MetricRecord, error) {
	rows, err := guard(ctx, g, g.src.Fundamentals, q)
	if err != nil {
		g.report("fundamentals", q, err)
		return []model.MetricRecord{}, nil
	}
	g.log.Debug("fundamentals loaded", zap.String("code", q.Code), zap.Bool("peer_group", q.PeerGroup), zap.Int("rows", len(rows)))
	return rows, nil
}

func (g *Guarded) Quarterly(ctx context.Context, q Query) ([]model.QuarterlyRecord, error) {
	rows, err := guard(ctx, g, g.src.Quarterly, q)
	if err != nil {
		g.report("quarterly", q, err)
		return []model.QuarterlyRecord{}, nil
	}
	g.log.Debug("quarterly loaded", zap.String("code", q.Code), zap.Int("rows", len(rows)))
	return rows, nil
}

func (g *Guarded) Close() error {
	return g.src.Close()
}

func guard[T any](ctx context.Context, g *Guarded, query func(context.Context, Query) ([]T, error), q Query) ([]T, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if g.breaker == nil {
		return query(ctx, q)
	}
	return resilience.Do(ctx, g.breaker, func(ctx context.Context) ([]T, error) {
		return query(ctx, q)
	})
}

func (g *Guarded) report(kind string, q Query, err error) {
	if errors.Is(err, resilience.ErrOpen) {
		g.log.Warn(kind+" query skipped, warehouse circuit open", zap.String("code", q.Code))
		return
	}
	g.log.Error(kind+" query failed", zap.String("code", q.Code), zap.Error(err))
}
