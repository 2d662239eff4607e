package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/config"
	"github.com/sells-group/fundamentals/internal/dashboard"
	"github.com/sells-group/fundamentals/internal/fetcher"
	"github.com/sells-group/fundamentals/internal/resilience"
	"github.com/sells-group/fundamentals/internal/statement"
	"github.com/sells-group/fundamentals/internal/warehouse"
)

// appEnv holds the loader, warehouse source and service shared by the
// serve, flow, peers, quarterly and export commands.
type appEnv struct {
	Loader  statement.Loader
	Source  warehouse.Source
	Service *dashboard.Service
}

// Close releases the warehouse connection.
func (e *appEnv) Close() {
	if e.Source != nil {
		_ = e.Source.Close()
	}
}

// newLoader reads payloads over HTTP when data.base_url is set, otherwise
// from data.dir.
func newLoader(c *config.Config) statement.Loader {
	if c.Data.BaseURL != "" {
		return &statement.HTTPLoader{
			BaseURL: c.Data.BaseURL,
			Fetcher: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}),
			Lenient: c.Data.Lenient,
		}
	}
	return &statement.FileLoader{Dir: c.Data.Dir, Lenient: c.Data.Lenient}
}

// initEnv validates config for mode and connects the warehouse. Callers
// should defer env.Close().
func initEnv(ctx context.Context, c *config.Config, mode string) (*appEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	peerOpts, err := c.PeerOptions()
	if err != nil {
		return nil, eris.Wrap(err, "peer catalog")
	}

	src, err := warehouse.Open(ctx, c.WarehouseOptions())
	if err != nil {
		return nil, err
	}
	breaker := resilience.NewBreaker(c.Warehouse.BreakerThreshold, c.Warehouse.BreakerCooldown,
		func(from, to resilience.State) {
			zap.L().Warn("warehouse circuit changed", zap.Stringer("from", from), zap.Stringer("to", to))
		})
	guarded := warehouse.NewGuarded(src, c.Warehouse.QPS, c.Warehouse.Burst).WithBreaker(breaker)

	loader := newLoader(c)
	return &appEnv{
		Loader: loader,
		Source: guarded,
		Service: dashboard.NewService(loader, guarded, dashboard.Options{
			Companies: c.Companies,
			Peers:     peerOpts,
			Years:     c.Quarterly.Years,
		}),
	}, nil
}
