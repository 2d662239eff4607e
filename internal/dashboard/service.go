// Package dashboard serves the per-company income statement flow, peer
// comparison and quarterly trend views over HTTP.
package dashboard

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/flow"
	"github.com/sells-group/fundamentals/internal/peers"
	"github.com/sells-group/fundamentals/internal/statement"
	"github.com/sells-group/fundamentals/internal/trend"
	"github.com/sells-group/fundamentals/internal/warehouse"
)

// ErrUnknownCompany is returned for codes outside the configured list.
var ErrUnknownCompany = eris.New("dashboard: company not configured")

// Options configures a Service.
type Options struct {
	// Companies is the selectable company list, in display order.
	Companies []string
	Peers     peers.Options
	// Years restricts quarterly data; empty keeps every year.
	Years []int
}

// Service runs request-scoped dashboard operations. Every call builds its
// own tables and graphs; only the loader and source are shared.
type Service struct {
	loader statement.Loader
	source warehouse.Source
	opts   Options
}

// NewService creates a Service over loader and source.
func NewService(loader statement.Loader, source warehouse.Source, opts Options) *Service {
	return &Service{
		loader: loader,
		source: source,
		opts:   opts,
	}
}

// Companies returns the configured company codes.
func (s *Service) Companies() []string {
	return slices.Clone(s.opts.Companies)
}

// Resolve normalizes code and checks it is a configured company.
func (s *Service) Resolve(code string) (string, error) {
	c, err := statement.NormalizeCode(code)
	if err != nil {
		return "", err
	}
	if !slices.Contains(s.opts.Companies, c) {
		return "", eris.Wrapf(ErrUnknownCompany, "code %s", c)
	}
	return c, nil
}

// Statement loads the validated payload for code.
func (s *Service) Statement(ctx context.Context, code string) (*statement.Statement, error) {
	c, err := s.Resolve(code)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(ctx, c)
}

// Flow loads the statement for code and builds its flow graph.
func (s *Service) Flow(ctx context.Context, code string) (*flow.Graph, error) {
	st, err := s.Statement(ctx, code)
	if err != nil {
		return nil, err
	}
	return flow.Build(st.Table, st.Meta)
}

// Peers builds the peer comparison table for code from the target's sector.
func (s *Service) Peers(ctx context.Context, code string) (*peers.Table, error) {
	c, err := s.Resolve(code)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Fundamentals(ctx, warehouse.Query{Code: c, PeerGroup: true})
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: fundamentals for %s", c)
	}
	return peers.Build(records, c, s.opts.Peers), nil
}

// Parameters lists the quarterly parameters available for code.
func (s *Service) Parameters(ctx context.Context, code string) ([]string, error) {
	points, err := s.points(ctx, code)
	if err != nil {
		return nil, err
	}
	return trend.Parameters(points), nil
}

// Quarterly builds the trend chart for code. Empty sides of sel fall back to
// the default selection.
func (s *Service) Quarterly(ctx context.Context, code string, sel trend.Selection) (*trend.Chart, error) {
	points, err := s.points(ctx, code)
	if err != nil {
		return nil, err
	}
	c, _ := statement.NormalizeCode(code)
	return chart(c, points, sel), nil
}

func (s *Service) points(ctx context.Context, code string) ([]trend.Point, error) {
	c, err := s.Resolve(code)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Quarterly(ctx, warehouse.Query{Code: c})
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: quarterly for %s", c)
	}
	return trend.Prepare(records, s.opts.Years), nil
}

func chart(code string, points []trend.Point, sel trend.Selection) *trend.Chart {
	def := trend.DefaultSelection(trend.Parameters(points))
	if sel.Left == "" {
		sel.Left = def.Left
	}
	if sel.Right == "" {
		sel.Right = def.Right
	}
	c := trend.BuildChart(code, points, sel)
	if c.Warning != "" {
		zap.L().Warn("dashboard: quarterly chart empty",
			zap.String("code", code),
			zap.String("warning", c.Warning),
		)
	}
	return c
}

// Page is everything the company page shows.
type Page struct {
	RenderID   string
	Code       string
	Companies  []string
	Statement  *statement.Statement
	Graph      *flow.Graph
	Peers      *peers.Table
	Chart      *trend.Chart
	Parameters []string
}

// Page assembles the company page. Statement problems fail the page; the
// warehouse views degrade to warnings.
func (s *Service) Page(ctx context.Context, code string, sel trend.Selection) (*Page, error) {
	renderID := uuid.NewString()
	log := zap.L().With(zap.String("render_id", renderID), zap.String("code", code))

	st, err := s.Statement(ctx, code)
	if err != nil {
		log.Warn("dashboard: statement unavailable", zap.Error(err))
		return nil, err
	}
	g, err := flow.Build(st.Table, st.Meta)
	if err != nil {
		log.Warn("dashboard: flow graph failed", zap.Error(err))
		return nil, err
	}

	p := &Page{
		RenderID:  renderID,
		Code:      st.Code,
		Companies: s.Companies(),
		Statement: st,
		Graph:     g,
	}
	if p.Peers, err = s.Peers(ctx, st.Code); err != nil {
		return nil, err
	}
	points, err := s.points(ctx, st.Code)
	if err != nil {
		return nil, err
	}
	p.Parameters = trend.Parameters(points)
	p.Chart = chart(st.Code, points, sel)

	log.Info("dashboard: page rendered",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("peer_columns", len(p.Peers.Columns)),
		zap.Int("series", len(p.Chart.Series)),
	)
	return p, nil
}
