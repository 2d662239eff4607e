package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fundamentals/internal/flow"
	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/peers"
	"github.com/sells-group/fundamentals/internal/statement"
	"github.com/sells-group/fundamentals/internal/trend"
	"github.com/sells-group/fundamentals/internal/warehouse"
)

var fixtureMetrics = []model.MetricRecord{
	{Code: "UNVR", Sector: "Consumer", Metric: "market_cap", Value: 70e12},
	{Code: "UNVR", Sector: "Consumer", Metric: "Return on Equity (TTM)", Value: 1.2345},
	{Code: "UNVR", Sector: "Consumer", Metric: "Current PE Ratio (TTM)", Value: 21.5},
	{Code: "ICBP", Sector: "Consumer", Metric: "market_cap", Value: 130e12},
	{Code: "ICBP", Sector: "Consumer", Metric: "Return on Equity (TTM)", Value: 0.18},
	{Code: "ICBP", Sector: "Consumer", Metric: "Current PE Ratio (TTM)", Value: 14},
	{Code: "BBCA", Sector: "Banks", Metric: "market_cap", Value: 1200e12},
	{Code: "BBCA", Sector: "Banks", Metric: "Return on Equity (TTM)", Value: 0.21},
}

var fixtureQuarterly = []model.QuarterlyRecord{
	{Code: "UNVR", Parameter: "Revenue", Year: 2024, Quarter: "Q2", Value: 9.5e12},
	{Code: "UNVR", Parameter: "Revenue", Year: 2024, Quarter: "Q1", Value: 9e12},
	{Code: "UNVR", Parameter: "Net Income", Year: 2024, Quarter: "Q1", Value: 1.4e12},
	{Code: "UNVR", Parameter: "Net Income", Year: 2024, Quarter: "Q2", Value: 1.1e12},
	{Code: "UNVR", Parameter: "Gross Margin", Year: 2023, Quarter: "Q4", Value: 0.48},
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		&statement.FileLoader{Dir: "testdata", Lenient: true},
		warehouse.NewMemory(fixtureMetrics, fixtureQuarterly),
		Options{Companies: []string{"UNVR", "ICBP", "BROKEN"}},
	)
}

func TestService_Resolve(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		code    string
		want    string
		wantErr error
	}{
		{name: "configured", code: "UNVR", want: "UNVR"},
		{name: "normalized", code: " unvr ", want: "UNVR"},
		{name: "not configured", code: "BBCA", wantErr: ErrUnknownCompany},
		{name: "path traversal", code: "../etc", wantErr: statement.ErrInvalidCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_CompaniesIsACopy(t *testing.T) {
	svc := newTestService(t)
	got := svc.Companies()
	got[0] = "XXXX"
	assert.Equal(t, "UNVR", svc.Companies()[0])
}

func TestService_Flow(t *testing.T) {
	svc := newTestService(t)

	g, err := svc.Flow(context.Background(), "unvr")
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, "PT Unilever Indonesia Tbk", g.Company)
	assert.Equal(t, 2, g.SegmentCount())

	rev, ok := g.NodeByRole(flow.RoleRevenue)
	require.True(t, ok)
	assert.Equal(t, "Net sales", rev.Name)
}

func TestService_FlowMissingAnchor(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Flow(context.Background(), "BROKEN")
	var missing *statement.MissingAnchorError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.AnchorEBIT, missing.Anchor)
}

func TestService_FlowConfiguredButNoPayload(t *testing.T) {
	svc := NewService(&statement.FileLoader{Dir: "testdata"}, warehouse.NewMemory(nil, nil),
		Options{Companies: []string{"GOOD"}})

	_, err := svc.Flow(context.Background(), "GOOD")
	assert.ErrorIs(t, err, statement.ErrNotFound)
}

func TestService_Peers(t *testing.T) {
	svc := newTestService(t)

	tbl, err := svc.Peers(context.Background(), "UNVR")
	require.NoError(t, err)
	assert.Empty(t, tbl.Warning)
	assert.Equal(t, []string{"UNVR", "ICBP"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Return on Equity (TTM)", tbl.Rows[0].Metric)
	assert.Equal(t, "1.2345", tbl.Rows[0].Cells[0].Text)
	assert.Equal(t, peers.SegmentValuation, tbl.Rows[1].Segment)
}

func TestService_PeersNoData(t *testing.T) {
	svc := NewService(&statement.FileLoader{Dir: "testdata"}, warehouse.NewMemory(nil, nil),
		Options{Companies: []string{"UNVR"}})

	tbl, err := svc.Peers(context.Background(), "UNVR")
	require.NoError(t, err)
	assert.Equal(t, peers.WarnNoData, tbl.Warning)
	assert.Empty(t, tbl.Rows)
}

func TestService_Parameters(t *testing.T) {
	svc := newTestService(t)

	params, err := svc.Parameters(context.Background(), "UNVR")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gross Margin", "Net Income", "Revenue"}, params)
}

func TestService_QuarterlyDefaultSelection(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Quarterly(context.Background(), "UNVR", trend.Selection{})
	require.NoError(t, err)
	assert.Empty(t, c.Warning)
	assert.Equal(t, trend.Selection{Left: "Revenue", Right: "Net Income"}, c.Selection)
	require.Len(t, c.Series, 2)
	assert.Equal(t, []string{"2024 Q1", "2024 Q2"}, c.Series[0].Periods)
	assert.Equal(t, "T", c.Series[0].Unit)
}

func TestService_QuarterlyExplicitSelection(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Quarterly(context.Background(), "UNVR", trend.Selection{Left: "Gross Margin", Right: "Gross Margin"})
	require.NoError(t, err)
	require.Len(t, c.Series, 1)
	assert.Equal(t, "Gross Margin", c.Series[0].Title)
}

func TestService_QuarterlyYearFilter(t *testing.T) {
	svc := NewService(&statement.FileLoader{Dir: "testdata"},
		warehouse.NewMemory(nil, fixtureQuarterly),
		Options{Companies: []string{"UNVR"}, Years: []int{2023}})

	params, err := svc.Parameters(context.Background(), "UNVR")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gross Margin"}, params)
}

func TestService_QuarterlyNoData(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Quarterly(context.Background(), "ICBP", trend.Selection{})
	require.NoError(t, err)
	assert.Equal(t, "No quarterly data found for ICBP.", c.Warning)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fundamentals(ctx context.Context, q warehouse.Query) ([]model.MetricRecord, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]model.MetricRecord)
	return rows, args.Error(1)
}

func (m *mockSource) Quarterly(ctx context.Context, q warehouse.Query) ([]model.QuarterlyRecord, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]model.QuarterlyRecord)
	return rows, args.Error(1)
}

func (m *mockSource) Close() error { return nil }

func TestService_PeersQueriesSectorGroup(t *testing.T) {
	src := new(mockSource)
	src.On("Fundamentals", mock.Anything, warehouse.Query{Code: "UNVR", PeerGroup: true}).
		Return(fixtureMetrics[:3], nil)

	svc := NewService(&statement.FileLoader{Dir: "testdata"}, src, Options{Companies: []string{"UNVR"}})
	tbl, err := svc.Peers(context.Background(), "unvr")
	require.NoError(t, err)
	assert.Equal(t, []string{"UNVR"}, tbl.Columns)
	src.AssertExpectations(t)
}

func TestService_SourceErrorPropagates(t *testing.T) {
	src := new(mockSource)
	src.On("Quarterly", mock.Anything, warehouse.Query{Code: "UNVR"}).
		Return(nil, errors.New("boom"))

	svc := NewService(&statement.FileLoader{Dir: "testdata"}, src, Options{Companies: []string{"UNVR"}})
	_, err := svc.Quarterly(context.Background(), "UNVR", trend.Selection{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestService_Page(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Page(context.Background(), "UNVR", trend.Selection{Right: "Gross Margin"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.RenderID)
	assert.Equal(t, "UNVR", p.Code)
	assert.Equal(t, []string{"UNVR", "ICBP", "BROKEN"}, p.Companies)
	assert.NotNil(t, p.Graph)
	assert.Equal(t, []string{"UNVR", "ICBP"}, p.Peers.Columns)
	assert.Equal(t, trend.Selection{Left: "Revenue", Right: "Gross Margin"}, p.Chart.Selection)
	assert.Len(t, p.Parameters, 3)
}
