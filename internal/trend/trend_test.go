package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/fundamentals/internal/model"
)

func q(param string, year int, quarter string, v float64) model.QuarterlyRecord {
	return model.QuarterlyRecord{Code: "UNVR", Parameter: param, Year: year, Quarter: quarter, Value: v}
}

func TestPrepare_SortsAndLabels(t *testing.T) {
	records := []model.QuarterlyRecord{
		q("Revenue", 2024, "Q3", 3),
		q("Revenue", 2023, "Q4", 1),
		q("Revenue", 2024, "Q1", 2),
		q("Revenue", 2024, "H1", 9),
	}

	got := Prepare(records, nil)
	var periods []string
	for _, p := range got {
		periods = append(periods, p.Period)
	}
	assert.Equal(t, []string{"2023 Q4", "2024 Q1", "2024 Q3", "2024 H1"}, periods)
}

func TestPrepare_FiltersYears(t *testing.T) {
	records := []model.QuarterlyRecord{
		q("Revenue", 2022, "Q1", 1),
		q("Revenue", 2023, "Q1", 2),
		q("Revenue", 2024, "Q1", 3),
	}

	got := Prepare(records, []int{2024, 2022})
	assert.Len(t, got, 2)
	assert.Equal(t, 2022, got[0].Year)
	assert.Equal(t, 2024, got[1].Year)

	assert.Empty(t, Prepare(records, []int{1999}))
}

func TestParametersAndPeriods(t *testing.T) {
	points := Prepare([]model.QuarterlyRecord{
		q("Net Income", 2024, "Q2", 1),
		q("Revenue", 2024, "Q1", 1),
		q("Revenue", 2024, "Q2", 1),
		q("", 2024, "Q2", 1),
	}, nil)

	assert.Equal(t, []string{"Net Income", "Revenue"}, Parameters(points))
	assert.Equal(t, []string{"2024 Q1", "2024 Q2"}, Periods(points))
}

func TestDefaultSelection(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		want   Selection
	}{
		{"empty", nil, Selection{}},
		{"preferred names", []string{"EBITDA", "Net Income", "Revenue"}, Selection{Left: "Revenue", Right: "Net Income"}},
		{"later preferred alias", []string{"Net profit", "Sales"}, Selection{Left: "Sales", Right: "Net profit"}},
		{"fallback to first two", []string{"A", "B", "C"}, Selection{Left: "A", Right: "B"}},
		{"single parameter", []string{"A"}, Selection{Left: "A", Right: "A"}},
		{"right falls back to second", []string{"Revenue", "Z"}, Selection{Left: "Revenue", Right: "Z"}},
		{"collision nudges right", []string{"A", "Revenue"}, Selection{Left: "Revenue", Right: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSelection(tt.params))
		})
	}
}
