package warehouse

import (
	"context"
	"sort"
	"sync"

	"github.com/sells-group/fundamentals/internal/model"
)

// Memory is an in-process Source and Writer. It backs the "none" driver and
// tests.
type Memory struct {
	mu        sync.RWMutex
	metrics   []model.MetricRecord
	quarterly []model.QuarterlyRecord
}

// NewMemory returns a Memory holding copies of the given rows.
func NewMemory(metrics []model.MetricRecord, quarterly []model.QuarterlyRecord) *Memory {
	m := &Memory{}
	m.metrics = append(m.metrics, metrics...)
	m.quarterly = append(m.quarterly, quarterly...)
	return m
}

// peers returns the codes selected by q.
func (m *Memory) peers(q Query) map[string]bool {
	codes := map[string]bool{q.Code: true}
	if !q.PeerGroup {
		return codes
	}
	sectors := make(map[string]bool)
	for _, r := range m.metrics {
		if r.Code == q.Code && r.Sector != "" {
			sectors[r.Sector] = true
		}
	}
	for _, r := range m.metrics {
		if sectors[r.Sector] {
			codes[r.Code] = true
		}
	}
	return codes
}

func (m *Memory) Fundamentals(_ context.Context, q Query) ([]model.MetricRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	codes := m.peers(q)
	var out []model.MetricRecord
	for _, r := range m.metrics {
		if codes[r.Code] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) Quarterly(_ context.Context, q Query) ([]model.QuarterlyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	codes := m.peers(q)
	var out []model.QuarterlyRecord
	for _, r := range m.quarterly {
		if codes[r.Code] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out, nil
}

func (m *Memory) Migrate(context.Context) error { return nil }

// WriteFundamentals replaces rows with the same (code, metric) key.
func (m *Memory) WriteFundamentals(_ context.Context, rows []model.MetricRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rows {
		replaced := false
		for i := range m.metrics {
			if m.metrics[i].Code == r.Code && m.metrics[i].Metric == r.Metric {
				m.metrics[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			m.metrics = append(m.metrics, r)
		}
	}
	return int64(len(rows)), nil
}

// WriteQuarterly replaces rows with the same (code, parameter, year,
// quarter) key.
func (m *Memory) WriteQuarterly(_ context.Context, rows []model.QuarterlyRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rows {
		replaced := false
		for i := range m.quarterly {
			e := m.quarterly[i]
			if e.Code == r.Code && e.Parameter == r.Parameter && e.Year == r.Year && e.Quarter == r.Quarter {
				m.quarterly[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			m.quarterly = append(m.quarterly, r)
		}
	}
	return int64(len(rows)), nil
}

func (m *Memory) Close() error { return nil }
