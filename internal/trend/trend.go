// Package trend prepares quarterly fundamentals for a dual-axis line chart.
package trend

import (
	"fmt"
	"sort"

	"github.com/sells-group/fundamentals/internal/model"
)

// Point is one quarterly observation with its display period.
type Point struct {
	Parameter string  `json:"parameter"`
	Year      int     `json:"year"`
	Quarter   string  `json:"quarter"`
	Period    string  `json:"period"`
	Value     float64 `json:"value"`
}

// Prepare keeps the records whose year is in years (all when years is
// empty), labels each with "YYYY Qn" and sorts chronologically. Records
// with an unrecognized quarter sort after Q4 of their year.
func Prepare(records []model.QuarterlyRecord, years []int) []Point {
	keep := make(map[int]bool, len(years))
	for _, y := range years {
		keep[y] = true
	}

	points := make([]Point, 0, len(records))
	for _, r := range records {
		if len(keep) > 0 && !keep[r.Year] {
			continue
		}
		points = append(points, Point{
			Parameter: r.Parameter,
			Year:      r.Year,
			Quarter:   r.Quarter,
			Period:    fmt.Sprintf("%d %s", r.Year, r.Quarter),
			Value:     r.Value,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return quarterRank(a.Quarter) < quarterRank(b.Quarter)
	})
	return points
}

func quarterRank(q string) int {
	if n := model.QuarterNumber(q); n > 0 {
		return n
	}
	return 5
}

// Parameters returns the distinct non-blank parameter names, sorted.
func Parameters(points []Point) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range points {
		if p.Parameter != "" && !seen[p.Parameter] {
			seen[p.Parameter] = true
			out = append(out, p.Parameter)
		}
	}
	sort.Strings(out)
	return out
}

// Periods returns the distinct period labels in chronological order.
func Periods(points []Point) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range points {
		if !seen[p.Period] {
			seen[p.Period] = true
			out = append(out, p.Period)
		}
	}
	return out
}

var (
	leftPreferred  = []string{"Revenue", "Sales (Net)", "Net sales", "Sales"}
	rightPreferred = []string{"Net Income", "Net income", "Net profit", "Profit for the period"}
)

// Selection is the pair of parameters plotted on the left and right axes.
type Selection struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// DefaultSelection picks revenue on the left and net income on the right
// when present, otherwise the first and second parameters. When both sides
// land on the same parameter and another exists, the right moves to the
// next one.
func DefaultSelection(params []string) Selection {
	if len(params) == 0 {
		return Selection{}
	}
	left := pick(params, leftPreferred, 0)
	right := pick(params, rightPreferred, 1)
	if left == right && len(params) > 1 {
		right = (left + 1) % len(params)
	}
	return Selection{Left: params[left], Right: params[right]}
}

func pick(params, preferred []string, fallback int) int {
	for _, name := range preferred {
		for i, p := range params {
			if p == name {
				return i
			}
		}
	}
	return max(0, min(fallback, len(params)-1))
}
