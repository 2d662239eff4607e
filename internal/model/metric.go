package model

// MetricRecord is one row of the multi-company fundamentals table: a named
// metric value for a company, tagged with its classification bucket.
type MetricRecord struct {
	Code   string  `json:"code"`
	Sector string  `json:"sector,omitempty"`
	Metric string  `json:"metric"`
	Value  float64 `json:"clean_value"`
}

// QuarterlyRecord is one observation of a fundamental parameter for a
// reporting quarter.
type QuarterlyRecord struct {
	Code      string  `json:"code"`
	Parameter string  `json:"parameter"`
	Year      int     `json:"year"`
	Quarter   string  `json:"quarter"`
	Value     float64 `json:"value_final"`
}

// QuarterNumber maps a quarter label ("Q1".."Q4") to its ordinal, or 0 when
// the label is not recognized.
func QuarterNumber(q string) int {
	switch q {
	case "Q1":
		return 1
	case "Q2":
		return 2
	case "Q3":
		return 3
	case "Q4":
		return 4
	}
	return 0
}
