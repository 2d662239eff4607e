package model

// Anchor is a stable semantic key identifying a line item's role in an
// income statement, independent of its display label.
type Anchor string

const (
	AnchorRevenue      Anchor = "REV_TOTAL"
	AnchorSegment      Anchor = "REV_BREAKDOWN_SEGMENT"
	AnchorCOGS         Anchor = "COGS_TOTAL"
	AnchorGrossProfit  Anchor = "GP_TOTAL"
	AnchorOpex         Anchor = "OPEX_TOTAL"
	AnchorEBIT         Anchor = "EBIT_TOTAL"
	AnchorPreTaxProfit Anchor = "PBT_TOTAL"
	AnchorTax          Anchor = "TAX_EXPENSE"
	AnchorNetProfit    Anchor = "NET_PROFIT_TOTAL"
)

// RequiredAnchors lists the anchors every statement table must carry exactly
// once, in flow order.
var RequiredAnchors = []Anchor{
	AnchorRevenue,
	AnchorCOGS,
	AnchorGrossProfit,
	AnchorOpex,
	AnchorEBIT,
	AnchorPreTaxProfit,
	AnchorTax,
	AnchorNetProfit,
}

// Default metadata values applied when a payload omits them.
const (
	DefaultCurrency = "IDR"
	DefaultUnit     = "million"
)

// LineItemRecord is one row of a normalized financial statement table.
type LineItemRecord struct {
	Anchor      Anchor  `json:"anchor"`
	DisplayName string  `json:"display_name"`
	Current     float64 `json:"current"`
}

// StatementMeta describes the company and reporting period of a table.
type StatementMeta struct {
	Company     string `json:"company"`
	PeriodLabel string `json:"period_label"`
	Currency    string `json:"currency,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// WithDefaults returns a copy with the currency and unit defaults filled in.
func (m StatementMeta) WithDefaults() StatementMeta {
	if m.Currency == "" {
		m.Currency = DefaultCurrency
	}
	if m.Unit == "" {
		m.Unit = DefaultUnit
	}
	return m
}

// Payload is the per-company document produced by the upstream extraction step.
type Payload struct {
	Table   []LineItemRecord `json:"table"`
	Summary []string         `json:"summary"`
	Meta    *StatementMeta   `json:"meta,omitempty"`
}
