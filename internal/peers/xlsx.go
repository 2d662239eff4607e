package peers

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet WriteXLSX produces.
const SheetName = "Core metrics"

// WriteXLSX writes the table as a single-sheet workbook: a bold header row
// and one row per metric, shaded by segment. Absent values are left blank.
func WriteXLSX(w io.Writer, t *Table) error {
	if t.Warning != "" {
		return eris.Errorf("peers: nothing to export for %s: %s", t.Code, t.Warning)
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "peers: add sheet")
	}

	header := xlsx.NewStyle()
	header.Font.Bold = true
	header.ApplyFont = true

	hr := sheet.AddRow()
	for _, h := range t.Header() {
		c := hr.AddCell()
		c.SetString(h)
		c.SetStyle(header)
	}

	fills := make(map[string]*xlsx.Style)
	for _, r := range t.Rows {
		style := fills[r.Shade]
		if style == nil {
			style = xlsx.NewStyle()
			if argb := argbOf(r.Shade); argb != "" {
				style.Fill = *xlsx.NewFill("solid", argb, argb)
				style.ApplyFill = true
			}
			fills[r.Shade] = style
		}

		xr := sheet.AddRow()
		for _, s := range []string{string(r.Segment), r.Metric} {
			c := xr.AddCell()
			c.SetString(s)
			c.SetStyle(style)
		}
		for _, v := range r.Cells {
			c := xr.AddCell()
			if v.Present {
				c.SetFloat(v.Value)
			}
			c.SetStyle(style)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "peers: write workbook")
	}
	return nil
}

// argbOf converts "#RRGGBB" to the opaque "FFRRGGBB" form spreadsheets use.
func argbOf(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return ""
	}
	return "FF" + strings.ToUpper(h)
}
