// Package statement loads per-company income statement payloads and exposes
// them as anchor-addressable tables.
package statement

import (
	"fmt"

	"github.com/sells-group/fundamentals/internal/model"
)

// MissingAnchorError reports that a required anchor is absent from a table.
type MissingAnchorError struct {
	Anchor model.Anchor
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("statement: missing required anchor %s", e.Anchor)
}

// DuplicateAnchorError reports that a required anchor appears more than once.
type DuplicateAnchorError struct {
	Anchor model.Anchor
	Count  int
}

func (e *DuplicateAnchorError) Error() string {
	return fmt.Sprintf("statement: required anchor %s appears %d times", e.Anchor, e.Count)
}

// Table is a normalized list of line items in source order.
type Table []model.LineItemRecord

// Require returns the single row carrying anchor. A missing or repeated
// anchor is a malformed table.
func (t Table) Require(anchor model.Anchor) (model.LineItemRecord, error) {
	var (
		found model.LineItemRecord
		count int
	)
	for _, row := range t {
		if row.Anchor != anchor {
			continue
		}
		if count == 0 {
			found = row
		}
		count++
	}
	switch count {
	case 0:
		return model.LineItemRecord{}, &MissingAnchorError{Anchor: anchor}
	case 1:
		return found, nil
	default:
		return model.LineItemRecord{}, &DuplicateAnchorError{Anchor: anchor, Count: count}
	}
}

// All returns every row carrying anchor, in table order.
func (t Table) All(anchor model.Anchor) []model.LineItemRecord {
	var rows []model.LineItemRecord
	for _, row := range t {
		if row.Anchor == anchor {
			rows = append(rows, row)
		}
	}
	return rows
}

// Validate checks that every required anchor appears exactly once.
func (t Table) Validate() error {
	for _, a := range model.RequiredAnchors {
		if _, err := t.Require(a); err != nil {
			return err
		}
	}
	return nil
}
