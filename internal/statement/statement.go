package statement

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fundamentals/internal/model"
)

// ErrNotFound is returned when no payload exists for a company code.
var ErrNotFound = eris.New("statement: payload not found")

// ErrInvalidCode is returned for codes that are not ticker-shaped.
var ErrInvalidCode = eris.New("statement: invalid company code")

var codePattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,12}$`)

// Statement is a validated per-company payload.
type Statement struct {
	Code    string              `json:"code"`
	Table   Table               `json:"table"`
	Summary []string            `json:"summary"`
	Meta    model.StatementMeta `json:"meta"`
}

// Loader reads the statement payload for a company code.
type Loader interface {
	Load(ctx context.Context, code string) (*Statement, error)
}

// NormalizeCode upper-cases and validates a company code.
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(c) || strings.Contains(c, "..") {
		return "", eris.Wrapf(ErrInvalidCode, "code %q", code)
	}
	return c, nil
}

// NewStatement validates a decoded payload and applies metadata defaults.
func NewStatement(code string, p *model.Payload) (*Statement, error) {
	table := Table(p.Table)
	if err := table.Validate(); err != nil {
		return nil, err
	}

	var meta model.StatementMeta
	if p.Meta != nil {
		meta = *p.Meta
	}
	meta = meta.WithDefaults()
	if meta.Company == "" {
		meta.Company = code
	}

	summary := p.Summary
	if summary == nil {
		summary = []string{}
	}

	return &Statement{
		Code:    code,
		Table:   table,
		Summary: summary,
		Meta:    meta,
	}, nil
}
