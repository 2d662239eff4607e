package warehouse

import (
	"context"

	"github.com/rotisserie/eris"
)

// Drivers accepted by Open.
const (
	DriverBigQuery = "bigquery"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverNone     = "none"
)

// Options selects and configures a warehouse backend.
type Options struct {
	Driver          string
	DSN             string
	ProjectID       string
	CredentialsFile string
	Tables          Tables
}

// Open connects the configured backend. The "none" driver yields an empty
// in-memory source.
func Open(ctx context.Context, opts Options) (Source, error) {
	var (
		src Source
		err error
	)
	switch opts.Driver {
	case DriverBigQuery:
		src, err = asSource(NewBigQuery(ctx, opts.ProjectID, opts.CredentialsFile, opts.Tables))
	case DriverPostgres:
		src, err = asSource(NewPostgres(ctx, opts.DSN, opts.Tables))
	case DriverSQLite, DriverMySQL:
		src, err = asSource(OpenSQL(opts.Driver, opts.DSN, opts.Tables))
	case DriverNone, "":
		src = NewMemory(nil, nil)
	default:
		return nil, eris.Errorf("warehouse: unknown driver %q", opts.Driver)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "warehouse: open %s", opts.Driver)
	}
	return src, nil
}

// asSource drops the typed nil a failed constructor returns.
func asSource[S Source](s S, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
