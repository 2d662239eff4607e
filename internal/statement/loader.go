package statement

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/fetcher"
	"github.com/sells-group/fundamentals/internal/model"
)

// FileLoader reads <Dir>/<CODE>.json from the local filesystem.
type FileLoader struct {
	Dir     string
	Lenient bool
}

// Load implements Loader.
func (l *FileLoader) Load(_ context.Context, code string) (*Statement, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(l.Dir, c+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrNotFound, "statement: %s", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "statement: read %s", path)
	}

	return decodeStatement(c, data, l.Lenient)
}

// HTTPLoader reads <BaseURL>/<CODE>.json from an object store or any HTTP
// server.
type HTTPLoader struct {
	BaseURL string
	Fetcher fetcher.Fetcher
	Lenient bool
}

// Load implements Loader.
func (l *HTTPLoader) Load(ctx context.Context, code string) (*Statement, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(l.BaseURL, "/") + "/" + c + ".json"
	body, err := l.Fetcher.Download(ctx, url)
	if errors.Is(err, fetcher.ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "statement: %s", url)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "statement: fetch %s", url)
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrapf(err, "statement: read %s", url)
	}

	return decodeStatement(c, data, l.Lenient)
}

func decodeStatement(code string, data []byte, lenient bool) (*Statement, error) {
	p, err := Decode(data, lenient)
	if err != nil {
		return nil, err
	}
	st, err := NewStatement(code, p)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("statement: loaded",
		zap.String("code", code),
		zap.Int("rows", len(st.Table)),
		zap.Int("segments", len(st.Table.All(model.AnchorSegment))),
	)
	return st, nil
}
