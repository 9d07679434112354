package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"evodash/domain/species"
	"evodash/internal"
	"evodash/internal/errors"
)

// Loader resolves a source URI to a parsed table. The scheme selects the
// transport: local path or file://, http(s)://, s3://, postgres://, sqlite://.
type Loader struct {
	HTTPClient *http.Client
	Retry      RetryConfig
	S3         S3Options
	Logger     *internal.Logger
}

// NewLoader returns a Loader with a bounded HTTP client and three attempts.
func NewLoader() *Loader {
	logger := internal.DefaultLogger.With("source")
	return &Loader{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Retry:      RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Logger: logger},
		Logger:     logger,
	}
}

// Load reads uri into a Store. Every failure is reported as a LoadError.
func (l *Loader) Load(ctx context.Context, uri string) (*species.Store, error) {
	start := time.Now()
	table, err := l.Fetch(ctx, uri)
	if err != nil {
		return nil, errors.LoadError(uri, err)
	}

	records := make([]species.Record, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = species.NormalizeRow(row)
	}
	if !hasColumn(table.Headers, species.ColSpecies) {
		return nil, errors.LoadError(uri, fmt.Errorf("missing required column %q", species.ColSpecies))
	}

	l.logger().Info("loaded %d records (%d columns) from %s in %v",
		len(records), len(table.Headers), uri, time.Since(start).Round(time.Millisecond))
	return species.NewStore(uri, records), nil
}

// Load reads uri with a default Loader.
func Load(ctx context.Context, uri string) (*species.Store, error) {
	return NewLoader().Load(ctx, uri)
}

// Fetch resolves uri and parses it into a Table.
func (l *Loader) Fetch(ctx context.Context, uri string) (*Table, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return readPostgres(ctx, uri)
	case strings.HasPrefix(uri, "sqlite://"):
		return readSQLite(ctx, uri)
	}

	rc, err := l.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadTable(rc, FormatFor(uri))
}

// Open returns the raw bytes behind a file, http(s) or s3 URI.
func (l *Loader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return l.openHTTP(ctx, uri)
	case strings.HasPrefix(uri, "s3://"):
		return l.openS3(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		uri = strings.TrimPrefix(uri, "file://")
	}
	if uri == "" {
		return nil, fmt.Errorf("empty source")
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", uri, err)
	}
	return f, nil
}

func (l *Loader) logger() *internal.Logger {
	if l.Logger == nil {
		return internal.DefaultLogger
	}
	return l.Logger
}

func hasColumn(headers []string, col string) bool {
	for _, h := range headers {
		if h == col {
			return true
		}
	}
	return false
}
