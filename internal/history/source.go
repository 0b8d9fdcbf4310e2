package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	taskColumn = 0
	dateColumn = 3
)

// Source supplies raw history rows. Rows blocks until the whole export has
// been read or the fetch failed.
type Source interface {
	Rows(ctx context.Context) ([]Row, error)
	String() string
}

// ReadCSV parses a Habitica tasks history export. The header row is
// dropped, column 0 is the task name and column 3 the completion timestamp.
// Rows with too few columns or broken quoting are skipped.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]Row, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Debug("skipping unparsable csv line", zap.Int("line", line), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		// The first record is the header, whatever it holds.
		if line == 1 {
			continue
		}
		if len(rec) <= dateColumn {
			logger.Debug("skipping short csv line", zap.Int("line", line), zap.Int("fields", len(rec)))
			continue
		}
		rows = append(rows, Row{Task: rec[taskColumn], Timestamp: rec[dateColumn]})
	}
	return rows, nil
}

// FileSource reads an export from the local filesystem.
type FileSource struct {
	Path   string
	Logger *zap.Logger
}

func (f FileSource) String() string { return f.Path }

func (f FileSource) Rows(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open history file: %w", ErrSourceUnavailable, err)
	}
	defer fh.Close()

	rows, err := ReadCSV(fh, f.Logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, f.Path, err)
	}
	return rows, nil
}

// HTTPSource downloads an export with a single GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger
}

func (h HTTPSource) String() string { return h.URL }

func (h HTTPSource) Rows(ctx context.Context) ([]Row, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrSourceUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrSourceUnavailable, h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: get %s: unexpected status %s", ErrSourceUnavailable, h.URL, resp.Status)
	}

	rows, err := ReadCSV(resp.Body, h.Logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, h.URL, err)
	}
	return rows, nil
}
