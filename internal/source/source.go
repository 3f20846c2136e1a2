// Package source retrieves the three raw banking datasets from a base
// location, which is either an http(s) URL prefix or a local directory.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// Logical dataset file names, as published by the upstream data owner.
const (
	TransactionsDataset = "bank_transactions.csv"
	CustomersDataset    = "bank_customers.csv"
	AccountsDataset     = "bank_accounts.csv"
)

// TableSource supplies the three raw tabular datasets for one pipeline run.
// A missing dataset or malformed rows fail the call; partial results are
// never returned.
type TableSource interface {
	FetchAll(ctx context.Context) (*domain.RawTables, error)
}

// New returns a TableSource for the given base location, routed on scheme:
// http:// and https:// prefixes get an HTTP source, anything else is treated
// as a filesystem directory.
func New(baseLocation string, timeout time.Duration, logger *slog.Logger) TableSource {
	if strings.HasPrefix(baseLocation, "http://") || strings.HasPrefix(baseLocation, "https://") {
		return NewHTTPSource(baseLocation, timeout, logger)
	}
	return NewFileSource(baseLocation, logger)
}

// HTTPSource fetches datasets over HTTP from a URL prefix.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPSource creates an HTTP table source.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchAll retrieves the three datasets over HTTP.
func (s *HTTPSource) FetchAll(ctx context.Context) (*domain.RawTables, error) {
	return fetchAll(ctx, s.logger, s.fetch)
}

func (s *HTTPSource) fetch(ctx context.Context, dataset string) (*domain.RawTable, error) {
	url := s.baseURL + "/" + dataset

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewSourceError("failed to build dataset request", err).WithContext("url", url)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewSourceError("failed to fetch dataset", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewSourceError(
			fmt.Sprintf("dataset request returned status %d", resp.StatusCode), nil).
			WithContext("url", url)
	}

	return readTable(dataset, resp.Body)
}

// FileSource reads datasets from a local directory.
type FileSource struct {
	dir    string
	logger *slog.Logger
}

// NewFileSource creates a filesystem table source.
func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{dir: dir, logger: logger}
}

// FetchAll reads the three datasets from the source directory.
func (s *FileSource) FetchAll(ctx context.Context) (*domain.RawTables, error) {
	return fetchAll(ctx, s.logger, s.fetch)
}

func (s *FileSource) fetch(ctx context.Context, dataset string) (*domain.RawTable, error) {
	path := filepath.Join(s.dir, dataset)

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceError("failed to open dataset file", err).WithContext("path", path)
	}
	defer file.Close()

	return readTable(dataset, file)
}

type fetchFunc func(ctx context.Context, dataset string) (*domain.RawTable, error)

// fetchAll retrieves all three datasets sequentially; any failure aborts the
// call without partial results.
func fetchAll(ctx context.Context, logger *slog.Logger, fetch fetchFunc) (*domain.RawTables, error) {
	tables := &domain.RawTables{}

	for _, d := range []struct {
		name string
		dest **domain.RawTable
	}{
		{TransactionsDataset, &tables.Transactions},
		{CustomersDataset, &tables.Customers},
		{AccountsDataset, &tables.Accounts},
	} {
		table, err := fetch(ctx, d.name)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "fetched dataset",
			slog.String("dataset", d.name),
			slog.Int("row_count", len(table.Rows)))
		*d.dest = table
	}

	return tables, nil
}

// readTable parses CSV content into a RawTable. The csv reader enforces a
// uniform field count per record, so ragged rows fail the whole dataset.
func readTable(name string, r io.Reader) (*domain.RawTable, error) {
	reader := csv.NewReader(r)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewSourceError("failed to parse dataset as CSV", err).WithContext("dataset", name)
	}
	if len(records) == 0 {
		return nil, errors.NewSourceError("dataset is empty", nil).WithContext("dataset", name)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &domain.RawTable{
		Name:    name,
		Headers: headers,
		Rows:    records[1:],
	}, nil
}
