package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bankfacts/internal/infrastructure"
	"bankfacts/internal/metrics"
	"bankfacts/internal/source"
	"bankfacts/pkg/contracts/domain"
)

// Sink receives the three summary reports produced by a run. Implementations
// render or persist them; the processor only requires that all rows and
// columns are made available.
type Sink interface {
	Publish(ctx context.Context, insights *domain.InsightSet) error
}

// RunResult describes one completed pipeline run.
type RunResult struct {
	RunID    string        `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Duration time.Duration `json:"duration"`

	RawTransactionRows   int `json:"raw_transaction_rows"`
	CleanTransactionRows int `json:"clean_transaction_rows"`
	RawCustomerRows      int `json:"raw_customer_rows"`
	CleanCustomerRows    int `json:"clean_customer_rows"`
	AccountRows          int `json:"account_rows"`
	FactRows             int `json:"fact_rows"`

	Insights *domain.InsightSet `json:"insights"`
}

// Processor orchestrates one batch run: source, clean, enrich, join,
// aggregate, sink. The run is strictly linear and single-threaded; every
// stage either returns a fully valid result or fails the whole run.
type Processor struct {
	source   source.TableSource
	sink     Sink
	cleaner  *Cleaner
	enricher *Enricher
	joiner   *Joiner
	analyzer *Analyzer
	logger   *slog.Logger
}

// NewProcessor creates a processor over the given source and sink.
func NewProcessor(src source.TableSource, sink Sink, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		source:   src,
		sink:     sink,
		cleaner:  NewCleaner(logger),
		enricher: NewEnricher(logger),
		joiner:   NewJoiner(logger),
		analyzer: NewAnalyzer(logger),
		logger:   logger,
	}
}

// Run executes the pipeline once and returns the three summary reports. On
// any internal failure it logs a single diagnostic message and propagates the
// error to the caller; partial results are never returned.
func (p *Processor) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	ctx = infrastructure.WithRunID(ctx, result.RunID)

	p.logger.InfoContext(ctx, "starting pipeline run")

	insights, err := p.run(ctx, result)
	result.Duration = time.Since(result.StartedAt)
	if err != nil {
		p.logger.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
		metrics.RecordRun("failure", result.Duration)
		return nil, err
	}
	result.Insights = insights

	metrics.RecordRun("success", result.Duration)
	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("fact_rows", result.FactRows),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (p *Processor) run(ctx context.Context, result *RunResult) (*domain.InsightSet, error) {
	tables, err := p.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := ParseTransactions(tables.Transactions)
	if err != nil {
		return nil, err
	}
	customers, err := ParseCustomers(tables.Customers)
	if err != nil {
		return nil, err
	}
	accounts, err := ParseAccounts(tables.Accounts)
	if err != nil {
		return nil, err
	}
	result.RawTransactionRows = len(transactions)
	result.RawCustomerRows = len(customers)
	result.AccountRows = len(accounts)

	cleanTransactions := p.cleaner.CleanTransactions(ctx, transactions)
	cleanCustomers := p.cleaner.CleanCustomers(ctx, customers)
	result.CleanTransactionRows = len(cleanTransactions)
	result.CleanCustomerRows = len(cleanCustomers)
	metrics.SetStageRows("clean_transactions", len(cleanTransactions))
	metrics.SetStageRows("clean_customers", len(cleanCustomers))

	enriched, err := p.enricher.Enrich(ctx, cleanTransactions)
	if err != nil {
		return nil, err
	}

	facts, err := p.joiner.BuildFactTable(ctx, enriched, cleanCustomers, accounts)
	if err != nil {
		return nil, err
	}
	result.FactRows = len(facts)
	metrics.SetStageRows("fact", len(facts))

	insights, err := p.analyzer.GenerateInsights(ctx, facts)
	if err != nil {
		return nil, err
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, insights); err != nil {
			return nil, err
		}
	}

	return insights, nil
}
