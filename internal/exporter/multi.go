package exporter

import (
	"context"

	"bankfacts/pkg/contracts/domain"
)

// Publisher is the subset of sink behavior the multi sink composes.
type Publisher interface {
	Publish(ctx context.Context, insights *domain.InsightSet) error
}

// MultiSink fans the reports out to several sinks in order. The first
// failure aborts publication: partial output is surfaced as a run failure,
// never silently tolerated.
type MultiSink []Publisher

// Publish publishes to each sink in order.
func (m MultiSink) Publish(ctx context.Context, insights *domain.InsightSet) error {
	for _, sink := range m {
		if err := sink.Publish(ctx, insights); err != nil {
			return err
		}
	}
	return nil
}
