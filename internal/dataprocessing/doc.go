// Package dataprocessing implements the banking fact pipeline: typing the
// raw CSV tables, deduplication and null filtering, derived-column
// enrichment, the multi-key left join producing the denormalized fact table,
// and the three summary aggregations (monthly, high-value customers,
// merchant categories).
//
// The pipeline is a single-pass batch transform over in-memory tables. Each
// stage is a pure function over its inputs: it returns newly constructed
// output and never mutates what it was given. There is no partial-success
// mode; a stage either produces a fully valid result or fails the run.
package dataprocessing
