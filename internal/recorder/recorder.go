// Package recorder writes the benchmark driver's throughput measurements as
// the JSON document spec.md §6 assigns to the harness: a sequential
// baseline number and a per-worker-count array of parallel numbers. Like
// internal/trace, this is a harness collaborator never imported by the core
// table package.
package recorder

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// Result is the harness's recorded outcome: Sequential is the single-thread
// baseline throughput, Parallel is indexed by worker count.
type Result struct {
	Sequential float64   `json:"sequential"`
	Parallel   []float64 `json:"parallel"`
}

// WriteJSON encodes r as indented JSON to w and logs completion through the
// supplied zap logger. logger may be nil, in which case nothing is logged.
func (r Result) WriteJSON(w io.Writer, logger *zap.Logger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		if logger != nil {
			logger.Error("failed to write benchmark result", zap.Error(err))
		}
		return err
	}
	if logger != nil {
		logger.Info("wrote benchmark result",
			zap.Float64("sequential", r.Sequential),
			zap.Int("workerCounts", len(r.Parallel)),
		)
	}
	return nil
}
