package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Editor operation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	// MEditorOperations counts structural edits by operation and outcome
	MEditorOperations = stats.Int64("editor/operations", "Number of editor operations", stats.UnitDimensionless)
	// MEditorLatency is the end-to-end latency of an editor operation
	MEditorLatency = stats.Float64("editor/operation_latency", "Latency of editor operations", stats.UnitMilliseconds)
	// MDocumentBlocks is the block count of a document after a write
	MDocumentBlocks = stats.Int64("editor/document_blocks", "Blocks per stored document", stats.UnitDimensionless)

	KeyOperation = tag.MustNewKey("operation")
	KeyOutcome   = tag.MustNewKey("outcome")
)

var (
	EditorOperationsView = &view.View{
		Name:        "editor/operations",
		Measure:     MEditorOperations,
		Description: "Count of editor operations by operation and outcome",
		TagKeys:     []tag.Key{KeyOperation, KeyOutcome},
		Aggregation: view.Count(),
	}
	EditorLatencyView = &view.View{
		Name:        "editor/operation_latency",
		Measure:     MEditorLatency,
		Description: "Latency distribution of editor operations",
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Distribution(1, 2, 5, 10, 25, 50, 100, 250, 500, 1000),
	}
	DocumentBlocksView = &view.View{
		Name:        "editor/document_blocks",
		Measure:     MDocumentBlocks,
		Description: "Distribution of document sizes after writes",
		Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500),
	}

	EditorViews = []*view.View{EditorOperationsView, EditorLatencyView, DocumentBlocksView}
)

// RegisterEditorViews registers the editor metric views
func RegisterEditorViews() error {
	if err := view.Register(EditorViews...); err != nil {
		return fmt.Errorf("failed to register editor views: %w", err)
	}
	return nil
}

// RecordOperation records one editor operation with its outcome and latency
func RecordOperation(ctx context.Context, operation, outcome string, started time.Time) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOperation, operation), tag.Upsert(KeyOutcome, outcome)},
		MEditorOperations.M(1),
		MEditorLatency.M(float64(time.Since(started))/float64(time.Millisecond)),
	)
}

// RecordDocumentSize records the block count of a freshly written document
func RecordDocumentSize(ctx context.Context, blocks int) {
	stats.Record(ctx, MDocumentBlocks.M(int64(blocks)))
}
