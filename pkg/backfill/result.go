package backfill

import (
	"fmt"

	"github.com/foliohq/folio/pkg/content"
)

// CollectionResult contains statistics for one collection's batch.
type CollectionResult struct {
	Collection content.Collection
	Processed  int

	// Failed lists the slugs of documents whose embedding attempt failed
	// this pass. They stay without an embedding and are retried on the
	// next scheduled run.
	Failed []string
}

// Result contains statistics from a backfill run.
type Result struct {
	// Skipped is true when no embedding provider was configured and the
	// run was a no-op.
	Skipped bool

	Posts CollectionResult
	Pages CollectionResult
}

// Processed returns the total number of documents embedded this run.
func (r *Result) Processed() int {
	return r.Posts.Processed + r.Pages.Processed
}

// Failed returns the total number of per-item failures this run.
func (r *Result) Failed() int {
	return len(r.Posts.Failed) + len(r.Pages.Failed)
}

// Summary returns a human-readable summary of the backfill result.
func (r *Result) Summary() string {
	if r.Skipped {
		return "Backfill skipped: no embedding provider configured"
	}

	return fmt.Sprintf(
		"Backfill complete: %d embedded (%d posts, %d pages), %d failed",
		r.Processed(), r.Posts.Processed, r.Pages.Processed, r.Failed(),
	)
}
