package ingest

import "fmt"

// Result contains statistics from a sync run.
type Result struct {
	Synced int

	// Removed counts stored documents whose source file no longer exists.
	Removed int

	// Failed lists the file paths that could not be parsed or stored.
	Failed []string
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	summary := fmt.Sprintf("Sync complete: %d documents", r.Synced)
	if r.Removed > 0 {
		summary += fmt.Sprintf(", %d removed", r.Removed)
	}
	if len(r.Failed) > 0 {
		summary += fmt.Sprintf(", %d failed", len(r.Failed))
	}
	return summary
}
