package search

// Kind tags which collection a search result came from.
type Kind string

const (
	// KindPost marks a result hydrated from the posts collection.
	KindPost Kind = "post"

	// KindPage marks a result hydrated from the pages collection.
	KindPage Kind = "page"
)

// Result is the unified output record for both search modes. It is
// constructed fresh per query and never persisted.
//
// Score is comparable only within a single search invocation and mode:
// keyword relevance and vector similarity are not on the same scale and
// must never be mixed into one ranking.
type Result struct {
	Kind        Kind    `json:"type"`
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Snippet     string  `json:"snippet"`
	Score       float32 `json:"score"`
}

// Output is the wire shape of a search response.
type Output struct {
	Query   string   `json:"query"`
	Mode    string   `json:"mode"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}
