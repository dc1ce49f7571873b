package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/search"
)

const (
	// ModeKeyword selects full-text search over the Bleve index.
	ModeKeyword = "keyword"

	// ModeSemantic selects embedding-based nearest-neighbor search.
	ModeSemantic = "semantic"

	keywordLimit = 15
)

// AvailabilityResponse reports which search modes can serve queries.
type AvailabilityResponse struct {
	Keyword  bool `json:"keyword"`
	Semantic bool `json:"semantic"`
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - mode (optional, default "keyword"): "keyword" or "semantic"
//
// The two modes score on different scales, so a response only ever contains
// results from the one requested mode.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	mode := c.Query("mode", ModeKeyword)

	var results []search.Result
	var err error

	switch mode {
	case ModeKeyword:
		if s.keyword == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "keyword search is not configured",
			})
		}
		results, err = s.keyword.Search(c.Context(), query, keywordLimit)

	case ModeSemantic:
		// An unconfigured embedder degrades to an empty result list inside
		// Semantic; clients learn why through the availability endpoint.
		results, err = s.searcher.Semantic(c.Context(), query)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "mode must be \"keyword\" or \"semantic\"",
		})
	}

	if err != nil {
		s.logger.Error("search failed",
			zap.String("mode", mode),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "search failed",
		})
	}

	return c.JSON(search.Output{
		Query:   query,
		Mode:    mode,
		Results: results,
		Count:   len(results),
	})
}

// handleSearchAvailability reports which search modes are currently usable,
// so clients can hide the semantic toggle when no provider is configured.
func (s *Server) handleSearchAvailability(c *fiber.Ctx) error {
	return c.JSON(AvailabilityResponse{
		Keyword:  s.keyword != nil,
		Semantic: s.searcher != nil && s.searcher.Available(),
	})
}
