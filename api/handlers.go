package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foliohq/folio/pkg/content"
)

// DocumentResponse is the JSON shape of a single document.
type DocumentResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Unlisted    bool   `json:"unlisted,omitempty"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleGetPost returns a single published post by slug.
func (s *Server) handleGetPost(c *fiber.Ctx) error {
	return s.getDocument(c, content.CollectionPosts)
}

// handleGetPage returns a single published page by slug.
func (s *Server) handleGetPage(c *fiber.Ctx) error {
	return s.getDocument(c, content.CollectionPages)
}

// getDocument fetches a document by slug. Unpublished documents are reported
// as not found; unlisted ones stay reachable by direct link, they are only
// hidden from search.
func (s *Server) getDocument(c *fiber.Ctx, collection content.Collection) error {
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "slug parameter required"})
	}

	doc, err := s.store.GetBySlug(c.Context(), collection, slug)
	if err != nil {
		var notFound content.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load document"})
	}

	if !doc.Published {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
	}

	return c.JSON(DocumentResponse{
		ID:          doc.ID,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Content:     doc.Content,
		Description: doc.Description,
		Unlisted:    doc.Unlisted,
	})
}
