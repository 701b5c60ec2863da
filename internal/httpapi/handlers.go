package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/stitch/internal/db"
	"horse.fit/stitch/internal/globaltime"
	"horse.fit/stitch/internal/pipeline"
	pageschema "horse.fit/stitch/schema"
)

const maxBuildBatch = 1000

type buildRequest struct {
	Pages []json.RawMessage `json:"pages"`
	Store bool              `json:"store"`
}

type buildResponse struct {
	Documents []pipeline.Document `json:"documents"`
	Skipped   []pipeline.Skip     `json:"skipped"`
	Stored    int64               `json:"stored,omitempty"`
}

type dedupeRequest struct {
	Rows [][]string `json:"rows"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "stitch",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleBuildDocuments(c echo.Context) error {
	var req buildRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if len(req.Pages) == 0 {
		return failValidation(c, map[string]string{"pages": "at least one page is required"})
	}
	if len(req.Pages) > maxBuildBatch {
		return failValidation(c, map[string]string{"pages": fmt.Sprintf("batch exceeds %d pages", maxBuildBatch)})
	}
	if req.Store && s.pool == nil {
		return fail(c, http.StatusServiceUnavailable, "Storage is not configured", nil)
	}

	inputs := make([]pipeline.RawInput, 0, len(req.Pages))
	for i, raw := range req.Pages {
		page, err := pageschema.ValidateScrapedPage(raw)
		if err != nil {
			return failValidation(c, map[string]string{
				fmt.Sprintf("pages[%d]", i): err.Error(),
			})
		}
		site := page.Site
		if site == "" {
			site = pipeline.SiteLabel(page.URL)
		}
		inputs = append(inputs, pipeline.RawInput{
			URL:       page.URL,
			JSONLD:    page.JSONLD,
			Site:      site,
			Embedding: page.Embedding,
		})
	}

	result := s.builder.BuildDocuments(inputs)
	resp := buildResponse{
		Documents: result.Documents,
		Skipped:   result.Skipped,
	}

	if req.Store {
		stored, err := s.pool.UpsertDocuments(c.Request().Context(), result.Documents)
		if err != nil {
			s.logger.Error().Err(err).Msg("store documents failed")
			return internalError(c, "Failed to store documents")
		}
		resp.Stored = stored
	}

	return success(c, resp)
}

func (s *Server) handleDedupeRows(c echo.Context) error {
	if s.deduper == nil {
		return fail(c, http.StatusServiceUnavailable, "Dedup is not configured", nil)
	}

	var req dedupeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if len(req.Rows) == 0 {
		return failValidation(c, map[string]string{"rows": "at least one row is required"})
	}

	return success(c, s.deduper.Dedupe(req.Rows))
}

func (s *Server) handleListDocuments(c echo.Context) error {
	if s.pool == nil {
		return fail(c, http.StatusServiceUnavailable, "Storage is not configured", nil)
	}

	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}
	page, err := parsePositiveInt(c.QueryParam("page"), 1, 1, 100000)
	if err != nil {
		return failValidation(c, map[string]string{"page": err.Error()})
	}

	items, err := s.pool.ListDocuments(c.Request().Context(), db.DocumentListOptions{
		Site:   strings.TrimSpace(c.QueryParam("site")),
		Query:  strings.TrimSpace(c.QueryParam("q")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("query documents failed")
		return internalError(c, "Failed to load documents")
	}
	return success(c, map[string]any{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) handleGetDocument(c echo.Context) error {
	if s.pool == nil {
		return fail(c, http.StatusServiceUnavailable, "Storage is not configured", nil)
	}

	documentID := strings.TrimSpace(c.Param("document_id"))
	if documentID == "" {
		return failValidation(c, map[string]string{"document_id": "must not be empty"})
	}

	doc, err := s.pool.GetDocument(c.Request().Context(), documentID)
	if err != nil {
		if db.IsNoRows(err) {
			return fail(c, http.StatusNotFound, "Document not found", nil)
		}
		s.logger.Error().Err(err).Msg("query document failed")
		return internalError(c, "Failed to load document")
	}
	return success(c, doc)
}

func parsePositiveInt(raw string, def, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return def, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if n < minValue || n > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return n, nil
}
