package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a3tai/cbs-offer-importer/internal/importer"
)

// OfferService is the part of importer.Service the HTTP surface uses.
type OfferService interface {
	Extract(req importer.ExtractRequest) (*importer.ExtractResult, error)
	Import(ctx context.Context, req importer.ImportRequest) (*importer.ImportResult, error)
	Search(req importer.SearchRequest) (*importer.SearchResult, error)
	Info(name, version string, tools []string) *importer.ServerInfo
}

// Routes lists the endpoints served by Setup.
var Routes = []string{
	"POST /api/v1/extract",
	"POST /api/v1/import",
	"GET /api/v1/offers",
	"GET /api/v1/info",
	"GET /healthz",
}

// Handler serves the offer endpoints.
type Handler struct {
	svc     OfferService
	name    string
	version string
}

// NewHandler creates a handler reporting name and version on /api/v1/info.
func NewHandler(svc OfferService, name, version string) *Handler {
	return &Handler{svc: svc, name: name, version: version}
}

type extractBody struct {
	Path string `json:"path" binding:"required"`
}

type importBody struct {
	Directory string `json:"directory"`
	Template  string `json:"template" binding:"required"`
	Output    string `json:"output"`
}

// Extract handles POST /api/v1/extract
func (h *Handler) Extract(c *gin.Context) {
	var body extractBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.svc.Extract(importer.ExtractRequest{Path: body.Path})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Import handles POST /api/v1/import
func (h *Handler) Import(c *gin.Context) {
	var body importBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.svc.Import(c.Request.Context(), importer.ImportRequest{
		Directory: body.Directory,
		Template:  body.Template,
		Output:    body.Output,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Search handles GET /api/v1/offers?directory=&query=&validate=
func (h *Handler) Search(c *gin.Context) {
	result, err := h.svc.Search(importer.SearchRequest{
		Directory: c.Query("directory"),
		Query:     c.Query("query"),
		Validate:  c.Query("validate") == "true",
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Info handles GET /api/v1/info
func (h *Handler) Info(c *gin.Context) {
	RespondOK(c, h.svc.Info(h.name, h.version, Routes))
}

// Liveness handles GET /healthz
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
