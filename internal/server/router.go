package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/snipsterlab/snipster/internal/snippets"
	"go.uber.org/zap"
)

var errMissingSnippetService = errors.New("snippet service dependency required")

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	SnippetService *snippets.Service
	Logger         *zap.Logger
}

// NewHTTPHandler builds the gin router serving the REST API and the embedded
// web page.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.SnippetService == nil {
		return nil, errMissingSnippetService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		service: deps.SnippetService,
		logger:  logger,
	}

	router.GET("/healthz", handler.handleHealth)
	registerWebUI(router)

	api := router.Group("/api/v1")
	api.POST("/snippets", handler.handleCreateSnippet)
	api.GET("/snippets", handler.handleListSnippets)
	api.GET("/snippets/search", handler.handleSearchSnippets)
	api.GET("/snippets/:id", handler.handleGetSnippet)
	api.PATCH("/snippets/:id", handler.handleUpdateSnippet)
	api.DELETE("/snippets/:id", handler.handleDeleteSnippet)
	api.POST("/snippets/:id/favourite", handler.handleToggleFavourite)
	api.POST("/snippets/:id/tags", handler.handleModifyTags)

	return router, nil
}

type httpHandler struct {
	service *snippets.Service
	logger  *zap.Logger
}

type createSnippetPayload struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`
}

type updateSnippetPayload struct {
	Title       *string `json:"title"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Tags        *string `json:"tags"`
}

type modifyTagsPayload struct {
	Tags   []string `json:"tags"`
	Remove bool     `json:"remove"`
	Sort   *bool    `json:"sort"`
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) handleCreateSnippet(c *gin.Context) {
	var payload createSnippetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record, err := h.service.Add(c.Request.Context(), payload.Title, payload.Code, payload.Description, payload.Language, payload.Tags)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *httpHandler) handleListSnippets(c *gin.Context) {
	var favorite *bool
	if raw, present := c.GetQuery("favorite"); present {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_favorite_filter"})
			return
		}
		favorite = &parsed
	}

	records, err := h.service.List(c.Request.Context(), c.Query("language"), favorite)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *httpHandler) handleSearchSnippets(c *gin.Context) {
	records, err := h.service.Search(c.Request.Context(), c.Query("term"), c.Query("language"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *httpHandler) handleGetSnippet(c *gin.Context) {
	id, ok := parseSnippetID(c)
	if !ok {
		return
	}
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleUpdateSnippet(c *gin.Context) {
	id, ok := parseSnippetID(c)
	if !ok {
		return
	}

	var payload updateSnippetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	fields := snippets.UpdateFields{
		Title:       payload.Title,
		Code:        payload.Code,
		Description: payload.Description,
		Tags:        payload.Tags,
	}
	if payload.Language != nil {
		parsed, err := snippets.ParseLanguage(*payload.Language)
		if err != nil {
			h.writeError(c, err)
			return
		}
		fields.Language = &parsed
	}

	record, err := h.service.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleDeleteSnippet(c *gin.Context) {
	id, ok := parseSnippetID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleToggleFavourite(c *gin.Context) {
	id, ok := parseSnippetID(c)
	if !ok {
		return
	}
	record, err := h.service.ToggleFavourite(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleModifyTags(c *gin.Context) {
	id, ok := parseSnippetID(c)
	if !ok {
		return
	}

	var payload modifyTagsPayload
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload.Tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	sorted := true
	if payload.Sort != nil {
		sorted = *payload.Sort
	}

	record, err := h.service.ModifyTags(c.Request.Context(), id, payload.Tags, payload.Remove, sorted)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// writeError translates the service error taxonomy into HTTP status codes:
// not-found to 404, validation to 422, duplicates to 409, everything else to
// a 500 storage failure.
func (h *httpHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, snippets.ErrSnippetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "snippet_not_found"})
	case snippets.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "detail": err.Error()})
	case errors.Is(err, snippets.ErrDuplicateSnippet):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_snippet"})
	default:
		h.logger.Error("storage failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
	}
}

func parseSnippetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_snippet_id"})
		return 0, false
	}
	return id, true
}
