package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"comicvault/internal/analysis"
	"comicvault/internal/collection"
	"comicvault/internal/logging"
)

// Handler exposes collection views as gin routes.
type Handler struct {
	Store  *collection.Store
	Logger *slog.Logger
}

// NewHandler returns a handler reading from store.
func NewHandler(store *collection.Store, logger *slog.Logger) *Handler {
	return &Handler{Store: store, Logger: logging.NewComponentLogger(logger, "api")}
}

// NewRouter builds a gin engine with recovery, request logging, and every
// route registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	router.GET("/health", h.health)
	h.RegisterRoutes(router.Group("/api"))
	return router
}

// RegisterRoutes mounts the collection views under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)           // GET /api/stats
	rg.GET("/duplicates", h.duplicates) // GET /api/duplicates
	rg.GET("/gaps", h.gaps)             // GET /api/gaps
	rg.GET("/search", h.search)         // GET /api/search?q=
	rg.GET("/not-found", h.notFound)    // GET /api/not-found
	rg.GET("/records", h.listRecords)   // GET /api/records?status=
	rg.GET("/records/:id", h.getRecord) // GET /api/records/:id
}

func (h *Handler) health(c *gin.Context) {
	report, err := h.Store.CheckHealth(c.Request.Context())
	payload := HealthResponse{Status: "ok", Database: FromDatabaseHealth(report)}
	if err != nil || !report.DatabaseReadable || !report.IntegrityCheck || len(report.MissingColumns) > 0 {
		payload.Status = "degraded"
		if err != nil && payload.Database.Error == "" {
			payload.Database.Error = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, payload)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) stats(c *gin.Context) {
	records, ok := h.loadAll(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FromSummary(analysis.Summarize(records)))
}

func (h *Handler) duplicates(c *gin.Context) {
	records, ok := h.loadAll(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FromDuplicates(analysis.Duplicates(records)))
}

func (h *Handler) gaps(c *gin.Context) {
	records, err := h.Store.ListByStatus(c.Request.Context(), collection.StatusIdentified)
	if err != nil {
		h.fail(c, "list identified records", err)
		return
	}
	c.JSON(http.StatusOK, FromGaps(analysis.Gaps(records)))
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	records, ok := h.loadAll(c)
	if !ok {
		return
	}
	matches := analysis.Search(records, query)
	c.JSON(http.StatusOK, RecordListResponse{Total: len(matches), Items: FromRecords(matches)})
}

func (h *Handler) notFound(c *gin.Context) {
	records, err := h.Store.ListByStatus(c.Request.Context(), collection.StatusNotFound)
	if err != nil {
		h.fail(c, "list not found records", err)
		return
	}
	total := len(records)
	listed := analysis.NotFound(records)
	c.JSON(http.StatusOK, RecordListResponse{Total: total, Items: FromRecords(listed)})
}

func (h *Handler) listRecords(c *gin.Context) {
	var statuses []collection.Status
	for _, value := range c.QueryArray("status") {
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			status := collection.Status(trimmed)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(trimmed)})
				return
			}
			statuses = append(statuses, status)
		}
	}
	var (
		records []collection.Record
		err     error
	)
	if len(statuses) == 0 {
		records, err = h.Store.All(c.Request.Context())
	} else {
		records, err = h.Store.ListByStatus(c.Request.Context(), statuses...)
	}
	if err != nil {
		h.fail(c, "list records", err)
		return
	}
	total := len(records)
	limit := parseInt(c.Query("limit"), 100)
	offset := parseInt(c.Query("offset"), 0)
	c.JSON(http.StatusOK, RecordListResponse{Total: total, Items: FromRecords(page(records, offset, limit))})
}

func (h *Handler) getRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}
	rec, err := h.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get record", err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, RecordResponse{Item: FromRecord(*rec)})
}

func (h *Handler) loadAll(c *gin.Context) ([]collection.Record, bool) {
	records, err := h.Store.All(c.Request.Context())
	if err != nil {
		h.fail(c, "list records", err)
		return nil, false
	}
	return records, true
}

func (h *Handler) fail(c *gin.Context, operation string, err error) {
	h.Logger.Error("api request failed",
		logging.String("operation", operation),
		logging.String("path", c.FullPath()),
		logging.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": operation + " failed"})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Debug("api request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
}

func page(records []collection.Record, offset, limit int) []collection.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	end := len(records)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return records[offset:end]
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
