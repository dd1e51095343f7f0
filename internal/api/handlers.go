package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
	"github.com/samvad-hq/samvad-news-gateway/internal/logger"
	"github.com/samvad-hq/samvad-news-gateway/internal/news"
	"github.com/samvad-hq/samvad-news-gateway/pkg/publishers"
)

// NewsFetcher is the router surface the handlers need.
type NewsFetcher interface {
	Fetch(ctx context.Context, q domain.NewsQuery) (domain.NewsResponse, error)
	ProviderID() string
}

// EventDispatcher publishes served-query events in the background.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evt publishers.Event)
}

// ErrorResponse is the body of every failed /api request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Handler holds HTTP request handlers
type Handler struct {
	fetcher    NewsFetcher
	dispatcher EventDispatcher
	log        logger.Logger
}

// NewHandler creates a new handler instance. dispatcher may be nil.
func NewHandler(fetcher NewsFetcher, dispatcher EventDispatcher, log logger.Logger) *Handler {
	return &Handler{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		log:        logger.Ensure(log),
	}
}

// GetNews handles GET /api/news.
func (h *Handler) GetNews(c *gin.Context) {
	q := parseNewsQuery(c)
	h.log.DebugObj("news request received", "news_query", q)

	// The upstream call is not aborted when the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	resp, err := h.fetcher.Fetch(ctx, q)
	if err != nil {
		h.log.ErrorObj("news request failed", "news_request_error", map[string]any{
			"kind":     news.KindOf(err),
			"error":    err.Error(),
			"query":    q.Q,
			"category": q.Category,
		})
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
		return
	}

	category := q.Category
	if category == "" {
		category = "none"
	}
	query := q.Q
	if query == "" {
		query = "none"
	}
	h.log.InfoObj("news request served", "news_result", map[string]any{
		"articles": len(resp.Articles),
		"category": category,
		"query":    query,
	})

	c.JSON(http.StatusOK, resp)

	if h.dispatcher != nil {
		h.dispatcher.Dispatch(ctx, publishers.NewEvent(h.fetcher.ProviderID(), q, resp))
	}
}

// HealthCheck reports liveness and the active provider.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": h.fetcher.ProviderID(),
	})
}

// parseNewsQuery reads the optional query parameters. Non-numeric or
// non-positive page values count as not supplied.
func parseNewsQuery(c *gin.Context) domain.NewsQuery {
	return domain.NewsQuery{
		Q:        strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     positiveInt(c.Query("page")),
		PageSize: positiveInt(c.Query("pageSize")),
	}
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
