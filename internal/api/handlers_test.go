package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
	"github.com/samvad-hq/samvad-news-gateway/internal/news"
	"github.com/samvad-hq/samvad-news-gateway/pkg/publishers"
)

type mockFetcher struct {
	mu      sync.Mutex
	queries []domain.NewsQuery
	ctxErrs []error
	resp    domain.NewsResponse
	err     error
}

func (m *mockFetcher) Fetch(ctx context.Context, q domain.NewsQuery) (domain.NewsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return m.resp, m.err
}

func (m *mockFetcher) ProviderID() string { return "gnews" }

type mockDispatcher struct {
	events []publishers.Event
}

func (m *mockDispatcher) Dispatch(_ context.Context, evt publishers.Event) {
	m.events = append(m.events, evt)
}

type countingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingObserver) ObserveHTTP(method, route, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, method+" "+route+" "+status)
}

func setupTestRouter(t *testing.T, fetcher NewsFetcher, dispatcher EventDispatcher, obs HTTPObserver) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger(nil, obs))
	SetupRoutes(router, NewHandler(fetcher, dispatcher, nil), nil)
	return router
}

func serve(router *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetNewsParsesQueryParameters(t *testing.T) {
	fetcher := &mockFetcher{resp: domain.NewsResponse{Articles: []domain.Article{}}}
	router := setupTestRouter(t, fetcher, nil, nil)

	rec := serve(router, "/api/news?q=%20election%20&category=technology&page=2&pageSize=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}

	want := domain.NewsQuery{Q: "election", Category: "technology", Page: 2, PageSize: 20}
	if len(fetcher.queries) != 1 || fetcher.queries[0] != want {
		t.Fatalf("queries = %+v want %+v", fetcher.queries, want)
	}
}

func TestGetNewsIgnoresInvalidNumbers(t *testing.T) {
	fetcher := &mockFetcher{resp: domain.NewsResponse{Articles: []domain.Article{}}}
	router := setupTestRouter(t, fetcher, nil, nil)

	serve(router, "/api/news?page=abc&pageSize=-5")
	if got := fetcher.queries[0]; got.Page != 0 || got.PageSize != 0 {
		t.Fatalf("expected unset page values, got %+v", got)
	}
}

func TestGetNewsReturnsNormalizedBody(t *testing.T) {
	image := "https://x.example/i.jpg"
	fetcher := &mockFetcher{resp: domain.NewsResponse{
		TotalArticles: 42,
		Articles: []domain.Article{{
			Source: domain.Source{Name: "X"}, Title: "T", Description: "D", URL: "https://x.example",
			Image: &image, Content: "C", PublishedAt: "2024-01-01T00:00:00Z",
		}},
	}}
	dispatcher := &mockDispatcher{}
	router := setupTestRouter(t, fetcher, dispatcher, nil)

	rec := serve(router, "/api/news?category=general")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["totalArticles"].(float64) != 42 {
		t.Fatalf("totalArticles = %v", body["totalArticles"])
	}
	article := body["articles"].([]any)[0].(map[string]any)
	if article["author"] != nil || article["image"] != image {
		t.Fatalf("unexpected article %v", article)
	}
	if src := article["source"].(map[string]any); src["id"] != nil || src["name"] != "X" {
		t.Fatalf("unexpected source %v", src)
	}

	if len(dispatcher.events) != 1 || dispatcher.events[0].ProviderID != "gnews" || dispatcher.events[0].TotalArticles != 42 {
		t.Fatalf("unexpected events %+v", dispatcher.events)
	}
}

func TestGetNewsMapsEveryErrorTo500(t *testing.T) {
	errs := []error{
		&news.Error{Kind: news.KindConfiguration, Message: "GNEWS_API_KEY environment variable is not set"},
		&news.Error{Kind: news.KindUpstream, Status: 401, Message: "News API error: 401 - Unauthorized"},
		&news.Error{Kind: news.KindConnectivity, Message: "No response from News API. Please check your network connection."},
		&news.Error{Kind: news.KindRequestSetup, Message: "Error setting up request: bad url"},
	}

	for _, ferr := range errs {
		dispatcher := &mockDispatcher{}
		router := setupTestRouter(t, &mockFetcher{err: ferr}, dispatcher, nil)

		rec := serve(router, "/api/news")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d for %v", rec.Code, ferr)
		}
		var body ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Message != ferr.Error() {
			t.Fatalf("message = %q want %q", body.Message, ferr.Error())
		}
		if len(dispatcher.events) != 0 {
			t.Fatalf("failed requests must not publish events")
		}
	}
}

func TestGetNewsDetachesFromCancelledRequest(t *testing.T) {
	fetcher := &mockFetcher{resp: domain.NewsResponse{Articles: []domain.Article{}}}
	router := setupTestRouter(t, fetcher, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil).WithContext(ctx)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if len(fetcher.ctxErrs) != 1 || fetcher.ctxErrs[0] != nil {
		t.Fatalf("fetch context should not be cancelled, got %v", fetcher.ctxErrs)
	}
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, &mockFetcher{}, nil, nil)

	rec := serve(router, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"provider":"gnews"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestLoggerObservesRoutes(t *testing.T) {
	obs := &countingObserver{}
	router := setupTestRouter(t, &mockFetcher{resp: domain.NewsResponse{Articles: []domain.Article{}}}, nil, obs)

	serve(router, "/api/news")
	serve(router, "/nope")

	if len(obs.calls) != 2 {
		t.Fatalf("calls = %v", obs.calls)
	}
	if obs.calls[0] != "GET /api/news 200" || obs.calls[1] != "GET unmatched 404" {
		t.Fatalf("calls = %v", obs.calls)
	}
}
