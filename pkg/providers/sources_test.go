package providers

import (
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

var fixedNow = func() time.Time { return time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC) }

func mustSource(t *testing.T, p Provider) Source {
	t.Helper()
	src, err := DefaultSourceRegistry().SourceFor(p)
	if err != nil {
		t.Fatalf("SourceFor: %v", err)
	}
	return src
}

func gnewsProvider() Provider {
	return Provider{ID: "gnews", Type: ProviderTypeGNews, BaseURL: "https://gnews.test/api/v4", APIKeyEnv: "K"}
}

func newsAPIProvider() Provider {
	return Provider{ID: "newsapi", Type: ProviderTypeNewsAPI, BaseURL: "https://newsapi.test/v2", APIKeyEnv: "K"}
}

func TestSelectEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		provider Provider
		query    domain.NewsQuery
		kind     EndpointKind
		url      string
	}{
		{"gnews search", gnewsProvider(), domain.NewsQuery{Q: "election", Category: "sports"}, EndpointSearch, "https://gnews.test/api/v4/search"},
		{"gnews category", gnewsProvider(), domain.NewsQuery{Category: "technology"}, EndpointHeadlines, "https://gnews.test/api/v4/top-headlines"},
		{"gnews default", gnewsProvider(), domain.NewsQuery{}, EndpointHeadlines, "https://gnews.test/api/v4/top-headlines"},
		{"newsapi search", newsAPIProvider(), domain.NewsQuery{Q: "election"}, EndpointSearch, "https://newsapi.test/v2/everything"},
		{"newsapi general", newsAPIProvider(), domain.NewsQuery{Category: "general"}, EndpointHeadlines, "https://newsapi.test/v2/top-headlines"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ep := mustSource(t, tc.provider).SelectEndpoint(tc.query)
			if ep.Kind != tc.kind || ep.URL != tc.url {
				t.Fatalf("endpoint = %+v want %s %s", ep, tc.kind, tc.url)
			}
		})
	}
}

func TestGNewsBuildParams(t *testing.T) {
	src := mustSource(t, gnewsProvider())

	q := domain.NewsQuery{Q: "pound £ \"quote\"", Category: "sports", Page: 2}
	params := src.BuildParams(q, src.SelectEndpoint(q), "key")
	want := map[string]string{"apikey": "key", "lang": "en", "max": "10", "page": "2", "q": "pound £ \"quote\"", "category": "sports"}
	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("%s = %q want %q", k, got, v)
		}
	}

	q = domain.NewsQuery{Category: "technology", PageSize: 25}
	params = src.BuildParams(q, src.SelectEndpoint(q), "key")
	if params.Get("category") != "technology" || params.Get("max") != "25" {
		t.Errorf("unexpected headline params %v", params)
	}
	if params.Has("page") || params.Has("q") || params.Has("country") {
		t.Errorf("unexpected params %v", params)
	}
}

func TestGNewsNeverForwardsGeneral(t *testing.T) {
	src := mustSource(t, gnewsProvider())
	for _, q := range []domain.NewsQuery{{Category: domain.CategoryGeneral}, {Q: "election", Category: domain.CategoryGeneral}} {
		params := src.BuildParams(q, src.SelectEndpoint(q), "key")
		if params.Has("category") {
			t.Fatalf("general must not be forwarded for %+v, got %v", q, params)
		}
	}
}

func TestBlankQuerySelectsHeadlines(t *testing.T) {
	for _, p := range []Provider{gnewsProvider(), newsAPIProvider()} {
		src := mustSource(t, p)
		q := domain.NewsQuery{Q: "   ", Category: "science"}
		ep := src.SelectEndpoint(q)
		if ep.Kind != EndpointHeadlines {
			t.Fatalf("%s: blank q selected %s", p.ID, ep.Kind)
		}
		params := src.BuildParams(q, ep, "key")
		if params.Has("q") || params.Get("category") != "science" {
			t.Fatalf("%s: unexpected params %v", p.ID, params)
		}
	}
}

func TestSearchQueryIsTrimmed(t *testing.T) {
	src := mustSource(t, gnewsProvider())
	q := domain.NewsQuery{Q: "  election  "}
	params := src.BuildParams(q, src.SelectEndpoint(q), "key")
	if got := params.Get("q"); got != "election" {
		t.Fatalf("q = %q want election", got)
	}
}

func TestNewsAPIBuildParams(t *testing.T) {
	src := mustSource(t, newsAPIProvider())

	q := domain.NewsQuery{}
	params := src.BuildParams(q, src.SelectEndpoint(q), "key")
	want := map[string]string{"apiKey": "key", "language": "en", "pageSize": "10", "country": "us"}
	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("%s = %q want %q", k, got, v)
		}
	}
	if params.Has("category") || params.Has("page") {
		t.Errorf("unexpected params %v", params)
	}

	q = domain.NewsQuery{Q: "election"}
	params = src.BuildParams(q, src.SelectEndpoint(q), "key")
	if params.Get("q") != "election" || params.Has("country") || params.Has("category") {
		t.Errorf("unexpected search params %v", params)
	}

	q = domain.NewsQuery{Q: "election", Category: "business"}
	params = src.BuildParams(q, src.SelectEndpoint(q), "key")
	if params.Get("q") != "election" || params.Get("category") != "business" || params.Has("country") {
		t.Errorf("unexpected search+category params %v", params)
	}
}

func TestIncompatibleBuilderType(t *testing.T) {
	if _, err := NewGNewsSource(newsAPIProvider()); err == nil {
		t.Fatal("expected gnews builder to reject newsapi type")
	}
	if _, err := NewNewsAPISource(gnewsProvider()); err == nil {
		t.Fatal("expected newsapi builder to reject gnews type")
	}
}
