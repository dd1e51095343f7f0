package providers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

const (
	newsAPIBaseURL        = "https://newsapi.org/v2"
	newsAPISearchPath     = "/everything"
	newsAPIHeadlinesPath  = "/top-headlines"
	newsAPIDefaultCountry = "us"
)

var newsAPIParams = paramNames{
	apiKey:   "apiKey",
	language: "language",
	pageSize: "pageSize",
	page:     "page",
	query:    "q",
	category: "category",
	country:  "country",
}

// newsAPISource talks to the NewsAPI v2 API. Its headline endpoint requires a country.
type newsAPISource struct {
	id           string
	searchURL    string
	headlinesURL string
	country      string
	now          func() time.Time
}

// NewNewsAPISource builds a Source for a NewsAPI provider entry.
func NewNewsAPISource(cfg Provider) (Source, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeNewsAPI) {
		return nil, fmt.Errorf("newsapi source received incompatible provider type %q", cfg.Type)
	}
	base := cfg.BaseURL
	if base == "" {
		base = newsAPIBaseURL
	}
	country := cfg.DefaultCountry
	if country == "" {
		country = newsAPIDefaultCountry
	}
	return &newsAPISource{
		id:           cfg.ID,
		searchURL:    base + pathOr(cfg.SearchPath, newsAPISearchPath),
		headlinesURL: base + pathOr(cfg.HeadlinesPath, newsAPIHeadlinesPath),
		country:      country,
		now:          time.Now,
	}, nil
}

func (s *newsAPISource) ID() string { return s.id }

func (s *newsAPISource) SelectEndpoint(q domain.NewsQuery) Endpoint {
	return selectEndpoint(q, s.searchURL, s.headlinesURL)
}

func (s *newsAPISource) BuildParams(q domain.NewsQuery, ep Endpoint, apiKey string) url.Values {
	return buildParams(newsAPIParams, q, ep, apiKey, s.country)
}

// NewsAPI answers {"status":"error","code":...,"message":...} on failure.
func (s *newsAPISource) Rejection(body []byte) (string, bool) {
	return rejection(body)
}

func (s *newsAPISource) Normalize(body []byte) (domain.NewsResponse, error) {
	return normalizeEnvelope(body, envelopeFields{total: "totalResults", image: "urlToImage"}, s.now)
}
