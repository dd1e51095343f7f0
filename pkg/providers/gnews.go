package providers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

const (
	gnewsBaseURL       = "https://gnews.io/api/v4"
	gnewsSearchPath    = "/search"
	gnewsHeadlinesPath = "/top-headlines"
)

var gnewsParams = paramNames{
	apiKey:   "apikey",
	language: "lang",
	pageSize: "max",
	page:     "page",
	query:    "q",
	category: "category",
	country:  "country",
}

// gnewsSource talks to the GNews v4 API.
type gnewsSource struct {
	id           string
	searchURL    string
	headlinesURL string
	country      string
	now          func() time.Time
}

// NewGNewsSource builds a Source for a GNews provider entry.
func NewGNewsSource(cfg Provider) (Source, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeGNews) {
		return nil, fmt.Errorf("gnews source received incompatible provider type %q", cfg.Type)
	}
	base := cfg.BaseURL
	if base == "" {
		base = gnewsBaseURL
	}
	return &gnewsSource{
		id:           cfg.ID,
		searchURL:    base + pathOr(cfg.SearchPath, gnewsSearchPath),
		headlinesURL: base + pathOr(cfg.HeadlinesPath, gnewsHeadlinesPath),
		country:      cfg.DefaultCountry,
		now:          time.Now,
	}, nil
}

func (s *gnewsSource) ID() string { return s.id }

func (s *gnewsSource) SelectEndpoint(q domain.NewsQuery) Endpoint {
	return selectEndpoint(q, s.searchURL, s.headlinesURL)
}

func (s *gnewsSource) BuildParams(q domain.NewsQuery, ep Endpoint, apiKey string) url.Values {
	return buildParams(gnewsParams, q, ep, apiKey, s.country)
}

// GNews reports failures as {"errors": [...]} with a non-2xx status and has no status field.
func (s *gnewsSource) Rejection(body []byte) (string, bool) {
	return rejection(body)
}

func (s *gnewsSource) Normalize(body []byte) (domain.NewsResponse, error) {
	return normalizeEnvelope(body, envelopeFields{total: "totalArticles", image: "image"}, s.now)
}
