package providers

import (
	"net/url"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

// EndpointKind distinguishes free-text search from headline listing.
type EndpointKind string

const (
	EndpointSearch    EndpointKind = "search"
	EndpointHeadlines EndpointKind = "headlines"
)

// Endpoint is the upstream endpoint chosen for a query.
type Endpoint struct {
	Kind EndpointKind
	URL  string
}

// Source is one upstream news API. Concrete implementations live in
// provider-specific files (gnews.go, newsapi.go).
type Source interface {
	ID() string
	SelectEndpoint(q domain.NewsQuery) Endpoint
	BuildParams(q domain.NewsQuery, ep Endpoint, apiKey string) url.Values
	// Rejection reports whether a response body signals failure and the upstream message.
	Rejection(body []byte) (message string, rejected bool)
	Normalize(body []byte) (domain.NewsResponse, error)
}

// SourceRegistry resolves the Source implementation for a given provider config.
type SourceRegistry interface {
	SourceFor(cfg Provider) (Source, error)
}
