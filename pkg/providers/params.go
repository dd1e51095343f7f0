package providers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

// Language is fixed; the client only renders English news.
const Language = "en"

// paramNames holds a provider's query-parameter vocabulary.
type paramNames struct {
	apiKey   string
	language string
	pageSize string
	page     string
	query    string
	category string
	country  string
}

// selectEndpoint applies the shared precedence: search when the trimmed q is
// set, headlines otherwise.
func selectEndpoint(q domain.NewsQuery, searchURL, headlinesURL string) Endpoint {
	if strings.TrimSpace(q.Q) != "" {
		return Endpoint{Kind: EndpointSearch, URL: searchURL}
	}
	return Endpoint{Kind: EndpointHeadlines, URL: headlinesURL}
}

func buildParams(names paramNames, q domain.NewsQuery, ep Endpoint, apiKey, country string) url.Values {
	params := url.Values{}
	params.Set(names.apiKey, apiKey)
	params.Set(names.language, Language)
	params.Set(names.pageSize, strconv.Itoa(q.EffectivePageSize()))
	if q.Page > 0 {
		params.Set(names.page, strconv.Itoa(q.Page))
	}

	// q and category combine; "general" never goes upstream.
	if category := q.CategoryFilter(); category != "" {
		params.Set(names.category, category)
	}

	switch ep.Kind {
	case EndpointSearch:
		params.Set(names.query, strings.TrimSpace(q.Q))
	case EndpointHeadlines:
		if country != "" && names.country != "" {
			params.Set(names.country, country)
		}
	}
	return params
}
