package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

// Event describes one served /api/news request.
type Event struct {
	ProviderID       string           `json:"provider_id"`
	Query            domain.NewsQuery `json:"query"`
	TotalArticles    int              `json:"total_articles"`
	ReturnedArticles int              `json:"returned_articles"`
	ServedAt         time.Time        `json:"served_at"`
}

// NewEvent constructs an Event for a successful fetch.
func NewEvent(providerID string, q domain.NewsQuery, resp domain.NewsResponse) Event {
	return Event{
		ProviderID:       providerID,
		Query:            q,
		TotalArticles:    resp.TotalArticles,
		ReturnedArticles: len(resp.Articles),
		ServedAt:         time.Now().UTC(),
	}
}
