package domain

// Domain contains the stable article contract served to clients.

// CategoryGeneral is the sentinel category meaning "no category filter".
const CategoryGeneral = "general"

// DefaultPageSize is used when the caller does not supply a page size.
const DefaultPageSize = 10

// Source identifies the publication an article came from.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is the normalized article shape. Nullable fields encode as null.
type Article struct {
	Source      Source  `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
	Content     string  `json:"content"`
	PublishedAt string  `json:"publishedAt"`
}

// NewsResponse is the body returned by GET /api/news.
type NewsResponse struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

// NewsQuery carries the caller-supplied query parameters. Zero values mean "not supplied".
type NewsQuery struct {
	Q        string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

// EffectivePageSize returns the requested page size or DefaultPageSize.
func (q NewsQuery) EffectivePageSize() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	return q.PageSize
}

// CategoryFilter returns the category to forward upstream, or "" for none.
func (q NewsQuery) CategoryFilter() string {
	if q.Category == "" || q.Category == CategoryGeneral {
		return ""
	}
	return q.Category
}
