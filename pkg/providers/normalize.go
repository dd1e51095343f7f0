package providers

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
)

const (
	FallbackSourceName  = "Unknown Source"
	FallbackTitle       = "Untitled Article"
	FallbackDescription = "No description available"
	FallbackURL         = "#"
	FallbackContent     = "No content available"

	// publishedAtLayout matches JavaScript's Date.toISOString.
	publishedAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

// envelopeFields names the provider-specific keys of a list response.
type envelopeFields struct {
	total string
	image string
}

// normalizeEnvelope decodes a list response and maps every record to domain.Article.
// Records are never dropped; a non-object record is defaulted field by field.
func normalizeEnvelope(body []byte, fields envelopeFields, now func() time.Time) (domain.NewsResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.NewsResponse{}, fmt.Errorf("decode upstream body: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	items, _ := raw["articles"].([]any)
	out := domain.NewsResponse{
		TotalArticles: intField(raw, fields.total),
		Articles:      make([]domain.Article, 0, len(items)),
	}
	for _, item := range items {
		rec, _ := item.(map[string]any)
		out.Articles = append(out.Articles, normalizeArticle(rec, fields.image, now))
	}
	return out, nil
}

func normalizeArticle(rec map[string]any, imageKey string, now func() time.Time) domain.Article {
	src, _ := rec["source"].(map[string]any)
	description := stringField(rec, "description")

	publishedAt := stringField(rec, "publishedAt")
	if publishedAt == "" {
		publishedAt = now().UTC().Format(publishedAtLayout)
	}

	return domain.Article{
		Source: domain.Source{
			ID:   optionalString(src, "id"),
			Name: stringOr(src, "name", FallbackSourceName),
		},
		Author:      optionalString(rec, "author"),
		Title:       stringOr(rec, "title", FallbackTitle),
		Description: firstNonEmpty(description, FallbackDescription),
		URL:         stringOr(rec, "url", FallbackURL),
		Image:       optionalString(rec, imageKey),
		Content:     firstNonEmpty(stringField(rec, "content"), description, FallbackContent),
		PublishedAt: publishedAt,
	}
}

// stringField returns the value for key when it is a non-blank string.
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, ok := m[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringOr(m map[string]any, key, fallback string) string {
	if s := stringField(m, key); s != "" {
		return s
	}
	return fallback
}

func optionalString(m map[string]any, key string) *string {
	s := stringField(m, key)
	if s == "" {
		return nil
	}
	return &s
}

func intField(m map[string]any, key string) int {
	f, ok := m[key].(float64)
	if !ok || math.IsNaN(f) || f < 0 {
		return 0
	}
	return int(f)
}

// rejection inspects a JSON body for a status field other than "ok" and
// extracts the upstream message from the keys providers use.
func rejection(body []byte) (string, bool) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", false
	}

	rejected := false
	if status, ok := raw["status"].(string); ok && status != "ok" {
		rejected = true
	}

	if errs, ok := raw["errors"].([]any); ok && len(errs) > 0 {
		if s, ok := errs[0].(string); ok && s != "" {
			return s, rejected
		}
	}
	for _, key := range []string{"error", "message", "code"} {
		if s := stringField(raw, key); s != "" {
			return s, rejected
		}
	}
	return "", rejected
}
