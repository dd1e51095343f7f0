package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/domain"
	"github.com/samvad-hq/samvad-news-gateway/internal/logger"
	"github.com/samvad-hq/samvad-news-gateway/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-gateway/pkg/providers"
)

// Observer receives one callback per upstream attempt.
type Observer interface {
	ObserveUpstream(provider string, endpoint providers.EndpointKind, outcome string, elapsed time.Duration)
}

// Outcomes reported to the Observer.
const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeConnectivity = "connectivity"
)

// Options carries the router's collaborators. Zero values are replaced with defaults.
type Options struct {
	Client   httpclient.Client
	Log      logger.Logger
	Observer Observer
	Getenv   func(string) string
}

// Router translates a NewsQuery into one upstream call and normalizes the answer.
// It holds no per-request state and is safe for concurrent use.
type Router struct {
	provider providers.Provider
	source   providers.Source
	client   httpclient.Client
	log      logger.Logger
	observer Observer
	getenv   func(string) string
}

// NewRouter builds a router for the active provider.
func NewRouter(provider providers.Provider, source providers.Source, opts Options) (*Router, error) {
	if source == nil {
		return nil, fmt.Errorf("source must not be nil")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	return &Router{
		provider: provider,
		source:   source,
		client:   opts.Client,
		log:      logger.Ensure(opts.Log),
		observer: opts.Observer,
		getenv:   opts.Getenv,
	}, nil
}

// ProviderID returns the id of the active provider.
func (r *Router) ProviderID() string { return r.provider.ID }

// Fetch performs exactly one upstream GET for q, or none when the API key is missing.
func (r *Router) Fetch(ctx context.Context, q domain.NewsQuery) (domain.NewsResponse, error) {
	apiKey := strings.TrimSpace(r.getenv(r.provider.APIKeyEnv))
	if apiKey == "" {
		err := configurationError(r.provider.APIKeyEnv)
		r.logFailure(err, q, "")
		return domain.NewsResponse{}, err
	}

	ep := r.source.SelectEndpoint(q)
	params := r.source.BuildParams(q, ep, apiKey)

	target, err := composeURL(ep.URL, params)
	if err != nil {
		ferr := requestSetupError(err)
		r.logFailure(ferr, q, apiKey)
		return domain.NewsResponse{}, ferr
	}

	r.log.DebugObj("upstream request", "upstream_request", map[string]any{
		"provider_id": r.provider.ID,
		"endpoint":    ep.Kind,
		"category":    q.CategoryFilter(),
		"query":       q.Q,
		"page":        q.Page,
		"page_size":   q.EffectivePageSize(),
	})

	start := time.Now()
	resp, err := r.client.Get(ctx, target, providers.Headers(r.provider, apiKey))
	if err != nil {
		r.observe(ep.Kind, OutcomeConnectivity, start)
		ferr := connectivityError(err)
		r.logFailure(ferr, q, apiKey)
		return domain.NewsResponse{}, ferr
	}

	body := resp.Body()
	message, rejected := r.source.Rejection(body)
	if status := resp.StatusCode(); status < 200 || status > 299 || rejected {
		r.observe(ep.Kind, OutcomeRejected, start)
		if message == "" {
			message = statusText(resp)
		}
		ferr := upstreamError(status, message, nil)
		r.logFailure(ferr, q, apiKey)
		return domain.NewsResponse{}, ferr
	}

	out, err := r.source.Normalize(body)
	if err != nil {
		r.observe(ep.Kind, OutcomeRejected, start)
		ferr := upstreamError(resp.StatusCode(), "malformed response body", err)
		r.logFailure(ferr, q, apiKey)
		return domain.NewsResponse{}, ferr
	}
	r.observe(ep.Kind, OutcomeOK, start)

	r.log.InfoObj("upstream request completed", "upstream_result", map[string]any{
		"provider_id":    r.provider.ID,
		"endpoint":       ep.Kind,
		"total_articles": out.TotalArticles,
		"returned":       len(out.Articles),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return out, nil
}

func (r *Router) observe(kind providers.EndpointKind, outcome string, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveUpstream(r.provider.ID, kind, outcome, time.Since(start))
}

func (r *Router) logFailure(err *Error, q domain.NewsQuery, apiKey string) {
	fields := map[string]any{
		"provider_id": r.provider.ID,
		"kind":        err.Kind,
		"error":       err.Message,
		"query":       q.Q,
		"category":    q.Category,
	}
	if err.Status != 0 {
		fields["upstream_status"] = err.Status
	}
	if err.Err != nil {
		fields["cause"] = redactCause(err.Err, apiKey)
	}
	r.log.ErrorObj("news fetch failed", "news_error", fields)
}

// redactCause renders a failure cause without the request query string,
// which carries the API key.
func redactCause(err error, apiKey string) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		clean := *uerr
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			clean.URL = u.String()
		} else {
			clean.URL = "<redacted>"
		}
		text := clean.Error()
		if outer := err.Error(); outer != uerr.Error() {
			text = strings.Replace(outer, uerr.Error(), text, 1)
		}
		return redactKey(text, apiKey)
	}
	return redactKey(err.Error(), apiKey)
}

func redactKey(text, apiKey string) string {
	if apiKey == "" {
		return text
	}
	return strings.ReplaceAll(text, apiKey, "<redacted>")
}

func composeURL(endpoint string, params url.Values) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func statusText(resp httpclient.Response) string {
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return resp.Status()
}
