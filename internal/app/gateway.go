package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/samvad-hq/samvad-news-gateway/internal/api"
	"github.com/samvad-hq/samvad-news-gateway/internal/config"
	"github.com/samvad-hq/samvad-news-gateway/internal/logger"
	"github.com/samvad-hq/samvad-news-gateway/internal/metrics"
	"github.com/samvad-hq/samvad-news-gateway/internal/news"
	"github.com/samvad-hq/samvad-news-gateway/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-gateway/pkg/providers"
	"github.com/samvad-hq/samvad-news-gateway/pkg/publishers"
)

// Gateway is the news gateway runtime. It owns the HTTP server, the news
// router for the active provider and the optional event fanout.
type Gateway struct {
	cfg     *config.Config
	log     logger.Logger
	router  *news.Router
	fanout  *publishers.Fanout
	metrics *metrics.Metrics
	server  *http.Server
}

// NewGateway builds a gateway runtime from config.
func NewGateway(ctx context.Context, cfg *config.Config, log logger.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}
	source, err := providers.DefaultSourceRegistry().SourceFor(provider)
	if err != nil {
		return nil, fmt.Errorf("build source: %w", err)
	}
	log.InfoObj("news provider selected", "provider_meta", map[string]any{
		"id":          provider.ID,
		"type":        provider.Type,
		"base_url":    provider.BaseURL,
		"api_key_env": provider.APIKeyEnv,
	})
	if os.Getenv(provider.APIKeyEnv) == "" {
		log.WarnObj("api key not set; /api/news will fail until it is", "api_key_env", provider.APIKeyEnv)
	}

	m := metrics.New()
	client := httpclient.NewRestyClient(httpclient.Options{
		Timeout:   cfg.UpstreamTimeout,
		UserAgent: cfg.UserAgent,
	})
	router, err := news.NewRouter(provider, source, news.Options{
		Client:   client,
		Log:      log,
		Observer: m,
	})
	if err != nil {
		return nil, fmt.Errorf("init news router: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(router, fanout, log)
	engine := api.NewRouter(handler, log, api.RouterOptions{
		Debug:          cfg.Env == "development",
		Observer:       m,
		MetricsHandler: m.Handler(),
	})

	return &Gateway{
		cfg:     cfg,
		log:     log,
		router:  router,
		fanout:  fanout,
		metrics: m,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	if g == nil || g.server == nil {
		return fmt.Errorf("gateway is not initialized")
	}

	ln, err := net.Listen("tcp", g.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", g.server.Addr, err)
	}
	return g.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (g *Gateway) Serve(ctx context.Context, ln net.Listener) error {
	g.log.InfoObj("gateway listening", "gateway_state", map[string]any{
		"addr":             ln.Addr().String(),
		"provider_id":      g.router.ProviderID(),
		"publishers_count": g.fanout.Size(),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		g.log.InfoObj("gateway shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), g.cfg.ShutdownTimeout)
	defer cancel()
	if err := g.server.Shutdown(shutdownCtx); err != nil {
		g.log.ErrorObj("http shutdown failed", "error", err)
		return fmt.Errorf("http shutdown: %w", err)
	}
	g.fanout.Wait()
	return nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (g *Gateway) Handler() http.Handler { return g.server.Handler }

func resolveProvider(cfg *config.Config) (providers.Provider, error) {
	reg := providers.BuiltinRegistry()
	if cfg.ProvidersFile != "" {
		loaded, err := providers.LoadRegistry(cfg.ProvidersFile)
		if err != nil {
			return providers.Provider{}, fmt.Errorf("load providers registry: %w", err)
		}
		reg = loaded
	}

	provider, ok := reg.ByID(cfg.NewsProvider)
	if !ok {
		return providers.Provider{}, fmt.Errorf("news provider %q not found in registry", cfg.NewsProvider)
	}
	return provider, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil, log), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs, log), nil
}
