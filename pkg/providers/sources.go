package providers

import (
	"fmt"
	"strings"
	"sync"
)

// Builder creates a Source from a provider entry.
type Builder func(cfg Provider) (Source, error)

// sourceRegistry implements SourceRegistry.
type sourceRegistry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewSourceRegistry builds a registry keyed by provider type.
func NewSourceRegistry(builders map[string]Builder) SourceRegistry {
	reg := &sourceRegistry{builders: make(map[string]Builder)}
	for typ, b := range builders {
		reg.register(typ, b)
	}
	return reg
}

func (r *sourceRegistry) register(typ string, b Builder) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" || b == nil {
		return
	}

	r.mu.Lock()
	r.builders[key] = b
	r.mu.Unlock()
}

// SourceFor builds the Source registered for the provider's type.
func (r *sourceRegistry) SourceFor(cfg Provider) (Source, error) {
	if r == nil {
		return nil, fmt.Errorf("source registry is nil")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	b, ok := r.builders[strings.ToLower(strings.TrimSpace(cfg.Type))]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no source registered for provider %q (type %q)", cfg.ID, cfg.Type)
	}
	return b(cfg)
}

const (
	ProviderTypeGNews   = "gnews"
	ProviderTypeNewsAPI = "newsapi"
)

// DefaultSourceRegistry wires up known provider types.
func DefaultSourceRegistry() SourceRegistry {
	return NewSourceRegistry(map[string]Builder{
		ProviderTypeGNews:   NewGNewsSource,
		ProviderTypeNewsAPI: NewNewsAPISource,
	})
}
