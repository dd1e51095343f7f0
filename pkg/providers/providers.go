package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package providers describes the upstream news APIs and how to talk to them.

type Provider struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	APIKeyEnv      string         `json:"api_key_env" yaml:"api_key_env"`
	SearchPath     string         `json:"search_path" yaml:"search_path"`
	HeadlinesPath  string         `json:"headlines_path" yaml:"headlines_path"`
	DefaultCountry string         `json:"default_country" yaml:"default_country"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

// Registry holds the provider entries loaded from a providers file.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	idx       map[string]Provider
}

// LoadRegistry loads the provider registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("providers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open providers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(reg.Providers)
}

// NewRegistry validates entries and indexes them by id.
func NewRegistry(entries []Provider) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	reg := &Registry{
		providers: make([]Provider, len(entries)),
		idx:       make(map[string]Provider, len(entries)),
	}
	for i := range entries {
		p := sanitizeProvider(entries[i])
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		reg.providers[i] = p
		reg.idx[p.ID] = p
	}
	return reg, nil
}

// BuiltinRegistry returns the GNews and NewsAPI entries used when no providers file is configured.
func BuiltinRegistry() *Registry {
	reg, err := NewRegistry([]Provider{
		{
			ID:        "gnews",
			Name:      "GNews",
			Type:      ProviderTypeGNews,
			BaseURL:   gnewsBaseURL,
			APIKeyEnv: "GNEWS_API_KEY",
		},
		{
			ID:             "newsapi",
			Name:           "NewsAPI",
			Type:           ProviderTypeNewsAPI,
			BaseURL:        newsAPIBaseURL,
			APIKeyEnv:      "NEWSAPI_API_KEY",
			DefaultCountry: newsAPIDefaultCountry,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("builtin providers invalid: %v", err))
	}
	return reg
}

// ByID returns the provider entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Provider{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns a copy of the loaded providers.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s providers: %w", name, err)
	}
	return reg, nil
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	p.APIKeyEnv = strings.TrimSpace(p.APIKeyEnv)
	p.SearchPath = strings.TrimSpace(p.SearchPath)
	p.HeadlinesPath = strings.TrimSpace(p.HeadlinesPath)
	p.DefaultCountry = strings.ToLower(strings.TrimSpace(p.DefaultCountry))

	if p.Config == nil {
		p.Config = map[string]any{}
	}
	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for provider %q", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for provider %q", p.ID)
	}
	if p.APIKeyEnv == "" {
		return fmt.Errorf("api_key_env is required for provider %q", p.ID)
	}
	return nil
}

// pathOr returns path when set, otherwise fallback.
func pathOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
