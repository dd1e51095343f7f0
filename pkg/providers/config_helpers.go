package providers

import "strings"

// ConfigString returns the trimmed string value for key from provider.Config or a fallback.
func ConfigString(cfg Provider, key, fallback string) string {
	if cfg.Config != nil {
		if raw, ok := cfg.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigAuthHeaderKey     = "auth_header"
)

// headerKeys maps provider config keys to request header names.
var headerKeys = map[string]string{
	ConfigUserAgentKey:      "User-Agent",
	ConfigAcceptLanguageKey: "Accept-Language",
}

// Headers builds per-provider request headers from config (skips empty values).
// When auth_header is set the API key is also sent in that header.
func Headers(cfg Provider, apiKey string) map[string]string {
	headers := make(map[string]string, len(headerKeys)+1)
	for key, name := range headerKeys {
		if v := ConfigString(cfg, key, ""); v != "" {
			headers[name] = v
		}
	}
	if name := ConfigString(cfg, ConfigAuthHeaderKey, ""); name != "" && apiKey != "" {
		headers[name] = apiKey
	}
	return headers
}
