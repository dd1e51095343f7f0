package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidatePublisherConfigRejectsIncompleteSNS(t *testing.T) {
	err := validatePublisherConfig(sanitizePublisherConfig(PublisherConfig{
		ID:   "topic",
		Type: "SNS",
		SNS:  &SNSPublisherConfig{TopicARN: " arn:aws:sns:us-east-1:123:news "},
	}))
	if err == nil {
		t.Fatalf("expected validation error for missing sns.region")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs.example/q","region":"us-east-1"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("q")
	if !ok || cfg.SQS.Region != "us-east-1" || !cfg.EnabledValue() {
		t.Fatalf("unexpected config %#v", cfg)
	}
}
