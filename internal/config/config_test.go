package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFromYAML(t *testing.T, doc string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := loadFromYAML(t, "app:\n  name: test\n")

	if cfg.App.Name != "test" {
		t.Errorf("Expected app name 'test', got '%s'", cfg.App.Name)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.App.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("Expected production env by default, got '%s'", cfg.App.Env)
	}
	if cfg.Redis.CacheTTL != 300*time.Second {
		t.Errorf("Expected cache ttl 300s, got %s", cfg.Redis.CacheTTL)
	}
	if len(cfg.Signature.Fonts) == 0 {
		t.Error("Expected default fonts")
	}
	if cfg.Signature.MaxPreviewPx != 4096 {
		t.Errorf("Expected max preview 4096, got %d", cfg.Signature.MaxPreviewPx)
	}
	if cfg.Upload.Timeout != time.Minute || cfg.Upload.MaxSize != 50<<20 {
		t.Errorf("Unexpected upload config: %+v", cfg.Upload)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadSignatureSection(t *testing.T) {
	cfg := loadFromYAML(t, `
app:
  env: development
signature:
  files_directory: /srv/docs
  data_directory: /srv/data
  preload_page_count: 3
  digital_signature: false
  fonts: [Arial]
redis:
  enabled: true
  cache_ttl: 60
`)

	if !cfg.IsDevelopment() {
		t.Error("Expected development env")
	}
	if cfg.Signature.FilesDirectory != "/srv/docs" {
		t.Errorf("Expected files directory '/srv/docs', got '%s'", cfg.Signature.FilesDirectory)
	}
	if cfg.Signature.DataDirectory != "/srv/data" {
		t.Errorf("Expected data directory '/srv/data', got '%s'", cfg.Signature.DataDirectory)
	}
	if cfg.Signature.PreloadPageCount != 3 {
		t.Errorf("Expected preload page count 3, got %d", cfg.Signature.PreloadPageCount)
	}
	if cfg.Signature.DigitalSignature {
		t.Error("Expected digital signature disabled")
	}
	if !cfg.Signature.StampSignature {
		t.Error("Expected stamp signature enabled by default")
	}
	if len(cfg.Signature.Fonts) != 1 || cfg.Signature.Fonts[0] != "Arial" {
		t.Errorf("Unexpected fonts: %v", cfg.Signature.Fonts)
	}
	if !cfg.Redis.Enabled || cfg.Redis.CacheTTL != time.Minute {
		t.Errorf("Unexpected redis config: %+v", cfg.Redis)
	}
}
