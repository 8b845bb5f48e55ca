package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadSuccess(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://store.example.com" {
		t.Fatalf("unexpected API base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.API.RequestTimeout)
	}
	if cfg.CredDB.Path != "storefront.db" {
		t.Fatalf("unexpected cred db path %q", cfg.CredDB.Path)
	}
	if cfg.Gateway.Environment() != "test" {
		t.Fatalf("unexpected gateway env %q", cfg.Gateway.Environment())
	}
}

func TestLoadMissingBaseURL(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("STOREFRONT_API_BASE_URL"); err != nil {
		t.Fatalf("failed to unset base URL: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing base URL to return an error")
	}
}

func TestLoadRejectsNonHTTPBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("STOREFRONT_API_BASE_URL", "ftp://store.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http base URL to return an error")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("STOREFRONT_API_BASE_URL", "https://store.example.com")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEVELOPMENT"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "production"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
