package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when TELEGRAM_BOT_TOKEN is unset")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.OverlayDir != "overlays" {
		t.Fatalf("OverlayDir mismatch: got %q", cfg.OverlayDir)
	}
	if cfg.FontSize != 120 {
		t.Fatalf("FontSize mismatch: got %v", cfg.FontSize)
	}
	if cfg.SessionBackend != "memory" {
		t.Fatalf("SessionBackend mismatch: got %q", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL mismatch: got %v", cfg.SessionTTL)
	}
	if cfg.VacationAsset != "vacation.png" {
		t.Fatalf("VacationAsset mismatch: got %q", cfg.VacationAsset)
	}
	if cfg.ImageProvider != "stub" {
		t.Fatalf("ImageProvider mismatch: got %q", cfg.ImageProvider)
	}
}

func TestLoadConfigRejectsBadEnums(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad session backend", key: "SESSION_BACKEND", value: "etcd"},
		{name: "bad location format", key: "LOCATION_FORMAT", value: "regex"},
		{name: "bad image provider", key: "IMAGE_PROVIDER", value: "dalle"},
		{name: "bad prompt provider", key: "PROMPT_PROVIDER", value: "llama"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			t.Setenv(tc.key, tc.value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("VACATION_OVERLAY", "vacation2.png")
	t.Setenv("LOCATION_FORMAT", "strict")
	t.Setenv("SESSION_TTL_MINUTES", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.VacationAsset != "vacation2.png" {
		t.Fatalf("VacationAsset mismatch: got %q", cfg.VacationAsset)
	}
	if cfg.LocationFormat != "strict" {
		t.Fatalf("LocationFormat mismatch: got %q", cfg.LocationFormat)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("SessionTTL mismatch: got %v", cfg.SessionTTL)
	}
}
