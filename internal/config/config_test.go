package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "KV_DRIVER", "GENAI_PROVIDER", "GEMINI_API_KEY", "API_KEY", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.KVDriver != "bolt" {
		t.Fatalf("cfg = %+v", c)
	}
	if c.GenAIProvider != "fake" {
		t.Fatalf("without a key the fake generator is used, got %q", c.GenAIProvider)
	}
	if c.LogLevel != slog.LevelInfo {
		t.Fatalf("level = %v", c.LogLevel)
	}
	if len(c.CORSOrigins) != 2 {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("KV_DRIVER", "sqlite")
	t.Setenv("KV_DSN", "file:test.db")
	t.Setenv("GENAI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	c := FromEnv()
	if c.Mode != ModeOnline || c.KVDriver != "sqlite" || c.KVDSN != "file:test.db" {
		t.Fatalf("cfg = %+v", c)
	}
	if c.GenAIProvider != "gemini" || c.GeminiAPIKey != "k" {
		t.Fatalf("genai = %q %q", c.GenAIProvider, c.GeminiAPIKey)
	}
	if !reflect.DeepEqual(c.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
	if c.LogLevel != slog.LevelDebug {
		t.Fatalf("level = %v", c.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("SUPER_ADMIN_PIN", "")
	t.Setenv("HTTP_ADDR", ":9999")
	os.Unsetenv("SUPER_ADMIN_PIN")
	f := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(f, []byte("SUPER_ADMIN_PIN=2468\nHTTP_ADDR=:7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := Load(f)
	if c.SuperAdminPIN != "2468" {
		t.Fatalf("pin = %q", c.SuperAdminPIN)
	}
	if c.HTTPAddr != ":9999" {
		t.Fatalf("environment should win over the file, got %q", c.HTTPAddr)
	}
}

func TestValidateOnline(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []error
	}{
		{"offline accepts defaults", Config{Mode: ModeOffline}, nil},
		{"online without origins", Config{Mode: ModeOnline, AuthHMACSecret: "s"}, []error{ErrNoOrigins}},
		{"online without secret", Config{Mode: ModeOnline, CORSOrigins: []string{"https://a.example"}}, []error{ErrNoSecret}},
		{"online bare", Config{Mode: ModeOnline}, []error{ErrNoOrigins, ErrNoSecret}},
		{"online complete", Config{Mode: ModeOnline, AuthHMACSecret: "s", CORSOrigins: []string{"https://a.example"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.want) == 0 && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !errors.Is(err, w) {
					t.Fatalf("err = %v, want %v", err, w)
				}
			}
		})
	}
}

func TestOnlineModeHasNoDefaultOrigins(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("AUTH_HMAC_SECRET", "s")
	if err := FromEnv().Validate(); !errors.Is(err, ErrNoOrigins) {
		t.Fatalf("err = %v", err)
	}
}
