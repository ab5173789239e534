package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	KVDriver string // bolt|sqlite|postgres
	KVDSN    string

	BlobBasePath string

	AuthHMACSecret    string
	SuperAdminPIN     string
	SuperAdminPINHash string // bcrypt, wins over SuperAdminPIN

	GenAIProvider string // gemini|fake
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	CORSOrigins []string
	LogLevel    slog.Level
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000,http://localhost:5173"
	if mode == ModeOnline {
		defOrigins = ""
	}
	provider := envOr("GENAI_PROVIDER", "gemini")
	if provider == "gemini" && os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("API_KEY") == "" {
		provider = "fake"
	}
	return Config{
		Mode:              mode,
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		KVDriver:          envOr("KV_DRIVER", "bolt"),
		KVDSN:             envOr("KV_DSN", ""),
		BlobBasePath:      envOr("BLOB_BASE_PATH", "./data/blobs"),
		AuthHMACSecret:    os.Getenv("AUTH_HMAC_SECRET"),
		SuperAdminPIN:     os.Getenv("SUPER_ADMIN_PIN"),
		SuperAdminPINHash: os.Getenv("SUPER_ADMIN_PIN_HASH"),
		GenAIProvider:     provider,
		GeminiAPIKey:      envOr("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		CORSOrigins:       csvOr("CORS_ORIGINS", defOrigins),
		LogLevel:          levelOr("LOG_LEVEL", slog.LevelInfo),
	}
}

var (
	ErrNoOrigins = errors.New("config: CORS_ORIGINS must list the allowed origins in online mode")
	ErrNoSecret  = errors.New("config: AUTH_HMAC_SECRET is required in online mode")
)

// Validate rejects settings that are only safe on a developer machine. An
// empty origin list would make the CORS layer allow every origin.
func (c Config) Validate() error {
	if c.Mode != ModeOnline {
		return nil
	}
	var errs []error
	if len(c.CORSOrigins) == 0 {
		errs = append(errs, ErrNoOrigins)
	}
	if c.AuthHMACSecret == "" {
		errs = append(errs, ErrNoSecret)
	}
	return errors.Join(errs...)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func levelOr(k string, def slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(os.Getenv(k))); err != nil {
		return def
	}
	return l
}
