package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/profedug/GabaritaIF/internal/api/http"
	"github.com/profedug/GabaritaIF/internal/auth"
	authmw "github.com/profedug/GabaritaIF/internal/auth/middleware"
	"github.com/profedug/GabaritaIF/internal/config"
	"github.com/profedug/GabaritaIF/internal/db"
	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/roster"
	"github.com/profedug/GabaritaIF/internal/storage"
	"github.com/profedug/GabaritaIF/internal/validator"
)

// generator is everything the portal asks the AI backend for.
type generator interface {
	genai.QuestionGenerator
	genai.FeedbackGenerator
	genai.Recommender
}

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("gabarita stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens and releases them before returning, so
// the caller may exit right after.
func run(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// --- Storage ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := db.OpenKV(ctx, db.Driver(cfg.KVDriver), cfg.KVDSN)
	if err != nil {
		return fmt.Errorf("kv open: %w", err)
	}
	defer kv.Close()

	data, err := portal.Load(ctx, kv)
	if err != nil {
		return fmt.Errorf("state load: %w", err)
	}
	state := portal.NewState(data)
	state.Observe(portal.NewPersister(kv, logger))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	// --- AI backend ---
	var gen generator
	switch cfg.GenAIProvider {
	case "gemini":
		gc, err := genai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
		if err != nil {
			return err
		}
		gen = gc
	default:
		logger.Warn("no gemini key, using offline generator")
		gen = &genai.Fake{}
	}

	// --- Auth ---
	secret := cfg.AuthHMACSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		logger.Warn("AUTH_HMAC_SECRET unset, tokens will not survive a restart")
	}
	if cfg.SuperAdminPIN == "" && cfg.SuperAdminPINHash == "" {
		logger.Warn("super admin login disabled: SUPER_ADMIN_PIN unset")
	}
	gate := auth.NewGate(state, auth.Secret{Plain: cfg.SuperAdminPIN, Hash: cfg.SuperAdminPINHash})
	v := validator.New()

	// --- Router ---
	r := chi.NewRouter()
	// no Timeout: question generation can legitimately take a while
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		State:     state,
		Gate:      gate,
		Sessions:  auth.NewSessions(),
		Tokens:    authmw.NewAuthService(secret),
		Roster:    roster.NewService(state, gate, v, gen, logger),
		Questions: gen,
		Feedback:  gen,
		Blobs:     bs,
		Validate:  v,
	})

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "kv", cfg.KVDriver, "genai", cfg.GenAIProvider)
	return http.ListenAndServe(cfg.HTTPAddr, r)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
