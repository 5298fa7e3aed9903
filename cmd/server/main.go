package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"canvasmcp/server/internal/anonymizer"
	"canvasmcp/server/internal/auth"
	"canvasmcp/server/internal/db"
	"canvasmcp/server/internal/mcp"
	"canvasmcp/server/internal/middleware"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/internal/modules/assignments"
	"canvasmcp/server/internal/modules/coursemodules"
	"canvasmcp/server/internal/modules/courses"
	"canvasmcp/server/internal/modules/discussions"
	"canvasmcp/server/internal/modules/pages"
	"canvasmcp/server/internal/modules/quizzes"
	"canvasmcp/server/internal/modules/submissions"
	"canvasmcp/server/internal/modules/usagelog"
	"canvasmcp/server/internal/modules/users"
	"canvasmcp/server/internal/observability"
	"canvasmcp/server/pkg/canvasapi"
)

func main() {
	observability.Init()

	// Both values are fatal when missing: without them no tool can work,
	// so failing per-call would only obscure the misconfiguration.
	token := os.Getenv("CANVAS_API_TOKEN")
	if token == "" {
		log.Fatal().Msg("CANVAS_API_TOKEN is required")
	}
	baseURL := os.Getenv("CANVAS_BASE_URL")
	if baseURL == "" {
		log.Fatal().Msg("CANVAS_BASE_URL is required")
	}

	if err := auth.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize API key auth")
	}

	api := canvasapi.New(baseURL, token)
	anon := anonymizer.New()

	modules.RegisterModule(courses.New(api, anon))
	modules.RegisterModule(assignments.New(api))
	modules.RegisterModule(submissions.New(api, anon))
	modules.RegisterModule(pages.New(api))
	modules.RegisterModule(discussions.New(api, anon))
	modules.RegisterModule(quizzes.New(api, anon))
	modules.RegisterModule(coursemodules.New(api))
	modules.RegisterModule(users.New(api))

	var usage *db.Store
	if path := os.Getenv("USAGE_DB_PATH"); path != "" {
		store, err := db.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open usage db")
		}
		usage = store
		modules.RegisterModule(usagelog.New(store))
		log.Info().Str("path", path).Msg("usage log enabled")
	}

	log.Info().Strs("modules", modules.ListModules()).Msg("modules registered")

	handler := mcp.NewHandler(usage)

	switch os.Getenv("MCP_TRANSPORT") {
	case "", "stdio":
		serveStdio(handler)
	case "http":
		serveHTTP(handler)
	default:
		log.Fatal().Str("transport", os.Getenv("MCP_TRANSPORT")).Msg("unknown MCP_TRANSPORT (use stdio or http)")
	}
}

func serveStdio(handler *mcp.Handler) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("serving MCP on stdio")
	if err := handler.ServeStdio(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("stdio transport failed")
	}
}

func serveHTTP(handler *mcp.Handler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/mcp", middleware.Recovery(
		middleware.RequestID(
			middleware.Authorize(
				middleware.Transport(handler)))))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("serving MCP on HTTP")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http transport failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
