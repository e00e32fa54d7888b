package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/generation"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/notifications"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/providers"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/ratelimit"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/scheduler"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Infof("Starting GLIMPSE generation service (provider: %s)", cfg.Provider)

	// Initialize artifact storage; fall back to in-memory when no Azure
	// account is configured so local runs work without credentials.
	var artifactStore storage.StorageInterface
	if cfg.StorageAccount != "" {
		azureStore, err := storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize storage: %v", err)
		}
		artifactStore = azureStore
	} else {
		logrus.Warn("AZURE_STORAGE_ACCOUNT not set, artifacts stored in memory only")
		artifactStore = storage.NewMemoryStorage()
	}

	// Initialize collaborators and the generation pipeline
	notificationService := notifications.NewService(cfg)
	provider := providers.FromConfig(cfg)
	limitStore := ratelimit.NewStore()
	pipeline := generation.NewService(cfg, provider, limitStore, artifactStore, notificationService)

	// Periodic limiter cleanup for long-gone callers
	go func() {
		for {
			time.Sleep(time.Hour)
			limitStore.Cleanup()
		}
	}()

	// Initialize scheduler for auto commentary
	schedulerService := scheduler.NewService(cfg, pipeline)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/api/generate", generateHandler(pipeline)).Methods("POST")
	router.HandleFunc("/api/artifacts", artifactsHandler(pipeline)).Methods("GET")
	router.HandleFunc("/api/watch", watchHandler(pipeline)).Methods("POST")
	router.HandleFunc("/api/watch", unwatchHandler(pipeline)).Methods("DELETE")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// generateRequest is the inbound payload for the generation endpoint. The
// caller identity comes from the auth middleware's X-Caller-ID header, not
// the body.
type generateRequest struct {
	Mode              string `json:"mode"`
	MatchContext      string `json:"match_context"`
	CustomInstruction string `json:"custom_instruction,omitempty"`
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func generateHandler(pipeline *generation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := models.Mode(payload.Mode)
		if !mode.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported mode %q", payload.Mode))
			return
		}
		if payload.MatchContext == "" {
			writeError(w, http.StatusBadRequest, "match_context is required")
			return
		}

		req := models.GenerationRequest{
			Mode:              mode,
			MatchContext:      payload.MatchContext,
			CustomInstruction: payload.CustomInstruction,
			CallerID:          callerID(r),
			TriggeredBy:       models.TriggerManual,
		}

		result, err := pipeline.Generate(r.Context(), req)
		if err != nil {
			var limitErr *ratelimit.LimitError
			if errors.As(err, &limitErr) {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(limitErr.RetryAfter.Seconds())+1))
				writeError(w, http.StatusTooManyRequests, limitErr.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "generation failed")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func artifactsHandler(pipeline *generation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := pipeline.ListArtifacts(r.URL.Query().Get("prefix"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list artifacts")
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"artifacts": names})
	}
}

func watchHandler(pipeline *generation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			MatchContext string `json:"match_context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.MatchContext == "" {
			writeError(w, http.StatusBadRequest, "match_context is required")
			return
		}

		pipeline.Watch(payload.MatchContext)
		writeJSON(w, http.StatusOK, map[string][]string{"watched": pipeline.Watched()})
	}
}

func unwatchHandler(pipeline *generation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			MatchContext string `json:"match_context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.MatchContext == "" {
			writeError(w, http.StatusBadRequest, "match_context is required")
			return
		}

		pipeline.Unwatch(payload.MatchContext)
		writeJSON(w, http.StatusOK, map[string][]string{"watched": pipeline.Watched()})
	}
}

// callerID extracts the rate-limit identity set by the auth middleware,
// falling back to the remote address for unauthenticated deployments.
func callerID(r *http.Request) string {
	if id := r.Header.Get("X-Caller-ID"); id != "" {
		return id
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
