package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
	"build-notifier/internal/usecase"
)

const (
	// TokenHeader carries the shared secret of the build host.
	TokenHeader = "X-Notifier-Token"

	maxBodyBytes    = 1 << 20
	duplicateTTL    = 10 * time.Minute
	statusDuplicate = "duplicate"
)

// SettingsSource returns the settings snapshot for one notification.
type SettingsSource interface {
	Snapshot() model.Settings
}

// Publisher runs the build-completion hook.
type Publisher interface {
	Publish(ctx context.Context, run ports.Run, settings model.Settings) usecase.Result
}

// Handler receives build-completion events from the build host.
type Handler struct {
	publisher Publisher
	settings  SettingsSource
	history   ports.BuildHistory
	logger    ports.Logger
	token     string
	seen      *cache.Cache
}

// NewHandler constructs the ingest handler. history may be nil.
func NewHandler(publisher Publisher, settings SettingsSource, history ports.BuildHistory, logger ports.Logger, token string) *Handler {
	return &Handler{
		publisher: publisher,
		settings:  settings,
		history:   history,
		logger:    logger,
		token:     token,
		seen:      cache.New(duplicateTTL, 2*duplicateTTL),
	}
}

// Routes mounts the API on a new chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(requireToken(h.token, TokenHeader)).Post("/builds", h.HandleBuild)
	})
	return r
}

// HandleBuild processes one build-completion event.
// Notification failures are reported in the body but never as an HTTP error, so the
// host cannot fail a build because chat delivery failed.
func (h *Handler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event buildEvent
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("decode event: %v", err)})
		return
	}
	if err := event.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if event.Build.Number > 0 {
		key := event.projectPath() + "#" + strconv.FormatInt(event.Build.Number, 10)
		if err := h.seen.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			h.logger.Info(ctx, "duplicate build event ignored", "project", event.Project.Name, "build", event.Build.Name)
			writeJSON(w, http.StatusOK, map[string]string{"status": statusDuplicate})
			return
		}
	}

	run := &eventRun{event: &event, history: h.history}
	result := h.publisher.Publish(ctx, run, h.settings.Snapshot())

	if h.history != nil && event.Build.Number > 0 {
		rec := model.BuildRecord{
			ProjectPath: event.projectPath(),
			Number:      event.Build.Number,
			DisplayName: event.Build.Name,
			Outcome:     run.Outcome(),
		}
		if err := h.history.Record(ctx, rec); err != nil {
			h.logger.Error(ctx, "failed to record build", "project", event.Project.Name, "build", event.Build.Name, "error", err)
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": string(result)})
}

func requireToken(token, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "webhook token not configured"})
				return
			}
			got := r.Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid " + header + " token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
