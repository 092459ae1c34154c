package ui

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"hierviz/internal"
	"hierviz/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// healthResponse is the body of /healthz.
type healthResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Uptime   string            `json:"uptime"`
	Detail   []session.Summary `json:"detail,omitempty"`
}

// NewAdminRouter serves operational endpoints on a separate listener:
// /healthz and the pprof handlers under /debug.
func NewAdminRouter(sessions *session.Manager, logger *internal.Logger) http.Handler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	logger = logger.WithComponent("admin")
	started := time.Now()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Sessions: sessions.Len(),
			Uptime:   time.Since(started).Round(time.Second).String(),
		}
		if req.URL.Query().Get("verbose") != "" {
			resp.Detail = sessions.List()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Warn("writing health response failed", "error", err)
		}
	})
	r.Mount("/debug", chimw.Profiler())

	return r
}

// NewAdminServer wraps NewAdminRouter in an http.Server listening on addr.
func NewAdminServer(addr string, sessions *session.Manager, logger *internal.Logger) *http.Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &http.Server{
		Addr:              addr,
		Handler:           NewAdminRouter(sessions, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Slog().Handler(), slog.LevelError),
	}
}
