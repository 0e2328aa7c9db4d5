package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/glucowatch/glucowatch/internal/alert"
	"github.com/glucowatch/glucowatch/internal/sched"
)

// Handler serves all HTTP endpoints of the daemon.
type Handler struct {
	sched    *sched.Scheduler
	shutdown func()
	log      *slog.Logger
	router   *mux.Router
}

// New wires the routes. hub and metrics are mounted as-is; shutdown is
// invoked by the exit command and may be nil.
func New(s *sched.Scheduler, hub, metrics http.Handler, shutdown func()) http.Handler {
	h := &Handler{
		sched:    s,
		shutdown: shutdown,
		log:      slog.Default().With("component", "api"),
		router:   mux.NewRouter(),
	}

	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.router.HandleFunc("/api/v1/status", h.status).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/alerts", h.alerts).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/exit", h.exit).Methods(http.MethodPost)
	h.router.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if metrics != nil {
		h.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	if hub != nil {
		h.router.Handle("/ws", hub)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// status returns GET /api/v1/status — the most recent cycle's snapshot.
func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	snap := h.sched.Snapshot()
	jsonResp(w, http.StatusOK, StatusResponse{
		At:             rfc3339OrEmpty(snap.At),
		HasReading:     snap.HasReading,
		Value:          snap.Value,
		Category:       string(snap.Category),
		Verdict:        string(snap.Verdict),
		InLowZone:      snap.InLowZone,
		LastSuccessAt:  rfc3339OrEmpty(snap.LastSuccessAt),
		DeviceTime:     rfc3339OrEmpty(snap.DeviceTime),
		Frames:         snap.Frames,
		EnteredLowZone: snap.EnteredLowZone,
	})
}

// alerts returns GET /api/v1/alerts — the fired-alert history, oldest first.
func (h *Handler) alerts(w http.ResponseWriter, _ *http.Request) {
	list := h.sched.Alerts()
	if list == nil {
		// Serialize as [] rather than null.
		list = []alert.Alert{}
	}
	jsonResp(w, http.StatusOK, AlertsResponse{Alerts: list, Count: len(list)})
}

// exit handles POST /api/v1/exit — ordered shutdown of the daemon.
func (h *Handler) exit(w http.ResponseWriter, _ *http.Request) {
	h.log.Info("exit requested")
	jsonResp(w, http.StatusAccepted, map[string]string{"status": "shutting down"})
	if h.shutdown != nil {
		// Let the response flush before teardown begins.
		go h.shutdown()
	}
}

// healthz is the liveness probe for the daemon process itself.
func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func rfc3339OrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
