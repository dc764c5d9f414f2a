// Package httpapi serves the tool registry over HTTP.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dwikikusuma/shoping-voice/internal/tools"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sashabaranov/go-openai"
)

const maxBodyBytes = 1 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID, name string, rawArgs []byte) tools.Result
	Definitions() ([]openai.Tool, error)
}

type SessionStore interface {
	Delete(id string) bool
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	Tools    Dispatcher
	Sessions SessionStore
	Ready    map[string]ReadyCheck
	// WebSocket, when set, is mounted at /v1/ws outside the request timeout.
	WebSocket      http.Handler
	RequestTimeout time.Duration
	Log            *slog.Logger
}

type handler struct {
	tools    Dispatcher
	sessions SessionStore
	ready    map[string]ReadyCheck
	log      *slog.Logger
}

func NewRouter(opts Options) http.Handler {
	h := &handler{
		tools:    opts.Tools,
		sessions: opts.Sessions,
		ready:    opts.Ready,
		log:      logger.OrDefault(opts.Log),
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", h.readyz)

	if opts.WebSocket != nil {
		r.Handle("/v1/ws", opts.WebSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/tools", h.listTools)
			r.Post("/sessions/{sessionID}/tools/{tool}", h.callTool)
			r.Delete("/sessions/{sessionID}", h.deleteSession)
		})
	})

	return r
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	failed := map[string]string{}
	for name, check := range h.ready {
		if err := check(r.Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.log.Warn("not ready", slog.Any("failed", failed))
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /v1/tools
func (h *handler) listTools(w http.ResponseWriter, r *http.Request) {
	defs, err := h.tools.Definitions()
	if err != nil {
		h.log.Error("tool definitions failed", slog.Any("err", err))
		respondError(w, http.StatusInternalServerError, "INTERNAL", "tool definitions unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tools": defs})
}

// POST /v1/sessions/{sessionID}/tools/{tool}
func (h *handler) callTool(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	name := chi.URLParam(r, "tool")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "INVALID_ARGUMENT", "request body too large")
		return
	}

	res := h.tools.Dispatch(r.Context(), sessionID, name, body)
	if err := res.Err(); err != nil {
		code, _, _ := httpStatusFromGRPC(err)
		respondJSON(w, code, res)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// DELETE /v1/sessions/{sessionID}
func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil || !h.sessions.Delete(chi.URLParam(r, "sessionID")) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	body, err := sonic.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":{"code":"INTERNAL","message":"encode failed"}}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("took", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
