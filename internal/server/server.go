// internal/server/server.go

// Package server exposes the public HTTP surface: generation kickoff and
// progress streaming, checkout session creation, and the payment webhook.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "siteforge/internal/common/errors"
	"siteforge/internal/models"
	"siteforge/internal/workflows/synthesis/progress"
)

// CheckoutService opens a hosted checkout session for a staged site.
type CheckoutService interface {
	CreateSession(ctx context.Context, envelope models.CheckoutContext) (string, error)
}

// WebhookProcessor handles raw payment webhook deliveries.
type WebhookProcessor interface {
	Process(ctx context.Context, payload []byte, signatureHeader string) error
}

// Options carries the streaming cadence settings.
type Options struct {
	TickInterval    time.Duration
	MessageInterval time.Duration
}

type Server struct {
	router   chi.Router
	manager  *Manager
	checkout CheckoutService
	webhook  WebhookProcessor
	opts     Options
	logger   Logger
}

func New(manager *Manager, checkoutSvc CheckoutService, webhookProc WebhookProcessor, opts Options, log Logger) *Server {
	s := &Server{
		manager:  manager,
		checkout: checkoutSvc,
		webhook:  webhookProc,
		opts:     opts,
		logger: log.With(map[string]interface{}{
			"component": "http-server",
		}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/generate", s.handleGenerate)
	r.Get("/api/generate/{pendingID}", s.handleGenerationStatus)
	r.Get("/api/generate/{pendingID}/events", s.handleGenerationEvents)
	r.Post("/api/checkout", s.handleCheckout)
	r.Post("/api/webhook", s.handleWebhook)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pendingID := s.manager.Start(&req)
	s.logger.Info("generation accepted", map[string]interface{}{
		"pendingId":   pendingID,
		"companyName": req.CompanyName,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{
		"pendingId": pendingID,
		"status":    StatusRunning,
	})
}

func (s *Server) handleGenerationStatus(w http.ResponseWriter, r *http.Request) {
	pendingID := chi.URLParam(r, "pendingID")
	snap, ok := s.manager.Snapshot(pendingID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown pendingId")
		return
	}

	body := map[string]interface{}{
		"pendingId": pendingID,
		"status":    snap.Status,
		"progress":  snap.Progress,
	}
	if snap.Error != nil {
		body["error"] = snap.Error.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

type progressEvent struct {
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// handleGenerationEvents streams progress over SSE until the generation
// reaches a terminal state. The displayed value eases toward the stage
// target on every tick; loading messages rotate on their own interval.
func (s *Server) handleGenerationEvents(w http.ResponseWriter, r *http.Request) {
	pendingID := chi.URLParam(r, "pendingID")
	if _, ok := s.manager.Snapshot(pendingID); !ok {
		writeError(w, http.StatusNotFound, "unknown pendingId")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			current, ok := s.manager.Advance(pendingID)
			if !ok {
				return
			}
			snap, _ := s.manager.Snapshot(pendingID)

			if snap.Status == StatusFailed {
				writeEvent(w, flusher, "error", map[string]interface{}{
					"pendingId": pendingID,
					"status":    StatusFailed,
					"error":     snap.Error.Error(),
				})
				return
			}

			writeEvent(w, flusher, "progress", progressEvent{
				Progress: current,
				Message:  progress.MessageAt(time.Since(snap.Started), s.opts.MessageInterval),
			})

			if snap.Status == StatusCompleted && current >= progress.TargetDone {
				writeEvent(w, flusher, "complete", map[string]string{
					"pendingId": pendingID,
					"status":    StatusCompleted,
				})
				return
			}
		}
	}
}

type checkoutRequest struct {
	PendingID   string `json:"pendingId"`
	CompanyName string `json:"companyName"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := s.checkout.CreateSession(r.Context(), models.CheckoutContext{
		PendingID:   req.PendingID,
		CompanyName: req.CompanyName,
		ClientIP:    clientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		if se, ok := err.(*stderrors.StandardError); ok && se.Code == stderrors.ErrCodeMissingReference {
			writeError(w, http.StatusBadRequest, se.Message)
			return
		}
		s.logger.Error("checkout session failed", map[string]interface{}{
			"pendingId": req.PendingID,
			"error":     err.Error(),
		})
		writeError(w, http.StatusBadGateway, "checkout session could not be created")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	if err := s.webhook.Process(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

// clientIP prefers the forwarded address set by the edge proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
