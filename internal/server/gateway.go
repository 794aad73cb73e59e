package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/service"
)

// Verifier checks a payment proof against an issued token before a
// summary is released.
type Verifier interface {
	Verify(ctx context.Context, token, proof string) error
}

// ErrPaymentRejected is returned by verifiers for proofs that do not
// settle the charge.
var ErrPaymentRejected = errors.New("payment proof rejected")

// acceptAllVerifier settles every proof. Used when no facilitator is
// configured, i.e. local development.
type acceptAllVerifier struct{}

func (acceptAllVerifier) Verify(ctx context.Context, token, proof string) error {
	return nil
}

// FacilitatorVerifier submits payment proofs to an external settlement
// facilitator over HTTP.
type FacilitatorVerifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewFacilitatorVerifier creates a verifier backed by a facilitator
// endpoint
func NewFacilitatorVerifier(baseURL string) *FacilitatorVerifier {
	return &FacilitatorVerifier{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (v *FacilitatorVerifier) Verify(ctx context.Context, token, proof string) error {
	body, err := json.Marshal(map[string]string{
		"token": token,
		"proof": proof,
	})
	if err != nil {
		return fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call facilitator: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrPaymentRejected
	default:
		return fmt.Errorf("facilitator returned status %d", resp.StatusCode)
	}
}

// Gateway is the HTTP surface: a payment-gated summary endpoint plus the
// settlement callback.
type Gateway struct {
	recapSvc *service.RecapService
	verifier Verifier
	server   *http.Server
}

// NewGateway creates the HTTP gateway. A nil verifier accepts every
// proof.
func NewGateway(addr string, recapSvc *service.RecapService, verifier Verifier) *Gateway {
	if verifier == nil {
		verifier = acceptAllVerifier{}
	}
	g := &Gateway{
		recapSvc: recapSvc,
		verifier: verifier,
	}
	g.server = &http.Server{
		Addr:    addr,
		Handler: g.routes(),
	}
	return g
}

func (g *Gateway) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", g.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/summary", g.handleSummary)
		r.Post("/settle", g.handleSettle)
	})
	return r
}

// Start begins serving in a goroutine
func (g *Gateway) Start() {
	go func() {
		fmt.Printf("[Gateway] Listening on %s\n", g.server.Addr)
		if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("[Gateway] Server error: %v\n", err)
		}
	}()
}

// Shutdown gracefully stops the HTTP server
func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

type summaryRequest struct {
	Platform        string `json:"platform"`
	ChatID          string `json:"chat_id"`
	LookbackMinutes int    `json:"lookback_minutes,omitempty"`
	RangeLabel      string `json:"range_label,omitempty"`
}

type settleRequest struct {
	Token string `json:"token"`
	Proof string `json:"proof"`
}

type settleResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSummary always answers 402: the challenge is the product of this
// route, the summary itself is released by the settle route.
func (g *Gateway) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ChatID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "chat_id is required"})
		return
	}

	platform := domain.Platform(req.Platform)
	if platform != domain.PlatformDiscord && platform != domain.PlatformTelegram {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "platform must be discord or telegram"})
		return
	}

	window := domain.WindowDescriptor{
		LookbackMinutes: req.LookbackMinutes,
		RangeLabel:      req.RangeLabel,
	}

	challenge, err := g.recapSvc.RequestSummary(r.Context(), platform, req.ChatID, window)
	if err != nil {
		if errors.Is(err, service.ErrPlatformUnavailable) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "platform not configured"})
			return
		}
		fmt.Printf("[Gateway] Challenge failed: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not issue payment challenge"})
		return
	}

	writeJSON(w, http.StatusPaymentRequired, challenge)
}

func (g *Gateway) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}

	if err := g.verifier.Verify(r.Context(), req.Token, req.Proof); err != nil {
		if errors.Is(err, ErrPaymentRejected) {
			writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: "payment proof rejected"})
			return
		}
		fmt.Printf("[Gateway] Verification failed: %v\n", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "payment verification unavailable"})
		return
	}

	text, err := g.recapSvc.Settle(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrUnknownToken) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown or expired token"})
			return
		}
		fmt.Printf("[Gateway] Settle failed: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "summary generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, settleResponse{Summary: text})
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[Gateway] Response encode failed: %v\n", err)
	}
}
