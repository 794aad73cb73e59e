package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/biz/usecase"
	"github.com/anthropics/recap-bot/internal/data"
	"github.com/anthropics/recap-bot/internal/service"
)

// Mock implementations

type mockMessageRepo struct {
	messages []domain.Message
	sent     []string
}

func (m *mockMessageRepo) FetchSince(ctx context.Context, chatID string, since time.Time) ([]domain.Message, error) {
	return m.messages, nil
}

func (m *mockMessageRepo) FetchRange(ctx context.Context, chatID, fromID, toID string) ([]domain.Message, error) {
	return m.messages, nil
}

func (m *mockMessageRepo) GetChatInfo(ctx context.Context, chatID string) (*repo.ChatInfo, error) {
	return &repo.ChatInfo{ChatID: chatID}, nil
}

func (m *mockMessageRepo) SendText(ctx context.Context, chatID, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(ctx context.Context, token, proof string) error {
	return ErrPaymentRejected
}

type failingVerifier struct{}

func (failingVerifier) Verify(ctx context.Context, token, proof string) error {
	return errors.New("facilitator unreachable")
}

func newTestGateway(t *testing.T, verifier Verifier) (*Gateway, *mockMessageRepo) {
	t.Helper()

	msgRepo := &mockMessageRepo{messages: []domain.Message{
		{
			Timestamp: time.Now().Add(-10 * time.Minute),
			Author:    domain.Author{DisplayName: "Alice"},
			Text:      "the release plan is confirmed for Monday",
		},
	}}

	pipeline := usecase.NewPipeline(nil)
	summaryUC := usecase.NewSummaryUsecase(msgRepo, nil, pipeline, usecase.DefaultSummaryConfig(), nil)

	price := service.PriceConfig{Amount: "0.25", Currency: "USDC", PayTo: "0xabc", Network: "base"}
	recapSvc := service.NewRecapService(data.NewCallbackStore(), price, 15*time.Minute)
	recapSvc.RegisterPlatform(domain.PlatformTelegram, summaryUC, msgRepo)

	return NewGateway(":0", recapSvc, verifier), msgRepo
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGatewaySummaryIssuesChallenge(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	handler := g.routes()

	rec := postJSON(t, handler, "/v1/summary", summaryRequest{
		Platform:        "telegram",
		ChatID:          "42",
		LookbackMinutes: 30,
	})

	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var challenge service.PaymentChallenge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenge))
	assert.NotEmpty(t, challenge.Token)
	assert.Equal(t, "0.25", challenge.Amount)
	assert.Equal(t, "USDC", challenge.Currency)
	assert.Equal(t, "0xabc", challenge.PayTo)
	assert.False(t, challenge.ExpiresAt.IsZero())
}

func TestGatewaySettleFlow(t *testing.T) {
	g, msgRepo := newTestGateway(t, nil)
	handler := g.routes()

	rec := postJSON(t, handler, "/v1/summary", summaryRequest{
		Platform:        "telegram",
		ChatID:          "42",
		LookbackMinutes: 30,
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var challenge service.PaymentChallenge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenge))

	rec = postJSON(t, handler, "/v1/settle", settleRequest{Token: challenge.Token, Proof: "tx-hash"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp settleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Summary, "the last 30 minutes")
	assert.Contains(t, resp.Summary, usecase.BulletMarker)

	// The summary is also delivered to the originating chat
	require.Len(t, msgRepo.sent, 1)
	assert.Equal(t, resp.Summary, msgRepo.sent[0])

	// A token settles exactly once
	rec = postJSON(t, handler, "/v1/settle", settleRequest{Token: challenge.Token, Proof: "tx-hash"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewaySettleUnknownToken(t *testing.T) {
	g, _ := newTestGateway(t, nil)

	rec := postJSON(t, g.routes(), "/v1/settle", settleRequest{Token: "bogus", Proof: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewaySettleRejectedProof(t *testing.T) {
	g, _ := newTestGateway(t, rejectingVerifier{})

	rec := postJSON(t, g.routes(), "/v1/settle", settleRequest{Token: "tok", Proof: "bad"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestGatewaySettleVerifierOutage(t *testing.T) {
	g, _ := newTestGateway(t, failingVerifier{})

	rec := postJSON(t, g.routes(), "/v1/settle", settleRequest{Token: "tok", Proof: "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGatewaySummaryValidation(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	handler := g.routes()

	tests := []struct {
		name string
		req  summaryRequest
		want int
	}{
		{
			name: "missing chat id",
			req:  summaryRequest{Platform: "telegram"},
			want: http.StatusBadRequest,
		},
		{
			name: "bad platform",
			req:  summaryRequest{Platform: "irc", ChatID: "42"},
			want: http.StatusBadRequest,
		},
		{
			name: "unregistered platform",
			req:  summaryRequest{Platform: "discord", ChatID: "42"},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/v1/summary", tt.req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGatewayHealthz(t *testing.T) {
	g, _ := newTestGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestFacilitatorVerifier(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"settled", http.StatusOK, nil},
		{"rejected", http.StatusUnprocessableEntity, ErrPaymentRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facilitator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/verify", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer facilitator.Close()

			v := NewFacilitatorVerifier(facilitator.URL)
			err := v.Verify(context.Background(), "tok", "proof")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
