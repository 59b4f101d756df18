package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tradequote_backend/internal/quote/transport"
	"tradequote_backend/platform/apperr"
	"tradequote_backend/platform/logger"
	"tradequote_backend/platform/validator"
)

type stubGenerator struct {
	resp  transport.QuoteResponse
	err   error
	calls int
	got   transport.GenerateQuoteRequest
}

func (s *stubGenerator) Generate(_ context.Context, req transport.GenerateQuoteRequest) (transport.QuoteResponse, error) {
	s.calls++
	s.got = req
	return s.resp, s.err
}

func newTestRouter(gen *stubGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(gen, validator.New(), logger.New("test"))
	r := gin.New()
	r.POST("/api/v1/quotes/generate", h.Generate)
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateReturnsQuote(t *testing.T) {
	gen := &stubGenerator{resp: transport.QuoteResponse{
		Materials: []transport.ResolvedMaterial{{
			Name: "Cement", Quantity: 4, Unit: "bags",
			Options: []transport.MaterialOption{{ID: "manual-cement", Name: "Cement"}},
		}},
	}}
	w := post(newTestRouter(gen), `{"jobDescription":"repoint the garden wall","serviceTier":"materials"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var resp transport.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Materials) != 1 || resp.Materials[0].Name != "Cement" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gen.got.ServiceTier != transport.TierMaterials {
		t.Fatalf("tier not passed through: %+v", gen.got)
	}
}

func TestGenerateMissingDescriptionIs400(t *testing.T) {
	for _, body := range []string{`{}`, `{"jobDescription":""}`, `{"jobDescription":"   "}`} {
		gen := &stubGenerator{}
		w := post(newTestRouter(gen), body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status %d, expected 400", body, w.Code)
		}
		if gen.calls != 0 {
			t.Fatalf("body %s: service must not be called on invalid input", body)
		}
	}
}

func TestGenerateMalformedJSONIs400(t *testing.T) {
	gen := &stubGenerator{}
	w := post(newTestRouter(gen), `{"jobDescription": `)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expected 400", w.Code)
	}
	if gen.calls != 0 {
		t.Fatal("service must not be called on malformed JSON")
	}
}

func TestGenerateInvalidTierIs400(t *testing.T) {
	gen := &stubGenerator{}
	w := post(newTestRouter(gen), `{"jobDescription":"lay a patio","serviceTier":"premium"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expected 400", w.Code)
	}
	if gen.calls != 0 {
		t.Fatal("service must not be called on an invalid tier")
	}
}

func TestGenerateUpstreamFailureIs500WithDetails(t *testing.T) {
	gen := &stubGenerator{
		err: apperr.Upstream("AI did not return a valid JSON object").WithDetails("raw reply text"),
	}
	w := post(newTestRouter(gen), `{"jobDescription":"lay a patio"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, expected 500", w.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error == "" || resp.Details != "raw reply text" {
		t.Fatalf("unexpected error body: %s", w.Body.String())
	}
}
