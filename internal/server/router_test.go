package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calcd/internal/calculator"
	"calcd/internal/observability"
	"calcd/internal/session"
	"calcd/internal/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	return NewRouter(calculator.NewAPI(session.NewStore()))
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRouterCalculatorFlowSetsRequestIDHeader(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	req = testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+created.SessionID+"/events",
		calculator.EventRequest{Key: "9"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.State.Display != "9" {
		t.Fatalf("expected display %q, got %q", "9", resp.State.Display)
	}
}

func TestRouterRejectsMalformedEventBody(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	req = httptest.NewRequest(http.MethodPost, "/calculator/sessions/"+created.SessionID+"/events",
		bytes.NewReader([]byte("{not json")))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid request body") {
		t.Fatalf("unexpected error body %q", w.Body.String())
	}
}
