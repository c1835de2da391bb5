package calculator

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calcd/internal/observability"
	"calcd/internal/session"
	"calcd/internal/testutil"
)

type testStamper struct{ n int }

func (s *testStamper) Stamp() (string, time.Time) {
	s.n++
	return fmt.Sprintf("entry-%d", s.n), time.Unix(int64(s.n), 0).UTC()
}

func newTestRouter(t *testing.T) (chi.Router, *session.Store) {
	t.Helper()

	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	store := session.NewStore(session.WithStamper(&testStamper{}))
	r := chi.NewRouter()
	NewAPI(store).RegisterRoutes(r)
	return r, store
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	w := testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.SessionID == "" {
		t.Fatal("expected non-empty session id")
	}
	if resp.State.Display != "0" {
		t.Fatalf("expected fresh display %q, got %q", "0", resp.State.Display)
	}
	return resp.SessionID
}

func dispatch(t *testing.T, r http.Handler, sessionID string, body EventRequest) SessionResponse {
	t.Helper()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sessionID+"/events", body)
	w := testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	r, store := newTestRouter(t)

	id := createSession(t, r)
	if store.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", store.Len())
	}

	req := httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil)
	w := testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+id, nil)
	w = testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil)
	w = testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestDispatchActionSequence(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	dispatch(t, r, id, EventRequest{Action: "digit", Digit: "5"})
	dispatch(t, r, id, EventRequest{Action: "operator", Operator: "add"})
	dispatch(t, r, id, EventRequest{Action: "digit", Digit: "3"})
	resp := dispatch(t, r, id, EventRequest{Action: "equals"})

	if resp.State.Display != "8" {
		t.Fatalf("expected display %q, got %q", "8", resp.State.Display)
	}
	if len(resp.State.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(resp.State.History))
	}
	if e := resp.State.History[0]; e.Expression != "5 + 3 =" || e.Result != "8" {
		t.Fatalf("unexpected history entry %+v", e)
	}
}

func TestDispatchKeyEvents(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	for _, key := range []string{"5", "*", "2", "Enter"} {
		dispatch(t, r, id, EventRequest{Key: key})
	}

	req := httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil)
	w := testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.State.Display != "10" {
		t.Fatalf("expected display %q, got %q", "10", resp.State.Display)
	}
}

func TestDispatchValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	tests := []struct {
		name string
		body EventRequest
	}{
		{name: "unknown action", body: EventRequest{Action: "exponentiate"}},
		{name: "missing digit", body: EventRequest{Action: "digit"}},
		{name: "multi-char digit", body: EventRequest{Action: "digit", Digit: "12"}},
		{name: "non-digit", body: EventRequest{Action: "digit", Digit: "x"}},
		{name: "unknown operator", body: EventRequest{Action: "operator", Operator: "mod"}},
		{name: "invalid set-display value", body: EventRequest{Action: "set-display", Value: "not a number"}},
		{name: "unmapped key", body: EventRequest{Key: "Tab"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+id+"/events", tc.body)
			w := testutil.ExecuteRequest(req, r)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("unknown session", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/nope/events", EventRequest{Key: "1"})
		w := testutil.ExecuteRequest(req, r)
		testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
	})
}

func TestDispatchReducerNoopIsStillOK(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	// Equals with nothing pending is silently ignored, not an error.
	resp := dispatch(t, r, id, EventRequest{Action: "equals"})
	if resp.State.Display != "0" {
		t.Fatalf("expected display %q, got %q", "0", resp.State.Display)
	}
}

func TestHistoryEndpointAndClear(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	dispatch(t, r, id, EventRequest{Key: "2"})
	dispatch(t, r, id, EventRequest{Key: "+"})
	dispatch(t, r, id, EventRequest{Key: "2"})
	dispatch(t, r, id, EventRequest{Key: "="})

	req := httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id+"/history", nil)
	w := testutil.ExecuteRequest(req, r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var hist HistoryResponse
	testutil.DecodeJSONBody(t, w.Body, &hist)
	if len(hist.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(hist.History))
	}
	if hist.History[0].ID == "" || hist.History[0].Timestamp.IsZero() {
		t.Fatalf("expected stamped entry, got %+v", hist.History[0])
	}

	resp := dispatch(t, r, id, EventRequest{Action: "history-clear"})
	if len(resp.State.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(resp.State.History))
	}
}

func TestResumeFromHistoryResult(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	dispatch(t, r, id, EventRequest{Key: "6"})
	dispatch(t, r, id, EventRequest{Key: "+"})
	dispatch(t, r, id, EventRequest{Key: "2"})
	resp := dispatch(t, r, id, EventRequest{Key: "="})

	// Selecting a history entry dispatches set-display with its result.
	resp = dispatch(t, r, id, EventRequest{Action: "set-display", Value: resp.State.History[0].Result})
	if resp.State.Display != "8" {
		t.Fatalf("expected display %q, got %q", "8", resp.State.Display)
	}
	if resp.State.Operator != "" || resp.State.AwaitingSecondOperand {
		t.Fatalf("expected pending operation to clear, got %+v", resp.State)
	}
}

func TestMemoryFlowGatesHasMemory(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createSession(t, r)

	resp := dispatch(t, r, id, EventRequest{Action: "memory-recall"})
	if resp.State.HasMemory {
		t.Fatal("expected empty memory on a fresh session")
	}

	dispatch(t, r, id, EventRequest{Key: "4"})
	dispatch(t, r, id, EventRequest{Action: "memory-add"})
	dispatch(t, r, id, EventRequest{Key: "Escape"})
	dispatch(t, r, id, EventRequest{Key: "1"})
	dispatch(t, r, id, EventRequest{Action: "memory-add"})
	resp = dispatch(t, r, id, EventRequest{Action: "memory-recall"})

	if resp.State.Display != "5" {
		t.Fatalf("expected display %q, got %q", "5", resp.State.Display)
	}
	if !resp.State.HasMemory || resp.State.Memory == nil || *resp.State.Memory != 5 {
		t.Fatalf("expected memory 5, got %+v", resp.State)
	}

	resp = dispatch(t, r, id, EventRequest{Action: "memory-clear"})
	if resp.State.HasMemory {
		t.Fatal("expected memory to clear")
	}
}
