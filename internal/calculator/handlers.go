package calculator

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calcd/internal/engine"
	"calcd/internal/handlers"
	"calcd/internal/observability"
	"calcd/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// API exposes calculator sessions over HTTP. It owns no calculation logic:
// every request is translated into an action and handed to the session's
// reducer.
type API struct {
	store *session.Store
}

// NewAPI wires the HTTP adapter to a session store.
func NewAPI(store *session.Store) *API {
	return &API{store: store}
}

// CreateSession handles POST /calculator/sessions
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	sess := a.store.Create()
	sessionsCounter.Add(ctx, 1)

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID()))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", requestID),
		zap.Int("live_sessions", a.store.Len()),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID(),
		State:     newStateResponse(sess.Snapshot()),
	})
}

// GetSession handles GET /calculator/sessions/{sessionID}
func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r, "get")
	if !ok {
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		SessionID: sess.ID(),
		State:     newStateResponse(sess.Snapshot()),
	})
}

// GetHistory handles GET /calculator/sessions/{sessionID}/history
func (a *API) GetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r, "history")
	if !ok {
		return
	}

	handlers.WriteJSON(w, http.StatusOK, HistoryResponse{
		SessionID: sess.ID(),
		History:   newHistoryResponse(sess.Snapshot().History),
	})
}

// DeleteSession handles DELETE /calculator/sessions/{sessionID}
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	if !a.store.Delete(sessionID) {
		handlers.WriteError(w, http.StatusNotFound, "unknown session")
		return
	}
	sessionsCounter.Add(ctx, -1)

	logger.Info("calculator session deleted",
		zap.String("session_id", sessionID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// DispatchEvent handles POST /calculator/sessions/{sessionID}/events. It
// translates the event into an action, runs the reducer, and renders the
// new state. Reducer-level no-ops (equals with nothing pending, delete
// while awaiting an operand) still return 200: they are valid inputs the
// calculator silently ignores.
func (a *API) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.dispatch",
		trace.WithAttributes(
			attribute.String("calculator.session.id", sessionID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	sess, ok := a.store.Get(sessionID)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "unknown session")
		return
	}

	action, err := actionFromRequest(req)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", "invalid event", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.action", string(action.Type)))

	start := time.Now()
	state := sess.Dispatch(action)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("action", string(action.Type)))
	actionsCounter.Add(ctx, 1, attrs)
	actionHistogram.Record(ctx, elapsed, attrs)
	lastResultGauge.Record(ctx, engine.ParseDisplay(state.Display), attrs)

	span.AddEvent("dispatch.complete", trace.WithAttributes(
		attribute.String("display", state.Display),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator action applied",
		zap.String("session_id", sessionID),
		zap.String("action", string(action.Type)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		SessionID: sessionID,
		State:     newStateResponse(state),
	})
}

// lookup resolves the session from the URL, writing a 404 when absent.
func (a *API) lookup(w http.ResponseWriter, r *http.Request, opName string) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, ok := a.store.Get(sessionID)
	if !ok {
		observability.LoggerWithTrace(r.Context()).Warn("unknown calculator session",
			zap.String("session_id", sessionID),
			zap.String("operation", opName),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		handlers.WriteError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return sess, true
}
