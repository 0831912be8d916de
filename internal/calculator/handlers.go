package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"calcpad/internal/handlers"
	"calcpad/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves calculator sessions backed by a Store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	id, st, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "cannot create session", err, statusFor(err), w)
		return
	}
	activeSessions.Add(ctx, 1)

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, newStateResponse(id, st))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	st, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "get", "session not found", err, statusFor(err), w)
		return
	}
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, newStateResponse(id, st))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, statusFor(err), w)
		return
	}
	activeSessions.Add(ctx, -1)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: key presses, one child span per key
// ---------------------------------------------------------------------------

// PressKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	handleKeys(w, r, "press", id, func(keys []Key, fn func(int, Key, State)) (State, error) {
		return h.store.Press(id, keys, fn)
	})
}

// Evaluate handles POST /calculator/evaluate. It runs the keys on a fresh
// engine without creating a session.
func Evaluate(w http.ResponseWriter, r *http.Request) {
	handleKeys(w, r, "evaluate", "", func(keys []Key, fn func(int, Key, State)) (State, error) {
		return Run(NewEngine(), keys, fn), nil
	})
}

// handleKeys is the shared implementation for applying a batch of keys.
// Every key becomes a child span of the batch span, and the display after
// each key is returned as a step.
func handleKeys(w http.ResponseWriter, r *http.Request, opName, sessionID string, run func([]Key, func(int, Key, State)) (State, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// --- 1. Parent span for the batch ---
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()
	if sessionID != "" {
		span.SetAttributes(attribute.String("calculator.session.id", sessionID))
	}

	// --- 2. Decode request body ---
	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys, err := req.Parse()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid key", err, http.StatusBadRequest, w)
		return
	}
	if len(keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", errors.New("keys and input are empty"), http.StatusBadRequest, w)
		return
	}
	span.SetAttributes(attribute.Int("calculator.keys_count", len(keys)))

	// --- 3. Apply keys, one child span each ---
	steps := make([]KeyStep, 0, len(keys))
	start := time.Now()
	st, err := run(keys, func(i int, k Key, st State) {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d", i),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key", k.String()),
				attribute.String("calculator.display", st.Display),
				attribute.String("calculator.pending", st.Pending.String()),
			),
		)
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		keyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("key", k.String())))
		steps = append(steps, KeyStep{Key: k.String(), Display: st.Display})
	})
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, statusFor(err), w)
		return
	}

	// --- 4. Record metrics ---
	attrs := metric.WithAttributes(attribute.String("operation", opName))
	evalHistogram.Record(ctx, elapsed, attrs)
	if v, ok := parseDisplay(st.Display); ok && st.Finite() {
		resultGauge.Record(ctx, v, attrs)
	}

	// --- 5. Span event with the result ---
	span.AddEvent("keys.applied", trace.WithAttributes(
		attribute.String("display", st.Display),
		attribute.Bool("finite", st.Finite()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.display", st.Display))
	span.SetStatus(codes.Ok, "")

	// --- 6. Structured log with trace correlation ---
	logger.Info("calculator keys applied",
		zap.String("operation", opName),
		zap.String("session_id", sessionID),
		zap.Int("keys", len(keys)),
		zap.String("display", st.Display),
		zap.Bool("finite", st.Finite()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	// --- 7. Write JSON response ---
	resp := newStateResponse(sessionID, st)
	resp.Steps = steps
	handlers.WriteJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
