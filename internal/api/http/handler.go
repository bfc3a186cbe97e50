package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"scoring-api/internal/api/http/middleware"
	"scoring-api/internal/api/method"
	"scoring-api/internal/schema"
)

// Dispatcher - обработчик разобранного тела запроса
type Dispatcher interface {
	Handle(ctx context.Context, body any, rc *method.Context) (method.Response, error)
}

var _ Dispatcher = (*method.Dispatcher)(nil)

var errMissingContentLength = errors.New("missing Content-Length")

// Handler - HTTP обертка над диспетчером методов
type Handler struct {
	dispatcher   Dispatcher
	maxBodyBytes int64
	log          *zap.Logger
}

// NewHandler создает HTTP обработчик. maxBodyBytes ограничивает размер тела.
func NewHandler(d Dispatcher, maxBodyBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{
		dispatcher:   d,
		maxBodyBytes: maxBodyBytes,
		log:          logger,
	}
}

// ServeMethod обрабатывает POST /method
func (h *Handler) ServeMethod(w http.ResponseWriter, r *http.Request) {
	rc := &method.Context{RequestID: middleware.RequestIDFromContext(r.Context())}
	if rc.RequestID == "" {
		rc.RequestID = middleware.NewRequestID()
	}

	raw, err := h.readBody(w, r)
	if err != nil {
		h.log.Info("bad request body", zap.String("request_id", rc.RequestID), zap.Error(err))
		h.respond(w, method.Response{Code: method.StatusBadRequest}, rc)
		return
	}

	h.log.Info("request received",
		zap.String("request_id", rc.RequestID),
		zap.String("path", r.URL.Path),
		zap.String("body", string(raw)))

	body, err := schema.DecodeJSON(raw)
	if err != nil {
		h.log.Info("malformed json", zap.String("request_id", rc.RequestID), zap.Error(err))
		h.respond(w, method.Response{Code: method.StatusBadRequest}, rc)
		return
	}

	resp, err := h.dispatch(r.Context(), body, rc)
	if err != nil {
		h.log.Error("unexpected error", zap.String("request_id", rc.RequestID), zap.Error(err))
		resp = method.Response{Code: method.StatusInternalError}
	}
	h.respond(w, resp, rc)
}

// NotFound - ответ для любого пути, кроме /method
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	rc := &method.Context{RequestID: middleware.RequestIDFromContext(r.Context())}
	h.respond(w, method.Response{Code: method.StatusNotFound}, rc)
}

// MethodNotAllowed - /method вызван не через POST
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"error": http.StatusText(http.StatusMethodNotAllowed),
		"code":  http.StatusMethodNotAllowed,
	})
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.ContentLength < 0 {
		return nil, errMissingContentLength
	}
	if r.ContentLength > h.maxBodyBytes {
		return nil, fmt.Errorf("body of %d bytes exceeds limit of %d", r.ContentLength, h.maxBodyBytes)
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
}

// dispatch вызывает диспетчер, превращая панику в ошибку
func (h *Handler) dispatch(ctx context.Context, body any, rc *method.Context) (resp method.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in dispatcher: %v", p)
		}
	}()
	return h.dispatcher.Handle(ctx, body, rc)
}

func (h *Handler) respond(w http.ResponseWriter, resp method.Response, rc *method.Context) {
	envelope := resp.Envelope()

	fields := append(rc.Fields(), zap.Any("response", envelope))
	h.log.Info("response sent", fields...)

	writeJSON(w, resp.Code, envelope)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
