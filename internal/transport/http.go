package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, operator, method string, params json.RawMessage) (any, error)
}

// CodedError is implemented by handler errors that carry a stable code.
type CodedError interface {
	error
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// Option configures the HTTP router.
type Option func(*options)

type options struct {
	mcp     http.Handler
	metrics http.Handler
}

// WithMCPHandler mounts a streamable MCP handler at /mcp.
func WithMCPHandler(h http.Handler) Option {
	return func(o *options) { o.mcp = h }
}

// WithMetricsHandler serves Prometheus metrics at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *options) { o.metrics = h }
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
}

// NewServer creates an HTTP server router with middleware. The auth
// middleware guards /rpc only; /mcp authenticates inside the MCP server.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, opts ...Option) *chi.Mux {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler}

	r.Get("/health", srv.handleHealth)
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics)
	}
	if o.mcp != nil {
		r.Handle("/mcp", o.mcp)
	}

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			WriteError(w, nil, rpcErr.Code, rpcErr.Message, nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	operator, ok := OperatorFromContext(r.Context())
	if !ok || operator == "" {
		http.Error(w, "missing operator", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), operator, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var coded CodedError
		if errors.As(err, &coded) {
			code := ErrApplication
			switch coded.CodeValue() {
			case "INVALID_PARAMS":
				code = ErrInvalidParams
			case "METHOD_NOT_FOUND":
				code = ErrMethodNotFound
			}
			WriteError(w, req.ID, code, coded.MessageValue(), errorData{
				Code:         coded.CodeValue(),
				Details:      coded.DetailsValue(),
				RecoveryHint: coded.RecoveryHintValue(),
			})
			return
		}
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

type errorData struct {
	Code         string `json:"code"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}
