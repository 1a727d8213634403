package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes. ErrApplication is used for domain errors that
// carry their own code in the error data.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	ErrApplication    = -32000
)

// MaxRequestBytes bounds an RPC body. Imports carry base64 fleet files.
const MaxRequestBytes = 32 << 20

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ParseRequest decodes one JSON-RPC request. Failures are returned as *Error
// with the parse or invalid-request code.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(body, MaxRequestBytes)).Decode(&req); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Request{}, &Error{Code: ErrParseCode, Message: "parse error"}
		}
		return Request{}, &Error{Code: ErrInvalidReq, Message: "invalid request"}
	}
	switch {
	case req.JSONRPC != "2.0":
		return Request{}, &Error{Code: ErrInvalidReq, Message: `invalid request: jsonrpc must be "2.0"`}
	case req.Method == "":
		return Request{}, &Error{Code: ErrInvalidReq, Message: "invalid request: method is required"}
	}
	return req, nil
}

func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSON(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

// Errors travel in the body, so the status is always 200.
func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
