package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, operator, method string, params json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"operator": operator}, nil
}

type codedErr struct{}

func (codedErr) Error() string             { return "ENTRY_NOT_FOUND: entry not found" }
func (codedErr) CodeValue() string         { return "ENTRY_NOT_FOUND" }
func (codedErr) MessageValue() string      { return "entry not found" }
func (codedErr) DetailsValue() any         { return nil }
func (codedErr) RecoveryHintValue() string { return "Call week_board" }

type staticResolver struct {
	operator string
}

func (r *staticResolver) ResolveOperator(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	return r.operator, nil
}

func postRPC(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(&staticResolver{operator: "maria"})))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_weeks","id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "list_weeks", handler.method)

	var decoded struct {
		Result map[string]string `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, "maria", decoded.Result["operator"])
}

func TestHTTPServer_RPCCodedError(t *testing.T) {
	handler := &testHandler{err: codedErr{}}
	server := httptest.NewServer(NewServer(handler, StaticOperator("operator")))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"entry_detail","id":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NotNil(t, decoded.Error)
	require.Equal(t, ErrApplication, decoded.Error.Code)
	require.Equal(t, "entry not found", decoded.Error.Message)
	data, ok := decoded.Error.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ENTRY_NOT_FOUND", data["code"])
	require.Equal(t, "Call week_board", data["recovery_hint"])
}

func TestHTTPServer_RPCInternalError(t *testing.T) {
	handler := &testHandler{err: errors.New("boom")}
	server := httptest.NewServer(NewServer(handler, StaticOperator("operator")))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_weeks","id":3}`)
	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NotNil(t, decoded.Error)
	require.Equal(t, ErrInternal, decoded.Error.Code)
}

func TestHTTPServer_RPCParseError(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, StaticOperator("operator")))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":`)
	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NotNil(t, decoded.Error)
	require.Equal(t, ErrParseCode, decoded.Error.Code)
	require.Empty(t, handler.method)
}

func TestHTTPServer_RPCWithoutOperator(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, nil))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_weeks","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(&staticResolver{operator: "maria"})))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MountsMetricsAndMCP(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fleetmaint_weekly_imports_total 1"))
	})
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(&testHandler{}, nil, WithMetricsHandler(metrics), WithMCPHandler(mcp)))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "weekly_imports_total")

	resp, err = http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}
