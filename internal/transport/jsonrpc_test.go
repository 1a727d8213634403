package transport

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(strings.NewReader(`{"jsonrpc":"2.0","method":"week_board","params":{"week_id":"w1"},"id":7}`))
	require.NoError(t, err)
	require.Equal(t, "week_board", req.Method)
	require.Equal(t, json.RawMessage(`{"week_id":"w1"}`), req.Params)
	require.EqualValues(t, 7, req.ID)
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: `{"jsonrpc":`, code: ErrParseCode},
		{name: "empty body", body: ``, code: ErrParseCode},
		{name: "wrong shape", body: `["week_board"]`, code: ErrInvalidReq},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, code: ErrInvalidReq},
		{name: "wrong version", body: `{"jsonrpc":"1.0","method":"list_weeks"}`, code: ErrInvalidReq},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(strings.NewReader(tt.body))
			var rpcErr *Error
			require.True(t, errors.As(err, &rpcErr))
			require.Equal(t, tt.code, rpcErr.Code)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", map[string]string{"code": "INVALID_PARAMS"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
	require.Nil(t, resp.Result)
}
