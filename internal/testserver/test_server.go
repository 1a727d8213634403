package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ganot/fleetmaint/internal/app"
	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/ganot/fleetmaint/internal/mcp"
	"github.com/ganot/fleetmaint/internal/metrics"
	"github.com/ganot/fleetmaint/internal/sqlite"
	"github.com/ganot/fleetmaint/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// DefaultFleets seeds the fleet order of every test server.
var DefaultFleets = []string{"CAT 793", "KOMATSU 930", "DRILLS"}

type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Metrics   *metrics.Metrics
	Extractor *FakeExtractor
	Token     string
	Operator  string

	stores app.Stores
}

// New starts an HTTP server over an in-memory database with /rpc, /mcp,
// /metrics and /health mounted. token authenticates as operator.
func New(t *testing.T, token, operator string) *TestServer {
	t.Helper()

	// one connection, so every request sees the same in-memory database
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	stores := app.SQLiteStores(db)
	extractor := NewFakeExtractor()
	m := metrics.New("fleetmaint")

	services := app.NewServices(stores, app.Options{
		Extractor:     extractor,
		Metrics:       m,
		DefaultFleets: DefaultFleets,
		MaxParallel:   2,
	})
	handler := mcp.NewHandler(services)
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      stores.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(transport.NewServer(
		handler,
		transport.AuthMiddleware(stores.APIKeys),
		transport.WithMCPHandler(mcpHandler),
		transport.WithMetricsHandler(m.Handler()),
	))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Metrics:   m,
		Extractor: extractor,
		Token:     token,
		Operator:  operator,
		stores:    stores,
	}

	require.NoError(t, ts.AddAPIKey(token, operator))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, operator string) error {
	return ts.stores.APIKeys.Create(context.Background(), token, operator, "test")
}

// Call invokes an RPC method and returns the raw result or the RPC error.
func (ts *TestServer) Call(t *testing.T, method string, params any) (json.RawMessage, *transport.Error) {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		Result json.RawMessage  `json:"result"`
		Error  *transport.Error `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded.Result, decoded.Error
}

// MustCall invokes an RPC method, fails on an RPC error and decodes the result into out.
func (ts *TestServer) MustCall(t *testing.T, method string, params any, out any) {
	t.Helper()
	result, rpcErr := ts.Call(t, method, params)
	require.Nil(t, rpcErr, "%s failed: %+v", method, rpcErr)
	if out != nil {
		require.NoError(t, json.Unmarshal(result, out))
	}
}

// FakeExtractor treats uploaded file content as the extraction output.
type FakeExtractor struct {
	mu      sync.Mutex
	files   map[string][]byte
	failing map[string]bool
}

func NewFakeExtractor() *FakeExtractor {
	return &FakeExtractor{files: make(map[string][]byte), failing: make(map[string]bool)}
}

// Fail makes every later upload of name fail.
func (f *FakeExtractor) Fail(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[name] = true
}

func (f *FakeExtractor) Upload(_ context.Context, name string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[name] {
		return "", fmt.Errorf("upload of %s rejected", name)
	}
	url := "mem://" + name
	f.files[url] = append([]byte(nil), content...)
	return url, nil
}

func (f *FakeExtractor) Extract(_ context.Context, fileURL string, _ any) (*schedule.ExtractionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[fileURL]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", fileURL)
	}
	return &schedule.ExtractionResult{Status: schedule.ExtractionSucceeded, Output: content}, nil
}
