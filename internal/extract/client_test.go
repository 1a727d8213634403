package extract

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadAndExtract(t *testing.T) {
	var gotSchema map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "cat.pdf", header.Filename)
		require.Equal(t, "pdf-bytes", string(data))
		_ = json.NewEncoder(w).Encode(map[string]string{"file_url": "https://files/cat.pdf"})
	})
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileURL    string         `json:"file_url"`
			JSONSchema map[string]any `json:"json_schema"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "https://files/cat.pdf", req.FileURL)
		gotSchema = req.JSONSchema
		_, _ = w.Write([]byte(`{"status":"success","output":{"equipments":[{"tag":"CAT01","day":"segunda","work_orders":[]}]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", "key")
	ctx := context.Background()

	url, err := c.Upload(ctx, "cat.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://files/cat.pdf", url)

	schema, err := schedule.ExtractionSchema()
	require.NoError(t, err)
	res, err := c.Extract(ctx, url, schema)
	require.NoError(t, err)
	require.Equal(t, schedule.ExtractionSucceeded, res.Status)
	require.Equal(t, "object", gotSchema["type"])

	var file schedule.ExtractedFile
	require.NoError(t, json.Unmarshal(res.Output, &file))
	require.Len(t, file.Records, 1)
	require.Equal(t, "CAT01", file.Records[0].Tag)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	_, err := c.Upload(context.Background(), "a.pdf", []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "quota exceeded")

	_, err = c.Extract(context.Background(), "u", nil)
	require.Error(t, err)
}

func TestClient_EmptyUploadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "").Upload(context.Background(), "a.pdf", []byte("x"))
	require.ErrorContains(t, err, "empty file url")
}

var _ schedule.Extractor = (*Client)(nil)

func TestClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}

	for _, opts := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(time.Second)},
		{WithTimeout(time.Second), WithHTTPClient(shared)},
	} {
		c := NewClient("http://extract.local", "", opts...)
		require.Equal(t, time.Second, c.client.Timeout)
		require.NotSame(t, shared, c.client)
	}
	require.Equal(t, 5*time.Second, shared.Timeout)

	c := NewClient("http://extract.local", "", WithHTTPClient(shared))
	require.Same(t, shared, c.client)

	c = NewClient("http://extract.local", "")
	require.Equal(t, defaultTimeout, c.client.Timeout)
}
