package repository

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// newUpstream starts a fake school API that records the last request and replies with
// status and body.
func newUpstream(t *testing.T, status int, body string) (*apiclient.Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.EscapedPath()
		captured.Query = r.URL.RawQuery
		captured.Body = nil
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &captured.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL}), captured
}
