package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

func TestLoadTargetsDefaultsMethod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"targets":[{"path":"/subjects","critical":true},{"method":"post","path":"/x"}]}`), 0o600))

	targets, err := loadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, http.MethodGet, targets[0].Method)
	assert.Equal(t, http.MethodPost, targets[1].Method)
}

func TestLoadTargetsRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"targets":[]}`), 0o600))

	_, err := loadTargets(path)
	assert.Error(t, err)
}

func TestRunProbeForwardsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	ctx := apiclient.WithToken(context.Background(), "probe-token")

	ok := runProbe(ctx, client, target{Method: http.MethodGet, Path: "/subjects", Critical: true})
	assert.True(t, ok.Healthy())
	assert.Equal(t, http.StatusOK, ok.Status)
	assert.Equal(t, "Bearer probe-token", gotAuth)

	missing := runProbe(ctx, client, target{Method: http.MethodGet, Path: "/missing"})
	assert.False(t, missing.Healthy())
}

func TestTallySplitsCriticalFailures(t *testing.T) {
	results := []probe{
		{Target: target{Critical: true}, Status: http.StatusOK},
		{Target: target{Critical: true}, Error: errors.New("dial tcp: refused")},
		{Target: target{Critical: false}, Status: http.StatusBadGateway},
		{Target: target{Critical: false}, Status: http.StatusBadRequest},
	}
	critical, optional := tally(results)
	assert.Equal(t, 1, critical)
	assert.Equal(t, 1, optional)
}
