package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal-client/internal/devserver"
	"github.com/noah-isme/sma-portal-client/pkg/metrics"
)

func newDevServer(t *testing.T, name string) (*httptest.Server, *devserver.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := devserver.NewStore()
	require.NoError(t, store.Seed())
	srv := httptest.NewServer(devserver.NewRouter(devserver.Options{
		Store:    store,
		Recorder: metrics.NewRecorder("compare", name),
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestBodiesEqualIgnoresKeyOrderAndNumberForm(t *testing.T) {
	assert.True(t, bodiesEqual([]byte(`{"a":1,"b":[2.0]}`), []byte(`{"b":[2],"a":1.0}`)))
	assert.False(t, bodiesEqual([]byte(`{"a":1}`), []byte(`{"a":2}`)))
	assert.False(t, bodiesEqual([]byte(`<html>`), []byte(`<body>`)))
	assert.True(t, bodiesEqual([]byte("plain\n"), []byte("plain")))
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"targets":[{"method":"POST","path":"/login","body":{"username":"x"},"critical":true}]}`), 0o644))

	targets, err := loadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.JSONEq(t, `{"username":"x"}`, string(targets[0].Body))

	require.NoError(t, os.WriteFile(path, []byte(`{"targets":[]}`), 0o644))
	_, err = loadTargets(path)
	assert.Error(t, err)
}

func TestCompareTargetsAgainstTwoServices(t *testing.T) {
	dev, _ := newDevServer(t, "dev")
	portal, portalStore := newDevServer(t, "portal")
	portalStore.CreateAssignment("Essay", "500 words")

	login, err := json.Marshal(map[string]string{"username": "student1", "password": "pass1", "role": "student"})
	require.NoError(t, err)
	targets := []target{
		{Method: http.MethodPost, Path: "/login", Body: login, Critical: true},
		{Method: http.MethodGet, Path: "assignments", Critical: false},
	}

	client := &http.Client{}
	results := []comparison{
		compareTarget(client, dev.URL, portal.URL, targets[0]),
		compareTarget(client, dev.URL, portal.URL, targets[1]),
	}

	require.NoError(t, results[0].Error)
	assert.True(t, results[0].StatusMatch)
	assert.True(t, results[0].BodyMatch)
	assert.True(t, results[1].StatusMatch)
	assert.False(t, results[1].BodyMatch)

	breaking, optional := tally(results)
	assert.Zero(t, breaking)
	assert.Equal(t, 1, optional)

	out := &bytes.Buffer{}
	printReport(out, results)
	assert.Contains(t, out.String(), "[DIFF] GET assignments")
}

func TestUnreachableCriticalTargetBreaks(t *testing.T) {
	comp := compareTarget(&http.Client{}, "http://127.0.0.1:1", "http://127.0.0.1:1", target{Path: "/health", Critical: true})

	assert.Error(t, comp.Error)
	breaking, _ := tally([]comparison{comp})
	assert.Equal(t, 1, breaking)
}
