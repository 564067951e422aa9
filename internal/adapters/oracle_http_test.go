package adapters

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oracleReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestOracleAnalyze(t *testing.T) {
	var gotAuth string
	var gotReq oracleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		oracleReply(t, w, "VERDICT: SAFE\nRISK: LOW")
	}))
	defer server.Close()

	adapter := NewOracleHTTPAdapter(server.URL, "test-key", time.Minute)
	text, err := adapter.Analyze(t.Context(), "payload body", "system prompt", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "VERDICT: SAFE\nRISK: LOW", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
	assert.Equal(t, "payload body", gotReq.Messages[1].Content)
}

func TestOracleRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		oracleReply(t, w, "VERDICT: SAFE")
	}))
	defer server.Close()

	adapter := NewOracleHTTPAdapter(server.URL, "", time.Minute)
	text, err := adapter.Analyze(t.Context(), "p", "s", "m")
	require.NoError(t, err)
	assert.Equal(t, "VERDICT: SAFE", text)
	assert.Equal(t, int64(3), calls.Load())
}

func TestOracleClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := NewOracleHTTPAdapter(server.URL, "bad-key", time.Minute)
	_, err := adapter.Analyze(t.Context(), "p", "s", "m")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeUnavailable, errbuilder.CodeOf(err))
	assert.Equal(t, int64(1), calls.Load(), "4xx must not be retried")
}

func TestOracleEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	adapter := NewOracleHTTPAdapter(server.URL, "", time.Minute)
	_, err := adapter.Analyze(t.Context(), "p", "s", "m")
	require.Error(t, err)
}

func TestOracleExhaustsRetries(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewOracleHTTPAdapter(server.URL, "", time.Minute)
	adapter.MaxRetries = 2
	_, err := adapter.Analyze(t.Context(), "p", "s", "m")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeUnavailable, errbuilder.CodeOf(err))
	assert.Equal(t, int64(3), calls.Load())
}
