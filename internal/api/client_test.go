package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "summarize the fraud report", req["message"])

		json.NewEncoder(w).Encode(map[string]string{"content": "The report shows..."})
	}))
	defer srv.Close()

	client := New(srv.URL, "test-token")
	content, err := client.Send(context.Background(), "summarize the fraud report")
	require.NoError(t, err)
	assert.Equal(t, "The report shows...", content)
}

func TestSendTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"content": "ok"})
	}))
	defer srv.Close()

	client := New(srv.URL+"/", "")
	_, err := client.Send(context.Background(), "hello")
	require.NoError(t, err)
}

func TestSendNoAuthHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"content": "ok"})
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	_, err := client.Send(context.Background(), "hello")
	require.NoError(t, err)
}

func TestSendErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Bedrock error",
			"message": "agent timed out",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	_, err := client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent timed out")
}

func TestSendNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	_, err := client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSendNoEndpoint(t *testing.T) {
	client := New("", "")
	_, err := client.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoEndpoint)
}
