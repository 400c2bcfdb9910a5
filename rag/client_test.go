package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/rag-gateway/config"
)

func TestHTTPClient_Answer(t *testing.T) {
	t.Run("posts the question and returns the answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/answer", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req queryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "What is the leave policy?", req.Question)
			assert.Equal(t, "user-1_default_session", req.SessionID)

			_ = json.NewEncoder(w).Encode(queryResponse{Answer: "30 days per year."})
		}))
		defer server.Close()

		client := NewHTTPClient(config.RAGConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

		answer, err := client.Answer(context.Background(), "What is the leave policy?", "user-1_default_session")
		require.NoError(t, err)
		assert.Equal(t, "30 days per year.", answer)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewHTTPClient(config.RAGConfig{BaseURL: server.URL})

		_, err := client.Answer(context.Background(), "q", "s")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("unreachable backend is an error", func(t *testing.T) {
		client := NewHTTPClient(config.RAGConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

		_, err := client.Answer(context.Background(), "q", "s")
		assert.Error(t, err)
	})

	t.Run("malformed response body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewHTTPClient(config.RAGConfig{BaseURL: server.URL})

		_, err := client.Answer(context.Background(), "q", "s")
		assert.Error(t, err)
	})
}
