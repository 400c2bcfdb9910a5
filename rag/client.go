// Package rag is the seam to the external retrieval-augmented-generation
// backend. The backend is opaque to this gateway: one question and one
// session key in, one answer out.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/rag-gateway/config"
)

// Client answers a question within a conversation identified by sessionID
type Client interface {
	Answer(ctx context.Context, question, sessionID string) (string, error)
}

// queryRequest is the wire format the RAG backend expects
type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// queryResponse is the wire format the RAG backend returns
type queryResponse struct {
	Answer string `json:"answer"`
}

// HTTPClient calls the RAG backend over HTTP. One best-effort request per
// call; retries are the caller's policy and this gateway does not retry.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the configured RAG backend
func NewHTTPClient(cfg config.RAGConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Answer posts the question to the RAG backend and returns its answer
func (c *HTTPClient) Answer(ctx context.Context, question, sessionID string) (string, error) {
	reqBody, err := json.Marshal(queryRequest{
		Question:  question,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/answer", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("RAG request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read RAG response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("RAG backend returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp queryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal RAG response: %w", err)
	}

	return resp.Answer, nil
}
