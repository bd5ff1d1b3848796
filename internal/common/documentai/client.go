// Package documentai wraps the document intelligence service used to parse
// uploaded paperwork and suggest application autofill values.
package documentai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lending-workers/internal/common/config"
)

var (
	ErrTimeout = errors.New("DOCUMENT_SERVICE_TIMEOUT")
	ErrFailed  = errors.New("DOCUMENT_SERVICE_FAILED")
)

type Client struct {
	cfg        config.DocumentAIAPIConfig
	httpClient *http.Client
}

// ExtractResult holds the fields pulled out of a parsed document.
type ExtractResult struct {
	Fields     map[string]string `json:"fields"`
	Summary    string            `json:"summary,omitempty"`
	Confidence float64           `json:"confidence"`
}

// AutofillResult holds suggested application form values.
type AutofillResult struct {
	Suggestions map[string]string `json:"suggestions"`
	Confidence  float64           `json:"confidence"`
}

func NewClient(cfg config.DocumentAIAPIConfig) *Client {
	return &Client{
		cfg: cfg,
		// No client timeout; calls rely on the context deadline.
		httpClient: &http.Client{},
	}
}

// ExtractFields parses the document at the given URL into structured fields.
func (c *Client) ExtractFields(ctx context.Context, documentURL string) (*ExtractResult, error) {
	body := map[string]interface{}{
		"documentUrl": documentURL,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}

	var result ExtractResult
	if err := c.post(ctx, "/api/documents/extract", body, &result); err != nil {
		return nil, err
	}
	if result.Confidence < 0.0 || result.Confidence > 1.0 {
		result.Confidence = 0.5
	}
	return &result, nil
}

// SuggestAutofill proposes form values from previously extracted fields.
func (c *Client) SuggestAutofill(ctx context.Context, fields map[string]string) (*AutofillResult, error) {
	body := map[string]interface{}{
		"fields":      fields,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}

	var result AutofillResult
	if err := c.post(ctx, "/api/documents/autofill", body, &result); err != nil {
		return nil, err
	}
	if result.Suggestions == nil {
		result.Suggestions = map[string]string{}
	}
	return &result, nil
}

// post sends the request with exponential backoff on transient failures.
func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrTimeout
			}
		}

		// Rebuild the request each attempt; the body reader is consumed.
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewBuffer(body))
		if reqErr != nil {
			return fmt.Errorf("%w: %v", ErrFailed, reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.cfg.APIKey)

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return ErrTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrFailed, lastErr)
	}

	if resp == nil {
		return fmt.Errorf("%w: no successful response after retries", ErrFailed)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode error: %v", ErrFailed, err)
	}

	return nil
}
