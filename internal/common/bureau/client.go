// Package bureau wraps the credit bureau's score lookup API.
package bureau

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lending-workers/internal/common/config"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ScoreRequest identifies the subject of a score lookup.
type ScoreRequest struct {
	Name string `json:"name"`
	SSN  string `json:"ssn"`
}

// ScoreResult is the bureau's response.
type ScoreResult struct {
	Score    int    `json:"score"`
	FileID   string `json:"fileId,omitempty"`
	ThinFile bool   `json:"thinFile,omitempty"`
}

func NewClient(cfg config.BureauAPIConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
	}
}

// GetScore fetches the bureau score for an applicant.
func (c *Client) GetScore(ctx context.Context, request *ScoreRequest) (*ScoreResult, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	scoreURL := fmt.Sprintf("%s/v2/scores", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, scoreURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute score request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read score response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The body may reflect the lookup subject; report status only.
		return nil, fmt.Errorf("bureau lookup failed with status %d", resp.StatusCode)
	}

	var result ScoreResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score response: %w", err)
	}

	return &result, nil
}
