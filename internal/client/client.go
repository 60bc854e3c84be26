// Package client provides a REST client for the evaluator service, used by
// participant tooling and the smoke workflow.
package client

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/vehiclebench/vehiclebench/internal/server"
)

// Client wraps the evaluator HTTP API.
type Client struct {
	client *resty.Client
}

// New constructs a Client for the given base URL, e.g. "http://localhost:5001".
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{client: c}, nil
}

// Health reports whether the service is up.
func (c *Client) Health() (server.HealthResponse, error) {
	var out server.HealthResponse

	resp, err := c.client.R().SetResult(&out).Get("/api/health")
	if err != nil {
		return server.HealthResponse{}, fmt.Errorf("health check: %w", err)
	}
	if resp.IsError() {
		return server.HealthResponse{}, fmt.Errorf("health check: status %d", resp.StatusCode())
	}

	return out, nil
}

// FetchTestData retrieves the test records for a participant.
func (c *Client) FetchTestData(participantName, submissionTag string) (server.TestDataResponse, error) {
	var out server.TestDataResponse

	resp, err := c.client.R().
		SetQueryParam("participant_name", participantName).
		SetQueryParam("submission_tag", submissionTag).
		SetResult(&out).
		Get("/api/test-data")
	if err != nil {
		return server.TestDataResponse{}, fmt.Errorf("fetch test data: %w", err)
	}
	if resp.IsError() {
		return server.TestDataResponse{}, fmt.Errorf("fetch test data: status %d: %s", resp.StatusCode(), resp.Body())
	}

	return out, nil
}

// SubmitResults submits embeddings for evaluation.
func (c *Client) SubmitResults(req server.SubmitRequest) (server.SubmitResponse, error) {
	var out server.SubmitResponse

	resp, err := c.client.R().
		SetBody(req).
		SetResult(&out).
		Post("/api/submit-results")
	if err != nil {
		return server.SubmitResponse{}, fmt.Errorf("submit results: %w", err)
	}
	if resp.IsError() {
		return server.SubmitResponse{}, fmt.Errorf("submit results: status %d: %s", resp.StatusCode(), resp.Body())
	}

	return out, nil
}

// Leaderboard fetches the current standings.
func (c *Client) Leaderboard() (server.LeaderboardResponse, error) {
	var out server.LeaderboardResponse

	resp, err := c.client.R().SetResult(&out).Get("/api/leaderboard")
	if err != nil {
		return server.LeaderboardResponse{}, fmt.Errorf("fetch leaderboard: %w", err)
	}
	if resp.IsError() {
		return server.LeaderboardResponse{}, fmt.Errorf("fetch leaderboard: status %d", resp.StatusCode())
	}

	return out, nil
}
