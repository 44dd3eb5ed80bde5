package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sunvale/sevendays/internal/services"
)

const summaryPollInterval = 2 * time.Second

// WaitForHealthy blocks until the API reports healthy or the timeout
// expires. Useful when docker-compose is still starting.
func (r *Runner) WaitForHealthy(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		resp, err := r.Client.Get(r.BaseURL + "/health")
		if err == nil {
			code := resp.StatusCode
			_ = resp.Body.Close()
			if code == http.StatusOK {
				return nil
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("API not healthy after %v", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// WaitForSummary polls the summary endpoint until the worker has
// produced the player's final summary. A 404 means not ready yet.
func (r *Runner) WaitForSummary(ctx context.Context, playerID string, timeout time.Duration) (*services.Summary, error) {
	deadline := time.Now().Add(timeout)
	for {
		summary, ready, err := r.trySummary(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if ready {
			return summary, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("summary for %s not ready after %v", playerID, timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(summaryPollInterval):
		}
	}
}

func (r *Runner) trySummary(ctx context.Context, playerID string) (*services.Summary, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/v1/summary/%s", r.BaseURL, playerID), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("summary request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read summary response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("summary returned status %d: %s", resp.StatusCode, string(body))
	}

	var summary services.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &summary, true, nil
}
