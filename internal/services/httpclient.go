package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	correlationHeader = "X-Correlation-Id"
	contentTypeJSON   = "application/json"

	// retryDelay is the fixed pause between attempts. No backoff growth, so
	// worst-case latency stays a simple function of the retry budget.
	retryDelay = 200 * time.Millisecond
)

// httpResult is one completed downstream exchange. Transport errors never
// produce a result; they stay as plain errors for the retry loop.
type httpResult struct {
	status int
	body   []byte
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// retryableStatus reports whether a downstream status is worth another
// attempt. Client errors are final: retrying a 4xx is never useful.
func retryableStatus(status int) bool {
	return status >= 500
}

// doWithRetry runs one downstream call up to 1+maxRetries times. Only
// transient failures are retried (network errors, timeouts, 5xx); any
// non-retryable response is handed back to the caller immediately so it can
// map the status itself.
func doWithRetry(
	ctx context.Context,
	logger *zap.Logger,
	target string,
	maxRetries int,
	call func() (*httpResult, error),
) (*httpResult, error) {
	var lastErr error
	attempts := maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := call()
		if err == nil {
			if !retryableStatus(res.status) {
				return res, nil
			}
			lastErr = fmt.Errorf("%s returned status %d", target, res.status)
		} else {
			lastErr = err
		}

		logger.Warn("downstream_attempt_failed",
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(lastErr),
		)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, lastErr
}
