// Package fetch wraps outbound HTTP access for the engine: a hard
// per-request deadline, exponential backoff retries and the normalised
// search result cache. Geocoding search, route calculation and the incident
// API all go through here.
package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second
const DefaultMaxRetries = 2
const DefaultInitialDelay = 500 * time.Millisecond

var ErrTimeout = errors.New("request timed out")

type cancellingBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancellingBody) Close() error {
	// Releasing the context releases the underlying connection timer
	defer c.cancel()
	return c.ReadCloser.Close()
}

// DoWithTimeout issues the request and aborts it if no response arrives
// within timeout. The response body is wrapped so closing it also releases
// the deadline timer.
func DoWithTimeout(ctx context.Context, client *http.Client, request *http.Request, timeout time.Duration) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	requestCtx, cancel := context.WithTimeout(ctx, timeout)

	response, err := client.Do(request.WithContext(requestCtx))
	if err != nil {
		cancel()
		if errors.Is(err, context.DeadlineExceeded) || requestCtx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, err
	}

	response.Body = &cancellingBody{ReadCloser: response.Body, cancel: cancel}

	return response, nil
}

// WithRetry runs operation until it succeeds, retrying up to maxRetries
// further attempts with the delay doubling each time. Every failure retries
// identically regardless of cause - the provider contract here makes no
// distinction between transport faults and rejected requests, so neither do
// we, and changing that would change the observable attempt count. The last
// error is surfaced once attempts are exhausted.
func WithRetry[T any](ctx context.Context, operation func() (T, error), maxRetries int, initialDelay time.Duration) (T, error) {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = initialDelay
	exponential.Multiplier = 2
	exponential.RandomizationFactor = 0
	exponential.MaxInterval = 1 * time.Minute
	exponential.MaxElapsedTime = 0

	var empty T
	var lastError error

	for attempt := 0; ; attempt++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}
		lastError = err

		if attempt >= maxRetries {
			break
		}

		delay := exponential.NextBackOff()
		log.Debug().Err(err).Int("attempt", attempt+1).Str("delay", delay.String()).Msg("Retrying failed operation")

		select {
		case <-ctx.Done():
			return empty, ctx.Err()
		case <-time.After(delay):
		}
	}

	return empty, lastError
}
