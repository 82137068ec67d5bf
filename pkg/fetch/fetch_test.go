package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoWithTimeoutSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	request, _ := http.NewRequest("GET", server.URL, nil)

	response, err := DoWithTimeout(context.Background(), server.Client(), request, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer response.Body.Close()

	body, _ := io.ReadAll(response.Body)
	if string(body) != "ok" {
		t.Fatalf("body = %q, want ok", body)
	}
}

func TestDoWithTimeoutAborts(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	request, _ := http.NewRequest("GET", server.URL, nil)

	start := time.Now()
	_, err := DoWithTimeout(context.Background(), server.Client(), request, 50*time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout took far longer than the configured deadline")
	}
}

func TestWithRetryAttemptCount(t *testing.T) {
	attempts := 0
	operation := func() (string, error) {
		attempts++
		return "", errors.New("always fails")
	}

	// 1 initial attempt plus 2 retries
	_, err := WithRetry(context.Background(), operation, 2, 1*time.Millisecond)
	if err == nil {
		t.Fatalf("expected the last error to surface")
	}
	if attempts != 3 {
		t.Fatalf("made %d attempts, want 3", attempts)
	}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}

	result, err := WithRetry(context.Background(), operation, 2, 1*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %d, want 42", result)
	}
	if attempts != 2 {
		t.Fatalf("made %d attempts, want 2", attempts)
	}
}

func TestWithRetryDelayDoubles(t *testing.T) {
	var timestamps []time.Time
	operation := func() (struct{}, error) {
		timestamps = append(timestamps, time.Now())
		return struct{}{}, errors.New("always fails")
	}

	_, _ = WithRetry(context.Background(), operation, 2, 40*time.Millisecond)

	if len(timestamps) != 3 {
		t.Fatalf("made %d attempts, want 3", len(timestamps))
	}

	firstGap := timestamps[1].Sub(timestamps[0])
	secondGap := timestamps[2].Sub(timestamps[1])

	if firstGap < 40*time.Millisecond {
		t.Fatalf("first delay %v shorter than the initial delay", firstGap)
	}
	if secondGap < 80*time.Millisecond {
		t.Fatalf("second delay %v did not double", secondGap)
	}
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	operation := func() (struct{}, error) {
		attempts++
		cancel()
		return struct{}{}, errors.New("always fails")
	}

	_, err := WithRetry(ctx, operation, 5, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Fatalf("made %d attempts after cancellation, want 1", attempts)
	}
}
