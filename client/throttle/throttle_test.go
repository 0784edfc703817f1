package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRoundTripper_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			cfg:    Config{RPS: 0, Burst: 10},
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			cfg:    Config{RPS: -5, Burst: 10},
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			cfg:    Config{RPS: 10, Burst: 0},
			expErr: ErrMustNotBeZero,
		},
		{
			name: "Valid input",
			cfg:  Config{RPS: 10, Burst: 20},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.cfg, nil, http.DefaultTransport)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestRoundTripper_PreCancelledContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(Config{RPS: 20, Burst: 10}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = rt.RoundTrip(req)
	if !errors.Is(err, ErrContextEnded) {
		t.Errorf("exp ErrContextEnded, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("exp no server calls, got %d", calls.Load())
	}
}

func TestRoundTripper_WaitTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 1}, func() *slog.Logger { return slog.Default() }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}

	do := func(timeout time.Duration) error {
		ctx, cancel := context.WithTimeout(t.Context(), timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		if err != nil {
			t.Fatal(err)
		}

		resp, err := rt.RoundTrip(req)
		if err == nil {
			resp.Body.Close()
		}
		return err
	}

	if err := do(time.Second); err != nil {
		t.Fatalf("first request should use the burst token, got: %v", err)
	}

	if err := do(50 * time.Millisecond); !errors.Is(err, ErrWaitingFailed) {
		t.Errorf("exp ErrWaitingFailed, got: %v", err)
	}
}

func TestRoundTripper_SlowsConcurrentLoad(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(Config{RPS: 10, Burst: 5}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: rt}

	const numRequests = 8
	var wg sync.WaitGroup
	errs := make([]error, numRequests)

	start := time.Now()
	for i := range numRequests {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL, nil)
			if err != nil {
				errs[idx] = err
				return
			}

			resp, err := client.Do(req)
			if err != nil {
				errs[idx] = err
				return
			}
			resp.Body.Close()
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}

	// (8-5) requests beyond the burst at 10 RPS.
	minDuration := time.Duration(float64(time.Second) * float64(numRequests-5) / 10)
	if duration < minDuration-20*time.Millisecond {
		t.Errorf("execution should be slowed down by throttle (>= %v), took %v", minDuration, duration)
	}
	if got := calls.Load(); got != numRequests {
		t.Errorf("exp %d server calls, got %d", numRequests, got)
	}
}
