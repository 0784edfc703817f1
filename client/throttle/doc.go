// Package throttle limits the rate of outbound payment API calls with a
// token bucket from [golang.org/x/time/rate].
//
// Wrap the base transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// A request that cannot obtain a token before its context ends fails
// with [ErrWaitingFailed] or [ErrContextEnded]; the payhttp client reports
// either as a transport failure.
package throttle
