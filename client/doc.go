// Package client provides the HTTP transport core shared by every payment
// flow: it sends a request, reads the raw response (gzip included),
// classifies the status code, and delivers the outcome to a callback on one
// designated execution context.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("checkout/1.0"),
//		client.WithExecutor(mainLoop),
//	)
//	defer c.Close()
//
// # Executing Requests
//
// [Client.Execute] never blocks the caller. The callback runs exactly once,
// on the executor, with exactly one of body or err set:
//
//	err = c.Execute(req, func(body string, err error) {
//		var perr *client.Error
//		if errors.As(err, &perr) && perr.Transient() {
//			// caller-owned retry policy
//		}
//	})
//
// [Client.Do] runs the same lifecycle synchronously.
//
// # Classification
//
// 200, 201 and 202 succeed with the decoded body. Every other status fails
// with an [*Error] whose [Kind] comes from a static table: 400 and 422 are
// [BadRequest], 401 [Unauthorized], 403 [Forbidden], 426 [UpgradeRequired],
// 429 [RateLimited], 500 [ServerError], 503 [ServiceUnavailable], anything
// else [Unexpected]. Faults below the parser are [TransportFailure].
// Nothing is retried.
package client
