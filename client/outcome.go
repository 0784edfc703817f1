package client

import "errors"

// Callback receives the result of [Client.Execute]. Exactly one of body
// or err is meaningful: err is nil on success, and body is empty on failure.
type Callback func(body string, err error)

// Outcome is the terminal result of one request: either a [Success]
// or a [Failure].
type Outcome interface {
	// Result collapses the outcome to the (body, err) callback convention.
	Result() (string, error)

	outcome()
}

// Success carries the decoded body of a 200, 201 or 202 response.
type Success struct {
	Body string
}

func (s Success) Result() (string, error) { return s.Body, nil }
func (Success) outcome()                  {}

// Failure carries the classified error of any other response or of a
// transport fault.
type Failure struct {
	Err *Error
}

func (f Failure) Result() (string, error) { return "", f.Err }
func (Failure) outcome()                  {}

// outcomeOf folds the parser's return values into an Outcome. Errors that
// the parser did not classify happened while reading the stream.
func outcomeOf(body string, err error) Outcome {
	if err == nil {
		return Success{Body: body}
	}

	var classified *Error
	if errors.As(err, &classified) {
		return Failure{Err: classified}
	}

	return Failure{Err: transportError(err)}
}
