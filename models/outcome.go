package models

// OutcomeKind discriminates the result of one submitted request.
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeFailure      OutcomeKind = "failure"
	OutcomeNetworkError OutcomeKind = "network_error"
)

// Outcome is the resolved result of a request. Exactly one of the
// kind-specific field groups is meaningful:
//   - success: Body, Filename
//   - failure: Message, StatusCode
//   - network_error: Err
type Outcome struct {
	Kind       OutcomeKind
	Body       []byte
	Filename   string
	Message    string
	StatusCode int
	Err        error
}

func Succeeded(body []byte, filename string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Body: body, Filename: filename}
}

func Failed(statusCode int, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, StatusCode: statusCode, Message: message}
}

func Unreachable(err error) Outcome {
	return Outcome{Kind: OutcomeNetworkError, Err: err}
}
