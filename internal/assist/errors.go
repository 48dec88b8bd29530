package assist

import "errors"

var (
	// ErrBusy means a same-kind request is already in flight; the trigger is
	// dropped, not queued.
	ErrBusy = errors.New("a request of this kind is already in progress")

	// ErrMissingCredential is returned before any network call when no
	// completion-API key is configured.
	ErrMissingCredential = errors.New("missing OpenRouter API key. Set OPENROUTER_API_KEY in your env")

	// ErrEmptyInput blocks an operation whose relevant input is blank.
	ErrEmptyInput = errors.New("input is empty")

	// ErrEmptyReply means the completion API answered with no content.
	ErrEmptyReply = errors.New("OpenRouter returned an empty response")

	// ErrBadReply means the reply could not be parsed into the expected shape.
	ErrBadReply = errors.New("could not parse the model reply")

	// ErrRateLimited means the local limiter refused the call.
	ErrRateLimited = errors.New("too many completion requests, slow down")
)
