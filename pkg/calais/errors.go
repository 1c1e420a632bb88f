package calais

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when content is empty or exceeds MaxContentSize,
	// or when an external metadata key is not a valid XML name. It is raised
	// before any network activity.
	ErrInvalidInput = errors.New("calais: invalid input")

	// ErrTransport is returned for network failures, non-2xx responses and
	// bodies that cannot be decoded as JSON.
	ErrTransport = errors.New("calais: transport failure")

	// ErrMalformedResponse is returned when the decoded document lacks the
	// "doc" section or does not have the expected shape.
	ErrMalformedResponse = errors.New("calais: malformed response")
)
