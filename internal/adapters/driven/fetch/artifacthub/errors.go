package artifacthub

import "errors"

// Artifact Hub fetcher errors.
var (
	// ErrUpstreamDown indicates a 5xx response or a network failure.
	ErrUpstreamDown = errors.New("artifacthub: upstream unavailable")

	// ErrCircuitOpen indicates too many recent failures for a host.
	ErrCircuitOpen = errors.New("artifacthub: circuit breaker open")

	// ErrUnexpectedStatus indicates a non-retryable HTTP status.
	ErrUnexpectedStatus = errors.New("artifacthub: unexpected status")
)
