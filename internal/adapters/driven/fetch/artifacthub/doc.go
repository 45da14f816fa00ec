// Package artifacthub fetches values schemas from the Artifact Hub API.
//
// Requests go through a proactive rate limiter, a per-host circuit breaker
// and exponential retry of transient failures. Concurrent fetches of the
// same URL share one round trip. Host lookups are cached.
//
// Absolute http(s) $ref documents are fetched through the same pipeline.
// Relative refs have no base to resolve against and are reported as
// unsupported.
package artifacthub
