package artifacthub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.SchemaFetcher = (*Fetcher)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultBaseDelay is the initial retry delay.
	DefaultBaseDelay = 500 * time.Millisecond

	// DefaultUserAgent identifies requests to Artifact Hub.
	DefaultUserAgent = "valuesref"

	// MaxSchemaBytes bounds the size of a downloaded schema.
	MaxSchemaBytes = 32 << 20

	// breakerThreshold is the number of consecutive failures that opens a host's breaker.
	breakerThreshold = 5
)

// Fetcher fetches values schemas from Artifact Hub.
type Fetcher struct {
	baseURL    string
	client     *http.Client
	transport  *cachingTransport
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	baseDelay  time.Duration

	group    singleflight.Group
	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client. The DNS caching transport is
// not used then.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxRetries sets the maximum retry attempts for transient failures.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRetries = n
		}
	}
}

// WithBaseDelay sets the initial delay of the exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithRate sets the proactive request rate. Zero or less disables throttling.
func WithRate(perSecond float64) Option {
	return func(f *Fetcher) {
		if perSecond <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewFetcher creates a fetcher for the Artifact Hub instance at baseURL.
// An empty baseURL means domain.DefaultAPIBaseURL.
func NewFetcher(baseURL string, opts ...Option) *Fetcher {
	if baseURL == "" {
		baseURL = domain.DefaultAPIBaseURL
	}
	f := &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(domain.DefaultRatePerSecond), 1),
		userAgent:  DefaultUserAgent,
		maxRetries: domain.DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		breakers:   make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.transport = newCachingTransport()
		f.client = &http.Client{Timeout: DefaultTimeout, Transport: f.transport}
	}
	return f
}

// Close releases the fetcher's background resources.
func (f *Fetcher) Close() error {
	if f.transport != nil {
		f.transport.Close()
	}
	return nil
}

// Source returns domain.SourceArtifactHub.
func (f *Fetcher) Source() domain.SourceKind {
	return domain.SourceArtifactHub
}

// SchemaURL returns the values-schema endpoint of ref.
func (f *Fetcher) SchemaURL(ref domain.PackageRef) string {
	return fmt.Sprintf("%s/api/v1/packages/%s/%s/values-schema",
		f.baseURL, url.PathEscape(ref.PackageID), url.PathEscape(ref.Version))
}

// Fetch downloads the values schema of ref.
func (f *Fetcher) Fetch(ctx context.Context, ref domain.PackageRef) ([]byte, error) {
	if ref.Source != domain.SourceArtifactHub {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, ref.Source)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return f.get(ctx, f.SchemaURL(ref))
}

// FetchRef downloads an external $ref document. Only absolute http(s)
// URIs are supported.
func (f *Fetcher) FetchRef(ctx context.Context, _ domain.PackageRef, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: ref %q is not an absolute http(s) URL", domain.ErrUnsupportedType, uri)
	}
	return f.get(ctx, u.String())
}

// get fetches u once per concurrent burst of callers.
func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	v, err, shared := f.group.Do(u, func() (any, error) {
		return f.fetchWithBreaker(ctx, u)
	})
	if shared {
		logger.Debug("Shared in-flight fetch of %s", u)
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (f *Fetcher) fetchWithBreaker(ctx context.Context, u string) ([]byte, error) {
	host := hostOf(u)
	breaker := f.breaker(host)
	if !breaker.Ready() {
		return nil, &domain.FetchError{Ref: u, Err: fmt.Errorf("%w: %s", ErrCircuitOpen, host)}
	}

	var data []byte
	var fetchErr error
	callErr := breaker.Call(func() error {
		data, fetchErr = f.fetchWithRetry(ctx, u)
		if fetchErr != nil && transient(fetchErr) {
			return fetchErr
		}
		// Client errors say nothing about the host's health.
		return nil
	}, 0)

	switch {
	case fetchErr != nil:
		return nil, fetchErr
	case errors.Is(callErr, circuit.ErrBreakerOpen):
		return nil, &domain.FetchError{Ref: u, Err: fmt.Errorf("%w: %s", ErrCircuitOpen, host)}
	case callErr != nil:
		return nil, &domain.FetchError{Ref: u, Err: callErr}
	}
	return data, nil
}

// breaker returns or creates the circuit breaker for host.
func (f *Fetcher) breaker(host string) *circuit.Breaker {
	f.mu.RLock()
	b, ok := f.breakers[host]
	f.mu.RUnlock()
	if ok {
		return b
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.breakers[host]; ok {
		return b
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(breakerThreshold),
	})
	f.breakers[host] = b
	return b
}

// BreakerState reports "open" or "closed" per host seen so far.
func (f *Fetcher) BreakerState() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	states := make(map[string]string, len(f.breakers))
	for host, b := range f.breakers {
		if b.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

// fetchWithRetry retries transient failures with exponential backoff.
func (f *Fetcher) fetchWithRetry(ctx context.Context, u string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.baseDelay
	b.MaxElapsedTime = 0
	b.Reset()

	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		data, err := f.do(ctx, u)
		if err == nil {
			return data, nil
		}
		if !transient(err) || attempt >= f.maxRetries {
			return nil, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return nil, err
		}
		logger.Debug("Retrying %s in %v after: %v", u, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (f *Fetcher) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.FetchError{Ref: u, Err: fmt.Errorf("%w: %v", ErrUpstreamDown, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSchemaBytes+1))
		if err != nil {
			return nil, &domain.FetchError{Ref: u, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrUpstreamDown, err)}
		}
		if len(data) > MaxSchemaBytes {
			return nil, &domain.FetchError{Ref: u, Status: resp.StatusCode, Err: fmt.Errorf("schema larger than %d bytes", MaxSchemaBytes)}
		}
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &domain.FetchError{Ref: u, Status: resp.StatusCode, Err: domain.ErrNotFound}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.FetchError{Ref: u, Status: resp.StatusCode, Err: domain.ErrRateLimited}
	case resp.StatusCode >= 500:
		return nil, &domain.FetchError{Ref: u, Status: resp.StatusCode, Err: ErrUpstreamDown}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.FetchError{
			Ref:    u,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
}

// transient reports whether err is worth retrying.
func transient(err error) bool {
	return errors.Is(err, ErrUpstreamDown) || errors.Is(err, domain.ErrRateLimited)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
