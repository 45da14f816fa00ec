package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.SchemaFetcher = (*Fetcher)(nil)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Fetcher reads schema files through the GitHub contents API.
type Fetcher struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewFetcher creates a fetcher. An empty token means anonymous access,
// which GitHub limits to 60 requests an hour.
func NewFetcher(ctx context.Context, token string) *Fetcher {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout
	return NewFetcherWithHTTPClient(hc, "")
}

// NewFetcherWithHTTPClient creates a fetcher on a custom http.Client.
// A non-empty baseURL points the client at another API root, such as a
// GitHub Enterprise server or a test server.
func NewFetcherWithHTTPClient(hc *http.Client, baseURL string) *Fetcher {
	client := gh.NewClient(hc)
	if baseURL != "" {
		if u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/"); err == nil {
			client.BaseURL = u
		}
	}
	return &Fetcher{
		gh:          client,
		rateLimiter: NewRateLimiter(0),
	}
}

// Source returns domain.SourceGitHub.
func (f *Fetcher) Source() domain.SourceKind {
	return domain.SourceGitHub
}

// RateLimiter returns the fetcher's rate limiter.
func (f *Fetcher) RateLimiter() *RateLimiter {
	return f.rateLimiter
}

// Fetch reads the schema file of ref at ref.GitRef.
func (f *Fetcher) Fetch(ctx context.Context, ref domain.PackageRef) ([]byte, error) {
	if ref.Source != domain.SourceGitHub {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, ref.Source)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return f.readFile(ctx, ref, strings.TrimPrefix(ref.Path, "/"))
}

// FetchRef reads a $ref document relative to the schema file of ref.
func (f *Fetcher) FetchRef(ctx context.Context, ref domain.PackageRef, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if u.IsAbs() || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return nil, fmt.Errorf("%w: ref %q is not repository-relative", domain.ErrUnsupportedType, uri)
	}
	p := path.Join(path.Dir(strings.TrimPrefix(ref.Path, "/")), u.Path)
	if p == ".." || strings.HasPrefix(p, "../") {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrInvalidInput, ErrOutsideRepo, uri)
	}
	return f.readFile(ctx, ref, p)
}

func (f *Fetcher) readFile(ctx context.Context, ref domain.PackageRef, filePath string) ([]byte, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	logger.Debug("GitHub contents %s/%s@%s: %s", ref.Owner, ref.Repo, ref.GitRef, filePath)
	opts := &gh.RepositoryContentGetOptions{Ref: ref.GitRef}
	content, _, resp, err := f.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, filePath, opts)
	f.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, f.wrapError(err, refName(ref, filePath))
	}
	if content == nil {
		return nil, &domain.FetchError{Ref: refName(ref, filePath), Err: ErrNotAFile}
	}

	// Files above 1MB come without inline content.
	if content.GetEncoding() == "none" || (content.Content == nil && content.GetSize() > 0) {
		return f.download(ctx, ref, filePath)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return nil, &domain.FetchError{Ref: refName(ref, filePath), Err: fmt.Errorf("decode content: %w", err)}
	}
	return []byte(decoded), nil
}

func (f *Fetcher) download(ctx context.Context, ref domain.PackageRef, filePath string) ([]byte, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref.GitRef}
	rc, resp, err := f.gh.Repositories.DownloadContents(ctx, ref.Owner, ref.Repo, filePath, opts)
	f.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, f.wrapError(err, refName(ref, filePath))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &domain.FetchError{Ref: refName(ref, filePath), Err: err}
	}
	return data, nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (f *Fetcher) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	f.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to domain fetch errors.
func (f *Fetcher) wrapError(err error, name string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &domain.FetchError{
			Ref:    name,
			Status: http.StatusForbidden,
			Err: fmt.Errorf("%w: %w", domain.ErrRateLimited, &RateLimitError{
				ResetAt:   f.rateLimiter.ResetTime(),
				Remaining: f.rateLimiter.Remaining(),
				Limit:     f.rateLimiter.Limit(),
			}),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		wrapped := error(apiErr)
		if apiErr.StatusCode == http.StatusNotFound {
			wrapped = fmt.Errorf("%w: %w", domain.ErrNotFound, apiErr)
		}
		return &domain.FetchError{Ref: name, Status: apiErr.StatusCode, Err: wrapped}
	}

	return &domain.FetchError{Ref: name, Err: err}
}

func refName(ref domain.PackageRef, filePath string) string {
	gitRef := ref.GitRef
	if gitRef == "" {
		gitRef = "HEAD"
	}
	return fmt.Sprintf("github.com/%s/%s@%s/%s", ref.Owner, ref.Repo, gitRef, filePath)
}
