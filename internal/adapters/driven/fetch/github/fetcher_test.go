package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

var testRef = domain.PackageRef{
	Source: domain.SourceGitHub,
	Owner:  "acme",
	Repo:   "charts",
	GitRef: "main",
	Path:   "charts/app/values.schema.json",
}

func fileJSON(content string) string {
	return fmt.Sprintf(`{"type":"file","encoding":"base64","size":%d,"content":%q}`,
		len(content), base64.StdEncoding.EncodeToString([]byte(content)))
}

func newTestFetcher(t *testing.T, handler http.Handler) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewFetcherWithHTTPClient(srv.Client(), srv.URL)
	f.rateLimiter = NewRateLimiter(1000)
	return f
}

func TestFetcher_Fetch(t *testing.T) {
	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/charts/contents/charts/app/values.schema.json", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		w.Header().Set(HeaderRateRemaining, "42")
		w.Header().Set(HeaderRateLimit, "5000")
		_, _ = w.Write([]byte(fileJSON(`{"type":"object"}`)))
	})
	f := newTestFetcher(t, mux)

	data, err := f.Fetch(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object"}`, string(data))
	assert.Equal(t, "main", gotRef)
	assert.Equal(t, 42, f.RateLimiter().Remaining())
	assert.Equal(t, 5000, f.RateLimiter().Limit())
	assert.Equal(t, domain.SourceGitHub, f.Source())
}

func TestFetcher_Fetch_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/charts/contents/charts/app/values.schema.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("/repos/acme/charts/contents/charts", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"type":"dir","name":"app","path":"charts/app"}]`))
	})
	f := newTestFetcher(t, mux)
	ctx := context.Background()

	_, err := f.Fetch(ctx, testRef)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrFetch)
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "github.com/acme/charts@main/charts/app/values.schema.json", fe.Ref)

	dir := testRef
	dir.Path = "charts"
	_, err = f.Fetch(ctx, dir)
	assert.ErrorIs(t, err, ErrNotAFile)

	_, err = f.Fetch(ctx, domain.PackageRef{Source: domain.SourceFile, Path: "x"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = f.Fetch(ctx, domain.PackageRef{Source: domain.SourceGitHub, Owner: "acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetcher_FetchRef(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/charts/contents/charts/common/defs.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fileJSON(`{"definitions":{}}`)))
	})
	f := newTestFetcher(t, mux)
	ctx := context.Background()

	data, err := f.FetchRef(ctx, testRef, "../common/defs.json")
	require.NoError(t, err)
	assert.Equal(t, `{"definitions":{}}`, string(data))

	tests := []struct {
		name string
		uri  string
		want error
	}{
		{"absolute url", "https://example.com/defs.json", domain.ErrUnsupportedType},
		{"rooted path", "/defs.json", domain.ErrUnsupportedType},
		{"escapes repository", "../../../defs.json", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FetchRef(ctx, testRef, tt.uri)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(0)
	assert.Equal(t, UnauthenticatedLimit, r.Remaining())

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "3")
	resp.Header.Set(HeaderRateReset, "1700000000")
	r.UpdateFromResponse(resp)

	assert.Equal(t, 3, r.Remaining())
	assert.Equal(t, int64(1700000000), r.ResetTime().Unix())

	// A reset in the past does not block.
	assert.NoError(t, r.Wait(context.Background()))
	r.UpdateFromResponse(nil)
}
