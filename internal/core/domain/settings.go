package domain

import "time"

const unknownDescription = "Unknown"

// Default setting values.
const (
	DefaultAPIBaseURL    = "https://artifacthub.io"
	DefaultMaxRetries    = 3
	DefaultRatePerSecond = 5.0
	DefaultCacheTTL      = 24 * time.Hour
	DefaultMaxNodes      = 100000
)

// FetchSettings holds schema transport configuration.
type FetchSettings struct {
	// APIBaseURL is the Artifact Hub endpoint.
	APIBaseURL string

	// MaxRetries bounds retries of transient failures.
	MaxRetries int

	// RatePerSecond throttles outgoing requests.
	RatePerSecond float64

	// GitHubToken authenticates GitHub reads. Empty means anonymous.
	GitHubToken string
}

// CacheSettings holds raw schema cache configuration.
type CacheSettings struct {
	// Enabled turns the cache on.
	Enabled bool

	// TTL is how long a cached schema is served before refetching.
	TTL time.Duration
}

// ViewerSettings holds viewer behaviour configuration.
type ViewerSettings struct {
	// SearchLimit caps path suggestions.
	SearchLimit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Fetch  FetchSettings
	Cache  CacheSettings
	Viewer ViewerSettings

	// DataDir holds the database and config file.
	DataDir string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Fetch: FetchSettings{
			APIBaseURL:    DefaultAPIBaseURL,
			MaxRetries:    DefaultMaxRetries,
			RatePerSecond: DefaultRatePerSecond,
		},
		Cache: CacheSettings{
			Enabled: true,
			TTL:     DefaultCacheTTL,
		},
		Viewer: ViewerSettings{
			SearchLimit: DefaultSearchLimit,
		},
	}
}
