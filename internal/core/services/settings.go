package services

import (
	"time"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyAPIBaseURL    = "api.base_url"
	KeyMaxRetries    = "fetch.max_retries"
	KeyRatePerSecond = "fetch.rate_per_second"
	KeyGitHubToken   = "github.token"
	KeyCacheEnabled  = "cache.enabled"
	KeyCacheTTLHours = "cache.ttl_hours"
	KeySearchLimit   = "viewer.search_limit"
	KeyDataDir       = "data.dir"
)

// SettingKeys lists every recognised configuration key.
func SettingKeys() []string {
	return []string{
		KeyAPIBaseURL,
		KeyMaxRetries,
		KeyRatePerSecond,
		KeyGitHubToken,
		KeyCacheEnabled,
		KeyCacheTTLHours,
		KeySearchLimit,
		KeyDataDir,
	}
}

// LoadSettings reads application settings from cfg, falling back to
// domain.DefaultAppSettings for unset keys. A nil cfg yields the defaults.
func LoadSettings(cfg driven.ConfigStore) domain.AppSettings {
	s := domain.DefaultAppSettings()
	if cfg == nil {
		return s
	}

	if v := cfg.GetString(KeyAPIBaseURL); v != "" {
		s.Fetch.APIBaseURL = v
	}
	if _, ok := cfg.Get(KeyMaxRetries); ok {
		if v := cfg.GetInt(KeyMaxRetries); v >= 0 {
			s.Fetch.MaxRetries = v
		}
	}
	if v := cfg.GetFloat(KeyRatePerSecond); v > 0 {
		s.Fetch.RatePerSecond = v
	}
	s.Fetch.GitHubToken = cfg.GetString(KeyGitHubToken)

	if _, ok := cfg.Get(KeyCacheEnabled); ok {
		s.Cache.Enabled = cfg.GetBool(KeyCacheEnabled)
	}
	if _, ok := cfg.Get(KeyCacheTTLHours); ok {
		if v := cfg.GetInt(KeyCacheTTLHours); v >= 0 {
			s.Cache.TTL = time.Duration(v) * time.Hour
		}
	}

	if v := cfg.GetInt(KeySearchLimit); v > 0 {
		s.Viewer.SearchLimit = v
	}
	s.DataDir = cfg.GetString(KeyDataDir)
	return s
}
