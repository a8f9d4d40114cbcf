// Package config loads the process-wide resolver settings from the
// environment. Settings are read once at startup; changing them requires a
// restart (hookset bindings are memoized for the process lifetime).
package config

import (
	"os"
	"strconv"

	"github.com/scaife-viewer/ctsresolver/core/cache"
	"github.com/scaife-viewer/ctsresolver/core/urn"
)

// Environment variable names.
const (
	EnvAllowTrailingColon = "ALLOW_TRAILING_COLON"
	EnvHookset            = "HOOKSET"
	EnvResolverCacheLabel = "RESOLVER_CACHE_LABEL"
	EnvUseCloudIndexer    = "USE_CLOUD_INDEXER"
)

// DefaultHooksetPath is the baseline hookset selected when HOOKSET is unset.
// Kept in sync with the hookset package's DefaultPath.
const DefaultHooksetPath = "ctsresolver.hooks.DefaultHookset"

// Settings holds the resolver configuration surface.
type Settings struct {
	// AllowTrailingColon retains a bare trailing colon during URN
	// normalization. Default false.
	AllowTrailingColon bool

	// HooksetPath is the dotted path of the hookset implementation.
	HooksetPath string

	// ResolverCacheLabel is the cache partition for resolution results.
	ResolverCacheLabel string

	// UseCloudIndexer selects cloud-specific index-metadata fields. It
	// never affects resolution logic.
	UseCloudIndexer bool
}

// Default returns the settings used when no environment is present.
func Default() Settings {
	return Settings{
		AllowTrailingColon: false,
		HooksetPath:        DefaultHooksetPath,
		ResolverCacheLabel: cache.DefaultResolverLabel,
		UseCloudIndexer:    false,
	}
}

// FromEnv reads settings from the environment, falling back to defaults.
// Unparsable booleans fall back to their defaults rather than failing.
func FromEnv() Settings {
	s := Default()
	s.AllowTrailingColon = envBool(EnvAllowTrailingColon, s.AllowTrailingColon)
	s.UseCloudIndexer = envBool(EnvUseCloudIndexer, s.UseCloudIndexer)
	if v := os.Getenv(EnvHookset); v != "" {
		s.HooksetPath = v
	}
	if v := os.Getenv(EnvResolverCacheLabel); v != "" {
		s.ResolverCacheLabel = v
	}
	return s
}

// Policy returns the URN normalization policy implied by the settings.
func (s Settings) Policy() urn.NormalizationPolicy {
	return urn.NormalizationPolicy{AllowTrailingColon: s.AllowTrailingColon}
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
