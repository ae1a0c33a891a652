// Package scoring defines the per-signal weight table. A Config is built once
// at startup, shared read-only by every concurrent match, and never mutated.
package scoring

import (
	"log/slog"
	"os"
	"strconv"
)

// Config maps each query signal to the weight the backend folds into its
// relevance score. Copied by value into the query builder.
type Config struct {
	DomainExact            float64
	DomainWildcard         float64
	Phone                  float64
	NameCommercial         float64
	NameLegal              float64
	SocialExact            float64
	SocialWildcard         float64
	SocialClean            float64
	SocialFuzzy            float64
	InferredDomainExact    float64
	InferredDomainWildcard float64
}

// Default returns the standard weight table. Exact social URL matches
// dominate, exact domain matches outrank substring ones, and fuzzy name
// matches sit at the bottom as the least reliable signal.
func Default() Config {
	return Config{
		DomainExact:            8.0,
		DomainWildcard:         6.0,
		Phone:                  5.0,
		NameCommercial:         2.0,
		NameLegal:              1.5,
		SocialExact:            25.0,
		SocialWildcard:         20.0,
		SocialClean:            20.0,
		SocialFuzzy:            10.0,
		InferredDomainExact:    8.0,
		InferredDomainWildcard: 7.0,
	}
}

// FromEnv returns Default overridden by MATCH_WEIGHT_* environment variables.
// Non-numeric or non-positive overrides are ignored with a warning, keeping
// the default.
func FromEnv(logger *slog.Logger) Config {
	cfg := Default()
	override(logger, "MATCH_WEIGHT_DOMAIN_EXACT", &cfg.DomainExact)
	override(logger, "MATCH_WEIGHT_DOMAIN_WILDCARD", &cfg.DomainWildcard)
	override(logger, "MATCH_WEIGHT_PHONE", &cfg.Phone)
	override(logger, "MATCH_WEIGHT_NAME_COMMERCIAL", &cfg.NameCommercial)
	override(logger, "MATCH_WEIGHT_NAME_LEGAL", &cfg.NameLegal)
	override(logger, "MATCH_WEIGHT_SOCIAL_EXACT", &cfg.SocialExact)
	override(logger, "MATCH_WEIGHT_SOCIAL_WILDCARD", &cfg.SocialWildcard)
	override(logger, "MATCH_WEIGHT_SOCIAL_CLEAN", &cfg.SocialClean)
	override(logger, "MATCH_WEIGHT_SOCIAL_FUZZY", &cfg.SocialFuzzy)
	override(logger, "MATCH_WEIGHT_INFERRED_DOMAIN_EXACT", &cfg.InferredDomainExact)
	override(logger, "MATCH_WEIGHT_INFERRED_DOMAIN_WILDCARD", &cfg.InferredDomainWildcard)
	return cfg
}

func override(logger *slog.Logger, key string, target *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		if logger != nil {
			logger.Warn("ignoring invalid weight override", "key", key, "value", v)
		}
		return
	}
	*target = f
}
