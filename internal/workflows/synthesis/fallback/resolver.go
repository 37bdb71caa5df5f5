// internal/workflows/synthesis/fallback/resolver.go
package fallback

import (
	"context"

	"siteforge/internal/common/metrics"
	"siteforge/internal/workflows/synthesis/imagesearch"
)

// Resolution tiers, in the order they are tried.
const (
	TierPrimary   = "primary"
	TierSecondary = "secondary"
	TierTertiary  = "tertiary"
	TierDefault   = "default"
)

// Generator is the primary generative image source.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SecondarySearcher is the second-tier stock photo search.
type SecondarySearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// TertiarySearcher is the last-tier stock photo search. Its hits are ranked
// before use.
type TertiarySearcher interface {
	Search(ctx context.Context, query string) ([]imagesearch.Hit, error)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Slot describes one image position to fill.
type Slot struct {
	Category string // hero, industryValue, credentials, ourWork
	Prompt   string // generative prompt for the primary tier
	Query    string // search query for the stock tiers
}

// Result is a resolved image slot. HitID is set only when the tertiary tier
// supplied the image, so callers can exclude it from later slots.
type Result struct {
	URI   string
	Tier  string
	HitID string
}

// Static fallbacks keep the page visually complete when every provider is
// down. Keyed by slot category.
var defaultImages = map[string]string{
	"hero":          "https://images.unsplash.com/photo-1504307651254-35680f356dfd?w=1600",
	"industryValue": "https://images.unsplash.com/photo-1581578731548-c64695cc6952?w=1200",
	"credentials":   "https://images.unsplash.com/photo-1521791136064-7986c2920216?w=1200",
	"ourWork":       "https://images.unsplash.com/photo-1503387762-592deb58ef4e?w=1200",
}

const genericDefault = "https://images.unsplash.com/photo-1504307651254-35680f356dfd?w=1600"

// Resolver walks the image fallback chain for each slot. It never returns
// an error and never an empty URI; provider failures only move it down a
// tier.
type Resolver struct {
	generator Generator
	secondary SecondarySearcher
	tertiary  TertiarySearcher
	logger    Logger
}

func NewResolver(gen Generator, sec SecondarySearcher, ter TertiarySearcher, log Logger) *Resolver {
	return &Resolver{
		generator: gen,
		secondary: sec,
		tertiary:  ter,
		logger: log.With(map[string]interface{}{
			"component": "image-fallback",
		}),
	}
}

// Resolve fills one slot. A tier that succeeds short-circuits the rest;
// excludeIDs keeps earlier tertiary picks from repeating across slots.
func (r *Resolver) Resolve(ctx context.Context, slot Slot, excludeIDs map[string]bool) Result {
	if r.generator != nil {
		uri, err := r.generator.Generate(ctx, slot.Prompt)
		if err == nil && uri != "" {
			return r.resolved(slot, Result{URI: uri, Tier: TierPrimary})
		}
		if err != nil {
			r.logger.Warn("primary image tier failed", map[string]interface{}{
				"category": slot.Category,
				"error":    err.Error(),
			})
		}
	}

	if r.secondary != nil {
		uri, err := r.secondary.Search(ctx, slot.Query)
		if err == nil && uri != "" {
			return r.resolved(slot, Result{URI: uri, Tier: TierSecondary})
		}
		if err != nil {
			r.logger.Warn("secondary image tier failed", map[string]interface{}{
				"category": slot.Category,
				"error":    err.Error(),
			})
		}
	}

	if r.tertiary != nil {
		hits, err := r.tertiary.Search(ctx, slot.Query)
		if err == nil {
			ranked := imagesearch.RankHits(hits, slot.Query, 1, excludeIDs)
			if len(ranked) > 0 {
				return r.resolved(slot, Result{URI: ranked[0].URL, Tier: TierTertiary, HitID: ranked[0].ID})
			}
		} else {
			r.logger.Warn("tertiary image tier failed", map[string]interface{}{
				"category": slot.Category,
				"error":    err.Error(),
			})
		}
	}

	return r.resolved(slot, Result{URI: defaultImage(slot.Category), Tier: TierDefault})
}

func (r *Resolver) resolved(slot Slot, res Result) Result {
	metrics.ImageFallbackTier.WithLabelValues(slot.Category, res.Tier).Inc()
	r.logger.Info("image slot resolved", map[string]interface{}{
		"category": slot.Category,
		"tier":     res.Tier,
	})
	return res
}

func defaultImage(category string) string {
	if uri, ok := defaultImages[category]; ok {
		return uri
	}
	return genericDefault
}
