// Package resolver turns sampled page text into icon descriptors. It prefers
// model concepts, then deterministic keywords, then configured defaults.
package resolver

import (
	"context"
	"time"

	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/logger"
)

// Source names the stage that produced a resolution
type Source string

const (
	SourceModel         Source = "model"
	SourceKeywords      Source = "keywords"
	SourceDefaults      Source = "defaults"
	SourceFallbackIcons Source = "fallback_icons"
)

// DefaultMaxConcepts bounds the concept list
const DefaultMaxConcepts = 5

// ConceptModel is the optional generative concept source
type ConceptModel interface {
	Ready() bool
	ExtractConcepts(ctx context.Context, text string, max int) []string
}

// KeywordSource is the deterministic concept source
type KeywordSource interface {
	Extract(text string) []string
	IconFor(concept string) (string, bool)
}

// Resolution is the outcome of one resolve call
type Resolution struct {
	Icons    []catalog.IconDescriptor `json:"icons"`
	Concepts []string                 `json:"concepts"`
	Source   Source                   `json:"source"`
	Duration time.Duration            `json:"duration"`
}

// Options configures the fallback tail of the chain
type Options struct {
	MaxConcepts      int
	FallbackConcepts []string
	FallbackIcons    []string
}

// Resolver orchestrates concept extraction and icon mapping
type Resolver struct {
	model    ConceptModel
	keywords KeywordSource
	catalog  *catalog.Catalog
	opts     Options
	log      *logger.Logger
}

// New creates a resolver. model may be nil.
func New(model ConceptModel, keywords KeywordSource, cat *catalog.Catalog, opts Options, log *logger.Logger) *Resolver {
	if cat == nil {
		cat = catalog.New()
	}
	if opts.MaxConcepts <= 0 {
		opts.MaxConcepts = DefaultMaxConcepts
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{
		model:    model,
		keywords: keywords,
		catalog:  cat,
		opts:     opts,
		log:      log.WithComponent("resolver"),
	}
}

// Resolve maps text to icons. It never fails and never returns an empty
// icon list.
func (r *Resolver) Resolve(ctx context.Context, text string) *Resolution {
	start := time.Now()
	res := r.resolve(ctx, text)
	res.Duration = time.Since(start)

	r.log.DebugWithFields("Resolved icons", []logger.Field{
		logger.F("source", string(res.Source)),
		logger.F("concepts", res.Concepts),
		logger.F("icons", catalog.Names(res.Icons)),
		logger.Duration(res.Duration),
	})
	return res
}

func (r *Resolver) resolve(ctx context.Context, text string) *Resolution {
	if r.model != nil && r.model.Ready() {
		if concepts := limit(r.model.ExtractConcepts(ctx, text, r.opts.MaxConcepts), r.opts.MaxConcepts); len(concepts) > 0 {
			return r.finish(concepts, r.catalog.ResolveAll(concepts), SourceModel)
		}
		r.log.Debug("Model returned no concepts, using keywords")
	}

	if r.keywords != nil {
		if concepts := limit(r.keywords.Extract(text), r.opts.MaxConcepts); len(concepts) > 0 {
			icons := make([]catalog.IconDescriptor, 0, len(concepts))
			for _, concept := range concepts {
				pinned, _ := r.keywords.IconFor(concept)
				icons = append(icons, r.catalog.ResolvePinned(concept, pinned))
			}
			return r.finish(concepts, icons, SourceKeywords)
		}
	}

	concepts := limit(nonBlank(r.opts.FallbackConcepts), r.opts.MaxConcepts)
	return r.finish(concepts, r.catalog.ResolveAll(concepts), SourceDefaults)
}

// finish substitutes the configured fallback icons when mapping produced nothing
func (r *Resolver) finish(concepts []string, icons []catalog.IconDescriptor, source Source) *Resolution {
	if len(icons) == 0 {
		icons = catalog.Fallback(r.opts.FallbackIcons)
		source = SourceFallbackIcons
		if len(icons) == 0 {
			icons = []catalog.IconDescriptor{r.catalog.Default()}
		}
	}
	if concepts == nil {
		concepts = []string{}
	}
	return &Resolution{Icons: icons, Concepts: concepts, Source: source}
}

func limit(concepts []string, max int) []string {
	if len(concepts) > max {
		return concepts[:max]
	}
	return concepts
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
