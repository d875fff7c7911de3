// Package parse orchestrates the recipe pipeline: validation, fetching,
// the extractor chain, cleaning, German normalization and markdown
// rendering, for single URLs and concurrent batches.
package parse

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/rezept"
	"golang.org/x/sync/errgroup"
)

// Ensure Parser implements rezept.RecipeParser at compile time.
var _ rezept.RecipeParser = (*Parser)(nil)

// Parser turns recipe URLs into rendered markdown results.
//
// Extractors run in order over one record per URL; later extractors only
// fill what earlier ones left unset, so the structured extractor belongs
// first. Extractor and cleaner errors are not fatal.
type Parser struct {
	Fetcher     rezept.Fetcher
	Extractors  []rezept.Extractor
	Cleaner     rezept.Cleaner
	RateLimiter rezept.DomainLimiter

	// Concurrency caps parallel pipelines in ParseAll. Zero means one
	// goroutine per URL.
	Concurrency int

	// Progress, if set, receives events from ParseAll. Events are
	// delivered from a single goroutine.
	Progress ProgressFunc
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Result    *rezept.Result
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Parse runs the pipeline for a single URL. It never panics and never
// returns nil: every failure is reported in the result.
func (p *Parser) Parse(ctx context.Context, url string) (res *rezept.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = rezept.NewFailure(url, rezept.Errorf(rezept.EINTERNAL, "unexpected error: %v", r))
		}
	}()

	recipe, err := p.recipe(ctx, url)
	if err != nil {
		return rezept.NewFailure(url, err)
	}
	return rezept.NewSuccess(url, rezept.FormatMarkdown(recipe), rezept.NewMetadata(recipe))
}

// recipe fetches and extracts a normalized record for url.
func (p *Parser) recipe(ctx context.Context, url string) (*rezept.Recipe, error) {
	if !rezept.IsValidURL(url) {
		return nil, rezept.Errorf(rezept.EINVALID, "invalid url")
	}

	if err := ctx.Err(); err != nil {
		return nil, rezept.Errorf(rezept.EFETCH, "fetch error: %v", err)
	}
	if p.RateLimiter != nil {
		domain, _ := rezept.ExtractDomain(url)
		if err := p.RateLimiter.Wait(ctx, domain); err != nil {
			return nil, rezept.Errorf(rezept.EFETCH, "fetch error: %v", err)
		}
	}
	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, rezept.Errorf(rezept.EFETCH, "fetch error: %v", err)
	}

	recipe := rezept.NewRecipe(url)
	for _, e := range p.Extractors {
		_ = e.Extract(html, recipe)
	}
	if p.Cleaner != nil {
		_ = p.Cleaner.Clean(recipe)
	}
	if !recipe.HasContent() {
		return nil, rezept.Errorf(rezept.ENOCONTENT, "no recipe content found")
	}

	recipe.Normalize()
	return recipe, nil
}

// indexedResult carries a result back to the collector with its position.
type indexedResult struct {
	position int
	result   *rezept.Result
}

// ParseAll parses urls concurrently and returns one result per URL in
// input order. A failing URL never affects the others. When ctx is
// canceled the remaining URLs fail with a fetch error.
func (p *Parser) ParseAll(ctx context.Context, urls []string) []*rezept.Result {
	total := len(urls)
	results := make([]*rezept.Result, total)
	p.notify(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan indexedResult, total)

	var g errgroup.Group
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	go func() {
		for i, url := range urls {
			g.Go(func() error {
				resultCh <- indexedResult{position: i, result: p.Parse(ctx, url)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	for r := range resultCh {
		results[r.position] = r.result
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Add(1)),
			Total:     total,
			URL:       r.result.URL,
			Result:    r.result,
		}
		if !r.result.Success {
			event.Type = ProgressFailed
		}
		p.notify(event)
	}

	p.notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return results
}

func (p *Parser) notify(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}
