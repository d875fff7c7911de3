package mock

import (
	"context"

	"github.com/fwojciec/rezept"
)

var (
	_ rezept.RecipeParser  = (*RecipeParser)(nil)
	_ rezept.DomainLimiter = (*DomainLimiter)(nil)
)

// RecipeParser is a mock implementation of rezept.RecipeParser.
type RecipeParser struct {
	ParseFn    func(ctx context.Context, url string) *rezept.Result
	ParseAllFn func(ctx context.Context, urls []string) []*rezept.Result
}

func (p *RecipeParser) Parse(ctx context.Context, url string) *rezept.Result {
	return p.ParseFn(ctx, url)
}

func (p *RecipeParser) ParseAll(ctx context.Context, urls []string) []*rezept.Result {
	return p.ParseAllFn(ctx, urls)
}

// DomainLimiter is a mock implementation of rezept.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
