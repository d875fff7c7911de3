package mock

import (
	"context"

	"github.com/fwojciec/rezept"
)

var _ rezept.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of rezept.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *rezept.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *rezept.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
