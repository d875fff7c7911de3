package http

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/rezept"
)

// DefaultMaxSitemaps bounds how many sitemap documents one discovery may
// fetch. Large recipe portals split their sitemaps into hundreds of files.
const DefaultMaxSitemaps = 200

// Ensure SitemapService implements rezept.SitemapService.
var _ rezept.SitemapService = (*SitemapService)(nil)

// SitemapService discovers recipe page URLs from website sitemaps via HTTP.
// Gzip-compressed sitemaps are supported.
type SitemapService struct {
	client      *http.Client
	maxSitemaps int
	config
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with the configured timeout is used.
func NewSitemapService(client *http.Client, opts ...Option) *SitemapService {
	s := &SitemapService{
		client:      client,
		maxSitemaps: DefaultMaxSitemaps,
		config:      defaultConfig(),
	}
	for _, opt := range opts {
		opt(&s.config)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s
}

// DiscoverURLs lists page URLs from the site's sitemaps, deduplicated and
// in sitemap order. Returns an empty slice (not nil) if no sitemaps are
// found.
//
// When baseURL has a non-root path (e.g., https://example.com/de/rezepte/),
// only URLs below that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *rezept.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, rezept.Errorf(rezept.EINVALID, "invalid base URL: %q", baseURL)
	}
	pathPrefix := strings.TrimSuffix(base.Path, "/")

	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	sitemapURLs, err := s.findSitemapURLs(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:    s,
		seen:   make(map[string]bool),
		urls:   []string{},
		unique: make(map[string]bool),
		keep: func(u string) bool {
			return hasPathPrefix(u, pathPrefix) && filter.Match(u)
		},
	}
	for _, sitemapURL := range sitemapURLs {
		if err := w.visit(ctx, sitemapURL); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// hasPathPrefix reports whether rawURL lies below prefix, respecting path
// segment boundaries: /rezepte matches /rezepte/1 but not /rezepteliste.
func hasPathPrefix(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Path == prefix || strings.HasPrefix(parsed.Path, prefix+"/")
}

// findSitemapURLs reads Sitemap: directives from robots.txt and falls back
// to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.sitemapsFromRobots(ctx, robotsURL); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := s.get(ctx, s.client, robotsURL, "text/plain")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(io.LimitReader(resp.Body, s.maxBodySize))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if key, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			if v := strings.TrimSpace(value); v != "" {
				sitemaps = append(sitemaps, v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// sitemapWalk is the state of one discovery run.
type sitemapWalk struct {
	svc    *SitemapService
	seen   map[string]bool
	urls   []string
	unique map[string]bool
	keep   func(string) bool
}

// visit fetches a sitemap and records its page URLs, descending into
// sitemap indexes. A missing sitemap is skipped; a malformed one is an error.
func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.seen[sitemapURL] || len(w.seen) >= w.svc.maxSitemaps {
		return nil
	}
	w.seen[sitemapURL] = true

	root, err := w.svc.readSitemap(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isNotFound(err) {
			return nil
		}
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, loc := range locs(root, "sitemap") {
			if err := w.visit(ctx, loc); err != nil {
				return err
			}
		}
	case "urlset":
		for _, loc := range locs(root, "url") {
			if !w.unique[loc] && w.keep(loc) {
				w.unique[loc] = true
				w.urls = append(w.urls, loc)
			}
		}
	default:
		return fmt.Errorf("unexpected sitemap root <%s> in %s", root.Tag, sitemapURL)
	}
	return nil
}

// readSitemap fetches and parses one sitemap document, transparently
// decompressing gzip payloads.
func (s *SitemapService) readSitemap(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	resp, err := s.get(ctx, s.client, sitemapURL, "application/xml,text/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", sitemapURL, err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(io.LimitReader(zr, s.maxBodySize)); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", sitemapURL, err)
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML: %s", sitemapURL)
	}
	return root, nil
}

// locs returns the trimmed <loc> texts of the given child elements.
func locs(root *etree.Element, child string) []string {
	var out []string
	for _, el := range root.SelectElements(child) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func isNotFound(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone
}
