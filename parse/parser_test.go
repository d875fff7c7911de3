package parse_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/rezept"
	"github.com/fwojciec/rezept/goquery"
	rezepthttp "github.com/fwojciec/rezept/http"
	"github.com/fwojciec/rezept/mock"
	"github.com/fwojciec/rezept/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticFetcher returns the same HTML for every URL.
func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, nil
		},
	}
}

// fillExtractor sets fields on the record unless already set.
func fillExtractor(src *rezept.Recipe) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ string, r *rezept.Recipe) error {
			r.Merge(src)
			return nil
		},
	}
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("renders a normalized recipe", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{
				Title:        "Rösti",
				PrepTime:     "PT15M",
				CookTime:     "30 minuten",
				Servings:     "4",
				Ingredients:  []string{"1 kg Kartoffeln"},
				Instructions: []string{"Reiben.", "Braten."},
			})},
		}

		res := p.Parse(context.Background(), "https://fooby.ch/rezepte/roesti")

		require.True(t, res.Success, res.Error)
		assert.Empty(t, res.Error)
		assert.Equal(t, "https://fooby.ch/rezepte/roesti", res.URL)
		assert.Contains(t, res.Content, "## Rösti\n")
		assert.Contains(t, res.Content, "**Vorbereitungszeit:** 15 Min\n")
		assert.Contains(t, res.Content, "**Kochzeit:** 30 Min\n")
		assert.Contains(t, res.Content, "**Portionen:** 4 Portionen\n")
		assert.Contains(t, res.Content, "1. Reiben.\n2. Braten.\n")
		require.NotNil(t, res.Meta)
		assert.Equal(t, "Rösti", res.Meta.Title)
	})

	t.Run("fails invalid URL without fetching", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Bool
		p := &parse.Parser{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetched.Store(true)
					return "", nil
				},
			},
		}

		res := p.Parse(context.Background(), "recipe.html")

		assert.False(t, res.Success)
		assert.Equal(t, "invalid url", res.Error)
		assert.Equal(t, rezept.EINVALID, res.Code)
		assert.Empty(t, res.Content)
		assert.False(t, fetched.Load())
	})

	t.Run("reports fetch errors without extracting", func(t *testing.T) {
		t.Parallel()

		var extracted atomic.Bool
		p := &parse.Parser{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("HTTP 503 for https://example.com/r")
				},
			},
			Extractors: []rezept.Extractor{&mock.Extractor{
				ExtractFn: func(_ string, _ *rezept.Recipe) error {
					extracted.Store(true)
					return nil
				},
			}},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		assert.False(t, res.Success)
		assert.Equal(t, "fetch error: HTTP 503 for https://example.com/r", res.Error)
		assert.Equal(t, rezept.EFETCH, res.Code)
		assert.False(t, extracted.Load())
	})

	t.Run("fails when no ingredients or instructions are found", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher:    staticFetcher("<html><body><h1>Impressum</h1></body></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Title: "Impressum"})},
		}

		res := p.Parse(context.Background(), "https://example.com/impressum")

		assert.False(t, res.Success)
		assert.Equal(t, "no recipe content found", res.Error)
		assert.Equal(t, rezept.ENOCONTENT, res.Code)
	})

	t.Run("continues past failing extractors", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{
				&mock.Extractor{ExtractFn: func(_ string, _ *rezept.Recipe) error {
					return errors.New("broken")
				}},
				fillExtractor(&rezept.Recipe{Ingredients: []string{"Salz"}}),
			},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		assert.True(t, res.Success)
	})

	t.Run("earlier extractors take precedence", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{
				fillExtractor(&rezept.Recipe{Title: "Strukturiert", Ingredients: []string{"A"}}),
				fillExtractor(&rezept.Recipe{Title: "Heuristisch", Ingredients: []string{"B"}, Instructions: []string{"C"}}),
			},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		require.True(t, res.Success)
		assert.Contains(t, res.Content, "## Strukturiert\n")
		assert.Contains(t, res.Content, "- A\n")
		assert.NotContains(t, res.Content, "- B")
		assert.Contains(t, res.Content, "1. C\n")
	})

	t.Run("checks content after cleaning", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher:    staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"<br>"}})},
			Cleaner: &mock.Cleaner{CleanFn: func(r *rezept.Recipe) error {
				r.SetIngredients(nil)
				return nil
			}},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		assert.Equal(t, rezept.ENOCONTENT, res.Code)
	})

	t.Run("waits on the rate limiter with the domain", func(t *testing.T) {
		t.Parallel()

		var domain string
		p := &parse.Parser{
			Fetcher:    staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"x"}})},
			RateLimiter: &mock.DomainLimiter{WaitFn: func(_ context.Context, d string) error {
				domain = d
				return nil
			}},
		}

		res := p.Parse(context.Background(), "https://www.chefkoch.de:443/rezepte/1")

		assert.True(t, res.Success)
		assert.Equal(t, "www.chefkoch.de", domain)
	})

	t.Run("reports rate limiter cancellation as fetch error", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: staticFetcher("<html></html>"),
			RateLimiter: &mock.DomainLimiter{WaitFn: func(_ context.Context, _ string) error {
				return context.Canceled
			}},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		assert.Equal(t, rezept.EFETCH, res.Code)
		assert.True(t, strings.HasPrefix(res.Error, "fetch error: "))
	})

	t.Run("recovers from panics", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{&mock.Extractor{ExtractFn: func(_ string, _ *rezept.Recipe) error {
				panic("boom")
			}}},
		}

		res := p.Parse(context.Background(), "https://example.com/r")

		assert.False(t, res.Success)
		assert.Equal(t, rezept.EINTERNAL, res.Code)
		assert.Equal(t, "unexpected error: boom", res.Error)
	})
}

func TestParser_ParseAll(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order regardless of completion order", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://example.com/slow",
			"https://example.com/fast",
			"https://example.com/medium",
		}
		delays := map[string]time.Duration{
			urls[0]: 60 * time.Millisecond,
			urls[1]: 0,
			urls[2]: 30 * time.Millisecond,
		}
		p := &parse.Parser{
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				time.Sleep(delays[url])
				return url, nil
			}},
			Extractors: []rezept.Extractor{&mock.Extractor{ExtractFn: func(html string, r *rezept.Recipe) error {
				r.AddIngredient(html)
				return nil
			}}},
		}

		results := p.ParseAll(context.Background(), urls)

		require.Len(t, results, 3)
		for i, res := range results {
			assert.Equal(t, urls[i], res.URL)
			assert.True(t, res.Success)
			assert.Contains(t, res.Content, "- "+urls[i]+"\n")
		}
	})

	t.Run("isolates failures per URL", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				if strings.HasSuffix(url, "/down") {
					return "", errors.New("connection refused")
				}
				return "<html></html>", nil
			}},
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"Mehl"}})},
		}

		results := p.ParseAll(context.Background(), []string{
			"https://a.example/ok",
			"not a url",
			"https://b.example/down",
			"https://c.example/ok",
		})

		require.Len(t, results, 4)
		assert.True(t, results[0].Success)
		assert.Equal(t, "invalid url", results[1].Error)
		assert.Equal(t, "fetch error: connection refused", results[2].Error)
		assert.True(t, results[3].Success)
	})

	t.Run("returns empty slice for no URLs", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{Fetcher: staticFetcher("")}

		results := p.ParseAll(context.Background(), nil)

		assert.Empty(t, results)
	})

	t.Run("keeps duplicates as separate results", func(t *testing.T) {
		t.Parallel()

		p := &parse.Parser{
			Fetcher:    staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"x"}})},
		}

		results := p.ParseAll(context.Background(), []string{"https://a.example/r", "https://a.example/r"})

		require.Len(t, results, 2)
		assert.Equal(t, results[0].Content, results[1].Content)
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var inFlight, peak int
		p := &parse.Parser{
			Concurrency: 2,
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, _ string) (string, error) {
				mu.Lock()
				inFlight++
				peak = max(peak, inFlight)
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				mu.Lock()
				inFlight--
				mu.Unlock()
				return "", nil
			}},
		}

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://example.com/%d", i)
		}
		results := p.ParseAll(context.Background(), urls)

		assert.Len(t, results, 8)
		assert.LessOrEqual(t, peak, 2)
	})

	t.Run("fails every URL after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := &parse.Parser{
			Fetcher:    staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"x"}})},
		}

		results := p.ParseAll(ctx, []string{"https://a.example/1", "https://a.example/2"})

		require.Len(t, results, 2)
		for _, res := range results {
			assert.Equal(t, rezept.EFETCH, res.Code)
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		var events []parse.ProgressEvent
		p := &parse.Parser{
			Fetcher:    staticFetcher("<html></html>"),
			Extractors: []rezept.Extractor{fillExtractor(&rezept.Recipe{Ingredients: []string{"x"}})},
			Progress: func(e parse.ProgressEvent) {
				events = append(events, e)
			},
		}

		p.ParseAll(context.Background(), []string{"https://a.example/1", "invalid"})

		require.Len(t, events, 4)
		assert.Equal(t, parse.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.ElementsMatch(t,
			[]parse.ProgressType{parse.ProgressCompleted, parse.ProgressFailed},
			[]parse.ProgressType{events[1].Type, events[2].Type})
		assert.Equal(t, 2, events[2].Completed)
		assert.Equal(t, parse.ProgressFinished, events[3].Type)
	})
}

func TestParser_EndToEnd(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/rezepte/spaetzle": `<!DOCTYPE html>
<html lang="de"><head>
<title>Käsespätzle | Kochblog</title>
<script type="application/ld+json">{
  "@context": "https://schema.org",
  "@type": "Recipe",
  "name": "Käsespätzle",
  "description": "Schwäbisch und deftig.",
  "prepTime": "PT20M",
  "cookTime": "PT1H",
  "recipeYield": "4",
  "recipeIngredient": ["400 g Spätzle", "200 g Bergkäse", "2 Zwiebeln"]
}</script>
</head><body>
<article class="rezept">
  <h1>Käsespätzle nach Omas Art</h1>
  <div class="zubereitung"><ol>
    <li>Zwiebeln in Ringe schneiden und anrösten.</li>
    <li>Spätzle und Käse schichten.</li>
    <li>Im Ofen überbacken.</li>
  </ol></div>
</article>
</body></html>`,
		"/kontakt": `<html><body><h1>Kontakt</h1><p>Schreiben Sie uns.</p></body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	p := &parse.Parser{
		Fetcher: rezepthttp.NewFetcher(),
		Extractors: []rezept.Extractor{
			goquery.NewStructuredExtractor(),
			goquery.NewHeuristicExtractor(),
		},
		Concurrency: 2,
	}

	results := p.ParseAll(context.Background(), []string{
		srv.URL + "/rezepte/spaetzle",
		srv.URL + "/kontakt",
		srv.URL + "/fehlt",
	})

	require.Len(t, results, 3)

	want := `# Rezept

## Käsespätzle

**Quelle:** ` + srv.URL + `/rezepte/spaetzle

## Beschreibung
Schwäbisch und deftig.

## Rezept-Details
**Vorbereitungszeit:** 20 Min
**Kochzeit:** 1 Std
**Portionen:** 4 Portionen

## Zutaten
- 400 g Spätzle
- 200 g Bergkäse
- 2 Zwiebeln

## Zubereitung
1. Zwiebeln in Ringe schneiden und anrösten.
2. Spätzle und Käse schichten.
3. Im Ofen überbacken.
`
	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, want, results[0].Content)

	assert.False(t, results[1].Success)
	assert.Equal(t, "no recipe content found", results[1].Error)

	assert.False(t, results[2].Success)
	assert.Equal(t, rezept.EFETCH, results[2].Code)
	assert.Contains(t, results[2].Error, "404")
}
