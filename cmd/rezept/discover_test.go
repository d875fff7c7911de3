package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/rezept"
	main "github.com/fwojciec/rezept/cmd/rezept"
	"github.com/fwojciec/rezept/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("uses the default recipe pattern", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *rezept.URLFilter) ([]string, error) {
				assert.Equal(t, "https://fooby.ch", baseURL)
				assert.True(t, filter.Match("https://fooby.ch/de/rezepte/1"))
				assert.False(t, filter.Match("https://fooby.ch/de/impressum"))
				return []string{"https://fooby.ch/de/rezepte/1", "https://fooby.ch/de/rezepte/2"}, nil
			},
		}

		err := (&main.DiscoverCmd{Site: "https://fooby.ch"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://fooby.ch/de/rezepte/1\nhttps://fooby.ch/de/rezepte/2\n", stdout.String())
		assert.Contains(t, stderr.String(), "Found 2 recipe URLs")
	})

	t.Run("passes custom and exclude filters", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *rezept.URLFilter) ([]string, error) {
				assert.True(t, filter.Match("https://a.example/kochen/1"))
				assert.False(t, filter.Match("https://a.example/kochen/tag/1"))
				assert.False(t, filter.Match("https://a.example/rezepte/1"))
				return nil, nil
			},
		}

		err := (&main.DiscoverCmd{Site: "https://a.example", Filter: []string{"/kochen/"}, Exclude: []string{"/tag/"}}).Run(deps)

		require.NoError(t, err)
	})

	t.Run("includes everything with --all", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *rezept.URLFilter) ([]string, error) {
				assert.True(t, filter.Match("https://a.example/impressum"))
				return nil, nil
			},
		}

		require.NoError(t, (&main.DiscoverCmd{Site: "https://a.example", All: true}).Run(deps))
	})

	t.Run("rejects invalid filter patterns", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)

		err := (&main.DiscoverCmd{Site: "https://a.example", Filter: []string{"("}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, rezept.EINVALID, rezept.ErrorCode(err))
	})
}
