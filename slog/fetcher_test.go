package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/rezept/mock"
	rezeptslog "github.com/fwojciec/rezept/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	const page = `<html><script type="application/ld+json">{"@type":"Recipe","name":"Zopf"}</script></html>`

	t.Run("logs site and page size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return page, nil },
		}

		html, err := rezeptslog.NewLoggingFetcher(inner, logger).
			Fetch(context.Background(), "https://www.chefkoch.de/rezepte/1/zopf.html")

		require.NoError(t, err)
		assert.Equal(t, page, html)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, `msg="fetch recipe page"`)
		assert.Contains(t, output, "site=www.chefkoch.de")
		assert.Contains(t, output, "bytes="+strconv.Itoa(len(page)))
		assert.NotContains(t, output, "err=")
	})

	t.Run("decodes internationalized domains", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "", nil },
		}

		_, err := rezeptslog.NewLoggingFetcher(inner, logger).
			Fetch(context.Background(), "https://xn--kche-0ra.de/rezept")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "site=küche.de")
	})

	t.Run("logs failures at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("HTTP 503 for https://fooby.ch/de/rezepte/1")
			},
		}

		_, err := rezeptslog.NewLoggingFetcher(inner, logger).
			Fetch(context.Background(), "https://fooby.ch/de/rezepte/1")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "site=fooby.ch")
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, `err="HTTP 503 for https://fooby.ch/de/rezepte/1"`)
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closed = true
			return errors.New("browser already closed")
		},
	}

	err := rezeptslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&strings.Builder{}, nil))).Close()

	require.EqualError(t, err, "browser already closed")
	assert.True(t, closed)
}
