package main_test

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/rezept/cmd/rezept"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"parse", "load", "import", "search", "count", "discover"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParseFlags(t *testing.T) {
	t.Parallel()

	newParser := func(t *testing.T, cli *main.CLI) *kong.Kong {
		t.Helper()
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)
		return parser
	}

	t.Run("applies fetch defaults", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		_, err := newParser(t, cli).Parse([]string{"parse", "https://a.example/r"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example/r"}, cli.Parse.URLs)
		assert.Equal(t, 5, cli.Parse.Concurrency)
		assert.Equal(t, "10s", cli.Parse.Timeout.String())
		assert.Equal(t, 1.0, cli.Parse.Rate)
		assert.Zero(t, cli.Parse.Retries)
		assert.False(t, cli.Parse.Browser)
	})

	t.Run("parses shared and command flags", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		_, err := newParser(t, cli).Parse([]string{
			"-v", "load", "-c", "2", "--timeout", "30s", "--rate", "0", "--browser",
			"https://a.example/1", "https://a.example/2",
		})

		require.NoError(t, err)
		assert.True(t, cli.Verbose)
		assert.Len(t, cli.Load.URLs, 2)
		assert.Equal(t, 2, cli.Load.Concurrency)
		assert.Equal(t, "30s", cli.Load.Timeout.String())
		assert.Zero(t, cli.Load.Rate)
		assert.True(t, cli.Load.Browser)
	})

	t.Run("requires at least one URL", func(t *testing.T) {
		t.Parallel()

		_, err := newParser(t, &main.CLI{}).Parse([]string{"parse"})

		require.Error(t, err)
	})

	t.Run("parses repeatable discover filters", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		_, err := newParser(t, cli).Parse([]string{"discover", "https://fooby.ch", "-F", "/rezepte/", "-F", "/recipes/", "-x", "/tag/"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/rezepte/", "/recipes/"}, cli.Discover.Filter)
		assert.Equal(t, []string{"/tag/"}, cli.Discover.Exclude)
	})
}
