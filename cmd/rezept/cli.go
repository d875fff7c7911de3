package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Parser   rezept.RecipeParser
	Store    rezept.RecipeStore
	Sitemaps rezept.SitemapService

	// NewWriter and NewLoader bind a directory chosen on the command line.
	NewWriter func(dir string) rezept.RecipeWriter
	NewLoader func(dir string) rezept.RecipeLoader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log pipeline steps to stderr"`

	Parse    ParseCmd    `cmd:"" help:"Parse recipe URLs and print German markdown"`
	Load     LoadCmd     `cmd:"" help:"Parse recipe URLs and add them to the recipe store"`
	Import   ImportCmd   `cmd:"" help:"Add markdown recipe files from a directory to the store"`
	Search   SearchCmd   `cmd:"" help:"Search stored recipes"`
	Count    CountCmd    `cmd:"" help:"Count stored recipes"`
	Discover DiscoverCmd `cmd:"" help:"List recipe URLs from a site's sitemaps"`
}

// FetchFlags are shared by the commands that fetch recipe pages.
type FetchFlags struct {
	Concurrency int           `short:"c" default:"5" help:"Concurrent pipelines (0 for one per URL)"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Rate        float64       `default:"1" help:"Requests per second per domain (0 disables limiting)"`
	Retries     int           `default:"0" help:"Retry transient fetch failures with exponential backoff"`
	Browser     bool          `short:"b" help:"Fetch pages with headless Chrome"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	URLs []string `arg:"" name:"url" help:"Recipe page URLs"`
	JSON bool     `help:"Print results as JSON"`
	Out  string   `short:"o" type:"path" help:"Write markdown files below this directory"`

	FetchFlags `embed:""`
}

// LoadCmd is the "load" subcommand.
type LoadCmd struct {
	URLs []string `arg:"" name:"url" help:"Recipe page URLs"`

	FetchFlags `embed:""`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory of markdown recipe files"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string  `arg:"" optional:"" help:"Search terms (empty lists recent recipes)"`
	Limit    int     `short:"n" default:"10" help:"Maximum number of results"`
	MinScore float64 `name:"min-score" help:"Drop results scoring below this"`
	Cuisine  string  `help:"Only recipes of this cuisine"`
}

// CountCmd is the "count" subcommand.
type CountCmd struct{}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Site    string        `arg:"" help:"Site URL, optionally with a path prefix"`
	Filter  []string      `short:"F" help:"Include URLs matching this regex (repeatable)"`
	Exclude []string      `short:"x" help:"Exclude URLs matching this regex (repeatable)"`
	All     bool          `help:"Include all URLs instead of the default recipe path pattern"`
	Timeout time.Duration `short:"t" default:"30s" help:"Timeout per sitemap request"`
}
