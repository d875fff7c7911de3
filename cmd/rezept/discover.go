package main

import (
	"fmt"

	"github.com/fwojciec/rezept"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	include := c.Filter
	if len(include) == 0 && !c.All {
		include = []string{rezept.DefaultRecipePattern}
	}
	filter, err := rezept.NewURLFilter(include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
		return err
	}

	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Site, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
		return err
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	fmt.Fprintf(deps.Stderr, "Found %d recipe URLs\n", len(urls))
	return nil
}
