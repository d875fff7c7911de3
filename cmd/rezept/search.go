package main

import (
	"fmt"

	"github.com/fwojciec/rezept"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Store.SearchRecipes(deps.Ctx, c.Query, rezept.SearchOptions{
		Limit:    c.Limit,
		MinScore: c.MinScore,
		Cuisine:  c.Cuisine,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No recipes found. Use 'rezept load' to add some.")
		return nil
	}

	for i, r := range results {
		doc := r.Document
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "%d. %s (%.2f)\n   %s\n", i+1, title, r.Score, doc.SourceURL)
	}
	return nil
}

// Run executes the count command.
func (c *CountCmd) Run(deps *Dependencies) error {
	n, err := deps.Store.CountRecipes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "%d recipes\n", n)
	return nil
}
