package main

import (
	"fmt"

	"github.com/fwojciec/rezept"
)

// Run executes the load command.
func (c *LoadCmd) Run(deps *Dependencies) error {
	results := deps.Parser.ParseAll(deps.Ctx, c.URLs)

	added := 0
	for _, res := range results {
		if !res.Success {
			continue
		}
		doc, err := rezept.NewRecipeDocument(res)
		if err != nil {
			return err
		}
		if err := deps.Store.AddRecipe(deps.Ctx, doc); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  added %s (%s)\n", doc.Title, doc.SourceURL)
		added++
	}
	fmt.Fprintf(deps.Stdout, "Added %d of %d recipes\n", added, len(results))

	return reportFailures(deps, results, true)
}
