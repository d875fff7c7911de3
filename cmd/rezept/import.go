package main

import (
	"fmt"

	"github.com/fwojciec/rezept"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	docs, err := deps.NewLoader(c.Dir).LoadRecipes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stdout, "No recipe files found in %s\n", c.Dir)
		return nil
	}

	for _, doc := range docs {
		if err := deps.Store.AddRecipe(deps.Ctx, doc); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", doc.SourceURL, rezept.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Imported %d recipes from %s\n", len(docs), c.Dir)
	return nil
}
