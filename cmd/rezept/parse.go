package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/rezept"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	results := deps.Parser.ParseAll(deps.Ctx, c.URLs)

	switch {
	case c.JSON:
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	case c.Out != "":
		w := deps.NewWriter(c.Out)
		for _, res := range results {
			if !res.Success {
				continue
			}
			path, err := w.WriteResult(res)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", rezept.ErrorMessage(err))
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
		}
	default:
		printed := 0
		for _, res := range results {
			if !res.Success {
				continue
			}
			if printed > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprint(deps.Stdout, res.Content)
			printed++
		}
	}

	return reportFailures(deps, results, !c.JSON)
}

// reportFailures prints failed results and returns an error if any failed.
func reportFailures(deps *Dependencies, results []*rezept.Result, show bool) error {
	failed := rezept.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	if show {
		for _, res := range failed {
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", res.URL, res.Error)
		}
	}
	return fmt.Errorf("%d of %d URLs failed", len(failed), len(results))
}
