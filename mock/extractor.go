package mock

import "github.com/fwojciec/rezept"

var (
	_ rezept.Extractor = (*Extractor)(nil)
	_ rezept.Cleaner   = (*Cleaner)(nil)
)

// Extractor is a mock implementation of rezept.Extractor.
type Extractor struct {
	ExtractFn func(html string, recipe *rezept.Recipe) error
}

func (e *Extractor) Extract(html string, recipe *rezept.Recipe) error {
	return e.ExtractFn(html, recipe)
}

// Cleaner is a mock implementation of rezept.Cleaner.
type Cleaner struct {
	CleanFn func(recipe *rezept.Recipe) error
}

func (c *Cleaner) Clean(recipe *rezept.Recipe) error {
	return c.CleanFn(recipe)
}
