package rezept

// Extractor fills recipe fields from page HTML.
//
// Extractors run as an ordered chain over a single record. Each one may only
// set fields that are still unset; fields filled by an earlier extractor are
// never overwritten. An error means the extractor could not run at all and
// leaves the record as it was.
type Extractor interface {
	Extract(html string, recipe *Recipe) error
}

// Cleaner removes markup and entities from extracted text fields.
type Cleaner interface {
	Clean(recipe *Recipe) error
}
