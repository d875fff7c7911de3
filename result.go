package rezept

// Result is the outcome of parsing a single URL. Exactly one of Content or
// Error is set, matching Success.
type Result struct {
	URL     string    `json:"url"`
	Success bool      `json:"success"`
	Content string    `json:"content,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    string    `json:"code,omitempty"`
	Meta    *Metadata `json:"metadata,omitempty"`
}

// Metadata is the coarse description of a successfully parsed recipe,
// carried alongside the rendered markdown for indexing.
type Metadata struct {
	Title    string   `json:"title" yaml:"title"`
	Cuisine  string   `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	PrepTime string   `json:"prep_time,omitempty" yaml:"prep_time,omitempty"`
	CookTime string   `json:"cook_time,omitempty" yaml:"cook_time,omitempty"`
	Servings string   `json:"servings,omitempty" yaml:"servings,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// NewMetadata summarizes a normalized recipe.
func NewMetadata(r *Recipe) *Metadata {
	return &Metadata{
		Title:    DisplayTitle(r),
		Cuisine:  DeriveCuisine(r),
		PrepTime: r.PrepTime,
		CookTime: r.CookTime,
		Servings: r.Servings,
		Tags:     GenerateTags(r),
	}
}

// NewSuccess returns a successful result carrying rendered markdown.
func NewSuccess(url, content string, meta *Metadata) *Result {
	return &Result{
		URL:     url,
		Success: true,
		Content: content,
		Meta:    meta,
	}
}

// NewFailure returns a failed result. The error message and code are taken
// from err using ErrorMessage and ErrorCode.
func NewFailure(url string, err error) *Result {
	return &Result{
		URL:   url,
		Error: ErrorMessage(err),
		Code:  ErrorCode(err),
	}
}

// Failed returns the results that did not succeed, preserving order.
func Failed(results []*Result) []*Result {
	var out []*Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
