// Package rezept extracts recipes from German-language recipe web pages and
// renders them as normalized markdown documents for downstream language
// model pipelines.
//
// Extraction is layered: schema.org JSON-LD first, then CSS-selector
// heuristics for whatever the structured data left unset. Time and serving
// values are normalized to German conventions before rendering.
//
// This package contains domain types, the pure normalization and rendering
// logic, and the interfaces implemented by subpackages named after their
// primary dependency (e.g., goquery/, sqlite/, rod/).
package rezept
