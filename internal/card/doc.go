// Package card implements the greeting-card use case: it validates the
// recipient form, runs the two-stage message pipeline (base message, then
// regional enrichment) and renders the result into a downloadable PDF.
package card
