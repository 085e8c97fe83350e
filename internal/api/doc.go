// Package api implements the HTTP surface of the card generator: an HTML
// form for senders and a JSON/form endpoint that returns the rendered PDF.
package api
