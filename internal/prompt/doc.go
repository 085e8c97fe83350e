// Package prompt implements named, parameterized prompt templates.
//
// A Template declares the exact set of variables its text references with
// {name} placeholders. Rendering performs literal substitution only: there is
// no escaping, nesting or conditional logic. Templates are grouped into a Set,
// loaded from YAML; the card assistant's built-in templates are embedded and
// can be replaced by a file supplied through configuration.
package prompt
