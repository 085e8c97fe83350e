// Package pipeline runs an ordered list of prompt stages against model
// backends, threading each stage's output forward as a named value.
//
// A Stage binds one prompt template to one backend and names the single value
// it produces. A Pipeline checks at assembly time that stage outputs never
// overwrite existing values and, when the caller declares its input keys,
// that every stage's variables can be satisfied. Run executes stages strictly
// in order on a private working set and stops at the first failure, reporting
// the failing stage index and error kind; no partial output is returned.
//
// An optional terminal artifact stage turns a final text value into bytes
// (the card PDF) without being a model call.
package pipeline
