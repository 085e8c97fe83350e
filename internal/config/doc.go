// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to provider credentials and model settings needed by the backends
// while keeping configuration details separate from pipeline logic.
//
// A Config is built once at process start and passed by value or pointer into
// constructors; there is no package-level configuration state.
package config
