// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Values come from a YAML file read by Viper, fall back to registered
// defaults, and can be overridden with COVID_-prefixed environment variables.
// Business code depends on the Config interface so tests can supply values
// without touching the filesystem.
//
// Viper lower-cases nested map keys, so maps whose keys carry meaningful case
// (country aliases) are written as "k:v,k:v" strings instead.
package pkgconfig
