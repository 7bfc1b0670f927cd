// Package reshape holds the pure table transformations behind every chart:
// country index, top-N ranking, per-country series extraction, mortality
// ratios, and multi-country assembly.
//
// Functions never modify their input tables and never fetch anything, so they
// are safe to call concurrently on a shared cached table.
package reshape
