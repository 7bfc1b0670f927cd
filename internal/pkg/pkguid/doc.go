// Package pkguid provides helpers for generating unique identifiers.
//
// String IDs (UUIDv7) tag requests and dataset loads; numeric Snowflake IDs
// tag refresh events so consumers can drop duplicates.
package pkguid
