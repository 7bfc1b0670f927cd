// Package pkgroutine runs background work on a bounded set of goroutines.
//
// Manager caps how many tasks run at once and joins their errors for Wait.
// Panics are recovered into errors tagged with the task name.
package pkgroutine
