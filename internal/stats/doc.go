// Package stats keeps mapping statistics in a prometheus registry and wraps a
// mapper so that every call is counted and timed.
//
// A Manager counts nothing while it is disabled. The process-wide manager
// returned by Global is shared by every mapper that is not given its own.
package stats
