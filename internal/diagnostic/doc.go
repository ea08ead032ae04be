// Package diagnostic collects structured errors and warnings produced while
// loading and validating mapping definitions.
//
// A Diagnostics value accumulates findings from every mapping file so that a
// single load reports all problems at once. Err converts the accumulated
// errors into a *ValidationError, which unwraps to ErrInvalidMapping.
package diagnostic
