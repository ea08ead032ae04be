// Package cache holds the named, bounded cache regions of one mapper
// instance. Each region is an LRU from hashicorp/golang-lru that also counts
// hits and misses.
package cache
