// Package main provides the beanmapper command line tool.
//
// beanmapper checks mapping files outside the program that maps with them:
//   - check parses and merges mapping files and reports every finding
//   - settings prints the settings a mapper would start with
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
