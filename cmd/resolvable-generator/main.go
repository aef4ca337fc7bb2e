// Package main provides the CLI entrypoint for resolvable-generator.
//
// resolvable-generator turns schema declarations into shape families:
//   - analyze: discovers marked Go structs and writes declaration YAML
//   - check: reports diagnostics for a declaration file
//   - describe: prints the synthesized descriptor families
//   - gen: emits Go source for every family
//   - resolve: merges a YAML data set through the dynamic engine
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
