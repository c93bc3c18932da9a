// Command crn rewrites reaction networks stored as YAML.
//
// Usage:
//
//	crn show network.yaml
//	crn split --by monomial --species A,B network.yaml
//	crn path -o latex chain.yaml
package main

import (
	"os"

	"github.com/njchilds90/gocrn/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
