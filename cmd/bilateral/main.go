// Command bilateral applies an edge-preserving bilateral filter to images.
//
// Usage:
//
//	bilateral [flags] <input> [output]
//	bilateral apply <command> <input> <output> [args...]
//	bilateral info <input>
//	bilateral update
package main

import (
	"fmt"
	"os"

	"github.com/Fepozopo/bilateral/pkg/cli"
)

func main() {
	if err := cli.RunCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "bilateral: %v\n", err)
		os.Exit(1)
	}
}
