// Command inkline is the terminal client of an InkLine server.
package main

import (
	"os"
)

var version = "dev"

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
