// Package main provides the mockcli fixture used to exercise piperun end to end.
package main

import (
	"os"

	"github.com/gorewood/piperun/internal/mockcli"
)

func main() {
	os.Exit(mockcli.Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
