package main

import (
	"github.com/dashiq/reporting/cmd/cli"
)

// main is the entry point for the reportctl command-line tool.
// It delegates all execution to the Execute function provided by the cli package.
func main() {
	cli.Execute()
}
