// Command rcudoctor is a small diagnostics tool for the rcu module: it
// can sanity-check the module's own go.mod and run a short in-process
// smoke test of the grace-period protocol.
//
// Usage:
//
//	rcudoctor modcheck [path/to/go.mod]   # verify module metadata
//	rcudoctor selftest                    # run an in-process RCU smoke test
//	rcudoctor version                     # print version information
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "modcheck":
		modcheckCommand(os.Args[2:])
	case "selftest":
		selftestCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("rcudoctor version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`rcudoctor - diagnostics for the rcu module

USAGE:
    rcudoctor <command> [arguments]

COMMANDS:
    modcheck [go.mod]   Verify module path, Go version, and required deps
    selftest            Run an in-process register/read/synchronize smoke test
    version             Show version information
    help                Show this help message

EXAMPLES:
    rcudoctor modcheck
    rcudoctor modcheck ./go.mod
    rcudoctor selftest

`)
}
