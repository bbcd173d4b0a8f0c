package main

import (
	"fmt"
	"os"

	"golang.org/x/mod/modfile"
)

// wantRequires lists the dependencies rcudoctor expects a healthy rcu
// module to declare, so a broken vendor or accidental `go mod tidy`
// removal is caught before it surfaces as a build failure somewhere else.
var wantRequires = []string{
	"golang.org/x/sys",
	"golang.org/x/mod",
}

// modcheckCommand implements 'rcudoctor modcheck'.
func modcheckCommand(args []string) {
	path := "go.mod"
	if len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rcudoctor: reading %s: %v\n", path, err)
		os.Exit(1)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rcudoctor: parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("module:  %s\n", f.Module.Mod.Path)
	if f.Go != nil {
		fmt.Printf("go:      %s\n", f.Go.Version)
	}

	have := make(map[string]bool, len(f.Require))
	for _, r := range f.Require {
		have[r.Mod.Path] = true
	}

	fmt.Println("requires:")
	for _, r := range f.Require {
		indirect := ""
		if r.Indirect {
			indirect = " // indirect"
		}
		fmt.Printf("  %s %s%s\n", r.Mod.Path, r.Mod.Version, indirect)
	}

	missing := 0
	for _, want := range wantRequires {
		if !have[want] {
			fmt.Printf("missing expected dependency: %s\n", want)
			missing++
		}
	}

	if missing > 0 {
		os.Exit(1)
	}
}
