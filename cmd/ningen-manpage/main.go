package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/ningen/cmd/ningen"
	"github.com/arthur-debert/ningen/internal/version"
)

func main() {
	rootCmd := ningen.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "NINGEN",
		Section: "1",
		Source:  "ningen " + version.Version,
		Manual:  "ningen manual",
	}

	if len(os.Args) > 1 {
		// Write one page per command into the given directory
		if err := doc.GenManTree(rootCmd, header, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
