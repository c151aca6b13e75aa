package main

import (
	"os"

	"github.com/arthur-debert/ningen/cmd/ningen"
)

func main() {
	rootCmd := ningen.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		ningen.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
