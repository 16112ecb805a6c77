package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	buildersetup "github.com/arthur-debert/buildsetup/cmd/builder-setup"
	"github.com/arthur-debert/buildsetup/internal/version"
)

func main() {
	rootCmd := buildersetup.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "BUILDER-SETUP",
		Section: "1",
		Source:  "builder-setup " + version.Version,
		Manual:  "builder-setup manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
