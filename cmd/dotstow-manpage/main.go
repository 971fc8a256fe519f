package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotstow/cmd/dotstow"
	"github.com/arthur-debert/dotstow/internal/version"
)

func main() {
	rootCmd := dotstow.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOTSTOW",
		Section: "1",
		Source:  "dotstow " + version.Version,
		Manual:  "dotstow manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
