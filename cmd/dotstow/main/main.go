package main

import (
	"os"

	"github.com/arthur-debert/dotstow/cmd/dotstow"
)

func main() {
	os.Exit(dotstow.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
