package main

import (
	"os"

	"github.com/Benchkram/errz"
	"github.com/bfind/bfind/cmd"
	"github.com/bfind/bfind/config"
)

func main() {
	errz.Fatal(config.Load(), "Failed to load bfind's config")

	os.Exit(cmd.Execute())
}
