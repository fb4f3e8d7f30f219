package cmd

import (
	"github.com/bfind/bfind/cmd/internal/find"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/config"
	"github.com/bfind/bfind/log"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "unversioned"

func rootMain(cmd *cobra.Command, args []string) exitCode {
	for _, arg := range args {
		if arg == "--version" {
			cmdutil.Println("bfind", version)
			return exitCode{0}
		}
	}

	log.Init(config.Debug())

	return exitCode{find.Main(args)}
}
