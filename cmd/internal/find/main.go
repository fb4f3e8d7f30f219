// Package find stores all the logic for bfind's search. We make it a
// separate package to decouple it from cmd. This makes testing easier.
package find

import (
	"time"

	"github.com/bfind/bfind/cmd/internal/find/eval"
	"github.com/bfind/bfind/cmd/internal/find/params"
	"github.com/bfind/bfind/cmd/internal/find/parser"
	cmdutil "github.com/bfind/bfind/cmd/util"
)

// Main is bfind's main function: parse the command line, then walk.
func Main(args []string) int {
	params.ReferenceTime = time.Now()

	cmd, err := parser.Parse(args)
	if err != nil {
		cmdutil.ErrPrintf("bfind: %v\n", err)
		return 1
	}
	if cmd.Help {
		cmdutil.Print(Usage())
		return 0
	}

	return eval.EvalCmdline(cmd)
}
