package eval

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/walk"
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

/*
 * Human-readable one-line-per-event dumps on stderr, gated by the -D
 * flags.
 */

func statFlagName(flags walk.StatFlag) string {
	var parts []string
	if flags&walk.StatFollow != 0 {
		parts = append(parts, "STAT_FOLLOW")
	}
	if flags&walk.StatNoFollow != 0 {
		parts = append(parts, "STAT_NOFOLLOW")
	}
	if flags&walk.StatTryFollow != 0 {
		parts = append(parts, "STAT_TRYFOLLOW")
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " | ")
}

// debugStat logs one stat call.
func debugStat(f *walk.File, flags walk.StatFlag, err error) {
	w := cmdutil.Stderr
	fmt.Fprintf(w, "bfind_stat(")
	if f.AtFD == unix.AT_FDCWD {
		fmt.Fprintf(w, "AT_FDCWD")
	} else {
		fmt.Fprintf(w, "%q", f.Path[:len(f.Path)-len(f.AtPath)])
	}
	fmt.Fprintf(w, ", %q, %s)", f.AtPath, statFlagName(flags))

	rc := 0
	if err != nil {
		rc = -1
	}
	fmt.Fprintf(w, " == %d", rc)
	if err != nil {
		fmt.Fprintf(w, " [%v]", err)
	}
	fmt.Fprintf(w, "\n")
}

// debugStats logs any stat calls that happened for this visit.
func debugStats(f *walk.File) {
	statbuf, err, done := f.StatCached(walk.StatFollow)
	if done && (statbuf != nil || err != nil) {
		debugStat(f, walk.StatFollow, err)
	}

	lstatbuf, lerr, ldone := f.StatCached(walk.StatNoFollow)
	if ldone && ((lstatbuf != nil && lstatbuf != statbuf) || lerr != nil) {
		debugStat(f, walk.StatNoFollow, lerr)
	}
}

// debugSearch logs one traversal callback decision.
func debugSearch(f *walk.File, action walk.Action) {
	w := cmdutil.Stderr
	fmt.Fprintf(w, "callback({\n")
	fmt.Fprintf(w, "\t.path = %q,\n", f.Path)
	fmt.Fprintf(w, "\t.root = %q,\n", f.Root)
	fmt.Fprintf(w, "\t.depth = %d,\n", f.Depth)
	fmt.Fprintf(w, "\t.visit = %v,\n", f.Visit)
	fmt.Fprintf(w, "\t.typeflag = %v,\n", f.Type)
	fmt.Fprintf(w, "\t.error = %v,\n", f.Err)
	fmt.Fprintf(w, "}) == %v\n", action)
}

func walkFlagNames(flags walk.Flags) string {
	names := []struct {
		flag walk.Flags
		name string
	}{
		{walk.FlagStat, "STAT"},
		{walk.FlagRecover, "RECOVER"},
		{walk.FlagDepth, "DEPTH"},
		{walk.FlagComFollow, "COMFOLLOW"},
		{walk.FlagLogical, "LOGICAL"},
		{walk.FlagDetectCycles, "DETECT_CYCLES"},
		{walk.FlagMount, "MOUNT"},
		{walk.FlagXDev, "XDEV"},
	}
	var parts []string
	for _, n := range names {
		if flags&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " | ")
}

// debugWalkConfig logs the initial traversal configuration.
func debugWalkConfig(opts *walk.Options) {
	w := cmdutil.Stderr
	fmt.Fprintf(w, "walk({\n")
	fmt.Fprintf(w, "\t.paths = {\n")
	for _, path := range opts.Paths {
		fmt.Fprintf(w, "\t\t%q,\n", path)
	}
	fmt.Fprintf(w, "\t},\n")
	fmt.Fprintf(w, "\t.nopenfd = %d,\n", opts.NOpenFD)
	fmt.Fprintf(w, "\t.flags = %s,\n", walkFlagNames(opts.Flags))
	fmt.Fprintf(w, "\t.strategy = %v,\n", opts.Strategy)
	fmt.Fprintf(w, "})\n")
}

// dumpRates dumps the expression tree with per-node evaluation counts,
// success counts, and elapsed time.
func dumpRates(cmd *types.Options) {
	dumpExpr(cmdutil.Stderr, cmd.Expr, 0)
}

func dumpExpr(w io.Writer, e *types.Expr, depth int) {
	if e == nil {
		return
	}
	indent := strings.Repeat("    ", depth)
	fmt.Fprintf(w, "%s(%v): %s evaluations, %s successes, %v elapsed\n",
		indent,
		e,
		humanize.Comma(int64(e.Evaluations)),
		humanize.Comma(int64(e.Successes)),
		e.Elapsed.Round(time.Microsecond))
	dumpExpr(w, e.LHS, depth+1)
	dumpExpr(w, e.RHS, depth+1)
}
