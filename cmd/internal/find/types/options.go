package types

import (
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/mounts"
	"github.com/bfind/bfind/passwd"
	"github.com/bfind/bfind/walk"
)

// DebugFlags selects debug tracing on stderr.
type DebugFlags uint

const (
	// DebugRates dumps the expression tree with evaluation counts and
	// timings after the traversal.
	DebugRates DebugFlags = 1 << iota
	// DebugStat traces every stat call.
	DebugStat
	// DebugSearch traces every traversal callback.
	DebugSearch
	// DebugExec traces spawned commands.
	DebugExec
)

// DefaultMaxdepth is the default value of the maxdepth option.
// It is set to the max value of a 32-bit integer.
const DefaultMaxdepth = 1<<31 - 1

// Options is the parsed command line: starting paths, traversal
// configuration, shared caches, and the expression tree.
type Options struct {
	// Paths are the starting paths.
	Paths []string

	// Mindepth and Maxdepth bound which depths are evaluated.
	Mindepth int
	Maxdepth int

	// Flags configure the traversal driver.
	Flags walk.Flags
	// Strategy selects the traversal order.
	Strategy walk.Strategy

	// Unique suppresses duplicate visits of hard-linked files.
	Unique bool
	// XargsSafe rejects paths that xargs would mangle.
	XargsSafe bool
	// IgnoreRaces drops errors caused by files vanishing mid-walk.
	IgnoreRaces bool

	// Debug selects debug tracing.
	Debug DebugFlags

	// Mounts, Users and Groups are the shared read-mostly caches.
	Mounts *mounts.Table
	Users  *passwd.Users
	Groups *passwd.Groups

	// Cout and Cerr are the standard output streams.
	Cout *cmdutil.CFile
	Cerr *cmdutil.CFile

	// Expr is the root of the expression tree.
	Expr *Expr

	// NOpenFiles counts descriptors already opened while parsing,
	// e.g. -fprint targets.
	NOpenFiles int

	// Help is set when the user asked for usage.
	Help bool
}

// NewOptions creates an Options with the defaults filled in.
func NewOptions() *Options {
	return &Options{
		Mindepth: 0,
		Maxdepth: DefaultMaxdepth,
		Strategy: walk.BFS,
		Users:    passwd.NewUsers(),
		Groups:   passwd.NewGroups(),
	}
}
