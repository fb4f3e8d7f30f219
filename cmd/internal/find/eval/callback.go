package eval

import (
	"strings"

	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/walk"
	"github.com/emirpasic/gods/maps/treemap"
)

// fileID identifies a file across hard links.
type fileID struct {
	dev, ino uint64
}

func fileIDComparator(a, b interface{}) int {
	x := a.(fileID)
	y := b.(fileID)
	switch {
	case x.dev != y.dev:
		if x.dev < y.dev {
			return -1
		}
		return 1
	case x.ino < y.ino:
		return -1
	case x.ino > y.ino:
		return 1
	default:
		return 0
	}
}

// callbackArgs is the state shared by every visit of one traversal.
type callbackArgs struct {
	cmd *types.Options
	// seen is the set of visited files, kept only under -unique.
	seen *treemap.Map
	// ret is the eventual exit status.
	ret int
}

// fileUnique checks if we've seen a file before, pruning duplicates.
func fileUnique(s *types.State, seen *treemap.Map) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}

	id := fileID{statbuf.Dev, statbuf.Ino}
	if _, dup := seen.Get(id); dup {
		s.Action = walk.Prune
		return false
	}
	seen.Put(id, struct{}{})
	return true
}

// xargsUnsafePath matches the bytes xargs would misparse.
const xargsUnsafePath = " \t\n'\"\\"

// callback handles one traversal visit: it screens out errors,
// duplicates and out-of-scope depths, then runs the expression.
func (args *callbackArgs) callback(f *walk.File) walk.Action {
	cmd := args.cmd

	state := types.State{
		File:   f,
		Cmd:    cmd,
		Action: walk.Continue,
		Ret:    &args.ret,
	}

	if f.Err != nil {
		if !shouldIgnore(&state, f.Err) {
			args.ret = 1
			errorf(&state, "%v.", f.Err)
		}
		state.Action = walk.Prune
		goto done
	}

	if cmd.Unique && f.Visit == walk.VisitPre {
		if !fileUnique(&state, args.seen) {
			goto done
		}
	}

	if cmd.XargsSafe && strings.ContainsAny(f.Path, xargsUnsafePath) {
		args.ret = 1
		errorf(&state, "path is not safe for xargs.")
		state.Action = walk.Prune
		goto done
	}

	if cmd.Maxdepth < 0 || f.Depth >= cmd.Maxdepth {
		state.Action = walk.Prune
	}

	// In -depth mode, only handle directories on the post-order visit
	{
		expected := walk.VisitPre
		if cmd.Flags&walk.FlagDepth != 0 &&
			(cmd.Strategy == walk.IDS || f.Type == walk.Dir) &&
			f.Depth < cmd.Maxdepth {
			expected = walk.VisitPost
		}

		if f.Visit == expected &&
			f.Depth >= cmd.Mindepth &&
			f.Depth <= cmd.Maxdepth {
			evalExpr(cmd.Expr, &state)
		}
	}

done:
	if cmd.Debug&types.DebugStat != 0 {
		debugStats(f)
	}
	if cmd.Debug&types.DebugSearch != 0 {
		debugSearch(f, state.Action)
	}

	return state.Action
}

// execFinish finishes any pending batched -exec operations.
func execFinish(e *types.Expr) int {
	ret := 0
	e.ForEach(func(node *types.Expr) {
		if node.Exec == nil {
			return
		}
		if err := node.Exec.Finish(); err != nil {
			cmdutil.ErrPrintf("bfind: %v: %v.\n", argvPrefix(node.Exec.Argv()), err)
			ret = 1
		}
	})
	return ret
}

// argvPrefix names an offending command by its first two words, the way
// error lines identify an -exec node.
func argvPrefix(argv []string) string {
	if len(argv) > 1 {
		return argv[0] + " " + argv[1]
	}
	return argv[0]
}

// EvalCmdline runs the parsed command line: it drives the traversal,
// evaluates the expression for every in-scope file, and flushes any
// batched execs afterwards. The return value is the process exit
// status.
func EvalCmdline(cmd *types.Options) int {
	if cmd.Expr == nil {
		return 0
	}

	args := &callbackArgs{cmd: cmd}
	if cmd.Unique {
		args.seen = treemap.NewWith(fileIDComparator)
	}

	walkOpts := &walk.Options{
		Paths:    cmd.Paths,
		Callback: args.callback,
		NOpenFD:  inferFDLimit(cmd),
		Flags:    cmd.Flags,
		Strategy: cmd.Strategy,
	}

	if cmd.Debug&types.DebugSearch != 0 {
		debugWalkConfig(walkOpts)
	}

	if err := walk.Walk(walkOpts); err != nil {
		args.ret = 1
		cmdutil.ErrPrintf("bfind: %v\n", err)
	}

	if execFinish(cmd.Expr) != 0 {
		args.ret = 1
	}

	if cmd.Debug&types.DebugRates != 0 {
		dumpRates(cmd)
	}

	return args.ret
}
