package eval

import (
	"os"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"golang.org/x/sys/unix"
)

// inferFDLimit infers the number of open file descriptors the traversal
// is allowed: the soft rlimit, minus the standard streams and anything
// already open, minus what the expression declared it needs.
func inferFDLimit(cmd *types.Options) int {
	ret := 4096

	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err == nil {
		if rl.Cur != unix.RLIM_INFINITY {
			ret = int(rl.Cur)
		}
	}

	// 3 for std{in,out,err}
	nopen := 3 + cmd.NOpenFiles

	// Check /proc/self/fd for the current number of open fds, if
	// possible (we may have inherited more than just the standard
	// ones)
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		entries, err = os.ReadDir("/dev/fd")
	}
	if err == nil {
		// Account for the listing itself
		nopen = len(entries) - 1
	}

	ret -= nopen

	// Persistent descriptors accumulate; ephemeral ones don't, since
	// only one is ever open at a time, so the tree's need is the
	// largest single declaration.
	persistent, ephemeral := 0, 0
	cmd.Expr.ForEach(func(e *types.Expr) {
		persistent += e.PersistentFDs
		if e.EphemeralFDs > ephemeral {
			ephemeral = e.EphemeralFDs
		}
	})
	ret -= persistent
	ret -= ephemeral

	// The walk needs at least 2 available fds
	if ret < 2 {
		ret = 2
	}

	return ret
}
