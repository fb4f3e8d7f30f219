// Package eval implements all the literal expressions: the tests and
// actions at the leaves of the expression tree, the short-circuiting
// walker over the interior nodes, and the per-visit callback that glues
// the tree to the traversal driver.
package eval

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/walk"
	"golang.org/x/sys/unix"
)

// errorf reports an error against the current file.
func errorf(s *types.State, format string, a ...interface{}) {
	cmdutil.ErrPrintf("bfind: %v: "+format+"\n", append([]interface{}{s.File.Path}, a...)...)
}

// shouldIgnore checks if an error should be ignored: under
// --ignore-races, nonexistence below the starting paths just means the
// file vanished mid-walk.
func shouldIgnore(s *types.State, err error) bool {
	return s.Cmd.IgnoreRaces &&
		walk.IsNonexistenceError(err) &&
		s.File.Depth > 0
}

// reportError reports an error that occurred during evaluation.
func reportError(s *types.State, err error) {
	if !shouldIgnore(s, err) {
		errorf(s, "%v.", err)
		*s.Ret = 1
	}
}

// evalStat performs a stat call if necessary.
func evalStat(s *types.State) *walk.Stat {
	statbuf, err := s.File.Stat(s.File.StatFlags)
	if err != nil {
		reportError(s, err)
		return nil
	}
	return statbuf
}

// evalStatTime gets the given timestamp out of a stat buffer.
func evalStatTime(statbuf *walk.Stat, field walk.StatField, s *types.State) (time.Time, bool) {
	t, err := statbuf.Time(field)
	if err != nil {
		errorf(s, "couldn't get file %v: %v.", field.Name(), err)
		*s.Ret = 1
		return time.Time{}, false
	}
	return t, true
}

// timespecDiff returns the difference in whole seconds between two
// timestamps, truncating toward negative infinity like the subtraction
// of two timespecs.
func timespecDiff(lhs, rhs time.Time) int64 {
	diff := lhs.Unix() - rhs.Unix()
	if lhs.Nanosecond() < rhs.Nanosecond() {
		diff--
	}
	return diff
}

// True implements -true.
func True(e *types.Expr, s *types.State) bool {
	return true
}

// False implements -false.
func False(e *types.Expr, s *types.State) bool {
	return false
}

// Access implements -executable, -readable and -writable.
func Access(e *types.Expr, s *types.State) bool {
	f := s.File
	return unix.Faccessat(f.AtFD, f.AtPath, uint32(e.IData), 0) == nil
}

// Newer implements the -newer family.
func Newer(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	t, ok := evalStatTime(statbuf, e.StatField, s)
	if !ok {
		return false
	}
	return t.After(e.RefTime)
}

// Time implements the -mtime/-mmin family.
func Time(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	t, ok := evalStatTime(statbuf, e.StatField, s)
	if !ok {
		return false
	}

	diff := timespecDiff(e.RefTime, t)
	switch e.TimeUnit {
	case types.Minutes:
		diff /= 60
	case types.Days:
		diff /= 60 * 60 * 24
	}
	return e.Cmp(diff)
}

// Used implements -used.
func Used(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	atime, ok := evalStatTime(statbuf, walk.FieldATime, s)
	if !ok {
		return false
	}
	ctime, ok := evalStatTime(statbuf, walk.FieldCTime, s)
	if !ok {
		return false
	}

	diff := timespecDiff(atime, ctime)
	diff /= 60 * 60 * 24
	return e.Cmp(diff)
}

// GID implements -gid.
func GID(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return e.Cmp(int64(statbuf.GID))
}

// UID implements -uid.
func UID(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return e.Cmp(int64(statbuf.UID))
}

// NoGroup implements -nogroup.
func NoGroup(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return s.Cmd.Groups.LookupGID(statbuf.GID) == nil
}

// NoUser implements -nouser.
func NoUser(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return s.Cmd.Users.LookupUID(statbuf.UID) == nil
}

// Depth implements the -depth N test.
func Depth(e *types.Expr, s *types.State) bool {
	return e.Cmp(int64(s.File.Depth))
}

// Empty implements -empty.
func Empty(e *types.Expr, s *types.State) bool {
	f := s.File
	switch f.Type {
	case walk.Dir:
		fd, err := unix.Openat(f.AtFD, f.AtPath, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			reportError(s, err)
			return false
		}
		dir := os.NewFile(uintptr(fd), f.Path)
		defer dir.Close()

		_, err = dir.Readdirnames(1)
		if err == io.EOF {
			return true
		}
		if err != nil {
			reportError(s, err)
		}
		return false
	case walk.Reg:
		statbuf := evalStat(s)
		return statbuf != nil && statbuf.Size == 0
	default:
		return false
	}
}

// FSType implements -fstype.
func FSType(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return s.Cmd.Mounts.FSType(statbuf.Dev) == e.SData
}

// Hidden implements -hidden.
func Hidden(e *types.Expr, s *types.State) bool {
	f := s.File
	return f.Depth > 0 && strings.HasPrefix(f.Name(), ".")
}

// Inum implements -inum.
func Inum(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return e.Cmp(int64(statbuf.Ino))
}

// Links implements -links.
func Links(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return e.Cmp(int64(statbuf.Nlink))
}

// matchPattern applies a node's compiled glob to a string.
func matchPattern(e *types.Expr, name string) bool {
	if e.CaseFold {
		name = strings.ToLower(name)
	}
	return e.Pattern.Match(name)
}

// LName implements -lname and -ilname.
func LName(e *types.Expr, s *types.State) bool {
	f := s.File
	if t, err := f.TypeAt(walk.StatNoFollow); err != nil || t != walk.Lnk {
		return false
	}

	statbuf, err := f.Stat(walk.StatNoFollow)
	if err != nil {
		reportError(s, err)
		return false
	}
	name, err := walk.ReadLink(f, statbuf.Size)
	if err != nil {
		reportError(s, err)
		return false
	}
	return matchPattern(e, name)
}

// Name implements -name and -iname.
func Name(e *types.Expr, s *types.State) bool {
	f := s.File
	name := f.Name()
	if f.Depth == 0 {
		// Any trailing slashes are not part of the name. This can
		// only happen for a starting path.
		if i := strings.IndexByte(name, '/'); i > 0 {
			name = name[:i]
		}
	}
	return matchPattern(e, name)
}

// Path implements -path and -ipath.
func Path(e *types.Expr, s *types.State) bool {
	return matchPattern(e, s.File.Path)
}

// Perm implements -perm.
func Perm(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}

	mode := statbuf.Mode
	target := e.FileMode
	if s.File.Type == walk.Dir {
		target = e.DirMode
	}

	switch e.ModeCmp {
	case types.ModeExact:
		return mode&07777 == target
	case types.ModeAll:
		return mode&target == target
	case types.ModeAny:
		return target == 0 || mode&target != 0
	}
	return false
}

// Regex implements -regex and -iregex. The whole path must match.
func Regex(e *types.Expr, s *types.State) bool {
	path := s.File.Path
	loc := e.Regex.FindStringIndex(path)
	return loc != nil && loc[0] == 0 && loc[1] == len(path)
}

// SameFile implements -samefile.
func SameFile(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}
	return statbuf.Dev == e.Dev && statbuf.Ino == e.Ino
}

// Size implements -size.
func Size(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}

	scale := types.SizeScales[e.SizeUnit]
	size := (statbuf.Size + scale - 1) / scale // Round up
	return e.Cmp(size)
}

// Sparse implements -sparse.
func Sparse(e *types.Expr, s *types.State) bool {
	statbuf := evalStat(s)
	if statbuf == nil {
		return false
	}

	expected := (statbuf.Size + walk.BlockSize - 1) / walk.BlockSize
	return statbuf.Blocks < expected
}

// Type implements -type.
func Type(e *types.Expr, s *types.State) bool {
	t, err := s.File.TypeAt(s.File.StatFlags)
	if err != nil {
		reportError(s, err)
		return false
	}
	return t&walk.TypeFlag(e.IData) != 0
}

// XType implements -xtype: like -type, but under the opposite follow
// policy of the traversal.
func XType(e *types.Expr, s *types.State) bool {
	f := s.File
	flags := f.StatFlags ^ (walk.StatNoFollow | walk.StatTryFollow)
	t, err := f.TypeAt(flags)
	if err != nil {
		reportError(s, err)
		return false
	}
	return t&walk.TypeFlag(e.IData) != 0
}
