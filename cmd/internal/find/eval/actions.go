package eval

import (
	"fmt"
	"strings"

	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/walk"
	"github.com/itchyny/timefmt-go"
	"golang.org/x/sys/unix"
)

// Prune implements -prune.
func Prune(e *types.Expr, s *types.State) bool {
	s.Action = walk.Prune
	return true
}

// Quit implements -quit.
func Quit(e *types.Expr, s *types.State) bool {
	s.Action = walk.Stop
	s.Quit = true
	return true
}

// Exit implements -exit.
func Exit(e *types.Expr, s *types.State) bool {
	s.Action = walk.Stop
	*s.Ret = int(e.IData)
	s.Quit = true
	return true
}

// NoHidden implements -nohidden.
func NoHidden(e *types.Expr, s *types.State) bool {
	if Hidden(e, s) {
		Prune(e, s)
		return false
	}
	return true
}

// Delete implements -delete.
func Delete(e *types.Expr, s *types.State) bool {
	f := s.File

	// Don't try to delete the current directory
	if f.Path == "." {
		return true
	}

	flag := 0

	// We need to know the actual type of the path, not what it points to
	t, err := f.TypeAt(walk.StatNoFollow)
	if err != nil {
		reportError(s, err)
		return false
	}
	if t == walk.Dir {
		flag |= unix.AT_REMOVEDIR
	}

	if err := unix.Unlinkat(f.AtFD, f.AtPath, flag); err != nil {
		reportError(s, err)
		return false
	}
	return true
}

// Exec implements -exec and -execdir.
func Exec(e *types.Expr, s *types.State) bool {
	if s.Cmd.Debug&types.DebugExec != 0 {
		fmt.Fprintf(cmdutil.Stderr, "spawn %v for %v\n", e.Exec.Argv(), s.File.Path)
	}
	ok, err := e.Exec.Run(s.File)
	if err != nil {
		cmdutil.ErrPrintf("bfind: %v: %v.\n", argvPrefix(e.Exec.Argv()), err)
		*s.Ret = 1
	}
	return ok
}

// FPrint implements -print and -fprint.
func FPrint(e *types.Expr, s *types.State) bool {
	if err := e.CFile.PrintPath(s.File); err != nil {
		reportError(s, err)
		return true
	}
	if err := e.CFile.WriteString("\n"); err != nil {
		reportError(s, err)
	}
	return true
}

// FPrint0 implements -print0 and -fprint0.
func FPrint0(e *types.Expr, s *types.State) bool {
	if err := e.CFile.WriteString(s.File.Path + "\x00"); err != nil {
		reportError(s, err)
	}
	return true
}

// FPrintf implements -printf and -fprintf.
func FPrintf(e *types.Expr, s *types.State) bool {
	if err := e.Printf.Print(e.CFile.W, s.File); err != nil {
		reportError(s, err)
	}
	return true
}

// xargsUnsafe is the set of bytes -printx escapes.
const xargsUnsafe = " \t\n\\$'\"`"

// FPrintX implements -printx and -fprintx: paths with shell
// metacharacters escaped so xargs can read them back.
func FPrintX(e *types.Expr, s *types.State) bool {
	path := s.File.Path
	var b strings.Builder
	for {
		span := strings.IndexAny(path, xargsUnsafe)
		if span < 0 {
			b.WriteString(path)
			break
		}
		b.WriteString(path[:span])
		b.WriteByte('\\')
		b.WriteByte(path[span])
		path = path[span+1:]
	}
	b.WriteByte('\n')

	if err := e.CFile.WriteString(b.String()); err != nil {
		reportError(s, err)
	}
	return true
}

// sixMonths approximates half a year the way ls does. Changing this
// changes which timestamps render with a year instead of a clock time.
const sixMonths = 6 * 30 * 24 * 60 * 60

// FLS implements -ls and -fls.
func FLS(e *types.Expr, s *types.State) bool {
	cfile := e.CFile
	users := s.Cmd.Users
	groups := s.Cmd.Groups
	f := s.File
	statbuf := evalStat(s)
	if statbuf == nil {
		return true
	}

	blocks := (statbuf.Blocks*walk.BlockSize + 1023) / 1024
	acl := ' '
	if present, _ := checkACL(f.Path); present {
		acl = '+'
	}
	if err := cfile.Printf("%9d %6d %s%c %2d ", statbuf.Ino, blocks, walk.ModeString(statbuf.Mode), acl, statbuf.Nlink); err != nil {
		reportError(s, err)
		return true
	}

	owner := fmt.Sprintf("%-8d", statbuf.UID)
	if entry := users.LookupUID(statbuf.UID); entry != nil {
		owner = fmt.Sprintf("%-8s", entry.Username)
	}
	group := fmt.Sprintf("%-8d", statbuf.GID)
	if entry := groups.LookupGID(statbuf.GID); entry != nil {
		group = fmt.Sprintf("%-8s", entry.Name)
	}
	if err := cfile.Printf(" %s %s", owner, group); err != nil {
		reportError(s, err)
		return true
	}

	if f.Type&(walk.Blk|walk.Chr) != 0 {
		major := unix.Major(statbuf.Rdev)
		minor := unix.Minor(statbuf.Rdev)
		if err := cfile.Printf(" %3d, %3d", major, minor); err != nil {
			reportError(s, err)
			return true
		}
	} else {
		if err := cfile.Printf(" %8d", statbuf.Size); err != nil {
			reportError(s, err)
			return true
		}
	}

	mtime := statbuf.MTime.Unix()
	now := e.RefTime.Unix()
	sixMonthsAgo := now - sixMonths
	tomorrow := now + 24*60*60
	format := "%b %e %H:%M"
	if mtime <= sixMonthsAgo || mtime >= tomorrow {
		format = "%b %e  %Y"
	}
	if err := cfile.Printf(" %s ", timefmt.Format(statbuf.MTime, format)); err != nil {
		reportError(s, err)
		return true
	}

	if err := cfile.PrintPath(f); err != nil {
		reportError(s, err)
		return true
	}

	if f.Type == walk.Lnk {
		if target, err := walk.ReadLink(f, statbuf.Size); err == nil {
			if err := cfile.WriteString(" -> "); err != nil {
				reportError(s, err)
				return true
			}
			if err := cfile.PrintLink(target); err != nil {
				reportError(s, err)
				return true
			}
		}
	}

	if err := cfile.WriteString("\n"); err != nil {
		reportError(s, err)
	}
	return true
}
