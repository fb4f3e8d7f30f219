package walk

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Visit says whether a callback invocation is happening in pre- or
// post-order.
type Visit int

const (
	// VisitPre is a pre-order visit.
	VisitPre Visit = iota
	// VisitPost is a post-order visit.
	VisitPost
)

func (v Visit) String() string {
	if v == VisitPost {
		return "POST"
	}
	return "PRE"
}

// Action is the callback's instruction to the walk.
type Action int

const (
	// Continue descends into the file normally.
	Continue Action = iota
	// Prune skips the file's children.
	Prune
	// Stop halts the walk entirely.
	Stop
)

func (a Action) String() string {
	switch a {
	case Prune:
		return "PRUNE"
	case Stop:
		return "STOP"
	default:
		return "CONTINUE"
	}
}

type statCache struct {
	buf  *Stat
	err  error
	done bool
}

// File describes the current file to the walk callback.
type File struct {
	// Path is the full path to the file.
	Path string
	// NameOff is the offset of the basename within Path.
	NameOff int

	// Root is the starting path this file was found under.
	Root string
	// Depth is the file's depth below Root.
	Depth int
	// Visit says which visit this is.
	Visit Visit

	// Type is the file's type as reported by the directory entry,
	// i.e. without following symbolic links. For a starting path it is
	// the type under the traversal's follow policy, and BFS post-order
	// visits always carry Dir.
	Type TypeFlag
	// Err is the traversal error for this file, if any.
	Err error

	// AtFD is a parent directory descriptor for the *at() family of
	// calls, or unix.AT_FDCWD.
	AtFD int
	// AtPath is the path relative to AtFD.
	AtPath string

	// StatFlags is the follow policy of the current traversal.
	StatFlags StatFlag

	statc  statCache
	lstatc statCache
}

// Name returns the file's basename.
func (f *File) Name() string {
	return f.Path[f.NameOff:]
}

// Parent returns the directory containing the file.
func (f *File) Parent() string {
	return filepath.Dir(f.Path)
}

// Stat stats the file with the given follow policy, caching the result.
// Repeated calls return the same buffer and error.
func (f *File) Stat(flags StatFlag) (*Stat, error) {
	cache := &f.statc
	if flags&StatNoFollow != 0 {
		cache = &f.lstatc
	}
	if !cache.done {
		cache.buf, cache.err = StatAt(f.AtFD, f.AtPath, flags)
		cache.done = true
		// A non-link resolves identically either way.
		if cache.err == nil && f.Type != Lnk && f.Type != Unknown {
			other := &f.statc
			if cache == other {
				other = &f.lstatc
			}
			if !other.done {
				*other = *cache
			}
		}
	}
	return cache.buf, cache.err
}

// StatCached reports the cached stat result for the given policy without
// triggering a new system call.
func (f *File) StatCached(flags StatFlag) (*Stat, error, bool) {
	cache := &f.statc
	if flags&StatNoFollow != 0 {
		cache = &f.lstatc
	}
	return cache.buf, cache.err, cache.done
}

// TypeAt determines the file's type under the given follow policy,
// statting if necessary.
func (f *File) TypeAt(flags StatFlag) (TypeFlag, error) {
	if flags&StatNoFollow != 0 && f.Type != Unknown {
		return f.Type, nil
	}
	if flags&StatNoFollow == 0 && f.Type != Unknown && f.Type != Lnk {
		return f.Type, nil
	}
	statbuf, err := f.Stat(flags)
	if err != nil {
		return ErrorType, err
	}
	return RawModeTypeFlag(statbuf.Mode), nil
}

func newRootFile(root string, flags Flags) *File {
	statFlags := StatNoFollow
	if flags&FlagLogical != 0 {
		statFlags = StatFollow
	} else if flags&FlagComFollow != 0 {
		statFlags = StatTryFollow
	}
	return &File{
		Path:      root,
		NameOff:   nameOffset(root),
		Root:      root,
		Depth:     0,
		Visit:     VisitPre,
		AtFD:      unix.AT_FDCWD,
		AtPath:    root,
		StatFlags: statFlags,
	}
}

func nameOffset(path string) int {
	// Mirrors filepath.Base without allocating: the basename starts
	// after the last separator that is followed by more path.
	off := 0
	for i := 0; i < len(path); i++ {
		if path[i] == filepath.Separator && i+1 < len(path) {
			off = i + 1
		}
	}
	return off
}
