// Package walk implements the traversal driver behind bfind: a file-walking
// API that visits every file under a set of starting paths breadth-first by
// default, calling back for each one and honouring the callback's
// continue/prune/stop instructions.
package walk

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// Flags configure a walk.
type Flags uint

const (
	// FlagStat stats every file before its callback.
	FlagStat Flags = 1 << iota
	// FlagRecover continues the walk after transient errors. This is
	// the only behaviour this driver implements, so the flag is
	// accepted for configuration dumps but changes nothing.
	FlagRecover
	// FlagDepth delivers post-order visits so files can be processed
	// before their parent directories.
	FlagDepth
	// FlagComFollow follows symbolic links given as starting paths.
	FlagComFollow
	// FlagLogical follows all symbolic links.
	FlagLogical
	// FlagDetectCycles checks for filesystem loops while following
	// links.
	FlagDetectCycles
	// FlagMount excludes mount points and everything below them. Only
	// the BFS and DFS strategies check device boundaries; IDS ignores
	// this flag.
	FlagMount
	// FlagXDev visits mount points but does not descend past them. Only
	// the BFS and DFS strategies check device boundaries; IDS ignores
	// this flag.
	FlagXDev
)

// Strategy selects a traversal order.
type Strategy int

const (
	// BFS visits shallower files before deeper ones.
	BFS Strategy = iota
	// DFS exhausts a subtree before moving to its siblings.
	DFS
	// IDS emulates breadth-first order with repeated depth-limited
	// passes.
	IDS
)

func (s Strategy) String() string {
	switch s {
	case DFS:
		return "DFS"
	case IDS:
		return "IDS"
	default:
		return "BFS"
	}
}

// Callback is invoked once per visit. The driver honours Prune by not
// descending and Stop by terminating promptly.
type Callback func(*File) Action

// Options configure a Walk.
type Options struct {
	// Paths are the starting paths.
	Paths []string
	// Callback is invoked for every visited file.
	Callback Callback
	// NOpenFD bounds the number of directory descriptors the walk may
	// hold open at once.
	NOpenFD int
	// Flags tune the traversal.
	Flags Flags
	// Strategy selects the traversal order.
	Strategy Strategy
}

type fileID struct {
	dev, ino uint64
}

// frame tracks a directory whose subtree is in flight, so post-order
// visits fire once every descendant has been handled.
type frame struct {
	path    string
	depth   int
	root    string
	rootDev uint64
	parent  *frame
	// pending counts child subtrees that have not finished yet.
	pending int
	// read is set once the directory itself has been listed.
	read bool
	// ancestors is the (dev, ino) chain above this directory, kept
	// only while detecting cycles.
	ancestors []fileID
}

type walker struct {
	opts    *Options
	stopped bool
	// openDirs counts directory descriptors currently held open, so
	// recursive descents stay within the NOpenFD budget.
	openDirs int
	// pruned remembers pruned directories across IDS passes.
	pruned map[string]bool
	// deepest is the deepest depth any IDS pass has visited.
	deepest int
}

// holdDir reports whether one more directory descriptor may stay open
// across a descent. One slot is always reserved for reading the next
// directory.
func (w *walker) holdDir() bool {
	return w.openDirs < w.opts.NOpenFD-1
}

// Walk traverses opts.Paths, invoking opts.Callback for every file.
func Walk(opts *Options) error {
	if opts.Callback == nil {
		return errors.New("walk: no callback")
	}
	if len(opts.Paths) == 0 {
		return errors.New("walk: no paths")
	}
	w := &walker{opts: opts}
	if opts.Strategy == IDS {
		w.pruned = make(map[string]bool)
	}

	switch opts.Strategy {
	case DFS:
		w.dfs()
	case IDS:
		w.ids()
	default:
		w.bfs()
	}
	return nil
}

// visit runs the callback for one file, pre-statting if requested.
func (w *walker) visit(f *File) Action {
	if w.opts.Flags&FlagStat != 0 && f.Err == nil {
		if _, err := f.Stat(f.StatFlags); err != nil && f.Type == Unknown {
			f.Type = ErrorType
			f.Err = err
		}
	}
	action := w.opts.Callback(f)
	if action == Stop {
		w.stopped = true
	}
	return action
}

// visitError delivers a traversal error for path.
func (w *walker) visitError(path, root string, depth int, err error) {
	f := &File{
		Path:      path,
		NameOff:   nameOffset(path),
		Root:      root,
		Depth:     depth,
		Visit:     VisitPre,
		Type:      ErrorType,
		Err:       err,
		AtFD:      unix.AT_FDCWD,
		AtPath:    path,
		StatFlags: entryStatFlags(w.opts.Flags, depth),
	}
	if w.visit(f) == Stop {
		w.stopped = true
	}
}

func entryStatFlags(flags Flags, depth int) StatFlag {
	if flags&FlagLogical != 0 {
		return StatFollow
	}
	if flags&FlagComFollow != 0 && depth == 0 {
		return StatTryFollow
	}
	return StatNoFollow
}

// crossesMount applies the mount boundary flags, reporting whether f sits
// on a different device than its root along with f's own device. When
// neither boundary flag is set, or f cannot be statted, it reports false
// and returns rootDev unchanged.
func (w *walker) crossesMount(f *File, rootDev uint64) (bool, uint64) {
	if w.opts.Flags&(FlagMount|FlagXDev) == 0 {
		return false, rootDev
	}
	statbuf, err := f.Stat(f.StatFlags)
	if err != nil {
		return false, rootDev
	}
	return rootDev != 0 && statbuf.Dev != rootDev, statbuf.Dev
}

// readDir lists a directory, returning its entries sorted by name.
func readDir(path string) (*os.File, []os.DirEntry, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, nil, err
	}
	dir := os.NewFile(uintptr(fd), path)
	entries, err := dir.ReadDir(-1)
	if err != nil {
		dir.Close()
		return nil, nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return dir, entries, nil
}

// childFile builds the File for one directory entry. dirfd is the open
// descriptor for parent, which remains valid for the duration of the
// child's pre-order visit.
func childFile(parent string, dirfd int, entry os.DirEntry, root string, depth int, flags Flags) *File {
	path := filepath.Join(parent, entry.Name())
	return &File{
		Path:      path,
		NameOff:   len(path) - len(entry.Name()),
		Root:      root,
		Depth:     depth,
		Visit:     VisitPre,
		Type:      ModeTypeFlag(entry.Type()),
		AtFD:      dirfd,
		AtPath:    entry.Name(),
		StatFlags: entryStatFlags(flags, depth),
	}
}

// isDir resolves whether f should be treated as a directory to descend
// into, following links only under a logical walk.
func (w *walker) isDir(f *File) bool {
	t, err := f.TypeAt(f.StatFlags)
	if err != nil {
		return false
	}
	return t&Dir != 0
}

// checkCycle reports a filesystem loop if dir's identity appears in its
// own ancestor chain.
func (w *walker) checkCycle(f *File, ancestors []fileID) (fileID, bool) {
	statbuf, err := f.Stat(f.StatFlags)
	if err != nil {
		return fileID{}, false
	}
	id := fileID{statbuf.Dev, statbuf.Ino}
	for _, a := range ancestors {
		if a == id {
			return id, true
		}
	}
	return id, false
}

/*
 * Breadth-first traversal. Directories are queued as frames; each frame's
 * children get their pre-order visits while the parent descriptor is
 * open. Post-order visits fire once a frame's pending count drains.
 */

func (w *walker) bfs() {
	var queue []*frame
	for _, root := range w.opts.Paths {
		if w.stopped {
			return
		}
		queue = w.walkRoot(root, queue)
	}

	for len(queue) > 0 && !w.stopped {
		fr := queue[0]
		queue = queue[1:]
		queue = w.processFrame(fr, queue)
	}
}

// walkRoot visits one starting path and queues it if it is a directory.
func (w *walker) walkRoot(root string, queue []*frame) []*frame {
	f := newRootFile(root, w.opts.Flags)
	if _, err := f.Stat(f.StatFlags); err != nil {
		f.Type = ErrorType
		f.Err = err
	} else if f.Type == Unknown {
		if t, err := f.TypeAt(f.StatFlags); err == nil {
			f.Type = t
		}
	}

	action := w.visit(f)
	if w.stopped || action != Continue || f.Err != nil || !w.isDir(f) {
		return queue
	}

	fr := &frame{path: root, depth: 0, root: root}
	if statbuf, err := f.Stat(f.StatFlags); err == nil {
		fr.rootDev = statbuf.Dev
		if w.detectingCycles() {
			fr.ancestors = []fileID{{statbuf.Dev, statbuf.Ino}}
		}
	}
	return append(queue, fr)
}

func (w *walker) detectingCycles() bool {
	return w.opts.Flags&FlagDetectCycles != 0 && w.opts.Flags&(FlagLogical|FlagComFollow) != 0
}

// processFrame lists one queued directory, visits its children, and
// queues any subdirectories.
func (w *walker) processFrame(fr *frame, queue []*frame) []*frame {
	dir, entries, err := readDir(fr.path)
	if err != nil {
		w.visitError(fr.path, fr.root, fr.depth, err)
		w.finishFrame(fr)
		return queue
	}

	dirfd := int(dir.Fd())
	for _, entry := range entries {
		if w.stopped {
			break
		}
		f := childFile(fr.path, dirfd, entry, fr.root, fr.depth+1, w.opts.Flags)

		var id fileID
		cycle := false
		if w.detectingCycles() && w.isDir(f) {
			if id, cycle = w.checkCycle(f, fr.ancestors); cycle {
				f.Err = unix.ELOOP
				f.Type = ErrorType
			}
		}
		crosses, dev := w.crossesMount(f, fr.rootDev)
		if crosses && w.opts.Flags&FlagMount != 0 {
			continue
		}

		action := w.visit(f)
		if w.stopped {
			break
		}
		if action != Continue || f.Err != nil || crosses || !w.isDir(f) {
			continue
		}

		child := &frame{
			path:    f.Path,
			depth:   f.Depth,
			root:    fr.root,
			rootDev: dev,
			parent:  fr,
		}
		if w.detectingCycles() {
			child.ancestors = append(append([]fileID{}, fr.ancestors...), id)
		}
		fr.pending++
		queue = append(queue, child)
	}
	dir.Close()

	fr.read = true
	if fr.pending == 0 {
		w.finishFrame(fr)
	}
	return queue
}

// finishFrame emits the post-order visit for a completed subtree and
// cascades completion up the frame chain.
func (w *walker) finishFrame(fr *frame) {
	for fr != nil {
		if w.opts.Flags&FlagDepth != 0 && !w.stopped {
			f := &File{
				Path:      fr.path,
				NameOff:   nameOffset(fr.path),
				Root:      fr.root,
				Depth:     fr.depth,
				Visit:     VisitPost,
				Type:      Dir,
				AtFD:      unix.AT_FDCWD,
				AtPath:    fr.path,
				StatFlags: entryStatFlags(w.opts.Flags, fr.depth),
			}
			w.visit(f)
		}
		parent := fr.parent
		if parent == nil {
			return
		}
		parent.pending--
		if !parent.read || parent.pending > 0 {
			return
		}
		fr = parent
	}
}

/*
 * Depth-first traversal.
 */

func (w *walker) dfs() {
	for _, root := range w.opts.Paths {
		if w.stopped {
			return
		}
		f := newRootFile(root, w.opts.Flags)
		if _, err := f.Stat(f.StatFlags); err != nil {
			f.Type = ErrorType
			f.Err = err
		} else if t, err := f.TypeAt(f.StatFlags); err == nil {
			f.Type = t
		}

		var ancestors []fileID
		rootDev := uint64(0)
		if statbuf, err := f.Stat(f.StatFlags); err == nil {
			rootDev = statbuf.Dev
			if w.detectingCycles() {
				ancestors = []fileID{{statbuf.Dev, statbuf.Ino}}
			}
		}
		w.dfsVisit(f, rootDev, ancestors)
	}
}

// dfsVisit handles one file and, for directories, recurses into its
// children before emitting the post-order visit.
func (w *walker) dfsVisit(f *File, rootDev uint64, ancestors []fileID) {
	action := w.visit(f)
	if w.stopped {
		return
	}

	descend := action == Continue && f.Err == nil && w.isDir(f)
	if descend {
		crosses, _ := w.crossesMount(f, rootDev)
		if crosses {
			descend = false
		}
	}

	if descend {
		dir, entries, err := readDir(f.Path)
		if err != nil {
			w.visitError(f.Path, f.Root, f.Depth, err)
		} else {
			dirfd := int(dir.Fd())
			// Keep this directory open across the descent only while
			// the budget has room; past it, children are addressed by
			// full path instead.
			held := w.holdDir()
			if held {
				w.openDirs++
			} else {
				dir.Close()
			}
			for _, entry := range entries {
				if w.stopped {
					break
				}
				child := childFile(f.Path, dirfd, entry, f.Root, f.Depth+1, w.opts.Flags)
				if !held {
					child.AtFD = unix.AT_FDCWD
					child.AtPath = child.Path
				}
				childAncestors := ancestors
				if w.detectingCycles() && w.isDir(child) {
					id, cycle := w.checkCycle(child, ancestors)
					if cycle {
						child.Err = unix.ELOOP
						child.Type = ErrorType
					} else {
						childAncestors = append(append([]fileID{}, ancestors...), id)
					}
				}
				crosses, childDev := w.crossesMount(child, rootDev)
				if crosses && w.opts.Flags&FlagMount != 0 {
					continue
				}
				childRootDev := rootDev
				if !crosses {
					childRootDev = childDev
				}
				if crosses {
					w.visit(child)
					continue
				}
				w.dfsVisit(child, childRootDev, childAncestors)
			}
			if held {
				dir.Close()
				w.openDirs--
			}
		}
	}

	if w.opts.Flags&FlagDepth != 0 && !w.stopped && f.Err == nil && w.isDir(f) {
		post := *f
		post.Visit = VisitPost
		post.AtFD = unix.AT_FDCWD
		post.AtPath = post.Path
		w.visit(&post)
	}
}

/*
 * Iterative deepening. Each pass runs a depth-limited scan that only
 * delivers visits at the frontier depth, so files come out in
 * breadth-first order while at most one directory is held open per
 * ancestor level. Post-order visits, when requested, fire in ascending
 * passes from the deepest frontier back to the roots.
 */

func (w *walker) ids() {
	w.deepest = -1
	for limit := 0; !w.stopped; limit++ {
		if !w.idsPass(limit, VisitPre) {
			break
		}
	}
	if w.opts.Flags&FlagDepth == 0 || w.stopped {
		return
	}
	for limit := w.deepest; limit >= 0 && !w.stopped; limit-- {
		w.idsPass(limit, VisitPost)
	}
}

// idsPass scans to the given depth, visiting only files at exactly that
// depth. It reports whether anything at the frontier could go deeper.
func (w *walker) idsPass(limit int, visit Visit) bool {
	deeper := false
	for _, root := range w.opts.Paths {
		if w.stopped {
			return false
		}
		f := newRootFile(root, w.opts.Flags)
		if _, err := f.Stat(f.StatFlags); err != nil {
			f.Type = ErrorType
			f.Err = err
		} else if t, err := f.TypeAt(f.StatFlags); err == nil {
			f.Type = t
		}
		if w.idsStep(f, 0, limit, visit) {
			deeper = true
		}
	}
	return deeper
}

func (w *walker) idsStep(f *File, depth, limit int, visit Visit) bool {
	if w.pruned[f.Path] {
		return false
	}
	if depth == limit {
		if visit == VisitPost && (f.Err != nil || f.Type == ErrorType) {
			return false
		}
		f.Visit = visit
		action := w.visit(f)
		if visit == VisitPre {
			if depth > w.deepest {
				w.deepest = depth
			}
			if action != Continue {
				if action == Prune {
					w.pruned[f.Path] = true
				}
				return false
			}
		}
		return f.Err == nil && w.isDir(f)
	}

	// Not yet at the frontier: descend silently.
	if f.Err != nil || !w.isDir(f) {
		return false
	}
	dir, entries, err := readDir(f.Path)
	if err != nil {
		if visit == VisitPre {
			w.visitError(f.Path, f.Root, depth, err)
		}
		return false
	}
	deeper := false
	dirfd := int(dir.Fd())
	// As in the depth-first descent, ancestors stay open only while
	// the budget has room.
	held := w.holdDir()
	if held {
		w.openDirs++
	} else {
		dir.Close()
	}
	for _, entry := range entries {
		if w.stopped {
			break
		}
		child := childFile(f.Path, dirfd, entry, f.Root, depth+1, w.opts.Flags)
		if !held {
			child.AtFD = unix.AT_FDCWD
			child.AtPath = child.Path
		}
		if w.idsStep(child, depth+1, limit, visit) {
			deeper = true
		}
	}
	if held {
		dir.Close()
		w.openDirs--
	}
	return deeper
}
