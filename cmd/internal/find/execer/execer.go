// Package execer runs the external commands behind -exec and -execdir,
// batching arguments when the command line was terminated with '+'.
package execer

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bfind/bfind/walk"
)

// argMax bounds the bytes of batched arguments handed to one spawn.
// POSIX guarantees far more, but staying low keeps command lines
// portable and failures cheap to retry.
const argMax = 128 * 1024

// placeholder marks where the current path is substituted.
const placeholder = "{}"

// Execer spawns a command per file, or per batch of files.
type Execer struct {
	argv []string
	// dir runs the command from each file's parent directory.
	dir bool
	// batch accumulates paths and substitutes them all for the final
	// {} in one spawn.
	batch bool

	pending     []string
	pendingSize int
	pendingDir  string
}

// New creates an Execer for the given template argv. For batch mode the
// parser guarantees argv ends with the placeholder.
func New(argv []string, dir, batch bool) *Execer {
	return &Execer{argv: argv, dir: dir, batch: batch}
}

// Argv returns the command template.
func (e *Execer) Argv() []string {
	return e.argv
}

// Run hands one file to the command. In batch mode the path is queued
// and the command may or may not spawn now; the per-file result is
// always success unless a flush fails. In single mode the command runs
// to completion and ok reports whether it exited zero.
func (e *Execer) Run(f *walk.File) (ok bool, err error) {
	path := f.Path
	dir := ""
	if e.dir {
		dir = f.Parent()
		path = "./" + f.Name()
	}

	if e.batch {
		if e.dir {
			// Batches can only share a working directory, so -execdir
			// batches flush whenever the directory changes.
			if len(e.pending) > 0 && e.pendingDir != dir {
				if err := e.flush(); err != nil {
					return false, err
				}
			}
			e.pendingDir = dir
		}
		e.pending = append(e.pending, path)
		e.pendingSize += len(path) + 1
		if e.pendingSize >= argMax {
			if err := e.flush(); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	argv := make([]string, len(e.argv))
	for i, arg := range e.argv {
		argv[i] = strings.ReplaceAll(arg, placeholder, path)
	}
	return e.spawn(dir, argv)
}

// Finish flushes any queued batch. It must be called once the traversal
// is over, even if no files matched.
func (e *Execer) Finish() error {
	if !e.batch || len(e.pending) == 0 {
		return nil
	}
	return e.flush()
}

func (e *Execer) flush() error {
	paths := e.pending
	dir := e.pendingDir
	e.pending = nil
	e.pendingSize = 0
	e.pendingDir = ""

	argv := make([]string, 0, len(e.argv)+len(paths))
	for _, arg := range e.argv[:len(e.argv)-1] {
		argv = append(argv, arg)
	}
	argv = append(argv, paths...)

	ok, err := e.spawn(dir, argv)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%v: command exited with nonzero status", e.argv[0])
	}
	return nil
}

func (e *Execer) spawn(dir string, argv []string) (bool, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	if _, exited := err.(*exec.ExitError); exited {
		return false, nil
	}
	return false, err
}
