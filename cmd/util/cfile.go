package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/bfind/bfind/walk"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// CFile is an output stream that may colour the paths written to it,
// in the manner of ls: directories blue, links cyan, executables green,
// broken links red.
type CFile struct {
	W io.Writer
	// Colored enables colour escapes.
	Colored bool
}

// NewCFile wraps a writer. Colour is enabled only for terminals.
func NewCFile(w io.Writer) *CFile {
	c := &CFile{W: w}
	if f, ok := w.(*os.File); ok {
		c.Colored = isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return c
}

var (
	dirColor    = color.New(color.FgBlue, color.Bold)
	linkColor   = color.New(color.FgCyan, color.Bold)
	execColor   = color.New(color.FgGreen, color.Bold)
	brokenColor = color.New(color.FgRed, color.Bold)
	sockColor   = color.New(color.FgMagenta, color.Bold)
	fifoColor   = color.New(color.FgYellow)
	devColor    = color.New(color.FgYellow, color.Bold)
)

// pathColor picks the colour for a file, or nil for plain output.
// Colouring is best-effort: stat problems just mean no colour.
func pathColor(f *walk.File) *color.Color {
	t, err := f.TypeAt(walk.StatNoFollow)
	if err != nil {
		return nil
	}
	switch t {
	case walk.Dir:
		return dirColor
	case walk.Lnk:
		if _, err := f.Stat(walk.StatFollow); err != nil {
			return brokenColor
		}
		return linkColor
	case walk.Sock:
		return sockColor
	case walk.Fifo:
		return fifoColor
	case walk.Blk, walk.Chr:
		return devColor
	case walk.Reg:
		if statbuf, err := f.Stat(walk.StatNoFollow); err == nil && statbuf.Mode&0111 != 0 {
			return execColor
		}
	}
	return nil
}

// PrintPath writes the file's path, colouring the basename by file type
// when the stream is a terminal. No terminator is written.
func (c *CFile) PrintPath(f *walk.File) error {
	if !c.Colored {
		_, err := io.WriteString(c.W, f.Path)
		return err
	}
	col := pathColor(f)
	if col == nil {
		_, err := io.WriteString(c.W, f.Path)
		return err
	}
	if _, err := io.WriteString(c.W, f.Path[:f.NameOff]); err != nil {
		return err
	}
	_, err := io.WriteString(c.W, col.Sprint(f.Path[f.NameOff:]))
	return err
}

// PrintLink writes a symbolic link target in the link colour.
func (c *CFile) PrintLink(target string) error {
	if !c.Colored {
		_, err := io.WriteString(c.W, target)
		return err
	}
	_, err := io.WriteString(c.W, linkColor.Sprint(target))
	return err
}

// Printf formats onto the underlying stream.
func (c *CFile) Printf(format string, a ...interface{}) error {
	_, err := fmt.Fprintf(c.W, format, a...)
	return err
}

// WriteString writes a plain string to the stream.
func (c *CFile) WriteString(s string) error {
	_, err := io.WriteString(c.W, s)
	return err
}
