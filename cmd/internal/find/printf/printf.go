// Package printf interprets the format strings behind -printf and
// -fprintf. A format is compiled once at parse time into a program of
// directives, then run per file.
package printf

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bfind/bfind/passwd"
	"github.com/bfind/bfind/walk"
	"github.com/itchyny/timefmt-go"
)

// Program is a compiled format string.
type Program struct {
	parts []part

	// Users and Groups resolve %u and %g; numeric fallback otherwise.
	Users  *passwd.Users
	Groups *passwd.Groups
}

type part struct {
	// literal text, written verbatim when directive is 0.
	literal string
	// directive is the format character, e.g. 'p' for %p.
	directive byte
	// timeField selects the timestamp for %A/%C/%T.
	timeField walk.StatField
	// timeFormat is the strftime directive for %A/%C/%T, or '@' for
	// epoch seconds.
	timeFormat byte
	// width is the fmt width prefix between % and the directive,
	// e.g. "-8".
	width string
}

var escapes = map[byte]string{
	'a': "\a", 'b': "\b", 'f': "\f", 'n': "\n",
	'r': "\r", 't': "\t", 'v': "\v", '0': "\x00", '\\': "\\",
}

// Parse compiles a format string.
func Parse(format string) (*Program, error) {
	p := &Program{}
	var literal strings.Builder
	flushLiteral := func() {
		if literal.Len() > 0 {
			p.parts = append(p.parts, part{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '\\':
			i++
			if i >= len(format) {
				return nil, fmt.Errorf("incomplete escape at end of format")
			}
			esc, ok := escapes[format[i]]
			if !ok {
				return nil, fmt.Errorf("unrecognized escape \\%c", format[i])
			}
			literal.WriteString(esc)
		case '%':
			i++
			if i >= len(format) {
				return nil, fmt.Errorf("incomplete directive at end of format")
			}
			if format[i] == '%' {
				literal.WriteByte('%')
				continue
			}
			width := ""
			for i < len(format) && (format[i] == '-' || (format[i] >= '0' && format[i] <= '9')) {
				width += string(format[i])
				i++
			}
			if i >= len(format) {
				return nil, fmt.Errorf("incomplete directive at end of format")
			}
			d := part{directive: format[i], width: width}
			switch format[i] {
			case 'p', 'f', 'h', 'P', 's', 'b', 'k', 'd', 'm', 'M',
				'u', 'g', 'U', 'G', 'i', 'n', 'y', 'l':
				// no further operand
			case 'a', 'c', 't':
				d.timeField = timeFieldOf(format[i])
				d.timeFormat = 0
			case 'A', 'C', 'T':
				d.timeField = timeFieldOf(format[i])
				i++
				if i >= len(format) {
					return nil, fmt.Errorf("incomplete %%%c directive at end of format", format[i-1])
				}
				d.timeFormat = format[i]
			default:
				return nil, fmt.Errorf("unrecognized directive %%%c", format[i])
			}
			flushLiteral()
			p.parts = append(p.parts, d)
		default:
			literal.WriteByte(c)
		}
	}
	flushLiteral()
	return p, nil
}

func timeFieldOf(c byte) walk.StatField {
	switch c {
	case 'a', 'A':
		return walk.FieldATime
	case 'c', 'C':
		return walk.FieldCTime
	default:
		return walk.FieldMTime
	}
}

// Print runs the program against one file.
func (p *Program) Print(w io.Writer, f *walk.File) error {
	for _, d := range p.parts {
		if d.directive == 0 {
			if _, err := io.WriteString(w, d.literal); err != nil {
				return err
			}
			continue
		}
		value, err := p.expand(&d, f)
		if err != nil {
			return err
		}
		if d.width != "" {
			value = fmt.Sprintf("%"+d.width+"s", value)
		}
		if _, err := io.WriteString(w, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) expand(d *part, f *walk.File) (string, error) {
	switch d.directive {
	case 'p':
		return f.Path, nil
	case 'f':
		return f.Name(), nil
	case 'h':
		return filepath.Dir(f.Path), nil
	case 'P':
		rel := strings.TrimPrefix(f.Path, f.Root)
		return strings.TrimPrefix(rel, "/"), nil
	case 'd':
		return strconv.Itoa(f.Depth), nil
	case 'y':
		return typeLetter(f), nil
	case 'l':
		if t, err := f.TypeAt(walk.StatNoFollow); err != nil || t != walk.Lnk {
			return "", nil
		}
		target, err := walk.ReadLink(f, 0)
		if err != nil {
			return "", err
		}
		return target, nil
	}

	statbuf, err := f.Stat(f.StatFlags)
	if err != nil {
		return "", err
	}
	switch d.directive {
	case 's':
		return strconv.FormatInt(statbuf.Size, 10), nil
	case 'b':
		return strconv.FormatInt(statbuf.Blocks, 10), nil
	case 'k':
		return strconv.FormatInt((statbuf.Blocks*walk.BlockSize+1023)/1024, 10), nil
	case 'm':
		return strconv.FormatUint(uint64(statbuf.Mode&07777), 8), nil
	case 'M':
		return walk.ModeString(statbuf.Mode), nil
	case 'i':
		return strconv.FormatUint(statbuf.Ino, 10), nil
	case 'n':
		return strconv.FormatUint(statbuf.Nlink, 10), nil
	case 'U':
		return strconv.FormatUint(uint64(statbuf.UID), 10), nil
	case 'G':
		return strconv.FormatUint(uint64(statbuf.GID), 10), nil
	case 'u':
		if entry := p.Users.LookupUID(statbuf.UID); entry != nil {
			return entry.Username, nil
		}
		return strconv.FormatUint(uint64(statbuf.UID), 10), nil
	case 'g':
		if entry := p.Groups.LookupGID(statbuf.GID); entry != nil {
			return entry.Name, nil
		}
		return strconv.FormatUint(uint64(statbuf.GID), 10), nil
	case 'a', 'c', 't', 'A', 'C', 'T':
		t, err := statbuf.Time(d.timeField)
		if err != nil {
			return "", err
		}
		return formatTime(t, d.timeFormat)
	}
	return "", fmt.Errorf("unrecognized directive %%%c", d.directive)
}

// ctimeFormat mirrors ctime(3): "Sun Sep 16 01:03:52 1973".
const ctimeFormat = "%a %b %e %H:%M:%S %Y"

func formatTime(t time.Time, format byte) (string, error) {
	switch format {
	case 0:
		return timefmt.Format(t, ctimeFormat), nil
	case '@':
		return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond()), nil
	default:
		return timefmt.Format(t, "%"+string(format)), nil
	}
}

func typeLetter(f *walk.File) string {
	t, err := f.TypeAt(walk.StatNoFollow)
	if err != nil {
		return "U"
	}
	switch t {
	case walk.Blk:
		return "b"
	case walk.Chr:
		return "c"
	case walk.Dir:
		return "d"
	case walk.Fifo:
		return "p"
	case walk.Lnk:
		return "l"
	case walk.Reg:
		return "f"
	case walk.Sock:
		return "s"
	default:
		return "U"
	}
}
