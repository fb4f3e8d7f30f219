// Package mounts reads the mount table so file system type names can be
// looked up by device number.
package mounts

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Entry is one mounted file system.
type Entry struct {
	// Point is the mount point.
	Point string
	// Type is the file system type name, e.g. "ext4".
	Type string
}

// Table maps devices to file system types.
type Table struct {
	entries []Entry

	byDev    map[uint64]string
	resolved bool
}

var tablePaths = []string{"/proc/self/mounts", "/etc/mtab"}

// Parse reads the system mount table.
func Parse() (*Table, error) {
	var file *os.File
	var err error
	for _, path := range tablePaths {
		file, err = os.Open(path)
		if err == nil {
			break
		}
	}
	if file == nil {
		return nil, err
	}
	defer file.Close()

	table := &Table{byDev: make(map[uint64]string)}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		table.entries = append(table.entries, Entry{
			Point: unescapePoint(fields[1]),
			Type:  fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// FSType returns the file system type name for a device, or "unknown".
// Mount points are statted lazily on the first lookup; unreachable ones
// are skipped.
func (t *Table) FSType(dev uint64) string {
	if t == nil {
		return "unknown"
	}
	if !t.resolved {
		t.resolve()
	}
	if name, ok := t.byDev[dev]; ok {
		return name
	}
	return "unknown"
}

func (t *Table) resolve() {
	t.resolved = true
	for _, entry := range t.entries {
		var st unix.Stat_t
		if err := unix.Lstat(entry.Point, &st); err != nil {
			continue
		}
		t.byDev[uint64(st.Dev)] = entry.Type
	}
}

// /proc/self/mounts escapes whitespace in mount points as octal.
func unescapePoint(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			c := (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			b.WriteByte(c)
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
