package walk

import (
	"io/fs"
	"strings"

	"golang.org/x/sys/unix"
)

// TypeFlag identifies a file's type. The values form a bitmask so that
// predicates can match several types at once.
type TypeFlag uint16

const (
	// Unknown means the type has not been determined yet.
	Unknown TypeFlag = 0
	// Blk is a block device.
	Blk TypeFlag = 1 << iota
	// Chr is a character device.
	Chr
	// Dir is a directory.
	Dir
	// Fifo is a named pipe.
	Fifo
	// Lnk is a symbolic link.
	Lnk
	// Reg is a regular file.
	Reg
	// Sock is a socket.
	Sock
	// ErrorType means an error occurred while determining the type.
	ErrorType
)

// ModeTypeFlag converts an io/fs file mode to a TypeFlag.
func ModeTypeFlag(mode fs.FileMode) TypeFlag {
	switch {
	case mode&fs.ModeIrregular != 0:
		return Unknown
	case mode.IsRegular():
		return Reg
	case mode.IsDir():
		return Dir
	case mode&fs.ModeSymlink != 0:
		return Lnk
	case mode&fs.ModeNamedPipe != 0:
		return Fifo
	case mode&fs.ModeSocket != 0:
		return Sock
	case mode&fs.ModeCharDevice != 0:
		return Chr
	case mode&fs.ModeDevice != 0:
		return Blk
	default:
		return Unknown
	}
}

// RawModeTypeFlag converts a raw st_mode to a TypeFlag.
func RawModeTypeFlag(mode uint32) TypeFlag {
	switch mode & unix.S_IFMT {
	case unix.S_IFBLK:
		return Blk
	case unix.S_IFCHR:
		return Chr
	case unix.S_IFDIR:
		return Dir
	case unix.S_IFIFO:
		return Fifo
	case unix.S_IFLNK:
		return Lnk
	case unix.S_IFREG:
		return Reg
	case unix.S_IFSOCK:
		return Sock
	default:
		return Unknown
	}
}

var typeNames = []struct {
	flag TypeFlag
	name string
}{
	{Blk, "BLK"},
	{Chr, "CHR"},
	{Dir, "DIR"},
	{Fifo, "FIFO"},
	{Lnk, "LNK"},
	{Reg, "REG"},
	{Sock, "SOCK"},
	{ErrorType, "ERROR"},
}

func (t TypeFlag) String() string {
	if t == Unknown {
		return "UNKNOWN"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.flag != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, " | ")
}
