package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/bfind/bfind/walk"
)

// parseCmp parses a three-way comparison operand: "+N" means greater
// than N, "-N" less than N, and a bare N exactly N.
func parseCmp(s string) (types.CmpFlag, int64, error) {
	cmp := types.CmpExact
	switch {
	case strings.HasPrefix(s, "+"):
		cmp = types.CmpGreater
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		cmp = types.CmpLess
		s = s[1:]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("expected a non-negative integer")
	}
	return cmp, n, nil
}

var sizeUnits = map[byte]types.SizeUnit{
	'b': types.SizeBlocks,
	'c': types.SizeBytes,
	'w': types.SizeWords,
	'k': types.SizeKB,
	'M': types.SizeMB,
	'G': types.SizeGB,
	'T': types.SizeTB,
	'P': types.SizePB,
}

// parseSize parses a -size operand: an optional sign, digits, and an
// optional unit suffix. The default unit is 512-byte blocks.
func parseSize(s string) (types.CmpFlag, int64, types.SizeUnit, error) {
	unit := types.SizeBlocks
	if len(s) > 0 {
		if u, ok := sizeUnits[s[len(s)-1]]; ok {
			unit = u
			s = s[:len(s)-1]
		}
	}
	cmp, n, err := parseCmp(s)
	if err != nil {
		return 0, 0, 0, err
	}
	return cmp, n, unit, nil
}

var typeFlags = map[byte]walk.TypeFlag{
	'b': walk.Blk,
	'c': walk.Chr,
	'd': walk.Dir,
	'p': walk.Fifo,
	'f': walk.Reg,
	'l': walk.Lnk,
	's': walk.Sock,
}

// parseTypeMask parses a -type operand: one or more comma-separated
// type letters, combined into a mask.
func parseTypeMask(s string) (int64, error) {
	var mask walk.TypeFlag
	for _, letter := range strings.Split(s, ",") {
		if len(letter) != 1 {
			return 0, fmt.Errorf("%v: unknown type", letter)
		}
		flag, ok := typeFlags[letter[0]]
		if !ok {
			return 0, fmt.Errorf("%v: unknown type", letter)
		}
		mask |= flag
	}
	return int64(mask), nil
}
