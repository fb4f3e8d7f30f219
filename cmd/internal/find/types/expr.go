package types

import (
	"regexp"
	"strings"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/execer"
	"github.com/bfind/bfind/cmd/internal/find/printf"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/walk"
	"github.com/gobwas/glob"
)

// CmpFlag is a numeric comparison mode.
type CmpFlag int

const (
	// CmpExact matches exactly n.
	CmpExact CmpFlag = iota
	// CmpLess matches less than n.
	CmpLess
	// CmpGreater matches greater than n.
	CmpGreater
)

// ModeCmp is a permission comparison mode.
type ModeCmp int

const (
	// ModeExact requires the whole permission mode to match (MODE).
	ModeExact ModeCmp = iota
	// ModeAll requires all target bits to be set (-MODE).
	ModeAll
	// ModeAny requires any target bit to be set (/MODE).
	ModeAny
)

// TimeUnit scales a time difference.
type TimeUnit int

const (
	// Minutes measures in 60-second units.
	Minutes TimeUnit = iota
	// Days measures in 24-hour units.
	Days
)

// SizeUnit scales a file size.
type SizeUnit int

const (
	// SizeBlocks is 512-byte blocks.
	SizeBlocks SizeUnit = iota
	// SizeBytes is single bytes.
	SizeBytes
	// SizeWords is two-byte words.
	SizeWords
	// SizeKB is kibibytes.
	SizeKB
	// SizeMB is mebibytes.
	SizeMB
	// SizeGB is gibibytes.
	SizeGB
	// SizeTB is tebibytes.
	SizeTB
	// SizePB is pebibytes.
	SizePB
)

// SizeScales maps units to bytes.
var SizeScales = [...]int64{
	SizeBlocks: 512,
	SizeBytes:  1,
	SizeWords:  2,
	SizeKB:     1024,
	SizeMB:     1024 * 1024,
	SizeGB:     1024 * 1024 * 1024,
	SizeTB:     1024 * 1024 * 1024 * 1024,
	SizePB:     1024 * 1024 * 1024 * 1024 * 1024,
}

// EvalFunc evaluates an expression node against the current visit.
type EvalFunc func(e *Expr, s *State) bool

// Expr is one node of the parsed expression tree. Interior nodes hold
// LHS/RHS children; leaves carry whichever payload fields their
// evaluator reads. During a visit the tree is read-only apart from the
// counters.
type Expr struct {
	// Eval evaluates this node.
	Eval EvalFunc

	// LHS and RHS are the children of interior nodes. Negations use
	// only RHS.
	LHS *Expr
	RHS *Expr

	// Argv holds the command line tokens this node was parsed from.
	Argv []string

	// AlwaysTrue and AlwaysFalse are parser hints: a returning
	// evaluator is promised to return that constant.
	AlwaysTrue  bool
	AlwaysFalse bool
	// NeverReturns marks nodes that always halt the traversal.
	NeverReturns bool

	// Evaluations counts the times this node was evaluated, Successes
	// the times it returned true.
	Evaluations uint64
	Successes   uint64
	// Elapsed is the cumulative time spent in this node.
	Elapsed time.Duration

	// PersistentFDs counts descriptors this node keeps open for the
	// whole traversal; EphemeralFDs those it opens transiently.
	PersistentFDs int
	EphemeralFDs  int

	// IData is the integer operand, compared per CmpFlag.
	IData   int64
	CmpFlag CmpFlag
	// SData is the string operand.
	SData string
	// Pattern is a compiled glob for name-ish tests; CaseFold matches
	// it case-insensitively.
	Pattern  glob.Glob
	CaseFold bool
	// Regex is the compiled -regex operand.
	Regex *regexp.Regexp
	// RefTime is the reference timestamp for time tests.
	RefTime time.Time
	// StatField selects the timestamp a time test reads.
	StatField walk.StatField
	TimeUnit  TimeUnit
	SizeUnit  SizeUnit
	// FileMode/DirMode are the -perm targets, selected by entry type.
	FileMode uint32
	DirMode  uint32
	ModeCmp  ModeCmp
	// Dev/Ino is the -samefile identity.
	Dev uint64
	Ino uint64
	// CFile is the output stream for printing actions.
	CFile *cmdutil.CFile
	// Printf is the compiled -printf program.
	Printf *printf.Program
	// Exec is the batch processor for -exec.
	Exec *execer.Execer
}

// NewExpr creates a leaf node.
func NewExpr(eval EvalFunc, argv []string) *Expr {
	return &Expr{Eval: eval, Argv: argv}
}

// Cmp three-way compares n against the node's integer operand.
func (e *Expr) Cmp(n int64) bool {
	switch e.CmpFlag {
	case CmpExact:
		return n == e.IData
	case CmpLess:
		return n < e.IData
	case CmpGreater:
		return n > e.IData
	}
	return false
}

// String renders the node's originating tokens.
func (e *Expr) String() string {
	return strings.Join(e.Argv, " ")
}

// ForEach visits every node of the tree in pre-order.
func (e *Expr) ForEach(fn func(*Expr)) {
	if e == nil {
		return
	}
	fn(e)
	e.LHS.ForEach(fn)
	e.RHS.ForEach(fn)
}
