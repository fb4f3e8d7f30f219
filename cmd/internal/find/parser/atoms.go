package parser

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/bfind/bfind/cmd/internal/find/eval"
	"github.com/bfind/bfind/cmd/internal/find/execer"
	"github.com/bfind/bfind/cmd/internal/find/printf"
	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/mounts"
	"github.com/bfind/bfind/munge"
	"github.com/bfind/bfind/walk"
	"github.com/gobwas/glob"
	"golang.org/x/sys/unix"
)

// An atom parses one test, action, or positional option. tokens[0] is
// the token the atom was dispatched on.
type atom func(p *parseState, tokens []string) (*types.Expr, []string, error)

// atoms maps each primary token to its parser. Populated by newAtom at
// init time, in the manner of a dispatch table.
var atoms = make(map[string]atom)

func newAtom(tokens []string, parse atom) atom {
	for _, t := range tokens {
		atoms[t] = parse
	}
	return parse
}

func (p *parseState) parseAtom(tokens []string) (*types.Expr, []string, error) {
	token := tokens[0]
	a, ok := atoms[token]
	if !ok {
		return nil, nil, fmt.Errorf("%v: unknown primary or operator", token)
	}
	e, rest, err := a(p, tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %v", token, err)
	}
	return e, rest, nil
}

// needArg pops the argument of a primary that requires one.
func needArg(tokens []string) (string, []string, error) {
	if len(tokens) < 2 {
		return "", nil, fmt.Errorf("requires additional arguments")
	}
	return tokens[1], tokens[2:], nil
}

/*
 * Constants.
 */

// nolint
var trueAtom = newAtom([]string{"-true"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.True, tokens[:1])
	e.AlwaysTrue = true
	return e, tokens[1:], nil
})

// nolint
var falseAtom = newAtom([]string{"-false"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.False, tokens[:1])
	e.AlwaysFalse = true
	return e, tokens[1:], nil
})

/*
 * Access tests.
 */

func newAccessAtom(token string, mode int64) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		e := types.NewExpr(eval.Access, tokens[:1])
		e.IData = mode
		return e, tokens[1:], nil
	})
}

// nolint
var executableAtom = newAccessAtom("-executable", unix.X_OK)

// nolint
var readableAtom = newAccessAtom("-readable", unix.R_OK)

// nolint
var writableAtom = newAccessAtom("-writable", unix.W_OK)

/*
 * Platform probes.
 */

// nolint
var aclAtom = newAtom([]string{"-acl"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.ACL, tokens[:1]), tokens[1:], nil
})

// nolint
var capableAtom = newAtom([]string{"-capable"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.Capable, tokens[:1]), tokens[1:], nil
})

// nolint
var xattrAtom = newAtom([]string{"-xattr"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.Xattr, tokens[:1]), tokens[1:], nil
})

/*
 * Time tests.
 */

func statFieldOf(c byte) walk.StatField {
	switch c {
	case 'a':
		return walk.FieldATime
	case 'B':
		return walk.FieldBTime
	case 'c':
		return walk.FieldCTime
	default:
		return walk.FieldMTime
	}
}

func newTimeAtom(token string, field walk.StatField, unit types.TimeUnit) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		cmp, n, err := parseCmp(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: illegal time value", arg)
		}
		e := types.NewExpr(eval.Time, tokens[:2])
		e.CmpFlag = cmp
		e.IData = n
		e.StatField = field
		e.TimeUnit = unit
		e.RefTime = p.refTime
		return e, rest, nil
	})
}

// nolint
var aminAtom = newTimeAtom("-amin", walk.FieldATime, types.Minutes)

// nolint
var bminAtom = newTimeAtom("-Bmin", walk.FieldBTime, types.Minutes)

// nolint
var cminAtom = newTimeAtom("-cmin", walk.FieldCTime, types.Minutes)

// nolint
var mminAtom = newTimeAtom("-mmin", walk.FieldMTime, types.Minutes)

// nolint
var atimeAtom = newTimeAtom("-atime", walk.FieldATime, types.Days)

// nolint
var btimeAtom = newTimeAtom("-Btime", walk.FieldBTime, types.Days)

// nolint
var ctimeAtom = newTimeAtom("-ctime", walk.FieldCTime, types.Days)

// nolint
var mtimeAtom = newTimeAtom("-mtime", walk.FieldMTime, types.Days)

// nolint
var usedAtom = newAtom([]string{"-used"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	cmp, n, err := parseCmp(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: illegal time value", arg)
	}
	e := types.NewExpr(eval.Used, tokens[:2])
	e.CmpFlag = cmp
	e.IData = n
	return e, rest, nil
})

// newerAtom handles -newer and all the -newerXY forms: X selects which
// timestamp of the candidate file is compared, Y selects the reference
// (a file's timestamp, or a literal time for Y = t).
//
// nolint
var newerAtom = newAtom([]string{
	"-newer", "-anewer", "-Bnewer", "-cnewer", "-mnewer",
	"-neweraa", "-neweram", "-newerat",
	"-newerBa", "-newerBm", "-newerBt",
	"-newerca", "-newercm", "-newerct",
	"-newerma", "-newermm", "-newermt",
}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	token := tokens[0]
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}

	fileField := walk.FieldMTime
	refField := walk.FieldMTime
	literal := false
	switch {
	case token == "-newer":
	case len(token) == len("-anewer"):
		// -anewer F compares the candidate's X time to F's mtime.
		fileField = statFieldOf(token[1])
	default:
		// -newerXY
		fileField = statFieldOf(token[6])
		if token[7] == 't' {
			literal = true
		} else {
			refField = statFieldOf(token[7])
		}
	}

	e := types.NewExpr(eval.Newer, tokens[:2])
	e.StatField = fileField
	if literal {
		ref, err := dateparse.ParseLocal(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: invalid timestamp", arg)
		}
		e.RefTime = ref
		return e, rest, nil
	}

	var st unix.Stat_t
	if err := unix.Stat(arg, &st); err != nil {
		return nil, nil, err
	}
	switch refField {
	case walk.FieldATime:
		e.RefTime = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	case walk.FieldCTime:
		e.RefTime = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	case walk.FieldBTime:
		return nil, nil, walk.ErrNoBirthTime
	default:
		e.RefTime = time.Unix(st.Mtim.Sec, st.Mtim.Nsec)
	}
	return e, rest, nil
})

/*
 * Numeric id tests.
 */

func newCmpAtom(token string, fn types.EvalFunc) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		cmp, n, err := parseCmp(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: illegal value", arg)
		}
		e := types.NewExpr(fn, tokens[:2])
		e.CmpFlag = cmp
		e.IData = n
		return e, rest, nil
	})
}

// nolint
var uidAtom = newCmpAtom("-uid", eval.UID)

// nolint
var gidAtom = newCmpAtom("-gid", eval.GID)

// nolint
var inumAtom = newCmpAtom("-inum", eval.Inum)

// nolint
var linksAtom = newCmpAtom("-links", eval.Links)

// nolint
var userAtom = newAtom([]string{"-user"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	uid, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		entry, err := user.Lookup(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("%v is not a user name", arg)
		}
		uid, _ = strconv.ParseInt(entry.Uid, 10, 64)
	}
	e := types.NewExpr(eval.UID, tokens[:2])
	e.CmpFlag = types.CmpExact
	e.IData = uid
	return e, rest, nil
})

// nolint
var groupAtom = newAtom([]string{"-group"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	gid, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		entry, err := user.LookupGroup(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("%v is not a group name", arg)
		}
		gid, _ = strconv.ParseInt(entry.Gid, 10, 64)
	}
	e := types.NewExpr(eval.GID, tokens[:2])
	e.CmpFlag = types.CmpExact
	e.IData = gid
	return e, rest, nil
})

// nolint
var nouserAtom = newAtom([]string{"-nouser"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.NoUser, tokens[:1]), tokens[1:], nil
})

// nolint
var nogroupAtom = newAtom([]string{"-nogroup"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.NoGroup, tokens[:1]), tokens[1:], nil
})

/*
 * Depth. With a numeric argument this is a test on the file's depth;
 * bare, it is the post-order traversal option.
 */

var numericRegex = regexp.MustCompile(`^[+-]?\d+$`)

// nolint
var depthAtom = newAtom([]string{"-depth", "-d"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	if len(tokens) > 1 && numericRegex.MatchString(tokens[1]) {
		cmp, n, err := parseCmp(tokens[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%v: illegal depth value", tokens[1])
		}
		e := types.NewExpr(eval.Depth, tokens[:2])
		e.CmpFlag = cmp
		e.IData = n
		return e, tokens[2:], nil
	}
	p.opts.Flags |= walk.FlagDepth
	return optionNode(tokens[:1]), tokens[1:], nil
})

/*
 * Name-ish tests.
 */

func compilePattern(e *types.Expr, pattern string, caseFold bool) error {
	if caseFold {
		pattern = strings.ToLower(pattern)
		e.CaseFold = true
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %v", err)
	}
	e.Pattern = g
	e.SData = pattern
	return nil
}

func newPatternAtom(tokens []string, fn types.EvalFunc, caseFold bool) atom {
	return newAtom(tokens, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		e := types.NewExpr(fn, tokens[:2])
		if err := compilePattern(e, arg, caseFold); err != nil {
			return nil, nil, err
		}
		return e, rest, nil
	})
}

// nolint
var nameAtom = newPatternAtom([]string{"-name"}, eval.Name, false)

// nolint
var inameAtom = newPatternAtom([]string{"-iname"}, eval.Name, true)

// nolint
var pathAtom = newPatternAtom([]string{"-path", "-wholename"}, eval.Path, false)

// nolint
var ipathAtom = newPatternAtom([]string{"-ipath", "-iwholename"}, eval.Path, true)

// nolint
var lnameAtom = newPatternAtom([]string{"-lname"}, eval.LName, false)

// nolint
var ilnameAtom = newPatternAtom([]string{"-ilname"}, eval.LName, true)

func newRegexAtom(token string, caseFold bool) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		pattern := arg
		if caseFold {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid regex: %v", err)
		}
		// Leftmost-longest matching finds the whole-path match whenever
		// one exists, which eval.Regex relies on.
		re.Longest()
		e := types.NewExpr(eval.Regex, tokens[:2])
		e.Regex = re
		e.SData = arg
		return e, rest, nil
	})
}

// nolint
var regexAtom = newRegexAtom("-regex", false)

// nolint
var iregexAtom = newRegexAtom("-iregex", true)

/*
 * Metadata tests.
 */

// nolint
var emptyAtom = newAtom([]string{"-empty"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.Empty, tokens[:1])
	e.EphemeralFDs = 1
	return e, tokens[1:], nil
})

// nolint
var fstypeAtom = newAtom([]string{"-fstype"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	if p.opts.Mounts == nil {
		table, err := mounts.Parse()
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't read the mount table: %v", err)
		}
		p.opts.Mounts = table
	}
	e := types.NewExpr(eval.FSType, tokens[:2])
	e.SData = arg
	return e, rest, nil
})

// nolint
var hiddenAtom = newAtom([]string{"-hidden"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.Hidden, tokens[:1]), tokens[1:], nil
})

// nolint
var nohiddenAtom = newAtom([]string{"-nohidden"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.NoHidden, tokens[:1]), tokens[1:], nil
})

// nolint
var permAtom = newAtom([]string{"-perm"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	modeCmp := types.ModeExact
	operand := arg
	switch {
	case strings.HasPrefix(arg, "-"):
		modeCmp = types.ModeAll
		operand = arg[1:]
	case strings.HasPrefix(arg, "/"):
		modeCmp = types.ModeAny
		operand = arg[1:]
	}
	fileMode, dirMode, err := munge.ParseMode(operand)
	if err != nil {
		return nil, nil, err
	}
	e := types.NewExpr(eval.Perm, tokens[:2])
	e.ModeCmp = modeCmp
	e.FileMode = fileMode
	e.DirMode = dirMode
	return e, rest, nil
})

// nolint
var samefileAtom = newAtom([]string{"-samefile"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	var st unix.Stat_t
	if err := unix.Stat(arg, &st); err != nil {
		return nil, nil, err
	}
	e := types.NewExpr(eval.SameFile, tokens[:2])
	e.Dev = uint64(st.Dev)
	e.Ino = st.Ino
	return e, rest, nil
})

// nolint
var sizeAtom = newAtom([]string{"-size"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	arg, rest, err := needArg(tokens)
	if err != nil {
		return nil, nil, err
	}
	cmp, n, unit, err := parseSize(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: illegal size value", arg)
	}
	e := types.NewExpr(eval.Size, tokens[:2])
	e.CmpFlag = cmp
	e.IData = n
	e.SizeUnit = unit
	return e, rest, nil
})

// nolint
var sparseAtom = newAtom([]string{"-sparse"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	return types.NewExpr(eval.Sparse, tokens[:1]), tokens[1:], nil
})

func newTypeAtom(token string, fn types.EvalFunc) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		mask, err := parseTypeMask(arg)
		if err != nil {
			return nil, nil, err
		}
		e := types.NewExpr(fn, tokens[:2])
		e.IData = mask
		return e, rest, nil
	})
}

// nolint
var typeAtom = newTypeAtom("-type", eval.Type)

// nolint
var xtypeAtom = newTypeAtom("-xtype", eval.XType)

/*
 * Actions.
 */

// nolint
var deleteAtom = newAtom([]string{"-delete"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	// Deleting files before their parent directory requires a
	// post-order walk.
	p.opts.Flags |= walk.FlagDepth
	p.sawAction = true
	return types.NewExpr(eval.Delete, tokens[:1]), tokens[1:], nil
})

func newExecAtom(token string, dir bool) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		argv := []string{}
		rest := tokens[1:]
		batch := false
		for {
			if len(rest) == 0 {
				return nil, nil, fmt.Errorf("expected terminating ';' or '+'")
			}
			if rest[0] == ";" {
				rest = rest[1:]
				break
			}
			if rest[0] == "+" && len(argv) > 0 && argv[len(argv)-1] == "{}" {
				batch = true
				rest = rest[1:]
				break
			}
			argv = append(argv, rest[0])
			rest = rest[1:]
		}
		if len(argv) == 0 {
			return nil, nil, fmt.Errorf("missing command")
		}
		e := types.NewExpr(eval.Exec, tokens[:1])
		e.Exec = execer.New(argv, dir, batch)
		e.EphemeralFDs = 2
		if batch {
			// Batched commands always report success per file.
			e.AlwaysTrue = true
		}
		p.sawAction = true
		return e, rest, nil
	})
}

// nolint
var execAtom = newExecAtom("-exec", false)

// nolint
var execdirAtom = newExecAtom("-execdir", true)

// nolint
var exitAtom = newAtom([]string{"-exit"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.Exit, tokens[:1])
	e.NeverReturns = true
	rest := tokens[1:]
	if len(rest) > 0 && numericRegex.MatchString(rest[0]) {
		n, err := strconv.ParseInt(rest[0], 10, 32)
		if err != nil || n < 0 {
			return nil, nil, fmt.Errorf("%v: illegal exit status", rest[0])
		}
		e.IData = n
		e.Argv = tokens[:2]
		rest = rest[1:]
	}
	return e, rest, nil
})

// nolint
var pruneAtom = newAtom([]string{"-prune"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.Prune, tokens[:1])
	e.AlwaysTrue = true
	return e, tokens[1:], nil
})

// nolint
var quitAtom = newAtom([]string{"-quit"}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
	e := types.NewExpr(eval.Quit, tokens[:1])
	e.NeverReturns = true
	return e, tokens[1:], nil
})

// openOutput opens the file behind -fprint and friends. The descriptor
// stays open for the whole traversal.
func (p *parseState) openOutput(path string) (*cmdutil.CFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	p.opts.NOpenFiles++
	return cmdutil.NewCFile(file), nil
}

func newPrintAtom(token string, fn types.EvalFunc, toFile bool) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		e := types.NewExpr(fn, tokens[:1])
		e.AlwaysTrue = true
		rest := tokens[1:]
		if toFile {
			arg, left, err := needArg(tokens)
			if err != nil {
				return nil, nil, err
			}
			cfile, err := p.openOutput(arg)
			if err != nil {
				return nil, nil, err
			}
			e.CFile = cfile
			e.PersistentFDs = 1
			e.Argv = tokens[:2]
			rest = left
		} else {
			e.CFile = p.opts.Cout
		}
		p.sawAction = true
		return e, rest, nil
	})
}

// nolint
var printAtom = newPrintAtom("-print", eval.FPrint, false)

// nolint
var fprintAtom = newPrintAtom("-fprint", eval.FPrint, true)

// nolint
var print0Atom = newPrintAtom("-print0", eval.FPrint0, false)

// nolint
var fprint0Atom = newPrintAtom("-fprint0", eval.FPrint0, true)

// nolint
var printxAtom = newPrintAtom("-printx", eval.FPrintX, false)

// nolint
var fprintxAtom = newPrintAtom("-fprintx", eval.FPrintX, true)

func newLsAtom(token string, toFile bool) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		e := types.NewExpr(eval.FLS, tokens[:1])
		e.AlwaysTrue = true
		e.RefTime = p.refTime
		rest := tokens[1:]
		if toFile {
			arg, left, err := needArg(tokens)
			if err != nil {
				return nil, nil, err
			}
			cfile, err := p.openOutput(arg)
			if err != nil {
				return nil, nil, err
			}
			e.CFile = cfile
			e.PersistentFDs = 1
			e.Argv = tokens[:2]
			rest = left
		} else {
			e.CFile = p.opts.Cout
		}
		p.sawAction = true
		return e, rest, nil
	})
}

// nolint
var lsAtom = newLsAtom("-ls", false)

// nolint
var flsAtom = newLsAtom("-fls", true)

func newPrintfAtom(token string, toFile bool) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		e := types.NewExpr(eval.FPrintf, tokens[:1])
		e.AlwaysTrue = true
		rest := tokens[1:]
		format := ""
		if toFile {
			if len(tokens) < 3 {
				return nil, nil, fmt.Errorf("requires additional arguments")
			}
			cfile, err := p.openOutput(tokens[1])
			if err != nil {
				return nil, nil, err
			}
			e.CFile = cfile
			e.PersistentFDs = 1
			format = tokens[2]
			e.Argv = tokens[:3]
			rest = tokens[3:]
		} else {
			arg, left, err := needArg(tokens)
			if err != nil {
				return nil, nil, err
			}
			e.CFile = p.opts.Cout
			format = arg
			e.Argv = tokens[:2]
			rest = left
		}
		program, err := printf.Parse(format)
		if err != nil {
			return nil, nil, err
		}
		program.Users = p.opts.Users
		program.Groups = p.opts.Groups
		e.Printf = program
		p.sawAction = true
		return e, rest, nil
	})
}

// nolint
var printfAtom = newPrintfAtom("-printf", false)

// nolint
var fprintfAtom = newPrintfAtom("-fprintf", true)

/*
 * Positional options. Each one mutates the command line and reads as
 * true wherever it appears in the expression.
 */

func optionNode(argv []string) *types.Expr {
	e := types.NewExpr(eval.True, argv)
	e.AlwaysTrue = true
	return e
}

func newOptionAtom(tokens []string, apply func(p *parseState)) atom {
	return newAtom(tokens, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		apply(p)
		return optionNode(tokens[:1]), tokens[1:], nil
	})
}

func newIntOptionAtom(token string, apply func(p *parseState, n int)) atom {
	return newAtom([]string{token}, func(p *parseState, tokens []string) (*types.Expr, []string, error) {
		arg, rest, err := needArg(tokens)
		if err != nil {
			return nil, nil, err
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, nil, fmt.Errorf("%v: illegal depth value", arg)
		}
		apply(p, n)
		return optionNode(tokens[:2]), rest, nil
	})
}

// nolint
var maxdepthAtom = newIntOptionAtom("-maxdepth", func(p *parseState, n int) {
	p.opts.Maxdepth = n
})

// nolint
var mindepthAtom = newIntOptionAtom("-mindepth", func(p *parseState, n int) {
	p.opts.Mindepth = n
})

// nolint
var mountAtom = newOptionAtom([]string{"-mount"}, func(p *parseState) {
	p.opts.Flags |= walk.FlagMount
})

// nolint
var xdevAtom = newOptionAtom([]string{"-xdev"}, func(p *parseState) {
	p.opts.Flags |= walk.FlagXDev
})

// nolint
var followAtom = newOptionAtom([]string{"-follow"}, func(p *parseState) {
	p.opts.Flags |= walk.FlagLogical | walk.FlagDetectCycles
})

// nolint
var daystartAtom = newOptionAtom([]string{"-daystart"}, func(p *parseState) {
	year, month, day := p.refTime.Date()
	p.refTime = time.Date(year, month, day, 0, 0, 0, 0, p.refTime.Location())
})

// nolint
var colorAtom = newOptionAtom([]string{"-color"}, func(p *parseState) {
	p.opts.Cout.Colored = true
	p.opts.Cerr.Colored = true
})

// nolint
var nocolorAtom = newOptionAtom([]string{"-nocolor"}, func(p *parseState) {
	p.opts.Cout.Colored = false
	p.opts.Cerr.Colored = false
})

// nolint
var ignoreRacesAtom = newOptionAtom([]string{"-ignore_readdir_race"}, func(p *parseState) {
	p.opts.IgnoreRaces = true
})
