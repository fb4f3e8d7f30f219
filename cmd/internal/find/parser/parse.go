// Package parser parses a bfind command line into the starting paths,
// the traversal options, and the expression tree that the evaluator
// runs against every file.
package parser

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/eval"
	"github.com/bfind/bfind/cmd/internal/find/params"
	"github.com/bfind/bfind/cmd/internal/find/types"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/bfind/bfind/config"
	"github.com/bfind/bfind/walk"
)

// parseState carries everything the grammar's atoms may touch.
type parseState struct {
	opts *types.Options
	// refTime is what time tests measure against; -daystart rewinds
	// it to the start of today for the atoms parsed after it.
	refTime time.Time
	// sawAction is set once the expression contains an action that
	// suppresses the implicit -print.
	sawAction bool
}

// Parse parses a full bfind invocation: leading flags, then starting
// paths, then the expression.
func Parse(args []string) (*types.Options, error) {
	opts := types.NewOptions()
	opts.Cout = cmdutil.NewCFile(os.Stdout)
	opts.Cerr = cmdutil.NewCFile(os.Stderr)
	switch config.Color() {
	case "always":
		opts.Cout.Colored = true
		opts.Cerr.Colored = true
	case "never":
		opts.Cout.Colored = false
		opts.Cerr.Colored = false
	}
	if strategy, err := parseStrategy(config.Strategy()); err == nil {
		opts.Strategy = strategy
	}
	p := &parseState{opts: opts, refTime: params.ReferenceTime}

	tokens, err := p.parseFlags(args)
	if err != nil {
		return nil, err
	}
	if opts.Help {
		return opts, nil
	}

	for len(tokens) > 0 && !isExprToken(tokens[0]) {
		opts.Paths = append(opts.Paths, tokens[0])
		tokens = tokens[1:]
	}
	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}

	if len(tokens) > 0 {
		e, rest, err := p.parseComma(tokens)
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			if rest[0] == ")" {
				return nil, fmt.Errorf("): no beginning '('")
			}
			return nil, fmt.Errorf("%v: unexpected token", rest[0])
		}
		opts.Expr = e
	}

	print := p.printNode()
	if opts.Expr == nil {
		opts.Expr = print
	} else if !p.sawAction {
		opts.Expr = newBinary(eval.And, "-a", opts.Expr, print)
	}

	return opts, nil
}

// isExprToken reports whether a token starts the expression rather
// than naming another path.
func isExprToken(token string) bool {
	return token == "(" || token == "!" || strings.HasPrefix(token, "-")
}

// parseFlags handles the flags that must precede the starting paths.
func (p *parseState) parseFlags(tokens []string) ([]string, error) {
	opts := p.opts
	for len(tokens) > 0 {
		switch tokens[0] {
		case "-H":
			opts.Flags &^= walk.FlagLogical
			opts.Flags |= walk.FlagComFollow
		case "-L":
			opts.Flags |= walk.FlagLogical | walk.FlagDetectCycles
		case "-P":
			opts.Flags &^= walk.FlagLogical | walk.FlagComFollow
		case "-X", "--xargs-safe":
			opts.XargsSafe = true
		case "--ignore-races":
			opts.IgnoreRaces = true
		case "-unique", "--unique":
			opts.Unique = true
		case "-s", "--stat":
			opts.Flags |= walk.FlagStat
		case "-D":
			if len(tokens) < 2 {
				return nil, fmt.Errorf("-D: requires additional arguments")
			}
			debug, err := parseDebugFlags(tokens[1])
			if err != nil {
				return nil, err
			}
			opts.Debug |= debug
			tokens = tokens[1:]
		case "-S":
			if len(tokens) < 2 {
				return nil, fmt.Errorf("-S: requires additional arguments")
			}
			strategy, err := parseStrategy(tokens[1])
			if err != nil {
				return nil, err
			}
			opts.Strategy = strategy
			tokens = tokens[1:]
		case "-f":
			if len(tokens) < 2 {
				return nil, fmt.Errorf("-f: requires additional arguments")
			}
			opts.Paths = append(opts.Paths, tokens[1])
			tokens = tokens[1:]
		case "-h", "-help", "--help":
			opts.Help = true
			return nil, nil
		default:
			return tokens, nil
		}
		tokens = tokens[1:]
	}
	return tokens, nil
}

func parseDebugFlags(s string) (types.DebugFlags, error) {
	var debug types.DebugFlags
	for _, name := range strings.Split(s, ",") {
		switch name {
		case "rates":
			debug |= types.DebugRates
		case "stat":
			debug |= types.DebugStat
		case "search":
			debug |= types.DebugSearch
		case "exec":
			debug |= types.DebugExec
		case "all":
			debug |= types.DebugRates | types.DebugStat | types.DebugSearch | types.DebugExec
		default:
			return 0, fmt.Errorf("-D: %v: unknown debug flag", name)
		}
	}
	return debug, nil
}

func parseStrategy(s string) (walk.Strategy, error) {
	switch s {
	case "bfs":
		return walk.BFS, nil
	case "dfs":
		return walk.DFS, nil
	case "ids":
		return walk.IDS, nil
	default:
		return 0, fmt.Errorf("-S: %v: unknown strategy", s)
	}
}

/*
 * Expression grammar, from lowest to highest precedence:
 *
 *   comma => or (, or)*
 *   or    => and ((-o|-or) and)*
 *   and   => unary ((-a|-and)? unary)*
 *   unary => (!|-not) unary | ( comma ) | atom
 */

func newBinary(fn types.EvalFunc, token string, lhs, rhs *types.Expr) *types.Expr {
	return &types.Expr{
		Eval: fn,
		Argv: []string{token},
		LHS:  lhs,
		RHS:  rhs,
	}
}

func (p *parseState) parseComma(tokens []string) (*types.Expr, []string, error) {
	lhs, tokens, err := p.parseOr(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(tokens) > 0 && tokens[0] == "," {
		if len(tokens) == 1 {
			return nil, nil, fmt.Errorf(",: no following expression")
		}
		var rhs *types.Expr
		rhs, tokens, err = p.parseOr(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		lhs = newBinary(eval.Comma, ",", lhs, rhs)
	}
	return lhs, tokens, nil
}

func (p *parseState) parseOr(tokens []string) (*types.Expr, []string, error) {
	lhs, tokens, err := p.parseAnd(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(tokens) > 0 && (tokens[0] == "-o" || tokens[0] == "-or") {
		if len(tokens) == 1 {
			return nil, nil, fmt.Errorf("%v: no following expression", tokens[0])
		}
		var rhs *types.Expr
		rhs, tokens, err = p.parseAnd(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		lhs = newBinary(eval.Or, "-o", lhs, rhs)
	}
	return lhs, tokens, nil
}

func (p *parseState) parseAnd(tokens []string) (*types.Expr, []string, error) {
	lhs, tokens, err := p.parseUnary(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(tokens) > 0 {
		explicit := tokens[0] == "-a" || tokens[0] == "-and"
		if explicit {
			if len(tokens) == 1 {
				return nil, nil, fmt.Errorf("%v: no following expression", tokens[0])
			}
			tokens = tokens[1:]
		} else if tokens[0] == ")" || tokens[0] == "," || tokens[0] == "-o" || tokens[0] == "-or" {
			break
		}
		var rhs *types.Expr
		rhs, tokens, err = p.parseUnary(tokens)
		if err != nil {
			return nil, nil, err
		}
		lhs = newBinary(eval.And, "-a", lhs, rhs)
	}
	return lhs, tokens, nil
}

func (p *parseState) parseUnary(tokens []string) (*types.Expr, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("expected an expression")
	}
	switch tokens[0] {
	case "!", "-not":
		if len(tokens) == 1 {
			return nil, nil, fmt.Errorf("%v: no following expression", tokens[0])
		}
		rhs, rest, err := p.parseUnary(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		not := &types.Expr{
			Eval: eval.Not,
			Argv: []string{"!"},
			RHS:  rhs,
		}
		return not, rest, nil
	case "(":
		inner, rest, err := p.parseComma(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if len(rest) == 0 || rest[0] != ")" {
			return nil, nil, fmt.Errorf("(: missing closing ')'")
		}
		return inner, rest[1:], nil
	default:
		return p.parseAtom(tokens)
	}
}

// printNode builds the implicit -print.
func (p *parseState) printNode() *types.Expr {
	e := types.NewExpr(eval.FPrint, []string{"-print"})
	e.CFile = p.opts.Cout
	e.AlwaysTrue = true
	return e
}
