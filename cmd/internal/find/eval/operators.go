package eval

import (
	"time"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/bfind/bfind/log"
)

// evalExpr evaluates one node, keeping its counters. Every dispatch
// through the walker lands here, so the short-circuit structure of the
// operators below is what decides which children ever get counted.
func evalExpr(e *types.Expr, s *types.State) bool {
	timing := s.Cmd.Debug&types.DebugRates != 0
	var start time.Time
	if timing {
		start = time.Now()
	}

	ret := e.Eval(e, s)

	if timing {
		e.Elapsed += time.Since(start)
	}
	e.Evaluations++
	if ret {
		e.Successes++
	}

	// The parser's hints are promises; a violated one means a broken
	// evaluator.
	if e.NeverReturns {
		if !s.Quit {
			log.Warnf("%v: expected to halt the traversal but didn't", e)
		}
	} else if !s.Quit {
		if e.AlwaysTrue && !ret {
			log.Warnf("%v: expected to always be true", e)
		}
		if e.AlwaysFalse && ret {
			log.Warnf("%v: expected to always be false", e)
		}
	}

	return ret
}

// Not evaluates a negation.
func Not(e *types.Expr, s *types.State) bool {
	return !evalExpr(e.RHS, s)
}

// And evaluates a conjunction.
func And(e *types.Expr, s *types.State) bool {
	if !evalExpr(e.LHS, s) {
		return false
	}
	if s.Quit {
		return false
	}
	return evalExpr(e.RHS, s)
}

// Or evaluates a disjunction.
func Or(e *types.Expr, s *types.State) bool {
	if evalExpr(e.LHS, s) {
		return true
	}
	if s.Quit {
		return false
	}
	return evalExpr(e.RHS, s)
}

// Comma evaluates the comma operator: the left side runs for its side
// effects only.
func Comma(e *types.Expr, s *types.State) bool {
	evalExpr(e.LHS, s)
	if s.Quit {
		return false
	}
	return evalExpr(e.RHS, s)
}
