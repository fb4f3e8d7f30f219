package eval

import (
	"testing"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/bfind/bfind/walk"
	"github.com/stretchr/testify/suite"
)

type OperatorsTestSuite struct {
	suite.Suite
}

func opState() *types.State {
	ret := 0
	return &types.State{
		File:   &walk.File{Path: "file", Depth: 1},
		Cmd:    types.NewOptions(),
		Action: walk.Continue,
		Ret:    &ret,
	}
}

func trueNode() *types.Expr {
	e := types.NewExpr(True, []string{"-true"})
	e.AlwaysTrue = true
	return e
}

func falseNode() *types.Expr {
	e := types.NewExpr(False, []string{"-false"})
	e.AlwaysFalse = true
	return e
}

func notNode(rhs *types.Expr) *types.Expr {
	return &types.Expr{Eval: Not, Argv: []string{"!"}, RHS: rhs}
}

func binaryNode(fn types.EvalFunc, token string, lhs, rhs *types.Expr) *types.Expr {
	return &types.Expr{Eval: fn, Argv: []string{token}, LHS: lhs, RHS: rhs}
}

func (s *OperatorsTestSuite) TestCountersTrackEvaluations() {
	e := trueNode()
	state := opState()

	s.True(evalExpr(e, state))
	s.True(evalExpr(e, state))
	s.Equal(uint64(2), e.Evaluations)
	s.Equal(uint64(2), e.Successes)

	f := falseNode()
	s.False(evalExpr(f, state))
	s.Equal(uint64(1), f.Evaluations)
	s.Equal(uint64(0), f.Successes)
	s.GreaterOrEqual(f.Evaluations, f.Successes)
}

func (s *OperatorsTestSuite) TestNot() {
	state := opState()
	s.False(evalExpr(notNode(trueNode()), state))
	s.True(evalExpr(notNode(falseNode()), state))
}

func (s *OperatorsTestSuite) TestDoubleNegationPreservesTruth() {
	state := opState()
	inner := trueNode()
	e := notNode(notNode(inner))
	s.True(evalExpr(e, state))
	s.Equal(uint64(1), inner.Evaluations)

	inner = falseNode()
	e = notNode(notNode(inner))
	s.False(evalExpr(e, state))
}

func (s *OperatorsTestSuite) TestAndShortCircuits() {
	state := opState()
	rhs := trueNode()
	e := binaryNode(And, "-a", falseNode(), rhs)

	s.False(evalExpr(e, state))
	s.Equal(uint64(0), rhs.Evaluations, "the right child of a false -a must not run")

	rhs = falseNode()
	e = binaryNode(And, "-a", trueNode(), rhs)
	s.False(evalExpr(e, state))
	s.Equal(uint64(1), rhs.Evaluations)
}

func (s *OperatorsTestSuite) TestOrShortCircuits() {
	state := opState()
	rhs := trueNode()
	e := binaryNode(Or, "-o", trueNode(), rhs)

	s.True(evalExpr(e, state))
	s.Equal(uint64(0), rhs.Evaluations, "the right child of a true -o must not run")

	rhs = trueNode()
	e = binaryNode(Or, "-o", falseNode(), rhs)
	s.True(evalExpr(e, state))
	s.Equal(uint64(1), rhs.Evaluations)
}

func (s *OperatorsTestSuite) TestCommaDiscardsTheLeftResult() {
	state := opState()
	e := binaryNode(Comma, ",", falseNode(), trueNode())
	s.True(evalExpr(e, state))

	e = binaryNode(Comma, ",", trueNode(), falseNode())
	s.False(evalExpr(e, state))
}

func (s *OperatorsTestSuite) TestQuitShortCircuitsEverything() {
	state := opState()
	quit := types.NewExpr(Quit, []string{"-quit"})
	quit.NeverReturns = true
	rhs := trueNode()

	// -quit -a -true: the right side never runs once quit is set.
	e := binaryNode(And, "-a", quit, rhs)
	s.False(evalExpr(e, state))
	s.True(state.Quit)
	s.Equal(walk.Stop, state.Action)
	s.Equal(uint64(0), rhs.Evaluations)

	// Through -o the quit node's true result already decides the
	// disjunction, so the right side never runs either.
	state = opState()
	e = binaryNode(Or, "-o", quitNode(), rhs)
	s.True(evalExpr(e, state))
	s.Equal(uint64(0), rhs.Evaluations)

	// And through ','.
	state = opState()
	e = binaryNode(Comma, ",", quitNode(), rhs)
	s.False(evalExpr(e, state))
	s.Equal(uint64(0), rhs.Evaluations)
}

func quitNode() *types.Expr {
	e := types.NewExpr(Quit, []string{"-quit"})
	e.NeverReturns = true
	return e
}

func (s *OperatorsTestSuite) TestExitSetsTheStatus() {
	state := opState()
	exit := types.NewExpr(Exit, []string{"-exit"})
	exit.NeverReturns = true
	exit.IData = 7

	s.True(exit.Eval(exit, state))
	s.True(state.Quit)
	s.Equal(walk.Stop, state.Action)
	s.Equal(7, *state.Ret)
}

func (s *OperatorsTestSuite) TestPrune() {
	state := opState()
	prune := types.NewExpr(Prune, []string{"-prune"})
	prune.AlwaysTrue = true

	s.True(evalExpr(prune, state))
	s.Equal(walk.Prune, state.Action)
	s.False(state.Quit)
}

func TestOperators(t *testing.T) {
	suite.Run(t, new(OperatorsTestSuite))
}
