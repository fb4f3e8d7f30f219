package eval

import (
	"testing"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestInferFDLimitIsNeverBelowTwo(t *testing.T) {
	cmd := types.NewOptions()
	// An expression claiming an absurd number of descriptors still
	// leaves the walk its minimum.
	cmd.Expr = &types.Expr{Eval: True, PersistentFDs: 1 << 30}

	assert.Equal(t, 2, inferFDLimit(cmd))
}

func TestInferFDLimitStaysUnderTheRlimit(t *testing.T) {
	cmd := types.NewOptions()
	cmd.Expr = &types.Expr{Eval: True}

	limit := inferFDLimit(cmd)
	assert.GreaterOrEqual(t, limit, 2)

	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err == nil && rl.Cur != unix.RLIM_INFINITY {
		assert.Less(t, limit, int(rl.Cur))
	}
}

func TestInferFDLimitSubtractsDeclaredNeeds(t *testing.T) {
	base := types.NewOptions()
	base.Expr = &types.Expr{Eval: True}

	declared := types.NewOptions()
	declared.Expr = &types.Expr{
		Eval: And,
		LHS:  &types.Expr{Eval: True, PersistentFDs: 3},
		RHS:  &types.Expr{Eval: True, EphemeralFDs: 2},
	}

	assert.Equal(t, inferFDLimit(base)-5, inferFDLimit(declared))
}

func TestInferFDLimitTakesTheLargestEphemeralNeed(t *testing.T) {
	base := types.NewOptions()
	base.Expr = &types.Expr{Eval: True}

	// Two ephemeral declarations don't stack: only one transient
	// descriptor is ever open at a time.
	declared := types.NewOptions()
	declared.Expr = &types.Expr{
		Eval: Or,
		LHS:  &types.Expr{Eval: True, EphemeralFDs: 2},
		RHS: &types.Expr{
			Eval: And,
			LHS:  &types.Expr{Eval: True, EphemeralFDs: 2},
			RHS:  &types.Expr{Eval: True, EphemeralFDs: 1},
		},
	}

	assert.Equal(t, inferFDLimit(base)-2, inferFDLimit(declared))
}
