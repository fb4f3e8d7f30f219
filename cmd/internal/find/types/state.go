package types

import "github.com/bfind/bfind/walk"

// State is the ephemeral per-visit evaluation state. Evaluators may
// mutate it freely; everything else they see is read-only.
type State struct {
	// File describes the current file.
	File *walk.File
	// Cmd is the parsed command line.
	Cmd *Options

	// Action is what the callback will return to the driver.
	Action walk.Action
	// Ret points at the traversal's eventual exit status.
	Ret *int
	// Quit stops the evaluation and the traversal.
	Quit bool
}
