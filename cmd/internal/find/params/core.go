// Package params represents bfind's parameters. These are typically
// set in bfind's main function.
package params

import "time"

// ReferenceTime is the reference time that's used for bfind's
// time tests. Defaults to bfind's start time.
var ReferenceTime time.Time
