// Package common holds the ambient logging and validation helpers shared
// by every crypto package in this module.
package common

import (
	logging "github.com/ipfs/go-log"
)

// Logger is the package-wide structured logger. Every component logs
// through it rather than constructing its own, matching the idiom of
// naming one logger per module and sharing it.
//
// Per the non-leak requirement on verifiers (spec §7), the public Code a
// Verify call returns MUST NOT distinguish which condition failed, and
// neither must its timing. That constraint is about the returned Code,
// not this Debug-level channel: Verify functions are free to log an
// mpc.Blame describing which internal step failed, since Blame is an
// operator-only diagnostic that never crosses the Code boundary back to
// a caller (see pkg/mpc.Blame's doc comment).
var Logger = logging.Logger("go-mta-zkp")
