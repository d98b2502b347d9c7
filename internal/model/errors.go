package model

import "errors"

// ErrContractViolation marks inputs that violate a data-model invariant a
// caller is expected to uphold (duplicate template names, an allocation
// whose domain doesn't match its template set, an unparseable isolation
// level). It is returned, never panicked: "unrecoverable" means the decision
// cannot proceed, not that the process must crash.
var ErrContractViolation = errors.New("model: contract violation")
