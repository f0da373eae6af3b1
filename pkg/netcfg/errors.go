package netcfg

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a precondition fact that is absent, such as
// removing a route that is not in the routing table. The mutating
// command is never issued in that case.
var ErrNotFound = errors.New("not found")

// CommandError reports that an underlying OS tool returned non-zero.
// Nothing is verified after a command failure; there is nothing
// meaningful to verify.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// VerificationError reports that the tool claimed success but the
// read-back system state disagrees with the intended fact. Callers must
// be able to tell this apart from CommandError for correct messaging.
type VerificationError struct {
	Fact string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("system state does not match intended fact %q after apply", e.Fact)
}
