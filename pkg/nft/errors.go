package nft

import "fmt"

// ValidationError reports malformed rule input caught before any
// artifact write or command execution.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FatalError reports that the firewall binary is entirely unobtainable;
// no remediation beyond package installation is possible without it.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("firewall unavailable: %v", e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IOError reports that the baseline artifact could not be read or written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ruleset file %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ReloadError reports that a rule was appended to the ruleset file but
// the atomic reload failed. The file is not rolled back, so persisted
// and live state may now disagree.
type ReloadError struct {
	ConfPath string
	Err      error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload of %s failed (file and live ruleset may disagree): %v", e.ConfPath, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }
