package nft

import (
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// defaultBaseline is the minimal persisted ruleset written on first use:
// one stateless filter container with an input hook and one NAT container
// with prerouting and postrouting hooks, accept policy everywhere.
const defaultBaseline = `#!/usr/sbin/nft -f
flush ruleset

table inet filter {
    chain input {
        type filter hook input priority 0; policy accept;
    }
}

table ip nat {
    chain prerouting {
        type nat hook prerouting priority 0; policy accept;
    }

    chain postrouting {
        type nat hook postrouting priority 100; policy accept;
    }
}
`

// BaselineResult reports what Ensure found.
type BaselineResult int

const (
	// BaselineCreated means the file was absent or empty and the default
	// content was written.
	BaselineCreated BaselineResult = iota
	// BaselineAlreadyPresent means a non-empty file existed and was left
	// untouched.
	BaselineAlreadyPresent
)

// Baseline manages the persisted ruleset file. The file is append-only
// from the rule compiler's perspective: created if absent, never rewritten.
type Baseline struct {
	path   string
	logger *zap.Logger
}

// NewBaseline creates a Baseline manager for the given ruleset file path.
func NewBaseline(path string, logger *zap.Logger) *Baseline {
	return &Baseline{path: path, logger: logger}
}

// Path returns the ruleset file path.
func (b *Baseline) Path() string { return b.path }

// Ensure creates the default ruleset file if it is absent or empty.
// A non-empty existing file is never modified.
func (b *Baseline) Ensure() (BaselineResult, error) {
	info, err := os.Stat(b.path)
	if err == nil && info.Size() > 0 {
		return BaselineAlreadyPresent, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, &IOError{Path: b.path, Err: err}
	}

	if err := os.WriteFile(b.path, []byte(defaultBaseline), 0o644); err != nil {
		return 0, &IOError{Path: b.path, Err: err}
	}

	b.logger.Info("created default ruleset file", zap.String("path", b.path))
	return BaselineCreated, nil
}

// Append adds one statement line to the end of the ruleset file.
func (b *Baseline) Append(line string) error {
	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &IOError{Path: b.path, Err: err}
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return &IOError{Path: b.path, Err: err}
	}
	return nil
}
