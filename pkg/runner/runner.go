package runner

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner abstracts OS command execution, allowing a real exec-backed
// implementation and an in-memory fake for development and testing.
// Run discards the tool's own stdout/stderr from the operator-visible
// surface; failure detail is carried in the returned error for logging.
type Runner interface {
	Run(name string, args ...string) error
	Output(name string, args ...string) (string, error)
}

// execRunner invokes real OS commands via os/exec.
type execRunner struct {
	logger *zap.Logger
}

// New creates a Runner backed by real command execution.
func New(logger *zap.Logger) Runner {
	return &execRunner{logger: logger}
}

// maxStderrDetail bounds how much captured stderr is attached to an error.
const maxStderrDetail = 512

// Run executes the command, discarding stdout. On failure the tail of
// stderr is folded into the returned error.
func (r *execRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	r.logger.Debug("running command", zap.String("cmd", name), zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > maxStderrDetail {
			detail = detail[len(detail)-maxStderrDetail:]
		}
		r.logger.Warn("command failed",
			zap.String("cmd", name),
			zap.Strings("args", args),
			zap.String("stderr", detail),
			zap.Error(err),
		)
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", name, err, detail)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output executes the command and returns its stdout. Used only where
// read-back verification needs the tool's output.
func (r *execRunner) Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("querying command", zap.String("cmd", name), zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return stdout.String(), fmt.Errorf("%s: %w: %s", name, err, detail)
		}
		return stdout.String(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.String(), nil
}
