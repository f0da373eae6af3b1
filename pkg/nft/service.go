package nft

import (
	"strings"

	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

// ServiceState describes the firewall service as last observed.
type ServiceState int

const (
	// StateUnknown means the service has not been probed yet.
	StateUnknown ServiceState = iota
	// StateMissing means the nft binary is not installed.
	StateMissing
	// StateInstalledInactive means the binary exists but the service is
	// not active.
	StateInstalledInactive
	// StateActive means the service is running.
	StateActive
)

// String returns the operator-facing name of the state.
func (s ServiceState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateInstalledInactive:
		return "installed-inactive"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one reconciliation pass. Degraded
// means every remediation step was exhausted and the service still is
// not active; rule operations are still attempted in that case.
// BaselineErr carries a failed ruleset-file check; the Manager fills it
// in, never the reconciler.
type Outcome struct {
	State       ServiceState
	Degraded    bool
	BaselineErr error
}

// ServiceReconciler drives the firewall service toward "active".
// Remediation escalates from cheap to destructive: install if missing,
// enable+start, then flush ruleset, full reinstall and a final start
// attempt. Escalation steps are independently best-effort; only the
// final start attempt's outcome is load-bearing.
type ServiceReconciler struct {
	runner      runner.Runner
	serviceName string
	packageName string
	logger      *zap.Logger
}

// NewServiceReconciler creates a reconciler for the given systemd unit
// and distribution package.
func NewServiceReconciler(run runner.Runner, serviceName, packageName string, logger *zap.Logger) *ServiceReconciler {
	return &ServiceReconciler{
		runner:      run,
		serviceName: serviceName,
		packageName: packageName,
		logger:      logger,
	}
}

// Reconcile inspects the service and escalates remediation until it is
// active or every step is exhausted. The only error it returns is
// FatalError, when the binary cannot be installed at all.
func (r *ServiceReconciler) Reconcile() (Outcome, error) {
	if !r.binaryPresent() {
		r.logger.Warn("nft binary not found, installing package",
			zap.String("package", r.packageName))
		if err := r.install(); err != nil {
			r.logger.Error("package install failed", zap.Error(err))
			return Outcome{State: StateMissing}, &FatalError{Err: err}
		}
		r.logger.Info("package installed", zap.String("package", r.packageName))
	}

	if r.serviceActive() {
		r.logger.Info("firewall service active", zap.String("service", r.serviceName))
		return Outcome{State: StateActive}, nil
	}

	r.logger.Info("firewall service not active, attempting enable+start",
		zap.String("service", r.serviceName))
	if err := r.enableStart(); err == nil {
		r.logger.Info("firewall service started", zap.String("service", r.serviceName))
		return Outcome{State: StateActive}, nil
	} else {
		r.logger.Warn("enable+start failed, escalating", zap.Error(err))
	}

	// Escalation ladder. A corrupted ruleset can itself keep the service
	// from starting, so flush comes before reinstall. Each step runs
	// regardless of the previous step's result.
	r.flushRuleset()
	r.reinstall()

	if err := r.enableStart(); err != nil {
		r.logger.Error("final start attempt failed, firewall degraded",
			zap.String("service", r.serviceName),
			zap.Error(err),
		)
		return Outcome{State: StateInstalledInactive, Degraded: true}, nil
	}

	r.logger.Info("firewall service started after escalation",
		zap.String("service", r.serviceName))
	return Outcome{State: StateActive}, nil
}

// binaryPresent reports whether the nft binary resolves on PATH.
func (r *ServiceReconciler) binaryPresent() bool {
	return r.runner.Run("which", "nft") == nil
}

// install fetches the package index and installs the firewall package.
// This is the one remediation whose failure is fatal.
func (r *ServiceReconciler) install() error {
	if err := r.runner.Run("apt-get", "update"); err != nil {
		return err
	}
	return r.runner.Run("apt-get", "install", "-y", r.packageName)
}

// serviceActive probes systemd for the unit's active state. A failing
// probe command is treated the same as an inactive unit.
func (r *ServiceReconciler) serviceActive() bool {
	out, err := r.runner.Output("systemctl", "is-active", r.serviceName)
	if err != nil {
		r.logger.Debug("is-active probe failed", zap.Error(err))
		return false
	}
	return strings.TrimSpace(out) == "active"
}

// enableStart enables and starts the unit, returning the first failure.
func (r *ServiceReconciler) enableStart() error {
	if err := r.runner.Run("systemctl", "enable", r.serviceName); err != nil {
		return err
	}
	return r.runner.Run("systemctl", "start", r.serviceName)
}

// flushRuleset drops all live rules. Best-effort: failure is logged and
// the ladder continues.
func (r *ServiceReconciler) flushRuleset() {
	if err := r.runner.Run("nft", "flush", "ruleset"); err != nil {
		r.logger.Warn("ruleset flush failed", zap.Error(err))
		return
	}
	r.logger.Info("flushed live ruleset")
}

// reinstall removes, purges and reinstalls the package. Every step is
// best-effort: "remove" failing because the package was never installed
// must not block the subsequent install.
func (r *ServiceReconciler) reinstall() {
	steps := [][]string{
		{"apt-get", "remove", "-y", r.packageName},
		{"apt-get", "purge", "-y", r.packageName},
		{"apt-get", "autoremove", "-y"},
		{"apt-get", "install", "-y", r.packageName},
	}
	for _, step := range steps {
		if err := r.runner.Run(step[0], step[1:]...); err != nil {
			r.logger.Warn("reinstall step failed",
				zap.Strings("step", step),
				zap.Error(err),
			)
		}
	}
	r.logger.Info("reinstall sequence finished", zap.String("package", r.packageName))
}
