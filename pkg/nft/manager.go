package nft

import (
	"fmt"

	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

// Manager owns the firewall subsystem for one operator session. Service
// health and the baseline file are checked lazily, once, before the
// first rule operation; after that, rules are compiled, appended to the
// baseline and the whole ruleset is reloaded.
type Manager struct {
	runner     runner.Runner
	reconciler *ServiceReconciler
	baseline   *Baseline
	logger     *zap.Logger

	ready   bool // health+baseline checked this session
	outcome Outcome
}

// NewManager creates a firewall Manager.
func NewManager(run runner.Runner, confPath, serviceName, packageName string, logger *zap.Logger) *Manager {
	return &Manager{
		runner:     run,
		reconciler: NewServiceReconciler(run, serviceName, packageName, logger.Named("service")),
		baseline:   NewBaseline(confPath, logger.Named("baseline")),
		logger:     logger,
	}
}

// EnsureReady reconciles service health and the baseline file once per
// session. A fatal reconciliation failure does not latch, so a later
// rule attempt re-enters and re-fails the same way instead of being
// silently blocked forever. A baseline write failure does not abort
// readiness but is carried in the outcome so the operator hears about it.
func (m *Manager) EnsureReady() (Outcome, error) {
	if m.ready {
		return m.outcome, nil
	}

	outcome, err := m.reconciler.Reconcile()
	if err != nil {
		return outcome, err
	}

	if result, err := m.baseline.Ensure(); err != nil {
		m.logger.Error("baseline check failed", zap.Error(err))
		outcome.BaselineErr = err
	} else if result == BaselineCreated {
		m.logger.Info("baseline ruleset created", zap.String("path", m.baseline.Path()))
	}

	m.ready = true
	m.outcome = outcome
	return outcome, nil
}

// AddRule compiles the intent, appends the placed statement to the
// baseline file and reloads the ruleset. A reload failure leaves the
// appended line in place; the returned ReloadError says so.
func (m *Manager) AddRule(intent Intent) error {
	if _, err := m.EnsureReady(); err != nil {
		return err
	}

	placement, statement, err := intent.Compile()
	if err != nil {
		return err
	}

	line := fmt.Sprintf("add rule %s %s", placement, statement)
	if err := m.baseline.Append(line); err != nil {
		return err
	}

	if err := m.runner.Run("nft", "-f", m.baseline.Path()); err != nil {
		return &ReloadError{ConfPath: m.baseline.Path(), Err: err}
	}

	m.logger.Info("rule added",
		zap.String("kind", intent.Kind()),
		zap.String("placement", placement.String()),
		zap.String("statement", statement),
	)
	return nil
}
