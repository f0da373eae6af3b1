package session

import (
	"errors"
	"fmt"

	"github.com/hostwire/netcon/pkg/config"
	"github.com/hostwire/netcon/pkg/netcfg"
	"github.com/hostwire/netcon/pkg/nft"
	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

// Result is what the UI renders as an acknowledgment dialog. Operations
// never hand a raw error to the UI; failures arrive as a message whose
// wording depends on the failure kind.
type Result struct {
	OK      bool
	Message string
}

// Session coordinates all modules for a single sequential operator
// session: one change fully completes before the next begins.
type Session struct {
	applier  *netcfg.Applier
	firewall *nft.Manager
	logger   *zap.Logger
}

// New wires a Session from the command runner and configuration.
func New(run runner.Runner, cfg *config.Config, logger *zap.Logger) *Session {
	return &Session{
		applier:  netcfg.NewApplier(run, logger.Named("netcfg")),
		firewall: nft.NewManager(run, cfg.Firewall.ConfPath, cfg.Firewall.Service, cfg.Firewall.Package, logger.Named("firewall")),
		logger:   logger,
	}
}

// Interfaces enumerates host network interface names.
func (s *Session) Interfaces() ([]string, error) {
	return netcfg.ListInterfaces()
}

// AddRoute applies and verifies a new route.
func (s *Session) AddRoute(route netcfg.Route, mode netcfg.Mode) Result {
	return s.networkResult("add route", s.applier.AddRoute(route, mode), "Route added successfully!")
}

// RemoveRoute deletes an existing route.
func (s *Session) RemoveRoute(route netcfg.Route) Result {
	return s.networkResult("remove route", s.applier.RemoveRoute(route), "Route removed successfully!")
}

// SetStaticIP assigns a static address, optionally with a default gateway.
func (s *Session) SetStaticIP(assign netcfg.AddressAssignment, gateway string, mode netcfg.Mode) Result {
	return s.networkResult("set static ip", s.applier.SetStaticIP(assign, gateway, mode), "Static IP set successfully!")
}

// EnableDHCP switches an interface to automatic addressing.
func (s *Session) EnableDHCP(iface string) Result {
	return s.networkResult("enable dhcp", s.applier.EnableDHCP(iface), "DHCP enabled permanently!")
}

// SetDNS configures DNS servers for an interface.
func (s *Session) SetDNS(iface string, servers []string, mode netcfg.Mode) Result {
	return s.networkResult("set dns", s.applier.SetDNS(iface, servers, mode), "DNS updated successfully!")
}

// SetHostname sets the system hostname.
func (s *Session) SetHostname(name string) Result {
	return s.networkResult("set hostname", s.applier.SetHostname(name), "Hostname changed successfully!")
}

// EnsureFirewallReady runs the once-per-session firewall health
// reconciliation. The degraded outcome is a warning, not a block:
// subsequent rule operations are still attempted.
func (s *Session) EnsureFirewallReady() Result {
	outcome, err := s.firewall.EnsureReady()
	if err != nil {
		s.logger.Error("firewall reconciliation failed", zap.Error(err))
		var fatal *nft.FatalError
		if errors.As(err, &fatal) {
			return Result{Message: "nft command not found and installing nftables failed.\nFirewall management is unavailable."}
		}
		return Result{Message: err.Error()}
	}
	if outcome.Degraded {
		return Result{Message: "Could not start nftables even after last resort.\nRules will not apply properly."}
	}
	if outcome.BaselineErr != nil {
		return Result{Message: fmt.Sprintf("Error creating the ruleset file:\n%v", outcome.BaselineErr)}
	}
	return Result{OK: true, Message: "Firewall service is active."}
}

// AddFirewallRule compiles, persists and reloads one firewall rule.
func (s *Session) AddFirewallRule(intent nft.Intent) Result {
	err := s.firewall.AddRule(intent)
	if err == nil {
		s.logger.Info("firewall rule applied", zap.String("kind", intent.Kind()))
		return Result{OK: true, Message: "Rule added successfully!"}
	}

	s.logger.Error("firewall rule failed",
		zap.String("kind", intent.Kind()),
		zap.Error(err),
	)

	var validation *nft.ValidationError
	var fatal *nft.FatalError
	var ioErr *nft.IOError
	var reload *nft.ReloadError
	switch {
	case errors.As(err, &validation):
		return Result{Message: fmt.Sprintf("Invalid input: %v", err)}
	case errors.As(err, &fatal):
		return Result{Message: "nft command not found and installing nftables failed.\nFirewall management is unavailable."}
	case errors.As(err, &ioErr):
		return Result{Message: fmt.Sprintf("Could not update the ruleset file:\n%v", err)}
	case errors.As(err, &reload):
		return Result{Message: "The rule was written but reloading the ruleset failed.\nThe ruleset file and live rules may now disagree."}
	default:
		return Result{Message: fmt.Sprintf("Error applying rule:\n%v", err)}
	}
}

// networkResult maps the netcfg error taxonomy onto operator wording.
// Full detail goes to the log; the dialog gets a readable summary.
func (s *Session) networkResult(op string, err error, success string) Result {
	if err == nil {
		s.logger.Info("operation succeeded", zap.String("op", op))
		return Result{OK: true, Message: success}
	}

	s.logger.Error("operation failed", zap.String("op", op), zap.Error(err))

	var cmdErr *netcfg.CommandError
	var verifyErr *netcfg.VerificationError
	switch {
	case errors.Is(err, netcfg.ErrNotFound):
		return Result{Message: "Route does not exist."}
	case errors.As(err, &verifyErr):
		return Result{Message: "The command reported success, but the change is not visible in system state."}
	case errors.As(err, &cmdErr):
		return Result{Message: fmt.Sprintf("Error: %v", err)}
	default:
		return Result{Message: fmt.Sprintf("Error: %v", err)}
	}
}
