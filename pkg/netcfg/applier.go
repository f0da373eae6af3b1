package netcfg

import (
	"fmt"
	"strings"

	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

// Applier performs one mutating network operation at a time through the
// command runner and, where the fact has an observable correlate in the
// routing table, re-verifies system state before reporting success.
type Applier struct {
	runner   runner.Runner
	verifier *Verifier
	logger   *zap.Logger
}

// NewApplier creates an Applier with its own Verifier over the same runner.
func NewApplier(run runner.Runner, logger *zap.Logger) *Applier {
	return &Applier{
		runner:   run,
		verifier: NewVerifier(run, logger),
		logger:   logger,
	}
}

// run executes one mutating command, wrapping failure as CommandError.
func (a *Applier) run(name string, args ...string) error {
	if err := a.runner.Run(name, args...); err != nil {
		return &CommandError{
			Command: strings.Join(append([]string{name}, args...), " "),
			Err:     err,
		}
	}
	return nil
}

// AddRoute adds the route under the given durability mode, then requires
// an exact read-back match in the live routing table.
func (a *Applier) AddRoute(route Route, mode Mode) error {
	switch mode {
	case ModePersistent:
		if err := a.run("nmcli", "connection", "modify", route.Interface,
			"+ipv4.routes", route.Destination+" "+route.Gateway); err != nil {
			return err
		}
		if err := a.run("nmcli", "connection", "up", route.Interface); err != nil {
			return err
		}
	default:
		if err := a.run("ip", "route", "add", route.Destination,
			"via", route.Gateway, "dev", route.Interface); err != nil {
			return err
		}
	}

	present, err := a.verifier.RouteActive(route)
	if err != nil {
		return err
	}
	if !present {
		return &VerificationError{Fact: route.String()}
	}

	a.logger.Info("route added",
		zap.String("route", route.String()),
		zap.String("mode", mode.String()),
	)
	return nil
}

// RemoveRoute deletes the route from the live routing table. The route
// must verify as present first; removing an absent route fails with
// ErrNotFound and the delete command is never issued.
func (a *Applier) RemoveRoute(route Route) error {
	present, err := a.verifier.RouteActive(route)
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf("route %q: %w", route.String(), ErrNotFound)
	}

	if err := a.run("ip", "route", "del", route.Destination,
		"via", route.Gateway, "dev", route.Interface); err != nil {
		return err
	}

	a.logger.Info("route removed", zap.String("route", route.String()))
	return nil
}

// SetStaticIP assigns a static address to the interface. A non-empty
// gateway installs a default route, which is then verified by read-back.
func (a *Applier) SetStaticIP(assign AddressAssignment, gateway string, mode Mode) error {
	switch mode {
	case ModePersistent:
		if err := a.run("nmcli", "connection", "modify", assign.Interface,
			"ipv4.addresses", assign.CIDR()); err != nil {
			return err
		}
		if gateway != "" {
			if err := a.run("nmcli", "connection", "modify", assign.Interface,
				"ipv4.gateway", gateway); err != nil {
				return err
			}
		}
		if err := a.run("nmcli", "connection", "modify", assign.Interface,
			"ipv4.method", "manual"); err != nil {
			return err
		}
		if err := a.run("nmcli", "connection", "up", assign.Interface); err != nil {
			return err
		}
	default:
		if err := a.run("ip", "addr", "flush", "dev", assign.Interface); err != nil {
			return err
		}
		if err := a.run("ip", "addr", "add", assign.CIDR(), "dev", assign.Interface); err != nil {
			return err
		}
		if gateway != "" {
			if err := a.run("ip", "route", "add", "default",
				"via", gateway, "dev", assign.Interface); err != nil {
				return err
			}
		}
	}

	if gateway != "" {
		defaultRoute := Route{Destination: "default", Gateway: gateway, Interface: assign.Interface}
		present, err := a.verifier.RouteActive(defaultRoute)
		if err != nil {
			return err
		}
		if !present {
			return &VerificationError{Fact: defaultRoute.String()}
		}
	}

	a.logger.Info("static address set",
		zap.String("address", assign.CIDR()),
		zap.String("interface", assign.Interface),
		zap.String("gateway", gateway),
		zap.String("mode", mode.String()),
	)
	return nil
}

// EnableDHCP switches the interface to automatic addressing. The change
// is always recorded in the connection profile store; there is no
// read-back correlate to verify.
func (a *Applier) EnableDHCP(iface string) error {
	if err := a.run("nmcli", "connection", "modify", iface, "ipv4.method", "auto"); err != nil {
		return err
	}
	if err := a.run("nmcli", "connection", "up", iface); err != nil {
		return err
	}

	a.logger.Info("dhcp enabled", zap.String("interface", iface))
	return nil
}

// SetDNS configures the interface's DNS servers under the given mode.
func (a *Applier) SetDNS(iface string, servers []string, mode Mode) error {
	switch mode {
	case ModePersistent:
		if err := a.run("nmcli", "connection", "modify", iface,
			"ipv4.dns", strings.Join(servers, ",")); err != nil {
			return err
		}
		if err := a.run("nmcli", "connection", "up", iface); err != nil {
			return err
		}
	default:
		for _, server := range servers {
			if err := a.run("resolvectl", "dns", iface, server); err != nil {
				return err
			}
		}
	}

	a.logger.Info("dns updated",
		zap.String("interface", iface),
		zap.Strings("servers", servers),
		zap.String("mode", mode.String()),
	)
	return nil
}

// SetHostname sets the system hostname.
func (a *Applier) SetHostname(name string) error {
	if err := a.run("hostnamectl", "set-hostname", name); err != nil {
		return err
	}

	a.logger.Info("hostname changed", zap.String("hostname", name))
	return nil
}
