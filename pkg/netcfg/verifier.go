package netcfg

import (
	"strings"

	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

// Verifier answers whether an intended network fact currently holds by
// re-querying live system state. Matching is deliberately string-exact
// against `ip route show` output: no CIDR normalization is performed, so
// equivalent but differently spelled prefixes compare unequal.
type Verifier struct {
	runner runner.Runner
	logger *zap.Logger
}

// NewVerifier creates a Verifier that queries state through the given runner.
func NewVerifier(run runner.Runner, logger *zap.Logger) *Verifier {
	return &Verifier{runner: run, logger: logger}
}

// RouteActive reports whether the route is present in the live routing table.
func (v *Verifier) RouteActive(route Route) (bool, error) {
	out, err := v.runner.Output("ip", "route", "show")
	if err != nil {
		return false, &CommandError{Command: "ip route show", Err: err}
	}

	present := strings.Contains(out, route.String())
	v.logger.Debug("route read-back",
		zap.String("route", route.String()),
		zap.Bool("present", present),
	)
	return present, nil
}
