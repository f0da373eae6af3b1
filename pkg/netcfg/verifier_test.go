package netcfg

import (
	"errors"
	"testing"

	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

const routeTable = `default via 192.168.1.1 dev eth0 proto dhcp metric 100
10.0.0.0/24 via 192.168.1.254 dev eth0
192.168.1.0/24 dev eth0 proto kernel scope link src 192.168.1.10
`

func TestVerifier_RoutePresent(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput(routeTable, "ip", "route", "show")
	verifier := NewVerifier(fake, zap.NewNop())

	present, err := verifier.RouteActive(Route{
		Destination: "10.0.0.0/24",
		Gateway:     "192.168.1.254",
		Interface:   "eth0",
	})
	if err != nil {
		t.Fatalf("RouteActive failed: %v", err)
	}
	if !present {
		t.Error("expected route to be reported present")
	}
}

func TestVerifier_RouteAbsent(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput(routeTable, "ip", "route", "show")
	verifier := NewVerifier(fake, zap.NewNop())

	present, err := verifier.RouteActive(Route{
		Destination: "172.16.0.0/16",
		Gateway:     "192.168.1.254",
		Interface:   "eth0",
	})
	if err != nil {
		t.Fatalf("RouteActive failed: %v", err)
	}
	if present {
		t.Error("expected route to be reported absent")
	}
}

// Matching is string-exact by design: an equivalent but differently
// spelled prefix is a different fact.
func TestVerifier_NoCIDRNormalization(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("10.0.0.0/24 via 192.168.1.254 dev eth0\n", "ip", "route", "show")
	verifier := NewVerifier(fake, zap.NewNop())

	present, err := verifier.RouteActive(Route{
		Destination: "10.0.000.0/24", // same network, different spelling
		Gateway:     "192.168.1.254",
		Interface:   "eth0",
	})
	if err != nil {
		t.Fatalf("RouteActive failed: %v", err)
	}
	if present {
		t.Error("expected differently spelled prefix not to match")
	}
}

func TestVerifier_QueryFailure(t *testing.T) {
	fake := runner.NewFake()
	fake.AlwaysFail(errors.New("netlink down"), "ip", "route", "show")
	verifier := NewVerifier(fake, zap.NewNop())

	_, err := verifier.RouteActive(Route{Destination: "10.0.0.0/24", Gateway: "192.168.1.254", Interface: "eth0"})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
}
