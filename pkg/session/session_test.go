package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hostwire/netcon/pkg/config"
	"github.com/hostwire/netcon/pkg/netcfg"
	"github.com/hostwire/netcon/pkg/nft"
	"github.com/hostwire/netcon/pkg/runner"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T, fake *runner.Fake) (*Session, string) {
	t.Helper()
	confPath := filepath.Join(t.TempDir(), "nftables.conf")
	cfg := &config.Config{
		Firewall: config.FirewallConfig{
			ConfPath: confPath,
			Service:  "nftables",
			Package:  "nftables",
		},
	}
	return New(fake, cfg, zap.NewNop()), confPath
}

func TestSession_AddRouteSuccess(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("10.0.0.0/24 via 192.168.1.254 dev eth0\n", "ip", "route", "show")
	sess, _ := newTestSession(t, fake)

	route := netcfg.Route{Destination: "10.0.0.0/24", Gateway: "192.168.1.254", Interface: "eth0"}
	res := sess.AddRoute(route, netcfg.ModeEphemeral)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Message != "Route added successfully!" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_RemoveRouteMissing(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("default via 192.168.1.1 dev eth0\n", "ip", "route", "show")
	sess, _ := newTestSession(t, fake)

	route := netcfg.Route{Destination: "10.0.0.0/24", Gateway: "192.168.1.254", Interface: "eth0"}
	res := sess.RemoveRoute(route)
	if res.OK {
		t.Fatal("expected failure for absent route")
	}
	if res.Message != "Route does not exist." {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_AddRouteVerificationMismatch(t *testing.T) {
	fake := runner.NewFake()
	// The add command succeeds but the read-back shows no such route.
	fake.SetOutput("default via 192.168.1.1 dev eth0\n", "ip", "route", "show")
	sess, _ := newTestSession(t, fake)

	route := netcfg.Route{Destination: "10.0.0.0/24", Gateway: "192.168.1.254", Interface: "eth0"}
	res := sess.AddRoute(route, netcfg.ModeEphemeral)
	if res.OK {
		t.Fatal("expected failure on verification mismatch")
	}
	if res.Message != "The command reported success, but the change is not visible in system state." {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_AddRouteCommandError(t *testing.T) {
	fake := runner.NewFake()
	fake.AlwaysFail(errors.New("RTNETLINK answers: Network is unreachable"),
		"ip", "route", "add", "10.0.0.0/24", "via", "192.168.1.254", "dev", "eth0")
	sess, _ := newTestSession(t, fake)

	route := netcfg.Route{Destination: "10.0.0.0/24", Gateway: "192.168.1.254", Interface: "eth0"}
	res := sess.AddRoute(route, netcfg.ModeEphemeral)
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(res.Message, "Error: ") {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_EnsureFirewallReadyActive(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("active", "systemctl", "is-active", "nftables")
	sess, _ := newTestSession(t, fake)

	res := sess.EnsureFirewallReady()
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Message != "Firewall service is active." {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_EnsureFirewallReadyFatal(t *testing.T) {
	fake := runner.NewFake()
	fake.AlwaysFail(errors.New("not found"), "which", "nft")
	fake.AlwaysFail(errors.New("no candidate"), "apt-get", "install", "-y", "nftables")
	sess, _ := newTestSession(t, fake)

	res := sess.EnsureFirewallReady()
	if res.OK {
		t.Fatal("expected failure")
	}
	want := "nft command not found and installing nftables failed.\nFirewall management is unavailable."
	if res.Message != want {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_EnsureFirewallReadyDegraded(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("inactive", "systemctl", "is-active", "nftables")
	fake.AlwaysFail(errors.New("unit failed"), "systemctl", "start", "nftables")
	sess, _ := newTestSession(t, fake)

	res := sess.EnsureFirewallReady()
	if res.OK {
		t.Fatal("expected warning result")
	}
	want := "Could not start nftables even after last resort.\nRules will not apply properly."
	if res.Message != want {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_EnsureFirewallReadyBaselineFailure(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("active", "systemctl", "is-active", "nftables")
	// The ruleset path sits under a regular file, so the write must fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Firewall: config.FirewallConfig{
			ConfPath: filepath.Join(blocker, "nftables.conf"),
			Service:  "nftables",
			Package:  "nftables",
		},
	}
	sess := New(fake, cfg, zap.NewNop())

	res := sess.EnsureFirewallReady()
	if res.OK {
		t.Fatal("expected failure report")
	}
	if !strings.Contains(res.Message, "Error creating the ruleset file") {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_AddFirewallRuleSuccess(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("active", "systemctl", "is-active", "nftables")
	sess, _ := newTestSession(t, fake)

	intent, err := nft.NewStatefulConnection("established", "accept")
	if err != nil {
		t.Fatal(err)
	}
	res := sess.AddFirewallRule(intent)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Message != "Rule added successfully!" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestSession_AddFirewallRuleReloadFailure(t *testing.T) {
	fake := runner.NewFake()
	fake.SetOutput("active", "systemctl", "is-active", "nftables")
	sess, confPath := newTestSession(t, fake)
	fake.AlwaysFail(errors.New("syntax error"), "nft", "-f", confPath)

	intent, err := nft.NewMasquerade("10.0.0.5", "8.8.8.8")
	if err != nil {
		t.Fatal(err)
	}

	res := sess.AddFirewallRule(intent)
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Message, "reloading the ruleset failed") {
		t.Errorf("unexpected message: %q", res.Message)
	}
}
