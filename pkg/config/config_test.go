package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewManager_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netcon.yaml")

	manager, err := NewManager(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := manager.GetConfig()
	if cfg.Global.LogLevel != "info" {
		t.Errorf("unexpected default log level: %q", cfg.Global.LogLevel)
	}
	if cfg.Firewall.ConfPath != "/etc/nftables.conf" {
		t.Errorf("unexpected default conf path: %q", cfg.Firewall.ConfPath)
	}
	if cfg.Firewall.Service != "nftables" || cfg.Firewall.Package != "nftables" {
		t.Errorf("unexpected firewall defaults: %+v", cfg.Firewall)
	}
}

func TestNewManager_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netcon.yaml")
	content := `global:
  log_level: debug
firewall:
  conf_path: /tmp/rules.conf
  service: nftables
  package: nftables
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := manager.GetConfig()
	if cfg.Global.LogLevel != "debug" {
		t.Errorf("unexpected log level: %q", cfg.Global.LogLevel)
	}
	if cfg.Firewall.ConfPath != "/tmp/rules.conf" {
		t.Errorf("unexpected conf path: %q", cfg.Firewall.ConfPath)
	}
}

func TestNewManager_InvalidLogLevelRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netcon.yaml")
	content := "global:\n  log_level: shout\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(path, zap.NewNop()); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

func TestValidate_RequiredFirewallFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing conf_path", Config{Firewall: FirewallConfig{Service: "nftables", Package: "nftables"}}},
		{"missing service", Config{Firewall: FirewallConfig{ConfPath: "/etc/nftables.conf", Package: "nftables"}}},
		{"missing package", Config{Firewall: FirewallConfig{ConfPath: "/etc/nftables.conf", Service: "nftables"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(&tc.cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGlobalConfig_Level(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := (GlobalConfig{LogLevel: tc.in}).Level(); got != tc.want {
			t.Errorf("Level(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
