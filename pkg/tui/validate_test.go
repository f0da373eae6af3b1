package tui

import (
	"reflect"
	"testing"
)

func TestValidateIPv4(t *testing.T) {
	valid := []string{"192.168.1.1", "10.0.0.254", " 8.8.8.8 "}
	for _, value := range valid {
		if err := ValidateIPv4(value); err != nil {
			t.Errorf("ValidateIPv4(%q) = %v, want nil", value, err)
		}
	}

	invalid := []string{"", "256.1.1.1", "10.0.0", "::1", "host.example"}
	for _, value := range invalid {
		if err := ValidateIPv4(value); err == nil {
			t.Errorf("ValidateIPv4(%q) = nil, want error", value)
		}
	}
}

func TestValidateOptionalIPv4(t *testing.T) {
	if err := ValidateOptionalIPv4(""); err != nil {
		t.Errorf("empty value should be accepted: %v", err)
	}
	if err := ValidateOptionalIPv4("  "); err != nil {
		t.Errorf("blank value should be accepted: %v", err)
	}
	if err := ValidateOptionalIPv4("not-an-ip"); err == nil {
		t.Error("expected error for junk value")
	}
}

func TestValidatePrefixLen(t *testing.T) {
	for _, value := range []string{"0", "24", "32"} {
		if err := ValidatePrefixLen(value); err != nil {
			t.Errorf("ValidatePrefixLen(%q) = %v, want nil", value, err)
		}
	}
	for _, value := range []string{"-1", "33", "abc", ""} {
		if err := ValidatePrefixLen(value); err == nil {
			t.Errorf("ValidatePrefixLen(%q) = nil, want error", value)
		}
	}
}

func TestValidatePort(t *testing.T) {
	for _, value := range []string{"1", "80", "65535"} {
		if err := ValidatePort(value); err != nil {
			t.Errorf("ValidatePort(%q) = %v, want nil", value, err)
		}
	}
	for _, value := range []string{"0", "65536", "http", ""} {
		if err := ValidatePort(value); err == nil {
			t.Errorf("ValidatePort(%q) = nil, want error", value)
		}
	}
}

func TestValidateGateway(t *testing.T) {
	cases := []struct {
		name    string
		gateway string
		address string
		prefix  string
		wantErr bool
	}{
		{"empty is optional", "", "192.168.1.10", "24", false},
		{"in subnet", "192.168.1.1", "192.168.1.10", "24", false},
		{"not an ip", "gateway", "192.168.1.10", "24", true},
		{"outside subnet", "10.0.0.1", "192.168.1.10", "24", true},
		{"unparsable subnet skips containment", "10.0.0.1", "bad", "24", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGateway(tc.gateway, tc.address, tc.prefix)
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateDNSServers(t *testing.T) {
	valid := []string{
		"1.1.1.1",
		"1.1.1.1,8.8.8.8",
		"1.1.1.1, 8.8.8.8, 9.9.9.9",
	}
	for _, value := range valid {
		if err := ValidateDNSServers(value); err != nil {
			t.Errorf("ValidateDNSServers(%q) = %v, want nil", value, err)
		}
	}

	invalid := []string{
		"",
		",,,",
		"1.1.1.1,8.8.8.8,9.9.9.9,4.4.4.4",
		"1.1.1.1,badhost",
	}
	for _, value := range invalid {
		if err := ValidateDNSServers(value); err == nil {
			t.Errorf("ValidateDNSServers(%q) = nil, want error", value)
		}
	}
}

func TestValidateHostPort(t *testing.T) {
	if err := ValidateHostPort("10.0.0.5:8080"); err != nil {
		t.Errorf("valid target rejected: %v", err)
	}
	for _, value := range []string{"10.0.0.5", "host:80", "10.0.0.5:0", "10.0.0.5:http"} {
		if err := ValidateHostPort(value); err == nil {
			t.Errorf("ValidateHostPort(%q) = nil, want error", value)
		}
	}
}

func TestSplitDNSServers(t *testing.T) {
	got := SplitDNSServers(" 1.1.1.1, ,8.8.8.8 ,")
	want := []string{"1.1.1.1", "8.8.8.8"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitDNSServers = %v, want %v", got, want)
	}
}
