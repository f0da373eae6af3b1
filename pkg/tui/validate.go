package tui

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Field validators for form inputs. Validation failures never leave the
// input layer; huh re-prompts until the value passes or the operator
// aborts the form.

// ValidateIPv4 accepts a single IPv4 address.
func ValidateIPv4(value string) error {
	ip := net.ParseIP(strings.TrimSpace(value))
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("invalid IPv4 address")
	}
	return nil
}

// ValidateOptionalIPv4 accepts an empty value or a single IPv4 address.
func ValidateOptionalIPv4(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return ValidateIPv4(value)
}

// ValidatePrefixLen accepts a CIDR prefix length between 0 and 32.
func ValidatePrefixLen(value string) error {
	prefix, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("prefix length must be a number")
	}
	if prefix < 0 || prefix > 32 {
		return fmt.Errorf("prefix length out of range (0-32)")
	}
	return nil
}

// ValidatePort accepts a port number between 1 and 65535.
func ValidatePort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range (1-65535)")
	}
	return nil
}

// ValidateGateway accepts an empty value or an IPv4 address inside the
// subnet formed by address/prefix. An unparsable subnet skips the
// containment check; the address and prefix fields carry their own
// validators.
func ValidateGateway(gateway, address, prefix string) error {
	if err := ValidateOptionalIPv4(gateway); err != nil {
		return err
	}
	gateway = strings.TrimSpace(gateway)
	if gateway == "" {
		return nil
	}
	_, network, err := net.ParseCIDR(strings.TrimSpace(address) + "/" + strings.TrimSpace(prefix))
	if err != nil {
		return nil
	}
	if !network.Contains(net.ParseIP(gateway)) {
		return fmt.Errorf("gateway not in same subnet")
	}
	return nil
}

// ValidateHostname accepts any non-empty hostname.
func ValidateHostname(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	return nil
}

// ValidateDNSServers accepts a comma-separated list of one to three
// IPv4 addresses.
func ValidateDNSServers(value string) error {
	servers := SplitDNSServers(value)
	if len(servers) == 0 {
		return fmt.Errorf("enter at least one DNS server")
	}
	if len(servers) > 3 {
		return fmt.Errorf("enter at most 3 DNS servers")
	}
	for _, server := range servers {
		if err := ValidateIPv4(server); err != nil {
			return fmt.Errorf("invalid DNS IP %q", server)
		}
	}
	return nil
}

// ValidateHostPort accepts an address:port DNAT target.
func ValidateHostPort(value string) error {
	host, portStr, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return fmt.Errorf("use the IP:PORT format")
	}
	if err := ValidateIPv4(host); err != nil {
		return fmt.Errorf("invalid IP in target")
	}
	return ValidatePort(portStr)
}

// SplitDNSServers splits a comma-separated server list, dropping empty
// entries and surrounding whitespace.
func SplitDNSServers(value string) []string {
	var servers []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	return servers
}
