package nft

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// validStates is the set of supported conntrack state keywords.
var validStates = map[string]bool{
	"new":         true,
	"established": true,
	"related":     true,
	"invalid":     true,
}

// validActions is the set of supported rule verdicts.
var validActions = map[string]bool{
	"accept": true,
	"drop":   true,
	"reject": true,
}

// validICMPActions is the subset of verdicts allowed for ICMP rules.
var validICMPActions = map[string]bool{
	"accept": true,
	"drop":   true,
}

// validProtocols is the set of supported transport protocols.
var validProtocols = map[string]bool{
	"tcp": true,
	"udp": true,
}

// validICMPTypes is the set of supported ICMP type keywords.
var validICMPTypes = map[string]bool{
	"echo-request":            true,
	"destination-unreachable": true,
}

// Placement identifies the table and chain a compiled rule lands in.
type Placement struct {
	Family string
	Table  string
	Chain  string
}

// String returns the placement as it appears in an `add rule` statement.
func (p Placement) String() string {
	return fmt.Sprintf("%s %s %s", p.Family, p.Table, p.Chain)
}

var (
	// PlacementFilterInput is the stateless filter container's input hook.
	PlacementFilterInput = Placement{Family: "inet", Table: "filter", Chain: "input"}
	// PlacementNATPrerouting is the NAT container's prerouting hook.
	PlacementNATPrerouting = Placement{Family: "ip", Table: "nat", Chain: "prerouting"}
	// PlacementNATPostrouting is the NAT container's postrouting hook.
	PlacementNATPostrouting = Placement{Family: "ip", Table: "nat", Chain: "postrouting"}
)

// Intent is a validated semantic firewall rule prior to placement.
// Intents are immutable once constructed; construction fails unless
// every field passes validation.
type Intent interface {
	// Compile chooses the placement for the rule and renders the
	// low-level statement body. Compile re-rejects inputs whose shape
	// determines the emitted statement's validity (DNAT targets)
	// rather than trusting the input layer.
	Compile() (Placement, string, error)

	// Kind names the intent for logging and operator messages.
	Kind() string
}

func validateIPv4(field, value string) error {
	ip := net.ParseIP(value)
	if ip == nil || ip.To4() == nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not an IPv4 address", value)}
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%d is outside 1-65535", port)}
	}
	return nil
}

// StatefulConnection filters by conntrack state.
type StatefulConnection struct {
	state  string
	action string
}

// NewStatefulConnection validates the state and action keywords.
func NewStatefulConnection(state, action string) (StatefulConnection, error) {
	if !validStates[state] {
		return StatefulConnection{}, &ValidationError{Field: "state", Reason: fmt.Sprintf("unsupported keyword %q", state)}
	}
	if !validActions[action] {
		return StatefulConnection{}, &ValidationError{Field: "action", Reason: fmt.Sprintf("unsupported verdict %q", action)}
	}
	return StatefulConnection{state: state, action: action}, nil
}

func (r StatefulConnection) Kind() string { return "stateful connection" }

func (r StatefulConnection) Compile() (Placement, string, error) {
	return PlacementFilterInput, fmt.Sprintf("ct state %s %s", r.state, r.action), nil
}

// ProtocolPort filters by addresses, transport protocol and port.
type ProtocolPort struct {
	src      string
	dst      string
	protocol string
	port     int
	action   string
}

// NewProtocolPort validates all fields of a protocol/port filter rule.
func NewProtocolPort(src, dst, protocol string, port int, action string) (ProtocolPort, error) {
	if err := validateIPv4("source address", src); err != nil {
		return ProtocolPort{}, err
	}
	if err := validateIPv4("destination address", dst); err != nil {
		return ProtocolPort{}, err
	}
	if !validProtocols[protocol] {
		return ProtocolPort{}, &ValidationError{Field: "protocol", Reason: fmt.Sprintf("unsupported protocol %q", protocol)}
	}
	if err := validatePort("destination port", port); err != nil {
		return ProtocolPort{}, err
	}
	if !validActions[action] {
		return ProtocolPort{}, &ValidationError{Field: "action", Reason: fmt.Sprintf("unsupported verdict %q", action)}
	}
	return ProtocolPort{src: src, dst: dst, protocol: protocol, port: port, action: action}, nil
}

func (r ProtocolPort) Kind() string { return "protocol/port filter" }

func (r ProtocolPort) Compile() (Placement, string, error) {
	return PlacementFilterInput, fmt.Sprintf("ip saddr %s ip daddr %s %s dport %d %s",
		r.src, r.dst, r.protocol, r.port, r.action), nil
}

// ICMP filters ICMP traffic by type.
type ICMP struct {
	src      string
	dst      string
	icmpType string
	action   string
}

// NewICMP validates all fields of an ICMP filter rule. Reject is not a
// valid verdict for ICMP.
func NewICMP(src, dst, icmpType, action string) (ICMP, error) {
	if err := validateIPv4("source address", src); err != nil {
		return ICMP{}, err
	}
	if err := validateIPv4("destination address", dst); err != nil {
		return ICMP{}, err
	}
	if !validICMPTypes[icmpType] {
		return ICMP{}, &ValidationError{Field: "icmp type", Reason: fmt.Sprintf("unsupported type %q", icmpType)}
	}
	if !validICMPActions[action] {
		return ICMP{}, &ValidationError{Field: "action", Reason: fmt.Sprintf("unsupported verdict %q", action)}
	}
	return ICMP{src: src, dst: dst, icmpType: icmpType, action: action}, nil
}

func (r ICMP) Kind() string { return "icmp filter" }

func (r ICMP) Compile() (Placement, string, error) {
	return PlacementFilterInput, fmt.Sprintf("ip saddr %s ip daddr %s icmp type %s %s",
		r.src, r.dst, r.icmpType, r.action), nil
}

// Masquerade source-NATs matching traffic to the outgoing interface address.
type Masquerade struct {
	src string
	dst string
}

// NewMasquerade validates the address pair of a masquerade rule.
func NewMasquerade(src, dst string) (Masquerade, error) {
	if err := validateIPv4("source address", src); err != nil {
		return Masquerade{}, err
	}
	if err := validateIPv4("destination address", dst); err != nil {
		return Masquerade{}, err
	}
	return Masquerade{src: src, dst: dst}, nil
}

func (r Masquerade) Kind() string { return "masquerade" }

func (r Masquerade) Compile() (Placement, string, error) {
	return PlacementNATPostrouting, fmt.Sprintf("ip saddr %s ip daddr %s masquerade", r.src, r.dst), nil
}

// DestinationRedirect destination-NATs matching TCP traffic to a new target.
type DestinationRedirect struct {
	src    string
	dst    string
	port   int
	target string
}

// NewDestinationRedirect validates the fields of a DNAT rule, including
// the address:port target shape.
func NewDestinationRedirect(src, dst string, port int, target string) (DestinationRedirect, error) {
	if err := validateIPv4("source address", src); err != nil {
		return DestinationRedirect{}, err
	}
	if err := validateIPv4("destination address", dst); err != nil {
		return DestinationRedirect{}, err
	}
	if err := validatePort("destination port", port); err != nil {
		return DestinationRedirect{}, err
	}
	if err := validateDNATTarget(target); err != nil {
		return DestinationRedirect{}, err
	}
	return DestinationRedirect{src: src, dst: dst, port: port, target: target}, nil
}

func (r DestinationRedirect) Kind() string { return "destination redirect" }

// Compile re-validates the target before emitting the statement. Target
// parsing belongs to the compiler, not the input layer, because it
// determines whether the emitted statement is well-formed.
func (r DestinationRedirect) Compile() (Placement, string, error) {
	if err := validateDNATTarget(r.target); err != nil {
		return Placement{}, "", err
	}
	return PlacementNATPrerouting, fmt.Sprintf("ip saddr %s ip daddr %s tcp dport %d dnat to %s",
		r.src, r.dst, r.port, r.target), nil
}

// validateDNATTarget checks the ip:port shape of a DNAT target: split on
// the first colon, IPv4 on the left, port 1-65535 on the right.
func validateDNATTarget(target string) error {
	host, portStr, found := strings.Cut(target, ":")
	if !found {
		return &ValidationError{Field: "dnat target", Reason: fmt.Sprintf("%q is missing the :port suffix", target)}
	}
	if err := validateIPv4("dnat target address", host); err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return &ValidationError{Field: "dnat target port", Reason: fmt.Sprintf("%q is not a number", portStr)}
	}
	return validatePort("dnat target port", port)
}
