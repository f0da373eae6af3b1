package netcfg

import "fmt"

// Mode selects whether a change touches only live kernel state or is also
// written into the durable connection profile store. Persistent changes
// must take effect immediately as well; there is no staged-but-inactive state.
type Mode int

const (
	// ModeEphemeral applies the change to live kernel state only.
	ModeEphemeral Mode = iota
	// ModePersistent additionally records the change in the connection
	// profile store (nmcli), surviving reboots.
	ModePersistent
)

// String returns the operator-facing name of the mode.
func (m Mode) String() string {
	if m == ModePersistent {
		return "permanent"
	}
	return "temporary"
}

// Route is a network fact describing one routing table entry.
// Equality is structural and exact-string: two spellings of the same
// prefix are distinct facts, which the verifier relies on.
type Route struct {
	Destination string // destination network in CIDR notation, or "default"
	Gateway     string // next-hop IPv4 address
	Interface   string // outgoing interface name
}

// String renders the route exactly as it appears in `ip route show`
// output; this is the literal the verifier matches against.
func (r Route) String() string {
	return fmt.Sprintf("%s via %s dev %s", r.Destination, r.Gateway, r.Interface)
}

// AddressAssignment is a network fact describing one interface address.
type AddressAssignment struct {
	Address   string // IPv4 address
	PrefixLen int    // CIDR prefix length, 0-32
	Interface string // interface name
}

// CIDR returns the address in address/prefix notation.
func (a AddressAssignment) CIDR() string {
	return fmt.Sprintf("%s/%d", a.Address, a.PrefixLen)
}
