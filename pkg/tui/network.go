package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hostwire/netcon/pkg/netcfg"
)

// networkMenu shows the network configuration operations.
func (c *Console) networkMenu() {
	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Network Configuration").
				Options(
					huh.NewOption("Change DNS", "dns"),
					huh.NewOption("Change Hostname", "hostname"),
					huh.NewOption("Set Static IP", "static"),
					huh.NewOption("Use DHCP", "dhcp"),
					huh.NewOption("Add Route", "add-route"),
					huh.NewOption("Remove Route", "remove-route"),
					huh.NewOption("Back", "back"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return
		}

		switch choice {
		case "dns":
			c.changeDNSForm()
		case "hostname":
			c.changeHostnameForm()
		case "static":
			c.setStaticIPForm()
		case "dhcp":
			c.useDHCPForm()
		case "add-route":
			c.addRouteForm()
		case "remove-route":
			c.removeRouteForm()
		default:
			return
		}
	}
}

func (c *Console) changeDNSForm() {
	iface, ok := c.selectInterface()
	if !ok {
		return
	}

	var servers string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("DNS servers").
			Description("Up to 3 servers, comma-separated").
			Validate(ValidateDNSServers).
			Value(&servers),
	))
	if !runForm(form) {
		return
	}

	mode, ok := c.selectMode()
	if !ok {
		return
	}

	c.acknowledge(c.session.SetDNS(iface, SplitDNSServers(servers), mode))
}

func (c *Console) changeHostnameForm() {
	var hostname string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New hostname").
			Validate(ValidateHostname).
			Value(&hostname),
	))
	if !runForm(form) {
		return
	}

	c.acknowledge(c.session.SetHostname(strings.TrimSpace(hostname)))
}

func (c *Console) setStaticIPForm() {
	iface, ok := c.selectInterface()
	if !ok {
		return
	}

	var address, prefix, gateway string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("IP address").
			Placeholder("192.168.1.10").
			Validate(ValidateIPv4).
			Value(&address),
		huh.NewInput().
			Title("Subnet mask (CIDR, 0-32)").
			Validate(ValidatePrefixLen).
			Value(&prefix),
		huh.NewInput().
			Title("Gateway IP (optional)").
			Validate(func(value string) error {
				return ValidateGateway(value, address, prefix)
			}).
			Value(&gateway),
	))
	if !runForm(form) {
		return
	}

	mode, ok := c.selectMode()
	if !ok {
		return
	}

	prefixLen, _ := strconv.Atoi(strings.TrimSpace(prefix))
	assign := netcfg.AddressAssignment{
		Address:   strings.TrimSpace(address),
		PrefixLen: prefixLen,
		Interface: iface,
	}
	c.acknowledge(c.session.SetStaticIP(assign, strings.TrimSpace(gateway), mode))
}

func (c *Console) useDHCPForm() {
	iface, ok := c.selectInterface()
	if !ok {
		return
	}
	c.acknowledge(c.session.EnableDHCP(iface))
}

// routeInput collects the destination/gateway pair shared by the add
// and remove route forms.
func (c *Console) routeInput(iface string) (netcfg.Route, bool) {
	var destination, prefix, gateway string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Destination network IP").
			Placeholder("192.168.2.0").
			Validate(ValidateIPv4).
			Value(&destination),
		huh.NewInput().
			Title("Destination network mask (0-32)").
			Validate(ValidatePrefixLen).
			Value(&prefix),
		huh.NewInput().
			Title("Gateway IP").
			Validate(ValidateIPv4).
			Value(&gateway),
	))
	if !runForm(form) {
		return netcfg.Route{}, false
	}

	return netcfg.Route{
		Destination: strings.TrimSpace(destination) + "/" + strings.TrimSpace(prefix),
		Gateway:     strings.TrimSpace(gateway),
		Interface:   iface,
	}, true
}

func (c *Console) addRouteForm() {
	iface, ok := c.selectInterface()
	if !ok {
		return
	}

	route, ok := c.routeInput(iface)
	if !ok {
		return
	}

	mode, ok := c.selectMode()
	if !ok {
		return
	}

	c.acknowledge(c.session.AddRoute(route, mode))
}

func (c *Console) removeRouteForm() {
	iface, ok := c.selectInterface()
	if !ok {
		return
	}

	route, ok := c.routeInput(iface)
	if !ok {
		return
	}

	c.acknowledge(c.session.RemoveRoute(route))
}
