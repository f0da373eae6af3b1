package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hostwire/netcon/pkg/nft"
	"github.com/hostwire/netcon/pkg/session"
)

// firewallMenu reconciles firewall service health on entry (once per
// session; later entries are a no-op) and shows the rule forms. A
// degraded or fatal outcome is shown as a warning, but the menu still
// opens: rule operations remain attempted.
func (c *Console) firewallMenu() {
	if res := c.session.EnsureFirewallReady(); !res.OK {
		c.acknowledge(res)
	}

	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Firewall Management").
				Options(
					huh.NewOption("Create connection-state rule", "ct"),
					huh.NewOption("Create protocol/port rule", "proto"),
					huh.NewOption("Create ICMP rule", "icmp"),
					huh.NewOption("Create masquerade rule", "masquerade"),
					huh.NewOption("Create DNAT rule", "dnat"),
					huh.NewOption("Back", "back"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return
		}

		switch choice {
		case "ct":
			c.ctStateRuleForm()
		case "proto":
			c.protocolPortRuleForm()
		case "icmp":
			c.icmpRuleForm()
		case "masquerade":
			c.masqueradeRuleForm()
		case "dnat":
			c.dnatRuleForm()
		default:
			return
		}
	}
}

// applyIntent funnels a constructed intent through the session. A
// construction error means a validation gap in the form; it is surfaced
// like any other validation failure.
func (c *Console) applyIntent(intent nft.Intent, err error) {
	if err != nil {
		c.acknowledge(session.Result{Message: err.Error()})
		return
	}
	c.acknowledge(c.session.AddFirewallRule(intent))
}

func actionSelect(title string, value *string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title(title).
		Options(
			huh.NewOption("accept", "accept"),
			huh.NewOption("drop", "drop"),
			huh.NewOption("reject", "reject"),
		).
		Value(value)
}

// addressPair builds the source/destination input fields shared by the
// address-matching rule forms.
func addressPair(src, dst *string) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Source IP").
			Validate(ValidateIPv4).
			Value(src),
		huh.NewInput().
			Title("Destination IP").
			Validate(ValidateIPv4).
			Value(dst),
	}
}

func (c *Console) ctStateRuleForm() {
	var state, action string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Connection state").
			Options(
				huh.NewOption("established", "established"),
				huh.NewOption("related", "related"),
				huh.NewOption("invalid", "invalid"),
				huh.NewOption("new", "new"),
			).
			Value(&state),
		actionSelect("Action", &action),
	))
	if !runForm(form) {
		return
	}

	intent, err := nft.NewStatefulConnection(state, action)
	c.applyIntent(intent, err)
}

func (c *Console) protocolPortRuleForm() {
	var src, dst, protocol, port, action string
	fields := addressPair(&src, &dst)
	fields = append(fields,
		huh.NewSelect[string]().
			Title("Protocol").
			Options(
				huh.NewOption("tcp", "tcp"),
				huh.NewOption("udp", "udp"),
			).
			Value(&protocol),
		huh.NewInput().
			Title("Destination port (1-65535)").
			Validate(ValidatePort).
			Value(&port),
		actionSelect("Action", &action),
	)
	if !runForm(huh.NewForm(huh.NewGroup(fields...))) {
		return
	}

	portNum, _ := strconv.Atoi(strings.TrimSpace(port))
	intent, err := nft.NewProtocolPort(strings.TrimSpace(src), strings.TrimSpace(dst), protocol, portNum, action)
	c.applyIntent(intent, err)
}

func (c *Console) icmpRuleForm() {
	var src, dst, icmpType, action string
	fields := addressPair(&src, &dst)
	fields = append(fields,
		huh.NewSelect[string]().
			Title("ICMP type").
			Options(
				huh.NewOption("echo-request", "echo-request"),
				huh.NewOption("destination-unreachable", "destination-unreachable"),
			).
			Value(&icmpType),
		huh.NewSelect[string]().
			Title("Action").
			Options(
				huh.NewOption("accept", "accept"),
				huh.NewOption("drop", "drop"),
			).
			Value(&action),
	)
	if !runForm(huh.NewForm(huh.NewGroup(fields...))) {
		return
	}

	intent, err := nft.NewICMP(strings.TrimSpace(src), strings.TrimSpace(dst), icmpType, action)
	c.applyIntent(intent, err)
}

func (c *Console) masqueradeRuleForm() {
	var src, dst string
	if !runForm(huh.NewForm(huh.NewGroup(addressPair(&src, &dst)...))) {
		return
	}

	intent, err := nft.NewMasquerade(strings.TrimSpace(src), strings.TrimSpace(dst))
	c.applyIntent(intent, err)
}

func (c *Console) dnatRuleForm() {
	var src, dst, port, target string
	fields := addressPair(&src, &dst)
	fields = append(fields,
		huh.NewInput().
			Title("Destination port (1-65535)").
			Validate(ValidatePort).
			Value(&port),
		huh.NewInput().
			Title("DNAT target (IP:PORT)").
			Placeholder("10.0.0.5:8080").
			Validate(ValidateHostPort).
			Value(&target),
	)
	if !runForm(huh.NewForm(huh.NewGroup(fields...))) {
		return
	}

	portNum, _ := strconv.Atoi(strings.TrimSpace(port))
	intent, err := nft.NewDestinationRedirect(strings.TrimSpace(src), strings.TrimSpace(dst), portNum, strings.TrimSpace(target))
	c.applyIntent(intent, err)
}
