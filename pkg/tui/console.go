package tui

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hostwire/netcon/pkg/netcfg"
	"github.com/hostwire/netcon/pkg/session"
	"go.uber.org/zap"
)

var (
	okStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Padding(0, 2)

	errStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("9")).
		Padding(0, 2)
)

// Console drives the interactive operator session: menu navigation,
// guided forms and acknowledgment dialogs. All real work happens in the
// session; the console only collects validated intent.
type Console struct {
	session *session.Session
	logger  *zap.Logger
}

// NewConsole creates a Console over the given session.
func NewConsole(sess *session.Session, logger *zap.Logger) *Console {
	return &Console{session: sess, logger: logger}
}

// Run shows the main menu until the operator exits.
func (c *Console) Run() error {
	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("netcon").
				Description("Host network and firewall console").
				Options(
					huh.NewOption("Network Configuration", "network"),
					huh.NewOption("Firewall Management", "firewall"),
					huh.NewOption("Exit", "exit"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case "network":
			c.networkMenu()
		case "firewall":
			c.firewallMenu()
		default:
			return nil
		}
	}
}

// acknowledge renders an operation result as a dialog the operator
// dismisses before control returns to the enclosing menu.
func (c *Console) acknowledge(res session.Result) {
	style := errStyle
	if res.OK {
		style = okStyle
	}

	dismissed := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(style.Render(res.Message)).
			Affirmative("OK").
			Negative("").
			Value(&dismissed),
	))
	// An abort here is equivalent to dismissing the dialog.
	_ = form.Run()
}

// selectInterface prompts for one of the enumerated host interfaces.
// Returns false when the operator aborts.
func (c *Console) selectInterface() (string, bool) {
	interfaces, err := c.session.Interfaces()
	if err != nil {
		c.logger.Error("interface enumeration failed", zap.Error(err))
		c.acknowledge(session.Result{Message: "Could not list network interfaces."})
		return "", false
	}
	if len(interfaces) == 0 {
		c.acknowledge(session.Result{Message: "No network interfaces found."})
		return "", false
	}

	options := make([]huh.Option[string], 0, len(interfaces))
	for _, name := range interfaces {
		options = append(options, huh.NewOption(name, name))
	}

	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select interface").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", false
	}
	return choice, true
}

// selectMode prompts for the durability of the change.
// Returns false when the operator aborts.
func (c *Console) selectMode() (netcfg.Mode, bool) {
	var permanent bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[bool]().
			Title("Apply change").
			Options(
				huh.NewOption("Temporarily", false),
				huh.NewOption("Permanently", true),
			).
			Value(&permanent),
	))
	if err := form.Run(); err != nil {
		return netcfg.ModeEphemeral, false
	}
	if permanent {
		return netcfg.ModePersistent, true
	}
	return netcfg.ModeEphemeral, true
}

// runForm runs a huh form, reporting whether it completed. An abort at
// any input step discards the in-progress intent; nothing is applied.
func runForm(form *huh.Form) bool {
	return form.Run() == nil
}
