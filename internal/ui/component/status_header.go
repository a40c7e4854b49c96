package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// StatusHeader shows the wallet, the network and the latest notification.
type StatusHeader struct {
	wallet       string
	network      string
	pending      string
	notification *notify.Notification
	width        int

	container lipgloss.Style
	title     lipgloss.Style
	muted     lipgloss.Style
	good      lipgloss.Style
	bad       lipgloss.Style
	busy      lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader() *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),
		title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),
		good: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true),
		bad: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),
		busy: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),
	}
}

// SetWallet updates the wallet address display. Empty means read-only.
func (sh *StatusHeader) SetWallet(address string) {
	sh.wallet = address
}

// SetNetwork updates the network label.
func (sh *StatusHeader) SetNetwork(network string) {
	sh.network = network
}

// SetPending shows the operation being submitted; empty clears it.
func (sh *StatusHeader) SetPending(op string) {
	sh.pending = op
}

// SetNotification replaces the displayed notification.
func (sh *StatusHeader) SetNotification(n notify.Notification) {
	sh.notification = &n
}

// ClearNotification hides the notification line.
func (sh *StatusHeader) ClearNotification() {
	sh.notification = nil
}

// Notification returns the displayed notification, if any.
func (sh *StatusHeader) Notification() (notify.Notification, bool) {
	if sh.notification == nil {
		return notify.Notification{}, false
	}
	return *sh.notification, true
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
}

// View renders the status header
func (sh *StatusHeader) View() string {
	parts := []string{sh.title.Render("Value Average")}

	if sh.wallet == "" {
		parts = append(parts, sh.bad.Render("● wallet not connected"))
	} else {
		parts = append(parts, sh.good.Render("● ")+sh.muted.Render(tokens.ShortenAddress(sh.wallet, 4)))
	}
	if sh.network != "" {
		parts = append(parts, sh.muted.Render(sh.network))
	}
	if sh.pending != "" {
		parts = append(parts, sh.busy.Render("⏳ "+sh.pending+"…"))
	}

	content := strings.Join(parts, " | ")
	if sh.notification != nil {
		content += "\n" + notify.Render(*sh.notification)
	}

	c := sh.container
	if sh.width > 4 {
		c = c.Width(sh.width - 2)
	}
	return c.Render(content)
}
