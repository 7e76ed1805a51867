// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/keymap"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/styles"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

// Bar displays replica state and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	status  *domain.SyncStatus
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		width:  80,
	}
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// SetStatus updates the replica status shown on the left.
func (b *Bar) SetStatus(status *domain.SyncStatus) {
	b.status = status
	b.message = ""
}

// SetMessage shows a transient message instead of the replica status.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the replica summary or transient message.
func (b *Bar) renderLeft() string {
	if b.message != "" {
		return b.message
	}
	if b.status == nil {
		return "hymnal"
	}

	online := "offline"
	if b.status.Online {
		online = "online"
	}

	lastSync := "never synced"
	if !b.status.LastSync.IsZero() {
		lastSync = "synced " + b.status.LastSync.Local().Format("Jan 2 15:04")
	}

	return fmt.Sprintf("%d hymns | %s | %s", b.status.LocalRecords, lastSync, online)
}

// renderRight renders the keybinding hints.
func (b *Bar) renderRight() string {
	var hints []string
	for _, binding := range b.keymap.ShortHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return b.styles.Help.Render(strings.Join(hints, " · "))
}
