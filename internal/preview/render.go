// Package preview renders base16 palettes in the terminal. Its Applier is the
// theme-application collaborator the aether CLI hands to the sync orchestrator.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/aether/internal/palette"
)

const swatchWidth = 9

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	absentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
)

// Render draws one swatch per slot, eight per row.
func Render(b palette.Base16) string {
	var rows []string
	for start := 0; start < palette.SlotCount; start += 8 {
		var cells []string
		for _, s := range palette.Slots()[start : start+8] {
			cells = append(cells, swatch(s, b))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func swatch(s palette.Slot, b palette.Base16) string {
	label := labelStyle.Width(swatchWidth).Render(s.String())

	hex, ok := b.Get(s)
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, label, absentStyle.Width(swatchWidth).Render("-"))
	}

	block := lipgloss.NewStyle().
		Width(swatchWidth).
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(ContrastText(hex))).
		Render(hex)
	return lipgloss.JoinVertical(lipgloss.Left, label, block)
}

// ContrastText picks black or white text for a background color. Unparseable
// colors get white.
func ContrastText(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#ffffff"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

// Table renders the palette as aligned `slot  color` lines.
func Table(b palette.Base16) string {
	var sb strings.Builder
	for _, s := range palette.Slots() {
		hex, ok := b.Get(s)
		if !ok {
			hex = "-"
		}
		fmt.Fprintf(&sb, "%s  %s\n", s, hex)
	}
	return sb.String()
}
