package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/nxncube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func stickerStyle(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(bg))
}

// stickerStyles maps palette letters to terminal colors.
var stickerStyles = map[byte]lipgloss.Style{
	'W': stickerStyle("15"),
	'G': stickerStyle("34"),
	'R': stickerStyle("160"),
	'Y': stickerStyle("226"),
	'O': stickerStyle("208"),
	'B': stickerStyle("27"),
}

// renderNet draws a sticker state as an unfolded net: U above, L F R B
// across, D below.
func renderNet(state string, n int) string {
	nn := n * n
	row := func(f nxncube.CubeFace, r int) string {
		var b strings.Builder
		start := int(f)*nn + r*n
		for i := start; i < start+n; i++ {
			c := state[i]
			if style, ok := stickerStyles[c]; ok {
				b.WriteString(style.Render(string(c)))
			} else {
				b.WriteString(" ? ")
			}
		}
		return b.String()
	}
	pad := strings.Repeat(" ", 3*n)

	var b strings.Builder
	for r := 0; r < n; r++ {
		b.WriteString(pad + row(nxncube.CubeFaceU, r) + "\n")
	}
	for r := 0; r < n; r++ {
		b.WriteString(row(nxncube.CubeFaceL, r))
		b.WriteString(row(nxncube.CubeFaceF, r))
		b.WriteString(row(nxncube.CubeFaceR, r))
		b.WriteString(row(nxncube.CubeFaceB, r))
		b.WriteString("\n")
	}
	for r := 0; r < n; r++ {
		b.WriteString(pad + row(nxncube.CubeFaceD, r) + "\n")
	}
	return b.String()
}

// renderMoves shows the tail of a move history.
func renderMoves(moves []string, limit int) string {
	if len(moves) == 0 {
		return ""
	}
	prefix := ""
	if len(moves) > limit {
		moves = moves[len(moves)-limit:]
		prefix = "... "
	}
	return prefix + moveStyle.Render(strings.Join(moves, " "))
}

// formatDuration formats a solve time.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
