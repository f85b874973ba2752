package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Terminal preview size (characters)
const (
	asciiWidth  = 60
	asciiHeight = 12
)

// ASCIIPlot renders the curve as a terminal graph
func ASCIIPlot(c Curve) string {
	if len(c.Y) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(c.Title)))
	sb.WriteString(fmt.Sprintf("  %s\n\n", strings.Repeat("─", len(c.Title))))

	graph := asciigraph.Plot(c.Y,
		asciigraph.Width(asciiWidth),
		asciigraph.Height(asciiHeight),
		asciigraph.Offset(4),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s vs %s  [%.2f .. %.2f]", c.YLabel, c.XLabel, c.X[0], c.X[len(c.X)-1])),
	)
	sb.WriteString(graph)
	sb.WriteString("\n")

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := runeLen(title)
	for _, line := range lines {
		if n := runeLen(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func runeLen(s string) int {
	return len([]rune(s))
}

// pad right-pads s with spaces to n runes; %-*s counts bytes
func pad(s string, n int) string {
	if d := n - runeLen(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
