package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"BoxScreener/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boxedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	colSymbol = lipgloss.NewStyle().Width(10)
	colEx     = lipgloss.NewStyle().Width(9)
	colPrice  = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
	colVolume = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	colBoxes  = lipgloss.NewStyle().Width(7).Align(lipgloss.Right)
)

// RenderConsole renders a compact summary table of the report for a terminal.
func RenderConsole(r *model.Report, topN int) string {
	var b strings.Builder

	at := time.UnixMilli(r.LastUpdated)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Box Screener  %s", at.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n")

	if r.Error != "" {
		b.WriteString(errorStyle.Render("error: " + r.Error))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("analyzed %d, with boxes %d", r.TotalAnalyzed, r.FoundCount)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(colSymbol.Render("SYMBOL")),
		headerStyle.Render(colEx.Render("EXCH")),
		headerStyle.Render(colPrice.Render("PRICE")),
		headerStyle.Render(colVolume.Render("VOLUME")),
		headerStyle.Render(colBoxes.Render("BOXES")),
		"  ",
		headerStyle.Render("SIGNALS"),
	))
	b.WriteString("\n")

	n := len(r.Results)
	if topN > 0 && n > topN {
		n = topN
	}
	for _, res := range r.Results[:n] {
		boxes := fmt.Sprintf("%d/%d", res.BoxCount, len(model.Timeframes))
		if res.AllTimeframes {
			boxes = boxedStyle.Render(boxes)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			colSymbol.Render(res.Symbol),
			colEx.Render(string(res.Exchange)),
			colPrice.Render(formatPrice(res.CurrentPrice)),
			colVolume.Render(humanize.SIWithDigits(res.Volume, 1, "")),
			colBoxes.Render(boxes),
			"  ",
			strings.Join(signalTags(res), " "),
		))
		b.WriteString("\n")
	}
	if len(r.Results) > n {
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(r.Results)-n)))
		b.WriteString("\n")
	}
	return b.String()
}
