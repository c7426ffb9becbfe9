package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"BoxScreener/internal/model"
)

// FormatReport formats the top results of a report into a Telegram message.
func FormatReport(r *model.Report, topN int) string {
	var b strings.Builder

	at := time.UnixMilli(r.LastUpdated)
	b.WriteString(fmt.Sprintf("📦 <b>Box Screener</b> | %s\n\n", at.Format("2006-01-02 15:04")))

	if r.Error != "" {
		b.WriteString(fmt.Sprintf("⚠️ Screening failed: %s\n", html.EscapeString(r.Error)))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Analyzed: %d | With boxes: %d\n", r.TotalAnalyzed, r.FoundCount))
	if len(r.Results) == 0 {
		b.WriteString("\nNo boxed markets this run.\n")
		return b.String()
	}
	b.WriteString("\n")

	n := len(r.Results)
	if topN > 0 && n > topN {
		n = topN
	}
	for i := 0; i < n; i++ {
		res := r.Results[i]
		star := ""
		if res.AllTimeframes {
			star = " ⭐"
		}
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> (%s) %s KRW%s\n",
			i+1, html.EscapeString(res.Symbol), res.Exchange, formatPrice(res.CurrentPrice), star))
		b.WriteString(fmt.Sprintf("   boxes %d/%d: %s\n", res.BoxCount, len(model.Timeframes), boxLine(res)))
		b.WriteString(fmt.Sprintf("   vol %s KRW", humanize.SIWithDigits(res.Volume, 1, "")))
		if tags := signalTags(res); len(tags) > 0 {
			b.WriteString(" | " + strings.Join(tags, " "))
		}
		b.WriteString("\n")
	}
	if len(r.Results) > n {
		b.WriteString(fmt.Sprintf("\n… and %d more\n", len(r.Results)-n))
	}
	return b.String()
}

// FormatStatus describes the serve-mode state for the /status command.
func FormatStatus(latest *model.Report, analyzing bool, now time.Time) string {
	var b strings.Builder
	b.WriteString("🛰 <b>Screener status</b>\n\n")
	if latest == nil {
		b.WriteString("Last run: none yet\n")
	} else {
		at := time.UnixMilli(latest.LastUpdated)
		b.WriteString(fmt.Sprintf("Last run: %s (%s)\n", at.Format("2006-01-02 15:04"), humanize.RelTime(at, now, "ago", "from now")))
		b.WriteString(fmt.Sprintf("Analyzed: %d | With boxes: %d\n", latest.TotalAnalyzed, latest.FoundCount))
		if latest.Error != "" {
			b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(latest.Error)))
		}
	}
	b.WriteString(fmt.Sprintf("Analyzing: %v\n", analyzing))
	return b.String()
}

// boxLine lists the position of each boxed timeframe, e.g. "5m:top 1h:bottom".
func boxLine(res model.SymbolResult) string {
	var parts []string
	for _, tf := range model.Timeframes {
		box := res.Timeframes[tf]
		if !box.HasBox {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%s", tf, box.Position))
	}
	return strings.Join(parts, " ")
}

func signalTags(res model.SymbolResult) []string {
	var tags []string
	if res.IsTriggered != nil && *res.IsTriggered {
		tags = append(tags, "🚀trigger")
	}
	if res.PullbackSignal != nil {
		tags = append(tags, string(*res.PullbackSignal))
	}
	if res.CloudStatus1h != nil {
		tags = append(tags, "☁1h:"+string(*res.CloudStatus1h))
	}
	if res.SwingRecovery != nil {
		tags = append(tags, "↩recovery")
	}
	if res.VolumeSpike != nil {
		tags = append(tags, fmt.Sprintf("📈x%.1f %s", res.VolumeSpike.Ratio, res.VolumeSpike.TimeAgo))
	}
	if res.Above1hMA50 {
		tags = append(tags, ">MA50(1h)")
	}
	return tags
}

func formatPrice(p float64) string {
	switch {
	case p >= 1000:
		return humanize.CommafWithDigits(p, 0)
	case p >= 1:
		return humanize.CommafWithDigits(p, 2)
	default:
		return fmt.Sprintf("%.4f", p)
	}
}
