package tui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"ardash/internal/dashboard"
)

const (
	barRune        = "█"
	legendRune     = "■"
	minBarWidth    = 10
	chartLabelMax  = 24
	emptyChartText = "No outstanding balances"
)

// BarChart is a horizontal bar chart drawn with lipgloss. It implements
// dashboard.Chart.
type BarChart struct {
	data      dashboard.ChartData
	styles    Styles
	destroyed atomic.Bool
}

// NewBarChart creates a chart for data.
func NewBarChart(data dashboard.ChartData, styles Styles) *BarChart {
	return &BarChart{data: data, styles: styles}
}

// Destroy marks the chart as released. A destroyed chart renders nothing.
func (c *BarChart) Destroy() {
	c.destroyed.Store(true)
}

// Destroyed reports whether Destroy was called.
func (c *BarChart) Destroyed() bool {
	return c.destroyed.Load()
}

// Data returns the chart's configuration.
func (c *BarChart) Data() dashboard.ChartData {
	return c.data
}

// Render draws the chart into at most width columns.
func (c *BarChart) Render(width int) string {
	if c.Destroyed() {
		return ""
	}

	var b strings.Builder
	if c.data.ShowLegend {
		for i, s := range c.data.Series {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c.styles.Bar.Render(legendRune) + " " + c.styles.Legend.Render(s.Label))
		}
		b.WriteString("\n")
	}

	if len(c.data.Series) == 0 || len(c.data.Labels) == 0 {
		b.WriteString(c.styles.Muted.Render(emptyChartText))
		return b.String()
	}

	values := c.data.Series[0].Values
	labelWidth := 0
	for _, l := range c.data.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(truncate(l, chartLabelMax)))
	}

	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}

	valueTexts := make([]string, len(values))
	valueWidth := 0
	for i, v := range values {
		valueTexts[i] = fmt.Sprintf("%.2f", v)
		valueWidth = max(valueWidth, len(valueTexts[i]))
	}

	barWidth := max(width-labelWidth-valueWidth-3, minBarWidth)

	for i, label := range c.data.Labels {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		n := 0
		if peak > 0 && v > 0 {
			n = max(int(v/peak*float64(barWidth)+0.5), 1)
		}

		name := truncate(label, chartLabelMax)
		b.WriteString(c.styles.Label.Render(name + strings.Repeat(" ", labelWidth-lipgloss.Width(name))))
		b.WriteString(" ")
		b.WriteString(c.styles.Bar.Render(strings.Repeat(barRune, n)))
		b.WriteString(strings.Repeat(" ", barWidth-n+1))
		if i < len(valueTexts) {
			b.WriteString(fmt.Sprintf("%*s", valueWidth, valueTexts[i]))
		}
		if i < len(c.data.Labels)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncate shortens s to n display cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
