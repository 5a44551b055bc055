package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Chart draws several series on a shared time axis. Each series is scaled
// to its own value range so channels of very different magnitude remain
// readable; the legend shows each range.
type Chart struct {
	width  int
	height int
	xTitle string
}

func NewChart(width, height int) *Chart {
	return &Chart{width: width, height: height, xTitle: "Time (ms)"}
}

func (c *Chart) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Render draws the legend, plot area and time axis in exactly the chart's
// width and height
func (c *Chart) Render(series []*meter.Series) string {
	width := max(c.width, 20)
	height := max(c.height, 5)

	legend := c.legend(series, width)
	plotHeight := height - 2

	xMin, xMax, ok := sharedXRange(series)
	var plot string
	if !ok {
		plot = lipgloss.Place(width, plotHeight, lipgloss.Center, lipgloss.Center,
			styles.AxisStyle.Render("Waiting for data..."))
		xMin, xMax = 0, 0
	} else {
		plot = c.plot(series, width, plotHeight, xMin, xMax)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, legend, plot, c.axisTitle(width, xMin, xMax))
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(out)
}

// plot draws every series as braille lines. Values are normalised to
// [0, 1] per series, so the y axis carries no labels.
func (c *Chart) plot(series []*meter.Series, width, height int, xMin, xMax float64) string {
	if xMin == xMax {
		xMin, xMax = xMin-1, xMax+1
	}

	lc := linechart.New(width, height, xMin, xMax, 0, 1,
		linechart.WithXYSteps(4, 2),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%.0f", v)
		}),
		linechart.WithYLabelFormatter(func(int, float64) string {
			return ""
		}),
	)
	lc.AxisStyle = styles.AxisStyle
	lc.LabelStyle = styles.AxisStyle
	lc.DrawXYAxisAndLabel()

	for _, s := range series {
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		style := lipgloss.NewStyle().Foreground(styles.ChannelColor(s.Name()))

		var prev canvas.Float64Point
		for i := 0; i < s.Len(); i++ {
			p := s.At(i)
			cur := canvas.Float64Point{X: p.X, Y: normalize(p.Y, b.MinY, b.MaxY)}
			if i == 0 {
				prev = cur
			}
			lc.DrawBrailleLineWithStyle(prev, cur, style)
			prev = cur
		}
	}

	return lc.View()
}

// normalize maps v in [lo, hi] onto [0, 1]; a flat series sits mid-height
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return math.Min(math.Max((v-lo)/(hi-lo), 0), 1)
}

// sharedXRange spans every point of every series
func sharedXRange(series []*meter.Series) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, s := range series {
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		found = true
		lo = math.Min(lo, b.MinX)
		hi = math.Max(hi, b.MaxX)
	}
	return lo, hi, found
}

func (c *Chart) legend(series []*meter.Series, width int) string {
	parts := make([]string, 0, len(series))
	for _, s := range series {
		swatch := lipgloss.NewStyle().Foreground(styles.ChannelColor(s.Name())).Render("━━")
		label := s.Name()
		if b, ok := s.Bounds(); ok {
			label = fmt.Sprintf("%s %s..%s", s.Name(), formatValue(s.Name(), b.MinY), formatValue(s.Name(), b.MaxY))
		}
		parts = append(parts, swatch+" "+styles.AxisStyle.Render(label))
	}
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(strings.Join(parts, "   "))
}

// axisTitle names the x axis between the first and last sample times
func (c *Chart) axisTitle(width int, xMin, xMax float64) string {
	left := fmt.Sprintf("%.0f", xMin)
	right := fmt.Sprintf("%.0f", xMax)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(c.xTitle)
	if gap < 2 {
		return styles.AxisStyle.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, c.xTitle))
	}
	leftPad := gap / 2
	return styles.AxisStyle.Render(left + strings.Repeat(" ", leftPad) + c.xTitle + strings.Repeat(" ", gap-leftPad) + right)
}

// formatValue renders a channel value: integers for PWM and RPM, two decimals for Volt
func formatValue(channel string, v float64) string {
	if channel == meter.ChannelVolt {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.0f", v)
}
