// Package chart renders the bar chart of a chart group as an SVG document.
package chart

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/stagebench/internal/model"
	"gonum.org/v1/gonum/floats"
)

// Style holds the presentation constants of a chart.
type Style struct {
	Success      string // fill of completed bars
	Mixed        string // fill of partially completed repeated tests
	Failure      string // fill of failed bars
	Unclassified string // fill of bars without a descriptor
	Ticks        int    // number of labelled ticks on the time axis
}

// DefaultStyle is used by SVG.
var DefaultStyle = Style{
	Success:      "mediumseagreen",
	Mixed:        "goldenrod",
	Failure:      "indianred",
	Unclassified: "lightslategray",
	Ticks:        5,
}

// Layout constants, in SVG user units.
const (
	height     = 600
	baseline   = 450 // y of the time axis origin
	axisX      = 135 // x of the time axis
	axisTop    = 45  // y of the time axis arrow head
	firstBarX  = 170
	barSpacing = 140
	barWidth   = 50
	plotHeight = 2025.0 / 6 // height of the tallest bar
)

// SVG renders values (in microseconds) and their bar descriptors with DefaultStyle.
func SVG(values []float64, bars []model.Bar, title string) string {
	return DefaultStyle.SVG(values, bars, title)
}

// SVG renders values (in microseconds) and their bar descriptors.
// The time axis is scaled to the largest value. Bars beyond len(bars) are drawn
// in the unclassified color. The result depends only on the arguments.
func (s Style) SVG(values []float64, bars []model.Bar, title string) string {
	width := 300 + len(values)*barSpacing
	maxValue := 0.0
	if len(values) > 0 {
		maxValue = floats.Max(values)
	}

	xcol := func(pos int) int { return firstBarX + barSpacing*pos }
	ycol := func(v float64) int {
		ratio := 0.0
		if maxValue > 0 {
			ratio = v / maxValue
		}
		return int(math.Floor(baseline - plotHeight*ratio))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, height)

	for i, v := range values {
		x, y := xcol(i), ycol(v)
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" style="fill: %s;"/>`,
			x, y, barWidth, baseline-y, s.fill(bars, i))
		if i < len(bars) {
			labelY := 475
			if i%2 != 0 {
				labelY = 500
			}
			fmt.Fprintf(&b, `<text x="%d" y="%d" fill="black" font-size="1.1em" font-weight="bold">%s</text>`,
				x, labelY, html.EscapeString(bars[i].Name))
		}
	}

	// Trend lines between the tops of consecutive bars.
	for i := 0; i < len(values)-1; i++ {
		x, y := xcol(i), ycol(values[i])
		fmt.Fprintf(&b, `<path d="M%d %d L%d %d" stroke="black" stroke-width="1.2" fill="none"/>`,
			x+barWidth/2, y, x+barSpacing+barWidth/2, ycol(values[i+1]))
	}

	fmt.Fprintf(&b, `<path d="M%d %d L%d %d L%d %d" stroke="black" stroke-width="3" fill="none"/>`,
		axisX, axisTop, axisX, baseline, width-170, baseline)
	ticks := s.ticks()
	for i := 1; i <= ticks; i++ {
		py := int(math.Floor(float64(baseline-axisTop)*float64(i)/float64(ticks+1))) + axisTop
		fmt.Fprintf(&b, `<path d="M%d %d L%d %d" stroke="black" stroke-width="3" fill="none"/>`,
			axisX-10, py, axisX+10, py)
		fmt.Fprintf(&b, `<text x="45" y="%d" fill="black" font-size="1.1em" font-weight="bold">%s</text>`,
			py, Seconds(maxValue*float64(ticks+1-i)/float64(ticks)))
	}

	fmt.Fprintf(&b, `<path d="M%d %d L%d %d L%d %d" stroke="black" stroke-width="3" fill="none"/>`,
		axisX-10, axisTop+10, axisX, axisTop, axisX+10, axisTop+10)
	b.WriteString(`<text x="80" y="30" fill="black" font-size="1.1em" font-weight="bold">Time (seconds)</text>`)
	fmt.Fprintf(&b, `<path d="M%d %d L%d %d L%d %d" stroke="black" stroke-width="3" fill="none"/>`,
		width-180, baseline-10, width-170, baseline, width-180, baseline+10)
	fmt.Fprintf(&b, `<text x="%d" y="%d" fill="black" font-size="1.1em" font-weight="bold">Functions</text>`,
		width-160, baseline+5)
	fmt.Fprintf(&b, `<text x="45" y="575" fill="black" font-size="1.5em" font-weight="bold">→ Graph for the group '%s'</text>`,
		html.EscapeString(title))

	b.WriteString("</svg>")
	return b.String()
}

func (s Style) fill(bars []model.Bar, pos int) string {
	if pos >= len(bars) {
		return s.Unclassified
	}
	switch bars[pos].State {
	case model.StateSuccess:
		return s.Success
	case model.StateMixed:
		return s.Mixed
	default:
		return s.Failure
	}
}

func (s Style) ticks() int {
	if s.Ticks < 1 {
		return DefaultStyle.Ticks
	}
	return s.Ticks
}

// Seconds formats a microsecond value as seconds for an axis label, trimming
// trailing zeros: 6 decimals below 1ms, 3 below 1000s, 1 otherwise.
func Seconds(micros float64) string {
	sec := micros / 1e6
	decimals := 1
	switch {
	case sec < 0.001:
		decimals = 6
	case sec < 1000:
		decimals = 3
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(sec, 'f', decimals, 64), 64)
	if err != nil {
		return strconv.FormatFloat(sec, 'f', decimals, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
