package handlers

import (
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

const svgContentType = "image/svg+xml"

// chartCSP replaces the page policy on chart documents. go-chart writes
// style attributes, and the charts load nothing else.
const chartCSP = "default-src 'none'; style-src 'unsafe-inline'"

const (
	chartHeight   = 320
	timelineWidth = 720
	barWidth      = 48
	barSpacing    = 32
	barPadding    = 120
	maxCountTicks = 5
)

var (
	companyColor  = drawing.ColorFromHex("2563eb")
	statusColor   = drawing.ColorFromHex("0d9488")
	timelineColor = drawing.ColorFromHex("1d4ed8")

	chartPadding = chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16}
)

var errNoChartData = errors.New("no chart data")

// chartDrawer writes one section of the report as an SVG document.
type chartDrawer func(w io.Writer, report *models.AnalyticsReport) error

func drawCompanyChart(w io.Writer, report *models.AnalyticsReport) error {
	bars := make([]chart.Value, len(report.ByCompany))
	for i, r := range report.ByCompany {
		bars[i] = chart.Value{Label: r.CompanyName, Value: float64(r.ApplicationCount)}
	}
	return drawBars(w, bars, companyColor)
}

func drawStatusChart(w io.Writer, report *models.AnalyticsReport) error {
	bars := make([]chart.Value, len(report.ByStatus))
	for i, r := range report.ByStatus {
		bars[i] = chart.Value{Label: r.Status.Label(), Value: float64(r.Count)}
	}
	return drawBars(w, bars, statusColor)
}

func drawBars(w io.Writer, bars []chart.Value, color drawing.Color) error {
	if len(bars) == 0 {
		return errNoChartData
	}

	var maxValue float64
	for i := range bars {
		bars[i].Style = chart.Style{FillColor: color, StrokeColor: color}
		maxValue = math.Max(maxValue, bars[i].Value)
	}
	yRange, yTicks := countAxis(maxValue)

	graph := chart.BarChart{
		Width:      len(bars)*(barWidth+barSpacing) + barPadding,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chartPadding},
		YAxis: chart.YAxis{
			Range: yRange,
			Ticks: yTicks,
		},
		Bars: bars,
	}
	return graph.Render(chart.SVG, w)
}

// drawTimelineChart plots one point per month on an evenly spaced axis.
func drawTimelineChart(w io.Writer, report *models.AnalyticsReport) error {
	rows := report.Timeline
	if len(rows) == 0 {
		return errNoChartData
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	xTicks := make([]chart.Tick, len(rows))
	var maxValue float64
	for i, r := range rows {
		xs[i] = float64(i)
		ys[i] = float64(r.Count)
		xTicks[i] = chart.Tick{Value: float64(i), Label: r.Month}
		maxValue = math.Max(maxValue, ys[i])
	}
	yRange, yTicks := countAxis(maxValue)

	graph := chart.Chart{
		Width:      timelineWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chartPadding},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(rows)) - 0.5},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Range: yRange,
			Ticks: yTicks,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Applications",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: timelineColor,
					StrokeWidth: 2,
					DotColor:    timelineColor,
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

// countAxis returns a zero-based range with whole-number ticks. The range is
// never empty so an all-zero dataset still renders.
func countAxis(maxValue float64) (*chart.ContinuousRange, []chart.Tick) {
	step := math.Max(1, math.Ceil(maxValue/maxCountTicks))
	top := math.Max(step, math.Ceil(maxValue/step)*step)

	var ticks []chart.Tick
	for v := 0.0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 0, 64)})
	}
	return &chart.ContinuousRange{Min: 0, Max: top}, ticks
}
