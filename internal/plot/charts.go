package plot

import (
	"fmt"
	"image/color"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// Red marks the reference curve and animation frames.
var Red = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// SeriesColor returns the color of the i-th non-reference series. Red is
// left to the reference.
func SeriesColor(i int) color.Color {
	for {
		c := plotutil.Color(i)
		if r, g, b, _ := c.RGBA(); !(r>>8 > 200 && g>>8 < 100 && b>>8 < 100) {
			return c
		}
		i++
	}
}

var dashed = []vg.Length{vg.Points(4), vg.Points(3)}

func newPlot(title, xLabel, yLabel string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func dateXYs(points []forecast.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i] = plotter.XY{X: float64(p.Date.Unix()), Y: p.Value}
	}
	return xys
}

func dateTicks(p *gplot.Plot) {
	p.X.Tick.Marker = gplot.TimeTicks{Format: "01-02", Time: gplot.UTCUnixTime}
}

// addLine adds a named line; empty series are skipped.
func addLine(p *gplot.Plot, name string, xys plotter.XYs, c color.Color, dash bool, markers bool) error {
	if len(xys) == 0 {
		return nil
	}
	if markers {
		l, s, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		l.LineStyle.Color = c
		s.GlyphStyle.Color = c
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(l, s)
		p.Legend.Add(name, l, s)
		return nil
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1.5)
	if dash {
		l.LineStyle.Dashes = dashed
	}
	p.Add(l)
	p.Legend.Add(name, l)
	return nil
}

// CurvesChart plots the reference curve and every forecast curve over
// calendar dates.
func CurvesChart(res *forecast.Result, subject string) (*gplot.Plot, error) {
	p := newPlot("Forecast curves: "+subject, "date", "value")
	dateTicks(p)
	if err := addLine(p, "reference", dateXYs(res.Reference), Red, false, false); err != nil {
		return nil, err
	}
	for i, c := range res.Curves {
		if err := addLine(p, "as of "+forecast.FormatDate(c.AsOf), dateXYs(c.Points), SeriesColor(i), true, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// CalendarBandsChart plots the reference curve together with the
// percentile bands over calendar dates.
func CalendarBandsChart(res *forecast.Result, subject string) (*gplot.Plot, error) {
	p := newPlot("Percentile bands by date: "+subject, "date", "value")
	dateTicks(p)
	if err := addLine(p, "reference", dateXYs(res.Reference), Red, false, false); err != nil {
		return nil, err
	}
	for i, b := range res.CalendarBands {
		if err := addLine(p, fmt.Sprintf("level %d%%", b.Level), dateXYs(b.Points), SeriesColor(i), true, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LeadBandsChart plots the forecast error percentiles by lead time.
func LeadBandsChart(res *forecast.Result, subject string) (*gplot.Plot, error) {
	p := newPlot("Forecast error percentiles by lead time: "+subject, "lead time (days)", "error")
	for i, level := range forecast.Levels {
		band := res.LeadBand(level)
		xys := make(plotter.XYs, len(band))
		for j, b := range band {
			xys[j] = plotter.XY{X: float64(b.Days()), Y: b.Value}
		}
		if err := addLine(p, fmt.Sprintf("level %d%%", level), xys, SeriesColor(i), false, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Metric is one named value sequence of a metric chart.
type Metric struct {
	Name   string
	Values []float64
}

// metricXYs pairs x with values, truncated to the shorter of the two.
func metricXYs(x []float64, values []float64) plotter.XYs {
	n := min(len(x), len(values))
	xys := make(plotter.XYs, n)
	for j := 0; j < n; j++ {
		xys[j] = plotter.XY{X: x[j], Y: values[j]}
	}
	return xys
}

// MetricsChart plots metric curves against a shared x sequence.
func MetricsChart(title string, x []float64, metrics []Metric) (*gplot.Plot, error) {
	p := newPlot(title, "", "")
	for i, m := range metrics {
		if err := addLine(p, m.Name, metricXYs(x, m.Values), SeriesColor(i), false, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}
