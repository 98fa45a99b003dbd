package plot

import (
	"image"
	"image/color"
	"image/color/palette"
	imgdraw "image/draw"
	"image/gif"
	"time"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// AnimationKind selects what an animation frame shows.
type AnimationKind int

const (
	// Absolute shows the forecast values of each curve.
	Absolute AnimationKind = iota
	// Relative shows each curve's difference to the reference value of the
	// same date; points the reference does not cover are left out.
	Relative
)

func (k AnimationKind) String() string {
	if k == Relative {
		return "relative"
	}
	return "absolute"
}

// FileName is the output file of the animation kind.
func (k AnimationKind) FileName() string {
	if k == Relative {
		return "forecast_relative_animation.gif"
	}
	return "forecast_animation.gif"
}

func (k AnimationKind) yRange() (float64, float64) {
	if k == Relative {
		return -20, 20
	}
	return -20, 45
}

func (k AnimationKind) title(subject string) string {
	if k == Relative {
		return "Forecast difference to reference: " + subject
	}
	return "Forecast curve: " + subject
}

// frameXYs returns the points of one frame, x being the point index.
func (k AnimationKind) frameXYs(c forecast.Curve, ref map[time.Time]float64) plotter.XYs {
	var xys plotter.XYs
	for i, p := range c.Points {
		v := p.Value
		if k == Relative {
			r, ok := ref[p.Date]
			if !ok {
				continue
			}
			v -= r
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: v})
	}
	return xys
}

// framePlot returns the plot of one curve on the fixed axes shared by all
// frames of the kind.
func (k AnimationKind) framePlot(c forecast.Curve, ref map[time.Time]float64, subject string) (*gplot.Plot, error) {
	p := newPlot(k.title(subject), "lead (days)", "value")
	name := ""
	if !c.AsOf.IsZero() {
		name = forecast.FormatDate(c.AsOf)
	}
	if err := addLine(p, name, k.frameXYs(c, ref), Red, false, false); err != nil {
		return nil, err
	}
	p.X.Min, p.X.Max = 0, 17
	p.Y.Min, p.Y.Max = k.yRange()
	return p, nil
}

// paletted quantizes a rendered frame for GIF encoding.
func paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, palette.Plan9)
	imgdraw.Draw(out, b, img, b.Min, imgdraw.Src)
	return out
}

// Animate renders one frame per curve in as-of order. Without curves the
// animation holds a single empty frame.
func Animate(kind AnimationKind, res *forecast.Result, subject string, width, height int, delay time.Duration) (*gif.GIF, error) {
	ref := make(map[time.Time]float64, len(res.Reference))
	for _, p := range res.Reference {
		ref[p.Date] = p.Value
	}
	hundredths := int(delay / (10 * time.Millisecond))

	curves := res.Curves
	if len(curves) == 0 {
		curves = []forecast.Curve{{}}
	}
	anim := &gif.GIF{Config: image.Config{ColorModel: color.Palette(palette.Plan9), Width: width, Height: height}}
	for _, c := range curves {
		p, err := kind.framePlot(c, ref, subject)
		if err != nil {
			return nil, err
		}
		anim.Image = append(anim.Image, paletted(rasterize(p, width, height)))
		anim.Delay = append(anim.Delay, hundredths)
	}
	return anim, nil
}
