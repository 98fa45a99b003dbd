package plot

import (
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// Output file names of the forecast charts.
const (
	CurvesFile        = "forecast_curves.png"
	CalendarBandsFile = "forecast_calendar_bands.png"
	LeadBandsFile     = "forecast_lead_bands.png"
)

// Options configures a Renderer.
type Options struct {
	Dir        string
	Width      int
	Height     int
	FrameDelay time.Duration
	// Subject names what is plotted, e.g. "max_temp for CH__8001".
	Subject string
}

// Renderer writes charts and animations into one output directory. It
// holds no mutable state and may be used from several goroutines.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer, filling in defaults for unset sizes.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.FrameDelay <= 0 {
		opts.FrameDelay = time.Second
	}
	return &Renderer{opts: opts}
}

// Charts writes the curve, calendar band and lead band charts and returns
// their paths.
func (r *Renderer) Charts(res *forecast.Result) ([]string, error) {
	charts := []struct {
		file  string
		build func(*forecast.Result, string) (*gplot.Plot, error)
	}{
		{CurvesFile, CurvesChart},
		{CalendarBandsFile, CalendarBandsChart},
		{LeadBandsFile, LeadBandsChart},
	}
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := c.build(res, r.opts.Subject)
		if err != nil {
			return paths, eris.Wrapf(err, "plot: build %s", c.file)
		}
		path, err := r.WriteChart(c.file, p)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// rasterize draws p onto a width x height pixel image.
func rasterize(p *gplot.Plot, width, height int) image.Image {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(72),
	)
	p.Draw(draw.New(c))
	return c.Image()
}

// WriteChart renders p as PNG into file.
func (r *Renderer) WriteChart(file string, p *gplot.Plot) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, rasterize(p, r.opts.Width, r.opts.Height)); err != nil {
		return "", eris.Wrapf(err, "plot: encode %s", file)
	}
	return r.write(file, buf.Bytes())
}

// Animation renders the animation of the given kind and returns its path.
func (r *Renderer) Animation(kind AnimationKind, res *forecast.Result) (string, error) {
	anim, err := Animate(kind, res, r.opts.Subject, r.opts.Width, r.opts.Height, r.opts.FrameDelay)
	if err != nil {
		return "", eris.Wrapf(err, "plot: build %s animation", kind)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return "", eris.Wrapf(err, "plot: encode %s animation", kind)
	}
	return r.write(kind.FileName(), buf.Bytes())
}

func (r *Renderer) write(file string, data []byte) (string, error) {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return "", eris.Wrap(err, "plot: create output directory")
	}
	target := filepath.Join(r.opts.Dir, file)
	tmp, err := os.CreateTemp(r.opts.Dir, "."+file+".*")
	if err != nil {
		return "", eris.Wrap(err, "plot: create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", eris.Wrapf(err, "plot: write %s", file)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", eris.Wrapf(err, "plot: close %s", file)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", eris.Wrapf(err, "plot: rename %s", file)
	}
	zap.L().Info("result has been saved", zap.String("path", target))
	return target, nil
}
