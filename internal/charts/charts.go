package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"fundingdash/pkg/contracts/domain"
)

// ErrNoData is returned when a ranking has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Options sizes and encodes a chart. Zero values take the defaults.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Format string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 4 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 4 * vg.Inch
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	return o
}

// ContentType returns the media type of the encoded chart.
func (o Options) ContentType() string {
	if o.withDefaults().Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// CityPie draws the ranked cities as a pie. Each wedge is labeled with its
// percentage of the drawn total.
func CityPie(ranked []domain.RankedAmount) (*plot.Plot, error) {
	pie, err := NewPie(ranked)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Cities by Funding", len(ranked))
	p.HideAxes()
	p.Add(pie)
	for i, r := range ranked {
		p.Legend.Add(r.Key, pie.Thumbnail(i))
	}
	p.Legend.Top = true
	return p, nil
}

// CompanyBar draws the ranked companies as a bar chart of their funding.
func CompanyBar(ranked []domain.RankedAmount) (*plot.Plot, error) {
	if len(ranked) == 0 {
		return nil, ErrNoData
	}

	values := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, r := range ranked {
		if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			return nil, fmt.Errorf("company %q: amount %v is not finite", r.Key, r.Amount)
		}
		values[i] = r.Amount
		names[i] = r.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = "TOP COMPANIES"
	p.Y.Label.Text = "Amount in USD"
	p.Y.Min = 0
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	return p, nil
}

// Write encodes p to w.
func Write(w io.Writer, p *plot.Plot, opts Options) error {
	opts = opts.withDefaults()
	if opts.Format != FormatPNG && opts.Format != FormatSVG {
		return fmt.Errorf("unsupported chart format %q", opts.Format)
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Render encodes p and returns the bytes.
func Render(p *plot.Plot, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
