package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fundingdash/pkg/contracts/domain"
)

// Pie is a plot.Plotter drawing one wedge per ranked amount, counter
// clockwise from three o'clock. It spans the data range [-1,1] on both axes.
type Pie struct {
	Keys      []string
	Fractions []float64
	Colors    []color.Color
	// LabelRadius places the percentage labels as a fraction of the radius.
	LabelRadius float64
	LabelStyle  text.Style
}

// NewPie computes each amount's fraction of their sum.
func NewPie(ranked []domain.RankedAmount) (*Pie, error) {
	var total float64
	for _, r := range ranked {
		if r.Amount < 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			return nil, fmt.Errorf("city %q: amount %v cannot be drawn as a wedge", r.Key, r.Amount)
		}
		total += r.Amount
	}
	if len(ranked) == 0 || total == 0 {
		return nil, ErrNoData
	}

	pie := &Pie{
		Keys:        make([]string, len(ranked)),
		Fractions:   make([]float64, len(ranked)),
		Colors:      make([]color.Color, len(ranked)),
		LabelRadius: 0.6,
		LabelStyle: text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, vg.Points(8)),
			XAlign:  text.XCenter,
			YAlign:  text.YCenter,
			Handler: plot.DefaultTextHandler,
		},
	}
	for i, r := range ranked {
		pie.Keys[i] = r.Key
		pie.Fractions[i] = r.Amount / total
		pie.Colors[i] = plotutil.Color(i)
	}
	return pie, nil
}

// Label renders a wedge's share the way the dashboard shows it, e.g. "46.3%".
func Label(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// Plot implements plot.Plotter.
func (p *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	radius := trX(1) - center.X
	if dy := trY(1) - center.Y; dy < radius {
		radius = dy
	}

	start := 0.0
	for i, f := range p.Fractions {
		sweep := 2 * math.Pi * f
		if f > 0 {
			var wedge vg.Path
			wedge.Move(center)
			wedge.Arc(center, radius, start, sweep)
			wedge.Close()
			c.SetColor(p.Colors[i])
			c.Fill(wedge)

			mid := start + sweep/2
			at := vg.Point{
				X: center.X + vg.Length(math.Cos(mid)*p.LabelRadius)*radius,
				Y: center.Y + vg.Length(math.Sin(mid)*p.LabelRadius)*radius,
			}
			c.FillText(p.LabelStyle, at, Label(f))
		}
		start += sweep
	}
}

// DataRange implements plot.DataRanger.
func (p *Pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

// Thumbnail returns the legend entry of wedge i.
func (p *Pie) Thumbnail(i int) plot.Thumbnailer {
	return wedgeThumb{color: p.Colors[i]}
}

type wedgeThumb struct {
	color color.Color
}

func (t wedgeThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(t.color, c.ClipPolygonY(pts))
}
