package Apartment

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/roomheat/utils"
)

// heatGrid presents a north-up composite to plotter.HeatMap, which puts row 0 at the bottom
type heatGrid struct {
	M utils.Matrix
}

func (g heatGrid) Dims() (c, r int) {
	r, c = g.M.Dims()
	return
}

func (g heatGrid) Z(c, r int) float64 {
	nr, _ := g.M.Dims()
	return g.M.At(nr-1-r, c)
}

func (g heatGrid) X(c int) float64 { return float64(c) }
func (g heatGrid) Y(r int) float64 { return float64(r) }

func PlotFileName(open, onOff bool) string {
	return fmt.Sprintf("Temperature_open-%v_oven-%v.png", open, onOff)
}

// Render writes the composite as a heat map into dir and returns the file path
func Render(composite utils.Matrix, wall float64, open, onOff bool, dir string, resolution int) (path string, err error) {
	if resolution < 2 {
		return "", fmt.Errorf("heat map needs at least 2 colour levels, have %d", resolution)
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	var (
		cm       = moreland.ExtendedBlackBody()
		min, max = composite.Min(), composite.Max()
		nr, nc   = composite.Dims()
	)
	if max-min < 1.e-12 {
		min, max = min-0.5, max+0.5
	}
	cm.SetMin(min)
	cm.SetMax(max)
	h := plotter.NewHeatMap(heatGrid{composite}, cm.Palette(resolution))
	h.Min, h.Max = min, max
	h.NaN = h.Palette.Colors()[0]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Temperature, doors open = %v, oven on = %v, wall = %.1f, range [%.2f, %.2f]",
		open, onOff, wall, composite.Min(), composite.Max())
	p.X.Label.Text = "west → east"
	p.Y.Label.Text = "south → north"
	p.Add(h)
	p.X.Min, p.X.Max = -0.5, float64(nc)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(nr)-0.5

	path = filepath.Join(dir, PlotFileName(open, onOff))
	if err = p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving heat map %s: %w", path, err)
	}
	return
}
