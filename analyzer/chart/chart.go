// Package chart draws the per-operation breakdown as a bar chart.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gosuda.org/zisk-timing/analyzer"
)

var barColor = color.RGBA{R: 66, G: 133, B: 244, A: 255}

// Breakdown builds a plot of attributed steps per operation.
func Breakdown(res *analyzer.Analysis) (*plot.Plot, error) {
	if res == nil || len(res.Attribution) == 0 {
		return nil, fmt.Errorf("chart: %w", analyzer.ErrNoOperations)
	}

	values := make(plotter.Values, len(res.Attribution))
	names := make([]string, len(res.Attribution))
	for i, a := range res.Attribution {
		values[i] = float64(a.Steps)
		names[i] = a.Name
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Steps per operation (%s)", res.Policy)
	p.Y.Label.Text = "Steps"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("chart: bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.4

	return p, nil
}

// SaveBreakdown writes the breakdown chart; the image format follows the
// file extension (.png, .svg, .pdf).
func SaveBreakdown(path string, res *analyzer.Analysis) error {
	if path == "" {
		return errors.New("chart: empty output path")
	}
	p, err := Breakdown(res)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}
