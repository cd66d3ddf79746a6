/*
 * mdplot.go, part of openmmwrap.
 *
 * Copyright 2024 The openmmwrap developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package mdplot renders line plots of state-data quantities. Plots are
// configured with a plotting configuration file and rendered one file per
// plot, with the format chosen by the requested extension (png, svg or
// pdf).
package mdplot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Quantum-for-Life/openmmwrap/config"
	"github.com/Quantum-for-Life/openmmwrap/statedata"
)

// rendering defaults, used when the output section leaves them out
const (
	defWidthCm  = 16.0
	defHeightCm = 10.0
	defDPI      = 100.0
)

var formats = []string{"png", "svg", "pdf"}

// named line colors accepted in the configuration
var colors = map[string]color.RGBA{
	"black":  {0, 0, 0, 255},
	"red":    {200, 30, 30, 255},
	"green":  {30, 150, 30, 255},
	"blue":   {30, 30, 200, 255},
	"orange": {230, 140, 0, 255},
	"purple": {130, 30, 180, 255},
	"gray":   {120, 120, 120, 255},
}

// parseColor accepts a named color or an '#rrggbb' hex triplet.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return colors["black"], nil
	}
	if c, ok := colors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
		}
	}
	names := make([]string, 0, len(colors))
	for n := range colors {
		names = append(names, n)
	}
	return color.RGBA{}, fmt.Errorf("unknown color '%s'. Use an '#rrggbb' "+
		"triplet or one of: %s", s, strings.Join(names, ", "))
}

// axisLabel returns the label for a quantity, preferring an explicit one
// from the configuration over the quantity's column header.
func axisLabel(axis *config.PlotAxis, quantity string) string {
	if axis != nil && axis.Label != "" {
		return axis.Label
	}
	if col, ok := statedata.QuantityColumns[quantity]; ok {
		return col
	}
	return quantity
}

// Render draws every plot of conf from the state data and writes the files
// to dir, one per plot, named after the plot with the given format as
// extension. It returns the paths written.
func Render(conf *config.PlotConfig, sd *statedata.StateData, dir, format string) ([]string, error) {
	ok := false
	for _, f := range formats {
		if f == format {
			ok = true
		}
	}
	if !ok {
		return nil, fmt.Errorf("'%s' is not a supported plot format. Supported "+
			"formats are: %s", format, strings.Join(formats, ", "))
	}
	var written []string
	for name, spec := range conf.Plots {
		path := filepath.Join(dir, name+"."+format)
		if err := renderOne(spec, &conf.Output, sd, path, format); err != nil {
			return written, fmt.Errorf("plot '%s': %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func renderOne(spec *config.PlotSpec, out *config.PlotOutput, sd *statedata.StateData, path, format string) error {
	xs, err := sd.QuantityColumn(spec.Line.X)
	if err != nil {
		return err
	}
	ys, err := sd.QuantityColumn(spec.Line.Y)
	if err != nil {
		return err
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = axisLabel(spec.XAxis, spec.Line.X)
	p.Y.Label.Text = axisLabel(spec.YAxis, spec.Line.Y)
	setLimits(&p.X, spec.XAxis)
	setLimits(&p.Y, spec.YAxis)
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color, err = parseColor(spec.Line.Color)
	if err != nil {
		return err
	}
	if spec.Line.Width > 0 {
		line.Width = vg.Points(spec.Line.Width)
	}
	if spec.Line.Dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)
	w, h := canvasSize(out)
	if format == "png" {
		return savePNG(p, out, w, h, path)
	}
	return p.Save(w, h, path)
}

func setLimits(axis *plot.Axis, conf *config.PlotAxis) {
	if conf == nil {
		return
	}
	if conf.Min != nil {
		axis.Min = *conf.Min
	}
	if conf.Max != nil {
		axis.Max = *conf.Max
	}
}

func canvasSize(out *config.PlotOutput) (vg.Length, vg.Length) {
	w, h := out.Width, out.Height
	if w <= 0 {
		w = defWidthCm
	}
	if h <= 0 {
		h = defHeightCm
	}
	return vg.Length(w) * vg.Centimeter, vg.Length(h) * vg.Centimeter
}

// savePNG renders to a raster canvas honoring the configured resolution,
// which plot.Save has no way to take.
func savePNG(p *plot.Plot, out *config.PlotOutput, w, h vg.Length, path string) error {
	dpi := out.DPI
	if dpi <= 0 {
		dpi = defDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(dpi)))
	p.Draw(draw.New(c))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}
