/*
 * plot.go, part of openmmwrap.
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

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// plotTypes lists the supported plot types.
var plotTypes = []string{"lineplots"}

// PlotOutput configures the rendered file. The file name itself comes from
// the command line, not from the configuration.
type PlotOutput struct {
	// width and height of the canvas in centimeters
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// resolution used for raster formats
	DPI float64 `yaml:"dpi"`
}

// PlotLine configures one line of a line plot: which state-data quantities
// go on each axis, and how the line looks.
type PlotLine struct {
	X      string  `yaml:"x"`
	Y      string  `yaml:"y"`
	Color  string  `yaml:"color"`
	Width  float64 `yaml:"linewidth"`
	Dashed bool    `yaml:"dashed"`
}

// PlotAxis configures one axis. Nil limits leave the axis autoscaled.
type PlotAxis struct {
	Label string   `yaml:"label"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

// PlotSpec is the configuration of a single plot.
type PlotSpec struct {
	Line  *PlotLine `yaml:"lineplot"`
	Title string    `yaml:"title"`
	XAxis *PlotAxis `yaml:"xaxis"`
	YAxis *PlotAxis `yaml:"yaxis"`
}

// PlotConfig is a loaded plotting configuration: the plot type, the output
// options and one PlotSpec per requested plot.
type PlotConfig struct {
	Type   string
	Output PlotOutput
	Plots  map[string]*PlotSpec
}

// LoadPlot reads a plotting configuration. A 'general' entry under 'plot',
// if present, is recursively merged under every other plot, with the
// per-plot values winning.
func LoadPlot(path string) (*PlotConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plotting configuration: %w", err)
	}
	var doc struct {
		Type   string                    `yaml:"type"`
		Output PlotOutput                `yaml:"output"`
		Plot   map[string]map[string]any `yaml:"plot"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing plotting configuration '%s': %w", path, err)
	}
	typesStr := quoteList(plotTypes)
	if doc.Type == "" {
		return nil, fmt.Errorf("the plot 'type' must be specified in the "+
			"configuration file. Supported plot types are: %s", typesStr)
	}
	if !contains(plotTypes, doc.Type) {
		return nil, fmt.Errorf("the plot type '%s' is invalid. Supported "+
			"plot types are: %s", doc.Type, typesStr)
	}
	general := doc.Plot["general"]
	delete(doc.Plot, "general")
	conf := &PlotConfig{
		Type:   doc.Type,
		Output: doc.Output,
		Plots:  make(map[string]*PlotSpec, len(doc.Plot)),
	}
	for name, rawPlot := range doc.Plot {
		if general != nil {
			rawPlot = RecursiveMerge(rawPlot, general)
		}
		// round-trip through YAML to get the typed spec
		buf, err := yaml.Marshal(rawPlot)
		if err != nil {
			return nil, fmt.Errorf("plot '%s': %w", name, err)
		}
		spec := new(PlotSpec)
		if err := yaml.Unmarshal(buf, spec); err != nil {
			return nil, fmt.Errorf("plot '%s': %w", name, err)
		}
		if spec.Line == nil || spec.Line.X == "" || spec.Line.Y == "" {
			return nil, fmt.Errorf("plot '%s': a 'lineplot' section with "+
				"'x' and 'y' quantities is required", name)
		}
		conf.Plots[name] = spec
	}
	if len(conf.Plots) == 0 {
		return nil, fmt.Errorf("no plots found in '%s'", strings.TrimSpace(path))
	}
	return conf, nil
}
