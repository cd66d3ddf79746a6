/*
 * mdplot_test.go, part of openmmwrap.
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

package mdplot

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quantum-for-Life/openmmwrap/config"
	"github.com/Quantum-for-Life/openmmwrap/statedata"
)

func testData() *statedata.StateData {
	return &statedata.StateData{
		Columns: []string{"Step", "Time (ps)", "Temperature (K)"},
		Rows: [][]float64{
			{100, 0.2, 290.5},
			{200, 0.4, 300.1},
			{300, 0.6, 301.2},
		},
	}
}

func testConf() *config.PlotConfig {
	return &config.PlotConfig{
		Type:   "lineplots",
		Output: config.PlotOutput{Width: 10, Height: 8, DPI: 72},
		Plots: map[string]*config.PlotSpec{
			"temperature": {
				Title: "Temperature",
				Line:  &config.PlotLine{X: "time", Y: "temperature", Color: "red", Width: 1.5},
			},
		},
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"png", "svg", "pdf"} {
		written, err := Render(testConf(), testData(), dir, format)
		require.NoError(t, err, format)
		require.Len(t, written, 1)
		assert.Equal(t, filepath.Join(dir, "temperature."+format), written[0])
		assert.FileExists(t, written[0])
	}
}

func TestRenderBadFormat(t *testing.T) {
	_, err := Render(testConf(), testData(), t.TempDir(), "gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'gif' is not a supported plot format")
}

func TestRenderUnknownQuantity(t *testing.T) {
	conf := testConf()
	conf.Plots["temperature"].Line.Y = "pressure"
	_, err := Render(conf, testData(), t.TempDir(), "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plot 'temperature'")
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("red")
	require.NoError(t, err)
	assert.Equal(t, colors["red"], c)

	c, err = parseColor("#102030")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 255}, c)

	c, err = parseColor("")
	require.NoError(t, err)
	assert.Equal(t, colors["black"], c)

	_, err = parseColor("mauve-ish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown color")
}

func TestAxisLabel(t *testing.T) {
	assert.Equal(t, "Temperature (K)", axisLabel(nil, "temperature"))
	assert.Equal(t, "T / K", axisLabel(&config.PlotAxis{Label: "T / K"}, "temperature"))
	assert.Equal(t, "mystery", axisLabel(nil, "mystery"))
}
