/*
 * statedata.go, part of openmmwrap.
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

// Package statedata reads the state-data files written during a run and
// selects representative frames from them.
//
// A state-data file is a CSV whose first header field carries a '#'
// decoration, like:
//
//	#"Step","Time (ps)","Potential Energy (kJ/mole)",...
//
// Files compressed with gzip or zstandard are read transparently, chosen
// by the file's extension.
package statedata

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Quantity names accepted throughout the package, mapped to the column
// headers the engine writes.
var QuantityColumns = map[string]string{
	"step":             "Step",
	"time":             "Time (ps)",
	"potential_energy": "Potential Energy (kJ/mole)",
	"kinetic_energy":   "Kinetic Energy (kJ/mole)",
	"total_energy":     "Total Energy (kJ/mole)",
	"temperature":      "Temperature (K)",
	"box_volume":       "Box Volume (nm^3)",
	"density":          "Density (g/mL)",
	"mass":             "Mass",
}

// StateData holds a loaded state-data file: the cleaned column headers and
// one row of values per report.
type StateData struct {
	Columns []string
	Rows    [][]float64
}

// NRows returns the number of reports in the file.
func (sd *StateData) NRows() int {
	return len(sd.Rows)
}

// ColumnIndex returns the index of the named column, or an error listing
// the available ones.
func (sd *StateData) ColumnIndex(name string) (int, error) {
	for i, c := range sd.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no '%s' column in the state data. Available "+
		"columns are: %s", name, strings.Join(sd.Columns, ", "))
}

// Column returns the values of the named column.
func (sd *StateData) Column(name string) ([]float64, error) {
	i, err := sd.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(sd.Rows))
	for j, row := range sd.Rows {
		out[j] = row[i]
	}
	return out, nil
}

// QuantityColumn returns the values of the column holding the named
// quantity ("temperature", "density", ...).
func (sd *StateData) QuantityColumn(quantity string) ([]float64, error) {
	col, ok := QuantityColumns[quantity]
	if !ok {
		return nil, fmt.Errorf("unknown quantity '%s'", quantity)
	}
	return sd.Column(col)
}

// cleanHeader strips the '#' decoration and any stray quotes from a header
// field.
func cleanHeader(field string) string {
	field = strings.TrimSpace(field)
	field = strings.TrimPrefix(field, "#")
	return strings.Trim(field, `"`)
}

// prepSource wraps r in the decompressor matching the file name, based on
// its last extension. Plain files pass through.
func prepSource(name string, r io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return gz, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return io.NopCloser(r), nil
}

// Read loads state data from r, using the file name only to choose the
// decompressor. comma is the field separator; zero means ','.
func Read(name string, r io.Reader, comma rune) (*StateData, error) {
	src, err := prepSource(name, r)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	cr := csv.NewReader(src)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading state-data header: %w", err)
	}
	sd := &StateData{Columns: make([]string, len(header))}
	for i, h := range header {
		sd.Columns[i] = cleanHeader(h)
	}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading state data: %w", err)
		}
		row := make([]float64, len(record))
		for i, field := range record {
			// progress columns carry a trailing '%'
			field = strings.TrimSuffix(strings.TrimSpace(field), "%")
			row[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("state data line %d, column '%s': %v",
					line, sd.Columns[i], err)
			}
		}
		sd.Rows = append(sd.Rows, row)
	}
	if len(sd.Rows) == 0 {
		return nil, fmt.Errorf("no data rows in the state-data file")
	}
	return sd, nil
}

// Load reads a state-data file, decompressing it if its extension calls
// for it.
func Load(path string, comma rune) (*StateData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening state data: %w", err)
	}
	defer f.Close()
	sd, err := Read(path, f, comma)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return sd, nil
}

// WriteRow writes the headers and a single data row to w as CSV, the form
// used to save a selected frame.
func (sd *StateData) WriteRow(w io.Writer, row int) error {
	if row < 0 || row >= len(sd.Rows) {
		return fmt.Errorf("no row %d in a %d-row state data", row, len(sd.Rows))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(sd.Columns); err != nil {
		return err
	}
	fields := make([]string, len(sd.Rows[row]))
	for i, v := range sd.Rows[row] {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if err := cw.Write(fields); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
