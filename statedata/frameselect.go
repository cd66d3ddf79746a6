/*
 * frameselect.go, part of openmmwrap.
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

package statedata

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// selection methods, each binding a quantity and the span of the run the
// mean is taken over.
var methods = map[string]struct {
	quantity   string
	secondHalf bool
}{
	"closest_to_mean_temperature":             {"temperature", false},
	"closest_to_mean_temperature_second_half": {"temperature", true},
	"closest_to_mean_density":                 {"density", false},
	"closest_to_mean_density_second_half":     {"density", true},
	"closest_to_mean_volume":                  {"box_volume", false},
	"closest_to_mean_volume_second_half":      {"box_volume", true},
}

// Methods returns the supported frame-selection methods, sorted.
func Methods() []string {
	out := make([]string, 0, len(methods))
	for m := range methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FindFrame returns the index of the report whose value of the method's
// quantity is closest to the quantity's mean. Methods with a
// '_second_half' suffix both average over and search in the second half of
// the run.
func FindFrame(sd *StateData, method string) (int, error) {
	spec, ok := methods[method]
	if !ok {
		return 0, fmt.Errorf("unknown frame-selection method '%s'. Supported "+
			"methods are: %s", method, strings.Join(Methods(), ", "))
	}
	values, err := sd.QuantityColumn(spec.quantity)
	if err != nil {
		return 0, err
	}
	start := 0
	if spec.secondHalf {
		start = len(values) / 2
	}
	span := values[start:]
	if len(span) == 0 {
		return 0, fmt.Errorf("no reports to select a frame from")
	}
	mean := stat.Mean(span, nil)
	best := 0
	bestDiff := math.Inf(1)
	for i, v := range span {
		if diff := math.Abs(v - mean); diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return start + best, nil
}
