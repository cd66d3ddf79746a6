/*
 * sim.go, part of openmmwrap.
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

// Package sim resolves the engine-namespaced configuration sections into
// typed directives: integrators, thermostats, barostats, restraints and
// reporters. A directive carries everything the engine needs, already
// validated and with defaults applied.
//
// Quantities are plain float64 in the engine's units: ps for times, K for
// temperatures, 1/ps for frequencies, bar for pressures, bar*nm for
// surface tensions and nm for distances.
package sim

import (
	"fmt"

	"github.com/Quantum-for-Life/openmmwrap/config"
)

// OriginOpenMM is the only supported component origin so far.
const OriginOpenMM = "openmm"

// reqFloat fetches a required numeric option, phrasing the error after the
// object that needs it.
func reqFloat(o config.Options, key, objName string) (float64, error) {
	v, ok, err := o.Float(key, false, 0)
	if err != nil {
		return 0, fmt.Errorf("'%s': %w", objName, err)
	}
	if !ok {
		return 0, fmt.Errorf("'%s' must be defined to use '%s'", key, objName)
	}
	return v, nil
}

func reqString(o config.Options, key, objName string) (string, error) {
	v, ok, err := o.String(key, false, "")
	if err != nil {
		return "", fmt.Errorf("'%s': %w", objName, err)
	}
	if !ok {
		return "", fmt.Errorf("'%s' must be defined to use '%s'", key, objName)
	}
	return v, nil
}

// optFloat fetches an optional numeric option as a pointer, nil if absent.
func optFloat(o config.Options, key, objName string) (*float64, error) {
	v, ok, err := o.Float(key, false, 0)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func optInt(o config.Options, key, objName string) (*int, error) {
	v, ok, err := o.Int(key, false, 0)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}
