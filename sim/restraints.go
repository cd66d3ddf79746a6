/*
 * restraints.go, part of openmmwrap.
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

package sim

import (
	"fmt"

	"github.com/Quantum-for-Life/openmmwrap/config"
)

// PeriodicDistanceEnergy is the energy expression of the periodic distance
// restraint: a harmonic well on each particle's periodic distance from its
// reference position.
const PeriodicDistanceEnergy = "k * periodicdistance(x, y, z, x0, y0, z0)^2"

// Restraint is a resolved restraint directive. Name is the key under the
// restraints section that defined it.
type Restraint struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	K    float64 `yaml:"k"` //kJ/mol/nm^2
}

// NewRestraint resolves one entry of the restraints section.
func NewRestraint(name string, r *config.Restraint) (*Restraint, error) {
	switch r.Type {
	case "periodic_distance":
		opts := r.Options
		if opts == nil {
			opts = config.Options{}
		}
		k, err := reqFloat(opts, "k", "periodic_distance restraint '"+name+"'")
		if err != nil {
			return nil, err
		}
		return &Restraint{Name: name, Kind: r.Type, K: k}, nil
	}
	return nil, fmt.Errorf("the '%s' restraint type has not been implemented "+
		"yet or does not exist", r.Type)
}

// NewRestraints resolves the whole restraints section.
func NewRestraints(section map[string]*config.Restraint) ([]*Restraint, error) {
	out := make([]*Restraint, 0, len(section))
	for name, r := range section {
		resolved, err := NewRestraint(name, r)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
