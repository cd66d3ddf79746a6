/*
 * thermostats.go, part of openmmwrap.
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

// Thermostat is a resolved thermostat directive. It is applied to a system
// as a force.
type Thermostat struct {
	Kind               string   `yaml:"kind"`
	Temperature        float64  `yaml:"temperature"`         //K
	CollisionFrequency float64  `yaml:"collision_frequency"` //1/ps
	ForceGroup         *int     `yaml:"force_group,omitempty"`
	RandomNumberSeed   *int     `yaml:"random_number_seed,omitempty"`
}

func newAndersenThermostat(o config.Options) (*Thermostat, error) {
	th := &Thermostat{Kind: "AndersenThermostat"}
	var err error
	if th.Temperature, err = reqFloat(o, "temperature", th.Kind); err != nil {
		return nil, err
	}
	if th.CollisionFrequency, err = reqFloat(o, "collision_frequency", th.Kind); err != nil {
		return nil, err
	}
	if th.ForceGroup, err = optInt(o, "force_group", th.Kind); err != nil {
		return nil, err
	}
	if th.RandomNumberSeed, err = optInt(o, "random_number_seed", th.Kind); err != nil {
		return nil, err
	}
	return th, nil
}

var thermostats = map[string]map[string]func(config.Options) (*Thermostat, error){
	OriginOpenMM: {
		"AndersenThermostat": newAndersenThermostat,
	},
}

// NewThermostat resolves the thermostat section of a configuration.
func NewThermostat(comp *config.Component) (*Thermostat, error) {
	byName, ok := thermostats[comp.IsFrom]
	if !ok {
		return nil, fmt.Errorf("no thermostats from '%s' are supported", comp.IsFrom)
	}
	build, ok := byName[comp.Name]
	if !ok {
		return nil, fmt.Errorf("the '%s' thermostat from '%s' has not been "+
			"implemented yet or does not exist", comp.Name, comp.IsFrom)
	}
	opts := comp.Options
	if opts == nil {
		opts = config.Options{}
	}
	return build(opts)
}
