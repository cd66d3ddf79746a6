/*
 * integrators.go, part of openmmwrap.
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

// defaults for the Nose-Hoover chain propagation.
const (
	DefaultChainLength      = 3
	DefaultNumMTS           = 3
	DefaultNumYoshidaSuzuki = 7
)

// NoseHooverChain is one thermostat chain of a Nose-Hoover integrator. The
// chain named "full_system" thermostats the whole system; any other name
// defines a subsystem chain over the listed particles and pairs.
type NoseHooverChain struct {
	Name                 string   `yaml:"name"`
	Temperature          float64  `yaml:"temperature"`
	CollisionFrequency   float64  `yaml:"collision_frequency"`
	ChainLength          int      `yaml:"chain_length"`
	NumMTS               int      `yaml:"num_mts"`
	NumYoshidaSuzuki     int      `yaml:"num_yoshida_suzuki"`
	Particles            []int    `yaml:"thermostated_particles,omitempty"`
	Pairs                [][2]int `yaml:"thermostated_pairs,omitempty"`
	RelativeTemperature  float64  `yaml:"relative_temperature,omitempty"`
	RelativeCollisionFrq float64  `yaml:"relative_collision_frequency,omitempty"`
}

// FullSystem reports whether the chain thermostats the whole system.
func (c *NoseHooverChain) FullSystem() bool {
	return c.Name == "full_system"
}

// Integrator is a fully resolved integrator directive. Only the fields
// meaningful for Kind are set; optional settings stay nil when absent from
// the configuration.
type Integrator struct {
	Kind string `yaml:"kind"`

	StepSize       float64 `yaml:"step_size,omitempty"`       //ps
	Temperature    float64 `yaml:"temperature,omitempty"`     //K
	FrictionCoeff  float64 `yaml:"friction_coeff,omitempty"`  //1/ps
	ErrorTolerance float64 `yaml:"error_tolerance,omitempty"` //variable-step integrators

	MaximumStepSize     *float64          `yaml:"maximum_step_size,omitempty"` //ps
	ConstraintTolerance *float64          `yaml:"constraint_tolerance,omitempty"`
	ForceGroups         []int             `yaml:"integration_force_groups,omitempty"`
	RandomNumberSeed    *int              `yaml:"random_number_seed,omitempty"`
	MaximumPairDistance *float64          `yaml:"maximum_pair_distance,omitempty"` //nm
	Thermostats         []NoseHooverChain `yaml:"thermostats,omitempty"`
}

// common optional settings shared by all integrators.
func (in *Integrator) setCommon(o config.Options) error {
	var err error
	if in.ConstraintTolerance, err = optFloat(o, "constraint_tolerance", in.Kind); err != nil {
		return err
	}
	groups, _, err := o.Ints("integration_force_groups", false)
	if err != nil {
		return fmt.Errorf("'%s': %w", in.Kind, err)
	}
	in.ForceGroups = groups
	return nil
}

func (in *Integrator) setSeed(o config.Options) error {
	var err error
	in.RandomNumberSeed, err = optInt(o, "random_number_seed", in.Kind)
	return err
}

func newVerletIntegrator(o config.Options) (*Integrator, error) {
	in := &Integrator{Kind: "VerletIntegrator"}
	var err error
	if in.StepSize, err = reqFloat(o, "step_size", in.Kind); err != nil {
		return nil, err
	}
	if err = in.setCommon(o); err != nil {
		return nil, err
	}
	return in, nil
}

func newLangevinIntegrator(kind string) func(config.Options) (*Integrator, error) {
	return func(o config.Options) (*Integrator, error) {
		in := &Integrator{Kind: kind}
		var err error
		if in.Temperature, err = reqFloat(o, "temperature", in.Kind); err != nil {
			return nil, err
		}
		if in.FrictionCoeff, err = reqFloat(o, "friction_coeff", in.Kind); err != nil {
			return nil, err
		}
		if in.StepSize, err = reqFloat(o, "step_size", in.Kind); err != nil {
			return nil, err
		}
		if err = in.setCommon(o); err != nil {
			return nil, err
		}
		if err = in.setSeed(o); err != nil {
			return nil, err
		}
		return in, nil
	}
}

func newNoseHooverIntegrator(o config.Options) (*Integrator, error) {
	in := &Integrator{Kind: "NoseHooverIntegrator"}
	var err error
	if in.StepSize, err = reqFloat(o, "step_size", in.Kind); err != nil {
		return nil, err
	}
	rawChains, ok := o["thermostats"].(map[string]any)
	if !ok || len(rawChains) == 0 {
		return nil, fmt.Errorf("'thermostats' must be defined to use '%s'", in.Kind)
	}
	for name, raw := range rawChains {
		chainOpts, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("'%s': thermostat '%s' must be a mapping of options", in.Kind, name)
		}
		chain, err := newNoseHooverChain(name, config.Options(chainOpts), o)
		if err != nil {
			return nil, err
		}
		in.Thermostats = append(in.Thermostats, *chain)
	}
	if err = in.setCommon(o); err != nil {
		return nil, err
	}
	if in.MaximumPairDistance, err = optFloat(o, "maximum_pair_distance", in.Kind); err != nil {
		return nil, err
	}
	return in, nil
}

// newNoseHooverChain resolves one thermostat chain. The chain propagation
// options (num_mts, num_yoshida_suzuki) live at the integrator level, the
// rest at the chain level.
func newNoseHooverChain(name string, chainOpts, intOpts config.Options) (*NoseHooverChain, error) {
	const objName = "NoseHooverIntegrator"
	chain := &NoseHooverChain{Name: name}
	var err error
	if chain.Temperature, err = reqFloat(chainOpts, "temperature", objName); err != nil {
		return nil, err
	}
	if chain.CollisionFrequency, err = reqFloat(chainOpts, "collision_frequency", objName); err != nil {
		return nil, err
	}
	if chain.ChainLength, _, err = chainOpts.Int("chain_length", false, DefaultChainLength); err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if chain.NumMTS, _, err = intOpts.Int("num_mts", false, DefaultNumMTS); err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if chain.NumYoshidaSuzuki, _, err = intOpts.Int("num_yoshida_suzuki", false, DefaultNumYoshidaSuzuki); err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if chain.FullSystem() {
		return chain, nil
	}
	if chain.Particles, _, err = intOpts.Ints("thermostated_particles", true); err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if chain.Pairs, _, err = intOpts.IntPairs("thermostated_pairs", true); err != nil {
		return nil, fmt.Errorf("'%s': %w", objName, err)
	}
	if chain.RelativeTemperature, err = reqFloat(intOpts, "relative_temperature", objName); err != nil {
		return nil, err
	}
	if chain.RelativeCollisionFrq, err = reqFloat(intOpts, "relative_collision_frequency", objName); err != nil {
		return nil, err
	}
	return chain, nil
}

func newBrownianIntegrator(o config.Options) (*Integrator, error) {
	return newLangevinIntegrator("BrownianIntegrator")(o)
}

func newVariableVerletIntegrator(o config.Options) (*Integrator, error) {
	in := &Integrator{Kind: "VariableVerletIntegrator"}
	var err error
	if in.ErrorTolerance, err = reqFloat(o, "error_tolerance", in.Kind); err != nil {
		return nil, err
	}
	if in.StepSize, _, err = o.Float("step_size", false, 0); err != nil {
		return nil, fmt.Errorf("'%s': %w", in.Kind, err)
	}
	if in.MaximumStepSize, err = optFloat(o, "maximum_step_size", in.Kind); err != nil {
		return nil, err
	}
	if err = in.setCommon(o); err != nil {
		return nil, err
	}
	return in, nil
}

func newVariableLangevinIntegrator(o config.Options) (*Integrator, error) {
	in := &Integrator{Kind: "VariableLangevinIntegrator"}
	var err error
	if in.Temperature, err = reqFloat(o, "temperature", in.Kind); err != nil {
		return nil, err
	}
	if in.FrictionCoeff, err = reqFloat(o, "friction_coeff", in.Kind); err != nil {
		return nil, err
	}
	if in.ErrorTolerance, err = reqFloat(o, "error_tolerance", in.Kind); err != nil {
		return nil, err
	}
	if in.StepSize, _, err = o.Float("step_size", false, 0); err != nil {
		return nil, fmt.Errorf("'%s': %w", in.Kind, err)
	}
	if in.MaximumStepSize, err = optFloat(o, "maximum_step_size", in.Kind); err != nil {
		return nil, err
	}
	if err = in.setCommon(o); err != nil {
		return nil, err
	}
	if err = in.setSeed(o); err != nil {
		return nil, err
	}
	return in, nil
}

// integrators maps origin and name to the resolving function.
var integrators = map[string]map[string]func(config.Options) (*Integrator, error){
	OriginOpenMM: {
		"VerletIntegrator":           newVerletIntegrator,
		"LangevinIntegrator":         newLangevinIntegrator("LangevinIntegrator"),
		"LangevinMiddleIntegrator":   newLangevinIntegrator("LangevinMiddleIntegrator"),
		"NoseHooverIntegrator":       newNoseHooverIntegrator,
		"BrownianIntegrator":         newBrownianIntegrator,
		"VariableVerletIntegrator":   newVariableVerletIntegrator,
		"VariableLangevinIntegrator": newVariableLangevinIntegrator,
	},
}

// NewIntegrator resolves the integrator section of a configuration.
func NewIntegrator(comp *config.Component) (*Integrator, error) {
	byName, ok := integrators[comp.IsFrom]
	if !ok {
		return nil, fmt.Errorf("no integrators from '%s' are supported", comp.IsFrom)
	}
	build, ok := byName[comp.Name]
	if !ok {
		return nil, fmt.Errorf("the '%s' integrator from '%s' has not been "+
			"implemented yet or does not exist", comp.Name, comp.IsFrom)
	}
	opts := comp.Options
	if opts == nil {
		opts = config.Options{}
	}
	return build(opts)
}
