/*
 * barostats.go, part of openmmwrap.
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

// Modes for the membrane barostat axes.
const (
	XYIsotropic    = "XYIsotropic"
	XYAnisotropic  = "XYAnisotropic"
	ZFree          = "ZFree"
	ZFixed         = "ZFixed"
	ConstantVolume = "ConstantVolume"
)

// Barostat is a resolved barostat directive. It is applied to a system as
// a force. Only the fields meaningful for Kind are set.
type Barostat struct {
	Kind        string  `yaml:"kind"`
	Pressure    float64 `yaml:"pressure"`    //bar
	Temperature float64 `yaml:"temperature"` //K

	// anisotropic barostat
	ScaleX *bool `yaml:"scale_x,omitempty"`
	ScaleY *bool `yaml:"scale_y,omitempty"`
	ScaleZ *bool `yaml:"scale_z,omitempty"`

	// membrane barostat
	SurfaceTension float64 `yaml:"surface_tension,omitempty"` //bar*nm
	XYMode         string  `yaml:"xy_mode,omitempty"`
	ZMode          string  `yaml:"z_mode,omitempty"`

	Frequency        *int `yaml:"frequency,omitempty"` //steps between pressure moves
	ForceGroup       *int `yaml:"force_group,omitempty"`
	RandomNumberSeed *int `yaml:"random_number_seed,omitempty"`
}

// setCommon resolves the optional settings shared by all barostats.
func (b *Barostat) setCommon(o config.Options) error {
	var err error
	if b.Frequency, err = optInt(o, "frequency", b.Kind); err != nil {
		return err
	}
	if b.ForceGroup, err = optInt(o, "force_group", b.Kind); err != nil {
		return err
	}
	b.RandomNumberSeed, err = optInt(o, "random_number_seed", b.Kind)
	return err
}

func newMonteCarloBarostat(o config.Options) (*Barostat, error) {
	b := &Barostat{Kind: "MonteCarloBarostat"}
	var err error
	if b.Pressure, err = reqFloat(o, "pressure", b.Kind); err != nil {
		return nil, err
	}
	if b.Temperature, err = reqFloat(o, "temperature", b.Kind); err != nil {
		return nil, err
	}
	if err = b.setCommon(o); err != nil {
		return nil, err
	}
	return b, nil
}

func newMonteCarloAnisotropicBarostat(o config.Options) (*Barostat, error) {
	b := &Barostat{Kind: "MonteCarloAnisotropicBarostat"}
	var err error
	if b.Pressure, err = reqFloat(o, "pressure", b.Kind); err != nil {
		return nil, err
	}
	if b.Temperature, err = reqFloat(o, "temperature", b.Kind); err != nil {
		return nil, err
	}
	for key, dst := range map[string]**bool{
		"scale_x": &b.ScaleX, "scale_y": &b.ScaleY, "scale_z": &b.ScaleZ,
	} {
		v, _, err := o.Bool(key, false, true)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", b.Kind, err)
		}
		scale := v
		*dst = &scale
	}
	if err = b.setCommon(o); err != nil {
		return nil, err
	}
	return b, nil
}

func newMonteCarloMembraneBarostat(o config.Options) (*Barostat, error) {
	b := &Barostat{Kind: "MonteCarloMembraneBarostat"}
	var err error
	if b.Pressure, err = reqFloat(o, "pressure", b.Kind); err != nil {
		return nil, err
	}
	if b.SurfaceTension, err = reqFloat(o, "surface_tension", b.Kind); err != nil {
		return nil, err
	}
	if b.Temperature, err = reqFloat(o, "temperature", b.Kind); err != nil {
		return nil, err
	}
	if b.XYMode, err = reqString(o, "xy_mode", b.Kind); err != nil {
		return nil, err
	}
	if b.XYMode != XYIsotropic && b.XYMode != XYAnisotropic {
		return nil, fmt.Errorf("'%s' is an invalid value for 'xy_mode'. "+
			"Supported values are: '%s' and '%s'", b.XYMode, XYIsotropic, XYAnisotropic)
	}
	if b.ZMode, err = reqString(o, "z_mode", b.Kind); err != nil {
		return nil, err
	}
	if b.ZMode != ZFree && b.ZMode != ZFixed && b.ZMode != ConstantVolume {
		return nil, fmt.Errorf("'%s' is an invalid value for 'z_mode'. "+
			"Supported values are: '%s', '%s', and '%s'", b.ZMode, ZFree, ZFixed, ConstantVolume)
	}
	if err = b.setCommon(o); err != nil {
		return nil, err
	}
	return b, nil
}

var barostats = map[string]map[string]func(config.Options) (*Barostat, error){
	OriginOpenMM: {
		"MonteCarloBarostat":            newMonteCarloBarostat,
		"MonteCarloAnisotropicBarostat": newMonteCarloAnisotropicBarostat,
		"MonteCarloMembraneBarostat":    newMonteCarloMembraneBarostat,
	},
}

// NewBarostat resolves the barostat section of a configuration.
func NewBarostat(comp *config.Component) (*Barostat, error) {
	byName, ok := barostats[comp.IsFrom]
	if !ok {
		return nil, fmt.Errorf("no barostats from '%s' are supported", comp.IsFrom)
	}
	build, ok := byName[comp.Name]
	if !ok {
		return nil, fmt.Errorf("the '%s' barostat from '%s' has not been "+
			"implemented yet or does not exist", comp.Name, comp.IsFrom)
	}
	opts := comp.Options
	if opts == nil {
		opts = config.Options{}
	}
	return build(opts)
}
