/*
 * sysxml_test.go, part of openmmwrap.
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

package sysxml

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Quantum-for-Life/openmmwrap/sim"
)

const testSystem = `<?xml version="1.0" ?>
<System openmmVersion="8.1" type="System" version="1">
	<PeriodicBoxVectors>
		<A x="3" y="0" z="0"/>
		<B x="0" y="3" z="0"/>
		<C x="0" y="0" z="3"/>
	</PeriodicBoxVectors>
	<Particles>
		<Particle mass="14.007"/>
		<Particle mass="12.011"/>
		<Particle mass="15.999"/>
	</Particles>
	<Forces>
		<Force type="HarmonicBondForce" version="2"/>
	</Forces>
</System>
`

func TestParse(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	assert.Equal(t, 3, sys.NumParticles())
	require.Len(t, sys.Forces(), 1)

	_, err = Parse([]byte("<Integrator type=\"x\"/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root element is 'Integrator'")
}

func TestRoundTripKeepsForeignNodes(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	raw, err := sys.Marshal()
	require.NoError(t, err)
	sys2, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, sys2.NumParticles())
	boxv := sys2.root.Child("PeriodicBoxVectors")
	require.NotNil(t, boxv)
	a := boxv.Child("A")
	require.NotNil(t, a)
	x, ok := a.Attr("x")
	assert.True(t, ok)
	assert.Equal(t, "3", x)
	v, _ := sys2.root.Attr("openmmVersion")
	assert.Equal(t, "8.1", v)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.xml")
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	require.NoError(t, sys.Save(path))
	sys2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, sys2.NumParticles())
}

func TestAddThermostat(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	require.NoError(t, sys.AddThermostat(&sim.Thermostat{
		Kind:               "AndersenThermostat",
		Temperature:        300,
		CollisionFrequency: 1,
	}))
	forces := sys.Forces()
	require.Len(t, forces, 2)
	th := forces[1]
	kind, _ := th.Attr("type")
	assert.Equal(t, "AndersenThermostat", kind)
	temp, _ := th.Attr("temperature")
	assert.Equal(t, "300", temp)
	group, _ := th.Attr("forceGroup")
	assert.Equal(t, "0", group)

	err = sys.AddThermostat(&sim.Thermostat{Kind: "NoseHooverThermostat"})
	assert.Error(t, err)
}

func TestAddBarostat(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	scaleZ := false
	require.NoError(t, sys.AddBarostat(&sim.Barostat{
		Kind:        "MonteCarloAnisotropicBarostat",
		Pressure:    1,
		Temperature: 300,
		ScaleZ:      &scaleZ,
	}))
	b := sys.Forces()[1]
	sx, _ := b.Attr("scaleX")
	assert.Equal(t, "1", sx)
	sz, _ := b.Attr("scaleZ")
	assert.Equal(t, "0", sz)
	freq, _ := b.Attr("frequency")
	assert.Equal(t, "25", freq)
}

func TestAddMembraneBarostat(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	require.NoError(t, sys.AddBarostat(&sim.Barostat{
		Kind:           "MonteCarloMembraneBarostat",
		Pressure:       1,
		Temperature:    300,
		SurfaceTension: 0,
		XYMode:         sim.XYAnisotropic,
		ZMode:          sim.ConstantVolume,
	}))
	b := sys.Forces()[1]
	xy, _ := b.Attr("xymode")
	assert.Equal(t, "1", xy)
	z, _ := b.Attr("zmode")
	assert.Equal(t, "2", z)
}

func TestAddRestraint(t *testing.T) {
	sys, err := Parse([]byte(testSystem))
	require.NoError(t, err)
	// reference positions in angstroms
	ref := mat.NewDense(3, 3, []float64{
		10, 0, 0,
		0, 20, 0,
		0, 0, 30,
	})
	require.NoError(t, sys.AddRestraint(&sim.Restraint{
		Name: "backbone", Kind: "periodic_distance", K: 100,
	}, ref))
	force := sys.Forces()[1]
	kind, _ := force.Attr("type")
	assert.Equal(t, "CustomExternalForce", kind)
	energy, _ := force.Attr("energy")
	assert.Equal(t, sim.PeriodicDistanceEnergy, energy)

	particles := force.Child("Particles")
	require.NotNil(t, particles)
	require.Len(t, particles.Children, 3)
	// positions are converted to nanometers
	p1, _ := particles.Children[0].Attr("p1")
	assert.Equal(t, "1", p1)
	p3, _ := particles.Children[2].Attr("p3")
	assert.Equal(t, "3", p3)

	short := mat.NewDense(2, 3, nil)
	err = sys.AddRestraint(&sim.Restraint{Name: "x", Kind: "periodic_distance", K: 1}, short)
	assert.Error(t, err)
}

func TestMarshalIntegrator(t *testing.T) {
	seed := 7
	raw, err := MarshalIntegrator(&sim.Integrator{
		Kind:             "LangevinMiddleIntegrator",
		StepSize:         0.002,
		Temperature:      300,
		FrictionCoeff:    1,
		RandomNumberSeed: &seed,
	})
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `type="LangevinMiddleIntegrator"`)
	assert.Contains(t, s, `stepSize="0.002"`)
	assert.Contains(t, s, `friction="1"`)
	assert.Contains(t, s, `randomSeed="7"`)
}

func TestMarshalNoseHooverIntegrator(t *testing.T) {
	raw, err := MarshalIntegrator(&sim.Integrator{
		Kind:     "NoseHooverIntegrator",
		StepSize: 0.001,
		Thermostats: []sim.NoseHooverChain{{
			Name:               "full_system",
			Temperature:        300,
			CollisionFrequency: 5,
			ChainLength:        3,
			NumMTS:             3,
			NumYoshidaSuzuki:   7,
		}},
	})
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `<Thermostat name="full_system"`)
	assert.Contains(t, s, `chainLength="3"`)
	assert.NotContains(t, s, "relativeTemperature")
}
