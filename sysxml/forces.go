/*
 * forces.go, part of openmmwrap.
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
	"encoding/xml"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Quantum-for-Life/openmmwrap/sim"
)

// angstromsPerNm converts the PDB length unit to the engine's.
const angstromsPerNm = 10.0

func boolAttr(v *bool, def bool) int {
	b := def
	if v != nil {
		b = *v
	}
	if b {
		return 1
	}
	return 0
}

// AddThermostat injects a thermostat force into the system.
func (s *System) AddThermostat(th *sim.Thermostat) error {
	if th.Kind != "AndersenThermostat" {
		return fmt.Errorf("cannot serialize a '%s' thermostat", th.Kind)
	}
	force := newElement("Force")
	force.SetAttr("type", th.Kind)
	force.setInt("version", 1)
	force.setFloat("temperature", th.Temperature)
	force.setFloat("collisionFrequency", th.CollisionFrequency)
	if th.ForceGroup != nil {
		force.setInt("forceGroup", *th.ForceGroup)
	} else {
		force.setInt("forceGroup", 0)
	}
	if th.RandomNumberSeed != nil {
		force.setInt("randomNumberSeed", *th.RandomNumberSeed)
	}
	s.AddForce(force)
	return nil
}

// membrane barostat modes as the engine serializes them.
var xyModes = map[string]int{sim.XYIsotropic: 0, sim.XYAnisotropic: 1}
var zModes = map[string]int{sim.ZFree: 0, sim.ZFixed: 1, sim.ConstantVolume: 2}

// AddBarostat injects a barostat force into the system.
func (s *System) AddBarostat(b *sim.Barostat) error {
	force := newElement("Force")
	force.SetAttr("type", b.Kind)
	force.setInt("version", 1)
	force.setFloat("pressure", b.Pressure)
	force.setFloat("temperature", b.Temperature)
	switch b.Kind {
	case "MonteCarloBarostat":
	case "MonteCarloAnisotropicBarostat":
		force.setInt("scaleX", boolAttr(b.ScaleX, true))
		force.setInt("scaleY", boolAttr(b.ScaleY, true))
		force.setInt("scaleZ", boolAttr(b.ScaleZ, true))
	case "MonteCarloMembraneBarostat":
		force.setFloat("surfaceTension", b.SurfaceTension)
		force.setInt("xymode", xyModes[b.XYMode])
		force.setInt("zmode", zModes[b.ZMode])
	default:
		return fmt.Errorf("cannot serialize a '%s' barostat", b.Kind)
	}
	if b.Frequency != nil {
		force.setInt("frequency", *b.Frequency)
	} else {
		force.setInt("frequency", 25)
	}
	if b.ForceGroup != nil {
		force.setInt("forceGroup", *b.ForceGroup)
	} else {
		force.setInt("forceGroup", 0)
	}
	if b.RandomNumberSeed != nil {
		force.setInt("randomNumberSeed", *b.RandomNumberSeed)
	}
	s.AddForce(force)
	return nil
}

// AddRestraint injects a restraint force into the system. refCoords holds
// the reference positions in angstroms, one row per particle; they must
// cover every particle in the system.
func (s *System) AddRestraint(r *sim.Restraint, refCoords *mat.Dense) error {
	if r.Kind != "periodic_distance" {
		return fmt.Errorf("cannot serialize a '%s' restraint", r.Kind)
	}
	rows, cols := refCoords.Dims()
	if cols != 3 {
		return fmt.Errorf("restraint '%s': reference coordinates are %dx%d, want Nx3", r.Name, rows, cols)
	}
	if n := s.NumParticles(); n != 0 && n != rows {
		return fmt.Errorf("restraint '%s': %d reference positions for %d particles", r.Name, rows, n)
	}
	force := newElement("Force")
	force.SetAttr("type", "CustomExternalForce")
	force.setInt("version", 3)
	force.SetAttr("energy", sim.PeriodicDistanceEnergy)
	force.setInt("forceGroup", 0)

	globals := force.ensureChild("GlobalParameters")
	k := newElement("Parameter")
	k.SetAttr("name", "k")
	k.setFloat("default", r.K)
	globals.Children = append(globals.Children, k)

	perParticle := force.ensureChild("PerParticleParameters")
	for _, name := range []string{"x0", "y0", "z0"} {
		p := newElement("Parameter")
		p.SetAttr("name", name)
		perParticle.Children = append(perParticle.Children, p)
	}

	particles := force.ensureChild("Particles")
	for i := 0; i < rows; i++ {
		p := newElement("Particle")
		p.setInt("index", i)
		p.setFloat("p1", refCoords.At(i, 0)/angstromsPerNm)
		p.setFloat("p2", refCoords.At(i, 1)/angstromsPerNm)
		p.setFloat("p3", refCoords.At(i, 2)/angstromsPerNm)
		particles.Children = append(particles.Children, p)
	}
	s.AddForce(force)
	return nil
}

// MarshalIntegrator serializes an integrator directive as an Integrator
// element, the form the engine loads alongside a serialized system.
func MarshalIntegrator(in *sim.Integrator) ([]byte, error) {
	el := newElement("Integrator")
	el.SetAttr("type", in.Kind)
	el.setInt("version", 1)
	if in.StepSize != 0 {
		el.setFloat("stepSize", in.StepSize)
	}
	if in.Temperature != 0 {
		el.setFloat("temperature", in.Temperature)
	}
	if in.FrictionCoeff != 0 {
		el.setFloat("friction", in.FrictionCoeff)
	}
	if in.ErrorTolerance != 0 {
		el.setFloat("errorTol", in.ErrorTolerance)
	}
	if in.MaximumStepSize != nil {
		el.setFloat("maxStepSize", *in.MaximumStepSize)
	}
	if in.ConstraintTolerance != nil {
		el.setFloat("constraintTolerance", *in.ConstraintTolerance)
	}
	if in.RandomNumberSeed != nil {
		el.setInt("randomSeed", *in.RandomNumberSeed)
	}
	if in.MaximumPairDistance != nil {
		el.setFloat("maximumPairDistance", *in.MaximumPairDistance)
	}
	for _, chain := range in.Thermostats {
		c := newElement("Thermostat")
		c.SetAttr("name", chain.Name)
		c.setFloat("temperature", chain.Temperature)
		c.setFloat("collisionFrequency", chain.CollisionFrequency)
		c.setInt("chainLength", chain.ChainLength)
		c.setInt("numMTS", chain.NumMTS)
		c.setInt("numYoshidaSuzuki", chain.NumYoshidaSuzuki)
		if !chain.FullSystem() {
			c.setFloat("relativeTemperature", chain.RelativeTemperature)
			c.setFloat("relativeCollisionFrequency", chain.RelativeCollisionFrq)
			particles := c.ensureChild("Particles")
			for _, idx := range chain.Particles {
				p := newElement("Particle")
				p.setInt("index", idx)
				particles.Children = append(particles.Children, p)
			}
			pairs := c.ensureChild("Pairs")
			for _, pair := range chain.Pairs {
				p := newElement("Pair")
				p.setInt("p1", pair[0])
				p.setInt("p2", pair[1])
				pairs.Children = append(pairs.Children, p)
			}
		}
		el.Children = append(el.Children, c)
	}
	raw, err := xml.MarshalIndent(el, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("serializing integrator XML: %w", err)
	}
	return append([]byte(xml.Header), append(raw, '\n')...), nil
}
