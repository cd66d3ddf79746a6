/*
 * job_test.go, part of openmmwrap.
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

package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Quantum-for-Life/openmmwrap/config"
	"github.com/Quantum-for-Life/openmmwrap/sysxml"
)

const testStructure = `CRYST1   30.000   30.000   30.000  90.00  90.00  90.00 P 1           1
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
ATOM      3  C   ALA A   1      12.500   7.000  -4.000  1.00  0.00           C
END
`

const testSystemXML = `<?xml version="1.0" ?>
<System openmmVersion="8.1" type="System" version="1">
	<Particles>
		<Particle mass="14.007"/>
		<Particle mass="12.011"/>
		<Particle mass="12.011"/>
	</Particles>
	<Forces>
		<Force type="HarmonicBondForce" version="2"/>
	</Forces>
</System>
`

const testConfig = `
integrator:
  name: LangevinMiddleIntegrator
  is_from: openmm
  options:
    temperature: 300
    friction_coeff: 1.0
    step_size: 0.002
thermostat:
  name: AndersenThermostat
  is_from: openmm
  options:
    temperature: 300
    collision_frequency: 1.0
barostat:
  name: MonteCarloBarostat
  is_from: openmm
  options:
    pressure: 1.0
    temperature: 300
run:
  n_steps: 5000
trajectory:
  reportInterval: 500
state_data:
  reportInterval: 100
  step: true
  temperature: true
restraints:
  heavy:
    restraint_type: periodic_distance
    restraint_options:
      k: 10.0
force_field:
  fixed: [amber14-all.xml, amber14/tip3p.xml]
solvation:
  model: tip3p
  padding: 1.0
minimization:
  tolerance: 10.0
  maxIterations: 500
`

type testFiles struct {
	conf      *config.Config
	structure string
	system    string
	dir       string
}

func setup(t *testing.T) testFiles {
	t.Helper()
	dir := t.TempDir()
	confPath := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(confPath, []byte(testConfig), 0o644))
	conf, err := config.Load(confPath)
	require.NoError(t, err)
	structure := filepath.Join(dir, "input.pdb")
	require.NoError(t, os.WriteFile(structure, []byte(testStructure), 0o644))
	system := filepath.Join(dir, "system.xml")
	require.NoError(t, os.WriteFile(system, []byte(testSystemXML), 0o644))
	return testFiles{conf: conf, structure: structure, system: system, dir: dir}
}

func TestCreateSystem(t *testing.T) {
	f := setup(t)
	bundleDir := filepath.Join(f.dir, "create")
	b, err := CreateSystem(f.conf, Inputs{Structure: f.structure}, bundleDir)
	require.NoError(t, err)
	require.NoError(t, b.Write())

	raw, err := os.ReadFile(filepath.Join(bundleDir, ManifestFile))
	require.NoError(t, err)
	var man Manifest
	require.NoError(t, yaml.Unmarshal(raw, &man))
	assert.Equal(t, StageCreateSystem, man.Stage)
	require.NotNil(t, man.ForceField)
	assert.Equal(t, []string{"amber14-all.xml", "amber14/tip3p.xml"}, man.ForceField.Fixed)
	assert.FileExists(t, filepath.Join(bundleDir, StructureFile))
}

func TestCreateSystemParamGenerator(t *testing.T) {
	f := setup(t)
	mol := filepath.Join(f.dir, "ligand.sdf")
	require.NoError(t, os.WriteFile(mol, []byte("ligand"), 0o644))
	f.conf.ForceField = &config.ForceField{Param: "gaff-2.11", Molecules: []string{mol}}
	b, err := CreateSystem(f.conf, Inputs{Structure: f.structure}, f.dir)
	require.NoError(t, err)
	assert.Equal(t, "gaff", b.Manifest.Generator)

	f.conf.ForceField.Param = "openff-2.1.0"
	b, err = CreateSystem(f.conf, Inputs{Structure: f.structure}, f.dir)
	require.NoError(t, err)
	assert.Equal(t, "smirnoff", b.Manifest.Generator)

	f.conf.ForceField.Molecules = []string{filepath.Join(f.dir, "missing.sdf")}
	_, err = CreateSystem(f.conf, Inputs{Structure: f.structure}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.sdf")
}

func TestCreateSystemNeedsForceField(t *testing.T) {
	f := setup(t)
	f.conf.ForceField = nil
	_, err := CreateSystem(f.conf, Inputs{Structure: f.structure}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'force_field' section is required")
}

func TestMinimize(t *testing.T) {
	f := setup(t)
	bundleDir := filepath.Join(f.dir, "min")
	in := Inputs{Structure: f.structure, SystemXML: f.system}
	b, err := Minimize(f.conf, in, bundleDir)
	require.NoError(t, err)
	require.NoError(t, b.Write())

	sys, err := sysxml.Load(filepath.Join(bundleDir, SystemFile))
	require.NoError(t, err)
	// the restraint force is injected alongside the original one
	require.Len(t, sys.Forces(), 2)
	kind, _ := sys.Forces()[1].Attr("type")
	assert.Equal(t, "CustomExternalForce", kind)
}

func TestRun(t *testing.T) {
	f := setup(t)
	bundleDir := filepath.Join(f.dir, "run")
	in := Inputs{Structure: f.structure, SystemXML: f.system}
	out := Outputs{Trajectory: "traj.dcd", StateData: "data.csv"}
	b, err := Run(f.conf, in, out, bundleDir)
	require.NoError(t, err)
	require.NoError(t, b.Write())

	raw, err := os.ReadFile(filepath.Join(bundleDir, ManifestFile))
	require.NoError(t, err)
	var man Manifest
	require.NoError(t, yaml.Unmarshal(raw, &man))
	assert.Equal(t, StageRun, man.Stage)
	assert.Equal(t, 5000, man.NSteps)
	require.NotNil(t, man.Trajectory)
	assert.Equal(t, "traj.dcd", man.Trajectory.File)
	assert.Equal(t, 500, man.Trajectory.ReportInterval)
	require.NotNil(t, man.StateData)
	assert.True(t, man.StateData.Temperature)
	assert.Nil(t, man.Checkpoint)

	// thermostat, barostat and restraint join the original force
	sys, err := sysxml.Load(filepath.Join(bundleDir, SystemFile))
	require.NoError(t, err)
	assert.Len(t, sys.Forces(), 4)
	assert.FileExists(t, filepath.Join(bundleDir, IntegratorFile))
}

func TestRunValidation(t *testing.T) {
	f := setup(t)
	in := Inputs{Structure: f.structure, SystemXML: f.system}

	noRun := *f.conf
	noRun.Run = nil
	_, err := Run(&noRun, in, Outputs{}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'run' section with a positive 'n_steps'")

	// a trajectory file without its section is rejected
	noTraj := *f.conf
	noTraj.Trajectory = nil
	_, err = Run(&noTraj, in, Outputs{Trajectory: "out.dcd"}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'trajectory' section must be specified")

	_, err = Run(f.conf, Inputs{Structure: f.structure}, Outputs{}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialized system is required")

	bad := Inputs{Structure: f.structure, SystemXML: f.system, Restart: "old.dcd"}
	_, err = Run(f.conf, bad, Outputs{}, f.dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'.xml' or '.chk'")
}

func TestRunWithRestart(t *testing.T) {
	f := setup(t)
	restart := filepath.Join(f.dir, "prev.chk")
	require.NoError(t, os.WriteFile(restart, []byte("checkpoint"), 0o644))
	bundleDir := filepath.Join(f.dir, "restart-run")
	in := Inputs{Structure: f.structure, SystemXML: f.system, Restart: restart}
	b, err := Run(f.conf, in, Outputs{}, bundleDir)
	require.NoError(t, err)
	require.NoError(t, b.Write())
	assert.Equal(t, "prev.chk", b.Manifest.Restart)
	assert.FileExists(t, filepath.Join(bundleDir, "prev.chk"))
}
