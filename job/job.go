/*
 * job.go, part of openmmwrap.
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

// Package job compiles simulation job bundles. A bundle is a directory
// holding everything an engine runner needs for one stage of the workflow:
// the structure, the serialized system with all configured forces already
// injected, the serialized integrator and a job.yaml manifest tying them
// together. Compiling a bundle validates the whole configuration, so a
// bundle that compiles will not fail the runner on bad input.
package job

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Quantum-for-Life/openmmwrap"
	"github.com/Quantum-for-Life/openmmwrap/config"
	"github.com/Quantum-for-Life/openmmwrap/internal/log"
	"github.com/Quantum-for-Life/openmmwrap/sim"
	"github.com/Quantum-for-Life/openmmwrap/sysxml"
)

// file names inside a bundle directory
const (
	ManifestFile   = "job.yaml"
	SystemFile     = "system.xml"
	IntegratorFile = "integrator.xml"
	StructureFile  = "structure.pdb"
)

// workflow stages
const (
	StageCreateSystem = "create-system"
	StageMinimize     = "minimize"
	StageRun          = "run"
)

// Inputs are the files a stage starts from.
type Inputs struct {
	Structure string //PDB with the topology and starting coordinates
	SystemXML string //serialized system, needed by minimize and run
	Restart   string //state or checkpoint to resume a run from
}

// Outputs are the report files a run writes. Empty names disable the
// corresponding reporter.
type Outputs struct {
	Trajectory string
	StateData  string
	Checkpoint string
}

// Manifest is the job.yaml document of a bundle. File references are
// relative to the bundle directory.
type Manifest struct {
	Stage      string `yaml:"stage"`
	Structure  string `yaml:"structure"`
	System     string `yaml:"system,omitempty"`
	Integrator string `yaml:"integrator,omitempty"`
	NSteps     int    `yaml:"n_steps,omitempty"`
	Restart    string `yaml:"restart,omitempty"`

	Trajectory *sim.TrajectoryReporter `yaml:"trajectory,omitempty"`
	StateData  *sim.StateDataReporter  `yaml:"state_data,omitempty"`
	Checkpoint *sim.CheckpointReporter `yaml:"checkpoint,omitempty"`

	ForceField    *config.ForceField `yaml:"force_field,omitempty"`
	Generator     string             `yaml:"generator,omitempty"`
	Solvation     config.Options     `yaml:"solvation,omitempty"`
	SystemOptions config.Options     `yaml:"system_options,omitempty"`
	Minimization  config.Options     `yaml:"minimization,omitempty"`
}

// Bundle is a compiled, not yet written, job bundle.
type Bundle struct {
	Dir      string
	Manifest *Manifest

	structure  string //source path of the structure, copied on Write
	restart    string //source path of the restart file, copied on Write
	system     *sysxml.System
	integrator []byte
}

// CreateSystem compiles a system-creation bundle. The runner parametrizes
// the structure with the configured force fields, solvates it if asked to,
// and writes the serialized system.
func CreateSystem(conf *config.Config, in Inputs, dir string) (*Bundle, error) {
	if in.Structure == "" {
		return nil, fmt.Errorf("a structure file is required to create a system")
	}
	ff := conf.ForceField
	if ff == nil {
		return nil, fmt.Errorf("a 'force_field' section is required to create a system")
	}
	if len(ff.Fixed) == 0 && ff.Param == "" {
		return nil, fmt.Errorf("the 'force_field' section must name at least one " +
			"'fixed' force field or a 'param' one")
	}
	if ff.Param != "" && len(ff.Molecules) == 0 {
		return nil, fmt.Errorf("a 'param' force field needs the 'molecules' it parametrizes")
	}
	if _, err := openmmwrap.ReadPDBFile(in.Structure); err != nil {
		return nil, fmt.Errorf("the structure is not a readable PDB file: %w", err)
	}
	for _, m := range ff.Molecules {
		if _, err := os.Stat(m); err != nil {
			return nil, fmt.Errorf("the molecule file '%s' is not readable: %w", m, err)
		}
	}
	man := &Manifest{
		Stage:         StageCreateSystem,
		Structure:     StructureFile,
		ForceField:    ff,
		Solvation:     conf.Solvation,
		SystemOptions: conf.System,
	}
	if ff.Param != "" {
		// gaff-* force fields go through the GAFF template generator,
		// everything else through SMIRNOFF
		man.Generator = "smirnoff"
		if strings.HasPrefix(ff.Param, "gaff-") {
			man.Generator = "gaff"
		}
	}
	return &Bundle{Dir: dir, Manifest: man, structure: in.Structure}, nil
}

// Minimize compiles an energy-minimization bundle. Restraints from the
// configuration are injected into the system before it is bundled.
func Minimize(conf *config.Config, in Inputs, dir string) (*Bundle, error) {
	sys, err := loadSystem(in)
	if err != nil {
		return nil, err
	}
	if err := applyRestraints(sys, conf, in.Structure); err != nil {
		return nil, err
	}
	man := &Manifest{
		Stage:        StageMinimize,
		Structure:    StructureFile,
		System:       SystemFile,
		Minimization: conf.Minimization,
	}
	return &Bundle{Dir: dir, Manifest: man, structure: in.Structure, system: sys}, nil
}

// Run compiles a production-run bundle: the system with thermostat,
// barostat and restraint forces injected, the serialized integrator and
// the reporter plan.
func Run(conf *config.Config, in Inputs, out Outputs, dir string) (*Bundle, error) {
	if conf.Run == nil || conf.Run.NSteps <= 0 {
		return nil, fmt.Errorf("a 'run' section with a positive 'n_steps' is required")
	}
	if conf.Integrator == nil {
		return nil, fmt.Errorf("an 'integrator' section is required to run")
	}
	integ, err := sim.NewIntegrator(conf.Integrator)
	if err != nil {
		return nil, err
	}
	sys, err := loadSystem(in)
	if err != nil {
		return nil, err
	}
	if conf.Thermostat != nil {
		th, err := sim.NewThermostat(conf.Thermostat)
		if err != nil {
			return nil, err
		}
		if err := sys.AddThermostat(th); err != nil {
			return nil, err
		}
	}
	if conf.Barostat != nil {
		b, err := sim.NewBarostat(conf.Barostat)
		if err != nil {
			return nil, err
		}
		if err := sys.AddBarostat(b); err != nil {
			return nil, err
		}
	}
	if err := applyRestraints(sys, conf, in.Structure); err != nil {
		return nil, err
	}
	man := &Manifest{
		Stage:      StageRun,
		Structure:  StructureFile,
		System:     SystemFile,
		Integrator: IntegratorFile,
		NSteps:     conf.Run.NSteps,
	}
	if man.Trajectory, err = sim.NewTrajectoryReporter(out.Trajectory, conf.Trajectory); err != nil {
		return nil, err
	}
	if man.StateData, err = sim.NewStateDataReporter(out.StateData, conf.StateData); err != nil {
		return nil, err
	}
	if man.Checkpoint, err = sim.NewCheckpointReporter(out.Checkpoint, conf.Checkpoint); err != nil {
		return nil, err
	}
	if in.Restart != "" {
		if err := sim.ValidRestartFile(in.Restart); err != nil {
			return nil, err
		}
		man.Restart = filepath.Base(in.Restart)
	}
	raw, err := sysxml.MarshalIntegrator(integ)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Dir:        dir,
		Manifest:   man,
		structure:  in.Structure,
		restart:    in.Restart,
		system:     sys,
		integrator: raw,
	}, nil
}

func loadSystem(in Inputs) (*sysxml.System, error) {
	if in.Structure == "" {
		return nil, fmt.Errorf("a structure file is required")
	}
	if in.SystemXML == "" {
		return nil, fmt.Errorf("a serialized system is required. Create one " +
			"with the create-system stage first")
	}
	return sysxml.Load(in.SystemXML)
}

// applyRestraints injects the configured restraint forces into the system,
// anchored at the structure's first-frame coordinates.
func applyRestraints(sys *sysxml.System, conf *config.Config, structure string) error {
	if len(conf.Restraints) == 0 {
		return nil
	}
	restraints, err := sim.NewRestraints(conf.Restraints)
	if err != nil {
		return err
	}
	mol, err := openmmwrap.ReadPDBFile(structure)
	if err != nil {
		return err
	}
	ref, err := mol.Coords(0)
	if err != nil {
		return err
	}
	for _, r := range restraints {
		if err := sys.AddRestraint(r, ref); err != nil {
			return err
		}
	}
	return nil
}

// Write materializes the bundle on disk.
func (b *Bundle) Write() error {
	logger := log.WithComponent("job")
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("creating the bundle directory: %w", err)
	}
	if err := copyFile(b.structure, filepath.Join(b.Dir, StructureFile)); err != nil {
		return err
	}
	if b.restart != "" {
		if err := copyFile(b.restart, filepath.Join(b.Dir, b.Manifest.Restart)); err != nil {
			return err
		}
	}
	if b.system != nil {
		if err := b.system.Save(filepath.Join(b.Dir, SystemFile)); err != nil {
			return err
		}
	}
	if b.integrator != nil {
		if err := os.WriteFile(filepath.Join(b.Dir, IntegratorFile), b.integrator, 0o644); err != nil {
			return fmt.Errorf("writing the integrator: %w", err)
		}
	}
	raw, err := yaml.Marshal(b.Manifest)
	if err != nil {
		return fmt.Errorf("marshaling the manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.Dir, ManifestFile), raw, 0o644); err != nil {
		return fmt.Errorf("writing the manifest: %w", err)
	}
	logger.Info().Str("stage", b.Manifest.Stage).Str("dir", b.Dir).Msg("job bundle written")
	return nil
}

// Execute hands the written bundle to an external engine runner, passing
// the bundle directory as its only argument.
func (b *Bundle) Execute(ctx context.Context, runner string) error {
	logger := log.WithComponent("job")
	logger.Info().Str("runner", runner).Str("dir", b.Dir).Msg("invoking the engine runner")
	cmd := exec.CommandContext(ctx, runner, b.Dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("the engine runner failed: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
