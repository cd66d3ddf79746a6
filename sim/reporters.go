/*
 * reporters.go, part of openmmwrap.
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
	"path/filepath"

	"github.com/Quantum-for-Life/openmmwrap/config"
)

// TrajectoryReporter configures periodic trajectory output.
type TrajectoryReporter struct {
	File           string `yaml:"file"`
	ReportInterval int    `yaml:"report_interval"`
	AtomSubset     []int  `yaml:"atom_subset,omitempty"`
	Append         bool   `yaml:"append,omitempty"`
}

// StateDataReporter configures periodic state-data output. The boolean
// fields toggle individual columns.
type StateDataReporter struct {
	File           string `yaml:"file"`
	ReportInterval int    `yaml:"report_interval"`

	Step            bool `yaml:"step,omitempty"`
	Time            bool `yaml:"time,omitempty"`
	PotentialEnergy bool `yaml:"potential_energy,omitempty"`
	KineticEnergy   bool `yaml:"kinetic_energy,omitempty"`
	TotalEnergy     bool `yaml:"total_energy,omitempty"`
	Temperature     bool `yaml:"temperature,omitempty"`
	Volume          bool `yaml:"volume,omitempty"`
	Density         bool `yaml:"density,omitempty"`
	Progress        bool `yaml:"progress,omitempty"`
	RemainingTime   bool `yaml:"remaining_time,omitempty"`
	Speed           bool `yaml:"speed,omitempty"`
	ElapsedTime     bool `yaml:"elapsed_time,omitempty"`

	TotalSteps int    `yaml:"total_steps,omitempty"`
	Separator  string `yaml:"separator,omitempty"`
	Append     bool   `yaml:"append,omitempty"`
}

// CheckpointReporter configures periodic checkpointing. WriteState is
// decided by the file's extension: a '.xml' checkpoint holds the portable
// serialized state, a '.chk' one the platform-dependent binary form.
type CheckpointReporter struct {
	File           string `yaml:"file"`
	ReportInterval int    `yaml:"report_interval"`
	WriteState     bool   `yaml:"write_state"`
}

func reqInterval(o config.Options, what string) (int, error) {
	v, ok, err := o.Int("reportInterval", false, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if !ok {
		return 0, fmt.Errorf("'reportInterval' must be defined for the %s reporter", what)
	}
	if v <= 0 {
		return 0, fmt.Errorf("'reportInterval' for the %s reporter must be positive, got %d", what, v)
	}
	return v, nil
}

// NewTrajectoryReporter resolves the trajectory section for the given
// output file. A file with no options, or options with no file, is an
// error, as one is useless without the other.
func NewTrajectoryReporter(file string, opts config.Options) (*TrajectoryReporter, error) {
	if file == "" {
		return nil, nil
	}
	if opts == nil {
		return nil, fmt.Errorf("if a trajectory file is specified, the " +
			"'trajectory' section must be specified, too")
	}
	rep := &TrajectoryReporter{File: file}
	var err error
	if rep.ReportInterval, err = reqInterval(opts, "trajectory"); err != nil {
		return nil, err
	}
	if rep.AtomSubset, _, err = opts.Ints("atomSubset", false); err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	if rep.Append, _, err = opts.Bool("append", false, false); err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	return rep, nil
}

// NewStateDataReporter resolves the state_data section for the given
// output file.
func NewStateDataReporter(file string, opts config.Options) (*StateDataReporter, error) {
	if file == "" {
		return nil, nil
	}
	if opts == nil {
		return nil, fmt.Errorf("if a state-data file is specified, the " +
			"'state_data' section must be specified, too")
	}
	rep := &StateDataReporter{File: file}
	var err error
	if rep.ReportInterval, err = reqInterval(opts, "state data"); err != nil {
		return nil, err
	}
	for key, dst := range map[string]*bool{
		"step":            &rep.Step,
		"time":            &rep.Time,
		"potentialEnergy": &rep.PotentialEnergy,
		"kineticEnergy":   &rep.KineticEnergy,
		"totalEnergy":     &rep.TotalEnergy,
		"temperature":     &rep.Temperature,
		"volume":          &rep.Volume,
		"density":         &rep.Density,
		"progress":        &rep.Progress,
		"remainingTime":   &rep.RemainingTime,
		"speed":           &rep.Speed,
		"elapsedTime":     &rep.ElapsedTime,
		"append":          &rep.Append,
	} {
		if *dst, _, err = opts.Bool(key, false, false); err != nil {
			return nil, fmt.Errorf("state data: %w", err)
		}
	}
	if rep.TotalSteps, _, err = opts.Int("totalSteps", false, 0); err != nil {
		return nil, fmt.Errorf("state data: %w", err)
	}
	if rep.Separator, _, err = opts.String("separator", false, ","); err != nil {
		return nil, fmt.Errorf("state data: %w", err)
	}
	if (rep.Progress || rep.RemainingTime) && rep.TotalSteps == 0 {
		return nil, fmt.Errorf("state data: 'totalSteps' must be set when " +
			"'progress' or 'remainingTime' is reported")
	}
	return rep, nil
}

// NewCheckpointReporter resolves the checkpoint section for the given
// output file, dispatching on the file's extension.
func NewCheckpointReporter(file string, opts config.Options) (*CheckpointReporter, error) {
	if file == "" {
		return nil, nil
	}
	if opts == nil {
		return nil, fmt.Errorf("if a checkpoint file is specified, the " +
			"'checkpoint' section must be specified, too")
	}
	rep := &CheckpointReporter{File: file}
	var err error
	if rep.ReportInterval, err = reqInterval(opts, "checkpoint"); err != nil {
		return nil, err
	}
	switch filepath.Ext(file) {
	case ".xml":
		rep.WriteState = true
	case ".chk":
		rep.WriteState = false
	default:
		return nil, fmt.Errorf("invalid '%s' format for the checkpoint file "+
			"'%s'. Supported formats are: '.xml' and '.chk'", filepath.Ext(file), file)
	}
	return rep, nil
}

// ValidRestartFile checks the extension of a restart source. Both the
// portable state and the binary checkpoint forms are accepted.
func ValidRestartFile(file string) error {
	switch filepath.Ext(file) {
	case ".xml", ".chk":
		return nil
	}
	return fmt.Errorf("only files with '.xml' or '.chk' extension are " +
		"supported as checkpoint files")
}
