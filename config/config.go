/*
 * config.go, part of openmmwrap.
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

// Package config loads and validates the YAML configuration documents
// driving a simulation workflow: which integrator, thermostat and barostat
// to use, how long to run, what to report and how to build the system.
//
// Sections with an engine namespace (integrator, thermostat, barostat and
// each restraint) carry a name, the engine they come from (is_from) and a
// free-form options mapping. Typed access to the options, with required
// flags and defaults, goes through the Options type.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Component is a named engine entity: an integrator, a thermostat or a
// barostat, together with its origin and options.
type Component struct {
	Name    string  `yaml:"name"`
	IsFrom  string  `yaml:"is_from"`
	Options Options `yaml:"options"`
}

// Restraint is one entry of the restraints section, keyed by a user-chosen
// name in the configuration file.
type Restraint struct {
	Type    string  `yaml:"restraint_type"`
	Options Options `yaml:"restraint_options"`
}

// Run holds the running options.
type Run struct {
	NSteps int `yaml:"n_steps"`
}

// ForceField selects the force fields for system creation: XML files for
// the fixed part of the system and a parametrizable force field (plus the
// molecule files it parametrizes) for the rest.
type ForceField struct {
	Fixed     []string `yaml:"fixed"`
	Param     string   `yaml:"param"`
	Molecules []string `yaml:"molecules"`
}

// Config is a loaded workflow configuration. Sections absent from the file
// stay nil.
type Config struct {
	Integrator   *Component            `yaml:"integrator"`
	Thermostat   *Component            `yaml:"thermostat"`
	Barostat     *Component            `yaml:"barostat"`
	Run          *Run                  `yaml:"run"`
	Restraints   map[string]*Restraint `yaml:"restraints"`
	Trajectory   Options               `yaml:"trajectory"`
	StateData    Options               `yaml:"state_data"`
	Checkpoint   Options               `yaml:"checkpoint"`
	ForceField   *ForceField           `yaml:"force_field"`
	Solvation    Options               `yaml:"solvation"`
	System       Options               `yaml:"system"`
	Minimization Options               `yaml:"minimization"`
}

// nonbondedMethods and constraintOptions are the values accepted for the
// corresponding keys of the system section. They mirror the names exposed
// by the engine's force-field module.
var nonbondedMethods = []string{
	"NoCutoff", "CutoffNonPeriodic", "CutoffPeriodic", "Ewald", "PME", "LJPME",
}

var constraintOptions = []string{
	"None", "HBonds", "AllBonds", "HAngles",
}

// water models accepted by the solvation section.
var waterModels = []string{
	"tip3p", "tip3pfb", "tip4pew", "tip4pfb", "tip5p", "spce", "swm4ndp",
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for i, l := range list {
		quoted[i] = "'" + l + "'"
	}
	return strings.Join(quoted, ", ")
}

// normalizeSystem validates the enumerated options of the system section.
func normalizeSystem(opts Options) error {
	if m, ok, err := opts.String("nonbondedMethod", false, ""); err != nil {
		return err
	} else if ok && !contains(nonbondedMethods, m) {
		return fmt.Errorf("invalid 'nonbondedMethod' '%s'. Supported methods are: %s",
			m, quoteList(nonbondedMethods))
	}
	if c, ok, err := opts.String("constraints", false, ""); err != nil {
		return err
	} else if ok && !contains(constraintOptions, c) {
		return fmt.Errorf("invalid 'constraints' '%s'. Supported values are: %s",
			c, quoteList(constraintOptions))
	}
	if _, _, err := opts.Float("nonbondedCutoff", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Float("ewaldErrorTolerance", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Float("hydrogenMass", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Bool("rigidWater", false, true); err != nil {
		return err
	}
	if _, _, err := opts.Bool("removeCMMotion", false, true); err != nil {
		return err
	}
	return nil
}

// normalizeSolvation validates the solvation section.
func normalizeSolvation(opts Options) error {
	if m, ok, err := opts.String("model", false, ""); err != nil {
		return err
	} else if ok && !contains(waterModels, m) {
		return fmt.Errorf("invalid water 'model' '%s'. Supported models are: %s",
			m, quoteList(waterModels))
	}
	// padding is in nm, ionicStrength in molar
	if _, _, err := opts.Float("padding", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Float("ionicStrength", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Bool("neutralize", false, true); err != nil {
		return err
	}
	return nil
}

// normalizeMinimization validates the minimization section. tolerance is in
// kJ/mol/nm.
func normalizeMinimization(opts Options) error {
	if _, _, err := opts.Float("tolerance", false, 0); err != nil {
		return err
	}
	if _, _, err := opts.Int("maxIterations", false, 0); err != nil {
		return err
	}
	return nil
}

// Load reads a workflow configuration from a YAML file and validates the
// sections that carry enumerated or unit-bearing values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	conf := new(Config)
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("parsing configuration '%s': %w", path, err)
	}
	if conf.System != nil {
		if err := normalizeSystem(conf.System); err != nil {
			return nil, fmt.Errorf("section 'system': %w", err)
		}
	}
	if conf.Solvation != nil {
		if err := normalizeSolvation(conf.Solvation); err != nil {
			return nil, fmt.Errorf("section 'solvation': %w", err)
		}
	}
	if conf.Minimization != nil {
		if err := normalizeMinimization(conf.Minimization); err != nil {
			return nil, fmt.Errorf("section 'minimization': %w", err)
		}
	}
	return conf, nil
}
