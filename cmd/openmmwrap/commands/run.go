/*
 * run.go, part of openmmwrap.
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

package commands

import (
	"github.com/spf13/cobra"

	"github.com/Quantum-for-Life/openmmwrap/config"
	"github.com/Quantum-for-Life/openmmwrap/job"
)

func runCmd() *cobra.Command {
	var confPath, structure, system, restart, dir, runner string
	var out job.Outputs
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile a production-run job with its reporters",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(confPath)
			if err != nil {
				return err
			}
			in := job.Inputs{Structure: structure, SystemXML: system, Restart: restart}
			b, err := job.Run(conf, in, out, dir)
			if err != nil {
				return err
			}
			if err := b.Write(); err != nil {
				return err
			}
			if runner != "" {
				return b.Execute(cmd.Context(), runner)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&confPath, "config", "c", "", "workflow configuration file")
	cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&structure, "structure", "s", "", "input PDB structure")
	cmd.MarkFlagRequired("structure")
	cmd.Flags().StringVarP(&system, "system", "x", "", "serialized system XML")
	cmd.MarkFlagRequired("system")
	cmd.Flags().StringVar(&restart, "restart", "", "state (.xml) or checkpoint (.chk) file to resume from")
	cmd.Flags().StringVarP(&dir, "output-dir", "d", "run", "directory to write the job bundle to")
	cmd.Flags().StringVar(&out.Trajectory, "trajectory", "", "trajectory file to report to")
	cmd.Flags().StringVar(&out.StateData, "state-data", "", "state-data file to report to")
	cmd.Flags().StringVar(&out.Checkpoint, "checkpoint", "", "checkpoint file to report to")
	cmd.Flags().StringVar(&runner, "runner", "", "engine runner to invoke on the written bundle")
	return cmd
}
