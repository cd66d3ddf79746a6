/*
 * convert.go, part of openmmwrap.
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

	"github.com/Quantum-for-Life/openmmwrap/convert"
	"github.com/Quantum-for-Life/openmmwrap/internal/log"
)

func convertCmd() *cobra.Command {
	var topology, input, output string
	var opt convert.Options
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a trajectory, restricting atoms and frames on the way",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := convert.Convert(topology, input, output, opt); err != nil {
				return err
			}
			logger := log.WithComponent("convert")
			logger.Info().
				Str("input", input).Str("output", output).Msg("trajectory converted")
			return nil
		},
	}
	cmd.Flags().StringVarP(&topology, "topology", "t", "", "PDB topology of the trajectory")
	cmd.MarkFlagRequired("topology")
	cmd.Flags().StringVarP(&input, "input", "i", "", "input trajectory (dcd or pdb)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output trajectory (dcd or pdb)")
	cmd.MarkFlagRequired("output")
	cmd.Flags().StringVar(&opt.Selection, "selection", "all", "atom selection to keep")
	cmd.Flags().IntVar(&opt.Start, "start", 0, "first frame to keep, zero-based")
	cmd.Flags().IntVar(&opt.End, "end", 0, "last frame to keep, inclusive (0 keeps to the end)")
	cmd.Flags().IntVar(&opt.Stride, "stride", 1, "keep every Nth frame")
	cmd.Flags().IntSliceVar(&opt.Frames, "frames", nil, "explicit frames to keep, overriding start/end/stride")
	cmd.Flags().BoolVar(&opt.Center, "center", false, "translate the selection's centroid to the box center")
	return cmd
}
