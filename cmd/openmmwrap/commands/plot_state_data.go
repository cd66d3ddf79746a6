/*
 * plot_state_data.go, part of openmmwrap.
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
	"github.com/Quantum-for-Life/openmmwrap/internal/log"
	"github.com/Quantum-for-Life/openmmwrap/mdplot"
	"github.com/Quantum-for-Life/openmmwrap/statedata"
)

func plotStateDataCmd() *cobra.Command {
	var confPath, input, dir, format, separator string
	cmd := &cobra.Command{
		Use:   "plot-state-data",
		Short: "Plot quantities from a state-data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadPlot(confPath)
			if err != nil {
				return err
			}
			var comma rune
			if separator != "" {
				comma = rune(separator[0])
			}
			sd, err := statedata.Load(input, comma)
			if err != nil {
				return err
			}
			written, err := mdplot.Render(conf, sd, dir, format)
			logger := log.WithComponent("plot")
			for _, path := range written {
				logger.Info().Str("file", path).Msg("plot written")
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&confPath, "config", "c", "", "plotting configuration file")
	cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&input, "input", "i", "", "state-data file to plot from")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&dir, "output-dir", "d", ".", "directory to write the plots to")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "plot format (png, svg or pdf)")
	cmd.Flags().StringVar(&separator, "separator", "", "state-data field separator (default ',')")
	return cmd
}
