/*
 * find_frame.go, part of openmmwrap.
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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Quantum-for-Life/openmmwrap/internal/log"
	"github.com/Quantum-for-Life/openmmwrap/statedata"
)

func findFrameCmd() *cobra.Command {
	var input, output, method, separator string
	cmd := &cobra.Command{
		Use:   "find-frame",
		Short: "Find the report closest to a quantity's mean in a state-data file",
		Long: "Find the report closest to a quantity's mean in a state-data file.\n\n" +
			"Supported methods are: " + strings.Join(statedata.Methods(), ", ") + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			var comma rune
			if separator != "" {
				comma = rune(separator[0])
			}
			sd, err := statedata.Load(input, comma)
			if err != nil {
				return err
			}
			frame, err := statedata.FindFrame(sd, method)
			if err != nil {
				return err
			}
			logger := log.WithComponent("find-frame")
			logger.Info().
				Str("method", method).Int("frame", frame).Msg("frame selected")
			fmt.Printf("%d\n", frame)
			if output == "" {
				return nil
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := sd.WriteRow(f, frame); err != nil {
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "state-data file to search")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&method, "method", "m", "", "frame-selection method")
	cmd.MarkFlagRequired("method")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the selected report to this CSV file")
	cmd.Flags().StringVar(&separator, "separator", "", "state-data field separator (default ',')")
	return cmd
}
