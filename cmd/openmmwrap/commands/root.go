/*
 * root.go, part of openmmwrap.
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

// Package commands holds the openmmwrap command-line interface.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Quantum-for-Life/openmmwrap/internal/log"
)

var (
	logFile    string
	logConsole bool
	verbosity  int
)

func Execute() error {
	root := &cobra.Command{
		Use:           "openmmwrap",
		Short:         "Set up, run and post-process molecular dynamics simulations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			switch {
			case verbosity == 1:
				level = "debug"
			case verbosity >= 2:
				level = "trace"
			}
			return log.Configure(log.Config{Level: level, Console: logConsole, File: logFile})
		},
	}

	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase the log verbosity, up to -vv")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	root.PersistentFlags().BoolVar(&logConsole, "log-console", true, "log to the console")

	root.AddCommand(createSystemCmd(), minimizeCmd(), runCmd(),
		convertCmd(), findFrameCmd(), plotStateDataCmd())
	return root.Execute()
}
