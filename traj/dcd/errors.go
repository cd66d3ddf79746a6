/*
 * errors.go, part of openmmwrap.
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

package dcd

import (
	"fmt"

	"github.com/Quantum-for-Life/openmmwrap"
)

// Error is the concrete error type for the dcd package. It implements
// openmmwrap.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

// Decorate adds the given string to the decoration slice and returns the
// slice. An empty string only returns the current decoration.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "dcd" }

func (err Error) Critical() bool { return err.critical }

// error messages
const (
	TrajUnIni      = "Trajectory not initialized or closed"
	NotEnoughSpace = "Not enough space in passed blocks"
	WrongFormat    = "Wrong format in the DCD file"
	SecurityCheck  = "Failed security check"
	EOF            = "EOF"
)

// lastFrameError signals the normal end of the trajectory.
type lastFrameError struct {
	fileName string
	deco     []string
}

func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "dcd" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string) *lastFrameError {
	return &lastFrameError{fileName: filename}
}

// errDecorate decorates err with the caller's name, upgrading plain errors
// to the package's Error type when needed.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	errc, ok := err.(openmmwrap.Error)
	if ok {
		errc.Decorate(caller)
		return errc
	}
	return Error{err.Error(), "", []string{caller}, true}
}
