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

package openmmwrap

import "strings"

// CError is the concrete error for this package. It implements Error.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

func (err CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// NewError builds a CError decorated with the name of the calling function.
func NewError(msg, caller string) *CError {
	err := &CError{msg: msg}
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err
}

// lastFrameError signals a normal end of trajectory when reading frames
// from an in-memory Structure.
type lastFrameError struct {
	fileName string
	format   string
	deco     []string
}

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Format() string { return E.format }

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename, format string) *lastFrameError {
	return &lastFrameError{fileName: filename, format: format}
}

// errDecorate decorates err with the caller's name, upgrading plain errors
// to the package's Error type when needed.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	errc, ok := err.(Error)
	if ok {
		errc.Decorate(caller)
		return errc
	}
	return NewError(err.Error(), caller)
}

// EndOfTrajectory reports whether err only signals that a trajectory has no
// more frames to read.
func EndOfTrajectory(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(LastFrameError)
	if ok {
		return true
	}
	// some readers wrap the condition in a plain error
	return strings.Contains(err.Error(), "EOF")
}
