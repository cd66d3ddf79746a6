/*
 * interfaces.go, part of openmmwrap.
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

import "gonum.org/v1/gonum/mat"

// Traj is the interface for anything one can read frames from, including a
// multi-model Structure.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output, or discards it if output is nil.
	//If box is given, its first element is filled with the box vectors of the
	//frame, when the frame carries them.
	Next(output *mat.Dense, box ...[]float64) error

	//Returns the number of atoms per frame.
	Len() int
}

// TrajWriter is the writing counterpart of Traj.
type TrajWriter interface {

	//WNext writes the next frame.
	WNext(coords *mat.Dense, box ...[]float64) error

	//Close flushes and closes the destination. The trajectory is not
	//guaranteed to be complete before Close returns.
	Close()
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom at index i. Panics if out of range.
	Atom(i int) *Atom

	Len() int
}

// Masser can return a slice with the masses of each atom in the reference.
type Masser interface {
	Masses() ([]float64, error)
}

// Error is the error interface all packages in this library implement. The
// Decorate method adds and retrieves information from the error without
// changing its type. Passed an empty string it only returns the current
// decoration.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError marks the harmless end-of-trajectory condition so it can be
// filtered in a type switch looking for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination()
}
