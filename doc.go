/*
 * doc.go, part of openmmwrap.
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

// Package openmmwrap provides the structures shared by the rest of the
// library: atoms and topologies, multi-frame structures, PDB reading and
// writing, and the trajectory interfaces implemented by the packages under
// traj/.
//
// Configuration handling lives in the config package, the resolved
// simulation directives in sim, state-data post-processing in statedata,
// trajectory conversion in convert and the command line in cmd/openmmwrap.
//
// Coordinates are Nx3 gonum matrices, one row per atom. Units follow the
// file format at hand: PDB files are in angstroms, everything derived from
// the engine (state data, serialized systems) is in the engine's internal
// units (nm, ps, K, kJ/mol).
package openmmwrap
