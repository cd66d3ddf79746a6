/*
 * atoms.go, part of openmmwrap.
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

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Atom is one atom of a topology. The zero value is usable; fields not
// present in the source file stay at their zero value.
type Atom struct {
	Name      string  //PDB atom name, e.g. "CA"
	ID        int     //PDB serial number
	Molname   string  //residue name, e.g. "ALA"
	MolID     int     //residue number
	Chain     string  //chain identifier
	Occupancy float64
	Bfactor   float64
	Symbol    string //element symbol, possibly guessed from Name
	Mass      float64
	Het       bool //read from a HETATM record
}

// Copy returns a new Atom with the same contents as A.
func (A *Atom) Copy() *Atom {
	c := *A
	return &c
}

// Structure is a topology plus zero or more coordinate frames. It
// implements Atomer, Masser and Traj.
type Structure struct {
	atoms  []*Atom
	coords []*mat.Dense
	boxes  [][]float64 //one box (or nil) per frame
	// current reading position for the Traj implementation
	next int
}

// NewStructure builds a Structure from atoms and frames. The boxes argument
// may be nil, or carry one box per frame.
func NewStructure(atoms []*Atom, coords []*mat.Dense, boxes [][]float64) (*Structure, error) {
	for i, c := range coords {
		if c == nil {
			return nil, fmt.Errorf("openmmwrap.NewStructure: nil coordinates for frame %d", i)
		}
		r, cols := c.Dims()
		if cols != 3 || r != len(atoms) {
			return nil, fmt.Errorf("openmmwrap.NewStructure: frame %d is %dx%d, want %dx3", i, r, cols, len(atoms))
		}
	}
	if boxes != nil && len(boxes) != len(coords) {
		return nil, fmt.Errorf("openmmwrap.NewStructure: %d boxes for %d frames", len(boxes), len(coords))
	}
	return &Structure{atoms: atoms, coords: coords, boxes: boxes}, nil
}

// Atom returns the atom at index i. Panics if out of range, as this is a
// fundamental accessor.
func (S *Structure) Atom(i int) *Atom {
	return S.atoms[i]
}

// Len returns the number of atoms in the topology.
func (S *Structure) Len() int {
	return len(S.atoms)
}

// NFrames returns the number of coordinate frames.
func (S *Structure) NFrames() int {
	return len(S.coords)
}

// Coords returns the coordinates of frame i, or an error if out of range.
func (S *Structure) Coords(i int) (*mat.Dense, error) {
	if i < 0 || i >= len(S.coords) {
		return nil, fmt.Errorf("openmmwrap.Coords: no frame %d in a %d-frame structure", i, len(S.coords))
	}
	return S.coords[i], nil
}

// Box returns the box vectors of frame i, or nil if the frame has none.
func (S *Structure) Box(i int) []float64 {
	if S.boxes == nil || i < 0 || i >= len(S.boxes) {
		return nil
	}
	return S.boxes[i]
}

// AddFrame appends a coordinate frame with an optional box.
func (S *Structure) AddFrame(coords *mat.Dense, box []float64) error {
	r, c := coords.Dims()
	if c != 3 || r != len(S.atoms) {
		return fmt.Errorf("openmmwrap.AddFrame: frame is %dx%d, want %dx3", r, c, len(S.atoms))
	}
	S.coords = append(S.coords, coords)
	if box != nil && S.boxes == nil {
		S.boxes = make([][]float64, len(S.coords)-1)
	}
	if S.boxes != nil {
		S.boxes = append(S.boxes, box)
	}
	return nil
}

// SomeAtoms returns a new Structure restricted to the atoms whose indexes
// are given, in the given order. Coordinate frames are restricted too.
func (S *Structure) SomeAtoms(indexes []int) (*Structure, error) {
	atoms := make([]*Atom, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(S.atoms) {
			return nil, fmt.Errorf("openmmwrap.SomeAtoms: index %d out of range (%d atoms)", i, len(S.atoms))
		}
		atoms = append(atoms, S.atoms[i].Copy())
	}
	coords := make([]*mat.Dense, 0, len(S.coords))
	for _, frame := range S.coords {
		sub := mat.NewDense(len(indexes), 3, nil)
		for j, i := range indexes {
			sub.SetRow(j, frame.RawRowView(i))
		}
		coords = append(coords, sub)
	}
	var boxes [][]float64
	if S.boxes != nil {
		boxes = append(boxes, S.boxes...)
	}
	return &Structure{atoms: atoms, coords: coords, boxes: boxes}, nil
}

// Masses returns the masses of all atoms. Atoms with no mass assigned get
// it looked up from their symbol. An atom with no symbol either is an error.
func (S *Structure) Masses() ([]float64, error) {
	masses := make([]float64, len(S.atoms))
	for i, at := range S.atoms {
		m := at.Mass
		if m == 0 {
			m = symbolMass[at.Symbol]
		}
		if m == 0 {
			return nil, fmt.Errorf("openmmwrap.Masses: no mass for atom %d (%s, symbol %q)", i, at.Name, at.Symbol)
		}
		masses[i] = m
	}
	return masses, nil
}

// Readable is part of the Traj implementation.
func (S *Structure) Readable() bool {
	return S.next < len(S.coords)
}

// Next is part of the Traj implementation. It copies the next frame into
// output (skipping it if output is nil) and fills box if given.
func (S *Structure) Next(output *mat.Dense, box ...[]float64) error {
	if S.next >= len(S.coords) {
		return newlastFrameError("", "structure")
	}
	frame := S.coords[S.next]
	fbox := S.Box(S.next)
	S.next++
	if output != nil {
		output.Copy(frame)
	}
	if len(box) > 0 && box[0] != nil && fbox != nil {
		copy(box[0], fbox)
	}
	return nil
}

// Rewind resets the Traj reading position to the first frame.
func (S *Structure) Rewind() {
	S.next = 0
}

// symbolMass holds atomic masses (g/mol) for the elements seen in
// biomolecular systems. Extend as needed.
var symbolMass = map[string]float64{
	"H": 1.008, "C": 12.011, "N": 14.007, "O": 15.999, "P": 30.974,
	"S": 32.06, "F": 18.998, "CL": 35.45, "BR": 79.904, "I": 126.904,
	"NA": 22.990, "K": 39.098, "MG": 24.305, "CA": 40.078, "FE": 55.845,
	"ZN": 65.38, "MN": 54.938, "CU": 63.546,
}

// twoLetterSymbols lists the two-letter element symbols that show up in
// atom names, so "CL1" resolves to chlorine and not carbon.
var twoLetterSymbols = map[string]bool{
	"CL": true, "BR": true, "NA": true, "MG": true, "FE": true,
	"ZN": true, "MN": true, "CU": true, "CA": false, //CA is almost always an alpha carbon
}

// SymbolFromName guesses an element symbol from a PDB atom name. The guess
// follows the usual conventions: digits are ignored, and a two-letter
// symbol is taken only when unambiguous.
func SymbolFromName(name string) string {
	letters := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(name)))
	if letters == "" {
		return ""
	}
	if len(letters) >= 2 && twoLetterSymbols[letters[:2]] {
		return letters[:2]
	}
	return letters[:1]
}
