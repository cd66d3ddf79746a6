/*
 * pdb_test.go, part of openmmwrap.
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
	"bytes"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const testPDB = `CRYST1   30.000   31.000   32.000  90.00  90.00  90.00 P 1           1
MODEL        1
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
HETATM    3  O   HOH B   2      10.000   5.000  -4.000  1.00  0.00           O
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1      12.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      12.639   6.071  -5.147  1.00  0.00           C
HETATM    3  O   HOH B   2      11.000   5.000  -4.000  1.00  0.00           O
ENDMDL
END
`

func TestReadPDB(Te *testing.T) {
	mol, err := ReadPDB(strings.NewReader(testPDB))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 3 {
		Te.Errorf("read %d atoms, want 3", mol.Len())
	}
	if mol.NFrames() != 2 {
		Te.Errorf("read %d frames, want 2", mol.NFrames())
	}
	at := mol.Atom(1)
	if at.Name != "CA" || at.Molname != "ALA" || at.Chain != "A" || at.Symbol != "C" {
		Te.Errorf("wrong second atom: %+v", at)
	}
	if !mol.Atom(2).Het {
		Te.Errorf("the water oxygen should come from a HETATM record")
	}
	box := mol.Box(1)
	if box == nil || box[1] != 31.0 || box[5] != 90.0 {
		Te.Errorf("wrong box: %v", box)
	}
	coords, err := mol.Coords(1)
	if err != nil {
		Te.Fatal(err)
	}
	if coords.At(0, 0) != 12.104 {
		Te.Errorf("wrong second-frame coordinates: %v", coords.At(0, 0))
	}
}

func TestWritePDBRoundTrip(Te *testing.T) {
	mol, err := ReadPDB(strings.NewReader(testPDB))
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WritePDB(&buf, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := ReadPDB(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() || mol2.NFrames() != mol.NFrames() {
		Te.Fatalf("round trip changed the sizes: %d/%d atoms, %d/%d frames",
			mol2.Len(), mol.Len(), mol2.NFrames(), mol.NFrames())
	}
	for j := 0; j < mol.NFrames(); j++ {
		c1, _ := mol.Coords(j)
		c2, _ := mol2.Coords(j)
		for i := 0; i < mol.Len(); i++ {
			for k := 0; k < 3; k++ {
				if math.Abs(c1.At(i, k)-c2.At(i, k)) > 1e-3 {
					Te.Errorf("frame %d atom %d: %v != %v", j, i, c1.At(i, k), c2.At(i, k))
				}
			}
		}
	}
	for i := 0; i < mol.Len(); i++ {
		if mol.Atom(i).Name != mol2.Atom(i).Name {
			Te.Errorf("atom %d name changed: %s != %s", i, mol.Atom(i).Name, mol2.Atom(i).Name)
		}
	}
}

func TestStructureTraj(Te *testing.T) {
	mol, err := ReadPDB(strings.NewReader(testPDB))
	if err != nil {
		Te.Fatal(err)
	}
	out := mat.NewDense(mol.Len(), 3, nil)
	box := make([]float64, 6)
	frames := 0
	for {
		err := mol.Next(out, box)
		if err != nil {
			if !EndOfTrajectory(err) {
				Te.Fatal(err)
			}
			break
		}
		frames++
	}
	if frames != 2 {
		Te.Errorf("read %d frames through the Traj interface, want 2", frames)
	}
	if box[2] != 32.0 {
		Te.Errorf("box not filled while reading: %v", box)
	}
	if mol.Readable() {
		Te.Errorf("a fully read structure should not be Readable")
	}
	mol.Rewind()
	if !mol.Readable() {
		Te.Errorf("a rewound structure should be Readable again")
	}
}

func TestSomeAtomsAndMasses(Te *testing.T) {
	mol, err := ReadPDB(strings.NewReader(testPDB))
	if err != nil {
		Te.Fatal(err)
	}
	sub, err := mol.SomeAtoms([]int{2, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if sub.Len() != 2 || sub.Atom(0).Molname != "HOH" || sub.Atom(1).Name != "N" {
		Te.Errorf("wrong selection: %+v %+v", sub.Atom(0), sub.Atom(1))
	}
	masses, err := mol.Masses()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(masses[0]-14.007) > 0.01 {
		Te.Errorf("wrong nitrogen mass: %v", masses[0])
	}
}

func TestSymbolFromName(Te *testing.T) {
	for name, want := range map[string]string{
		"CA":  "C", //alpha carbon, not calcium
		"N":   "N",
		"OW1": "O",
		"HE2": "H",
		"CL":  "CL",
	} {
		if got := SymbolFromName(name); got != want {
			Te.Errorf("SymbolFromName(%q) = %q, want %q", name, got, want)
		}
	}
}
