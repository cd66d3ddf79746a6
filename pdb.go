/*
 * pdb.go, part of openmmwrap.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// parsePDBAtomLine parses a valid ATOM or HETATM line. Coordinates and
// b-factor are returned separately from the topology data.
func parsePDBAtomLine(line string) (*Atom, [3]float64, float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return nil, coords, 0, fmt.Errorf("line too short (%d chars)", len(line))
	}
	// pad so the optional columns can be sliced without checks
	if len(line) < 80 {
		line = line + strings.Repeat(" ", 80-len(line))
	}
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	errs := make([]error, 7)
	atom.ID, errs[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.Molname = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, errs[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], errs[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], errs[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], errs[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	var bfactor float64
	// occupancy and b-factor are often left out by simple writers
	if occ := strings.TrimSpace(line[54:60]); occ != "" {
		atom.Occupancy, errs[5] = strconv.ParseFloat(occ, 64)
	}
	if bf := strings.TrimSpace(line[60:66]); bf != "" {
		bfactor, errs[6] = strconv.ParseFloat(bf, 64)
	}
	atom.Symbol = strings.ToUpper(strings.TrimSpace(line[76:78]))
	if atom.Symbol == "" {
		atom.Symbol = SymbolFromName(atom.Name)
	}
	for _, err := range errs {
		if err != nil {
			return nil, coords, 0, err
		}
	}
	atom.Mass = symbolMass[atom.Symbol]
	atom.Bfactor = bfactor
	return atom, coords, bfactor, nil
}

// parsePDBCoordsLine reads only the coordinates of an ATOM/HETATM line, for
// models past the first, where the topology is already known.
func parsePDBCoordsLine(line string) ([3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return coords, fmt.Errorf("line too short (%d chars)", len(line))
	}
	errs := make([]error, 3)
	coords[0], errs[0] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], errs[1] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], errs[2] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, err := range errs {
		if err != nil {
			return coords, err
		}
	}
	return coords, nil
}

// parseCRYST1 reads a CRYST1 record into a 6-element box:
// a, b, c (angstroms) and alpha, beta, gamma (degrees).
func parseCRYST1(line string) ([]float64, error) {
	if len(line) < 54 {
		return nil, fmt.Errorf("CRYST1 record too short (%d chars)", len(line))
	}
	box := make([]float64, 6)
	fields := [][2]int{{6, 15}, {15, 24}, {24, 33}, {33, 40}, {40, 47}, {47, 54}}
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(line[f[0]:f[1]]), 64)
		if err != nil {
			return nil, fmt.Errorf("CRYST1 field %d: %v", i, err)
		}
		box[i] = v
	}
	return box, nil
}

// ReadPDB reads a (possibly multi-model) PDB from r. Topology data is taken
// from the first model only, further models contribute coordinates. A
// CRYST1 record, if present, becomes the box of every frame.
func ReadPDB(r io.Reader) (*Structure, error) {
	var atoms []*Atom
	var box []float64
	flat := [][]float64{nil}
	firstModel := true
	scanner := bufio.NewScanner(r)
	contlines := 0
	for scanner.Scan() {
		line := scanner.Text()
		contlines++
		if len(line) < 6 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			if firstModel {
				atom, c, _, err := parsePDBAtomLine(line)
				if err != nil {
					return nil, errDecorate(fmt.Errorf("line %d: %v", contlines, err), "ReadPDB")
				}
				atoms = append(atoms, atom)
				flat[len(flat)-1] = append(flat[len(flat)-1], c[0], c[1], c[2])
			} else {
				c, err := parsePDBCoordsLine(line)
				if err != nil {
					return nil, errDecorate(fmt.Errorf("line %d: %v", contlines, err), "ReadPDB")
				}
				flat[len(flat)-1] = append(flat[len(flat)-1], c[0], c[1], c[2])
			}
		case strings.HasPrefix(line, "MODEL"):
			n, _ := strconv.Atoi(strings.TrimSpace(line[6:]))
			if n > 1 {
				firstModel = false
				flat = append(flat, nil)
			}
		case strings.HasPrefix(line, "CRYST1"):
			var err error
			box, err = parseCRYST1(line)
			if err != nil {
				return nil, errDecorate(err, "ReadPDB")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errDecorate(err, "ReadPDB")
	}
	if len(atoms) == 0 {
		return nil, NewError("no ATOM or HETATM records found", "ReadPDB")
	}
	coords := make([]*mat.Dense, 0, len(flat))
	var boxes [][]float64
	for _, f := range flat {
		if len(f) != 3*len(atoms) {
			return nil, NewError(fmt.Sprintf("model with %d coordinates for %d atoms", len(f)/3, len(atoms)), "ReadPDB")
		}
		coords = append(coords, mat.NewDense(len(atoms), 3, f))
		if box != nil {
			boxes = append(boxes, box)
		}
	}
	return NewStructure(atoms, coords, boxes)
}

// ReadPDBFile reads a PDB file by name.
func ReadPDBFile(name string) (*Structure, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "ReadPDBFile")
	}
	defer f.Close()
	s, err := ReadPDB(f)
	if err != nil {
		return nil, errDecorate(err, "ReadPDBFile "+name)
	}
	return s, nil
}

// WritePDB writes every frame of s to w as a multi-model PDB. TER records
// separate chains, and the box (if any) becomes a CRYST1 record.
func WritePDB(w io.Writer, s *Structure) error {
	fmt.Fprint(w, "REMARK     WRITTEN WITH OPENMMWRAP\n")
	if box := s.Box(0); box != nil {
		fmt.Fprintf(w, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n",
			box[0], box[1], box[2], box[3], box[4], box[5])
	}
	for j := 0; j < s.NFrames(); j++ {
		coords, err := s.Coords(j)
		if err != nil {
			return errDecorate(err, "WritePDB")
		}
		fmt.Fprintf(w, "MODEL %8d\n", j+1)
		chainprev := s.Atom(0).Chain
		for i := 0; i < s.Len(); i++ {
			at := s.Atom(i)
			if at.Chain != chainprev {
				fmt.Fprintln(w, "TER")
				chainprev = at.Chain
			}
			record := "ATOM"
			if at.Het {
				record = "HETATM"
			}
			chain := at.Chain
			if chain == "" {
				chain = " "
			}
			x, y, z := coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)
			switch {
			case len(at.Name) < 4:
				_, err = fmt.Fprintf(w, "%-6s%5d  %-3s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
					record, at.ID, at.Name, at.Molname, chain, at.MolID, x, y, z, at.Occupancy, at.Bfactor, at.Symbol)
			case len(at.Name) == 4:
				_, err = fmt.Fprintf(w, "%-6s%5d %4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
					record, at.ID, at.Name, at.Molname, chain, at.MolID, x, y, z, at.Occupancy, at.Bfactor, at.Symbol)
			default:
				err = fmt.Errorf("atom name %q too long for a PDB record", at.Name)
			}
			if err != nil {
				return errDecorate(err, "WritePDB")
			}
		}
		fmt.Fprint(w, "ENDMDL\n")
	}
	fmt.Fprint(w, "END\n")
	return nil
}

// WritePDBFile writes s to the named file.
func WritePDBFile(name string, s *Structure) error {
	f, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "WritePDBFile")
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WritePDB(bw, s); err != nil {
		return errDecorate(err, "WritePDBFile "+name)
	}
	return bw.Flush()
}
