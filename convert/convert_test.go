/*
 * convert_test.go, part of openmmwrap.
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

package convert

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Quantum-for-Life/openmmwrap"
	"github.com/Quantum-for-Life/openmmwrap/traj/dcd"
)

const testTopology = `CRYST1   30.000   30.000   30.000  90.00  90.00  90.00 P 1           1
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
ATOM      3  C   ALA A   1      12.500   7.000  -4.000  1.00  0.00           C
HETATM    4  O   HOH B   2      10.000   5.000  -4.000  1.00  0.00           O
HETATM    5  O   HOH B   3       9.000   4.000  -3.000  1.00  0.00           O
END
`

func testMol(t *testing.T) *openmmwrap.Structure {
	t.Helper()
	mol, err := openmmwrap.ReadPDB(strings.NewReader(testTopology))
	require.NoError(t, err)
	return mol
}

func TestSelect(t *testing.T) {
	mol := testMol(t)
	for sel, want := range map[string][]int{
		"all":             {0, 1, 2, 3, 4},
		"index 0-2":       {0, 1, 2},
		"index 0,2-3":     {0, 2, 3},
		"chain A":         {0, 1, 2},
		"chain B":         {3, 4},
		"resname HOH":     {3, 4},
		"not resname HOH": {0, 1, 2},
		"not chain A":     {3, 4},
	} {
		got, err := Select(sel, mol)
		require.NoError(t, err, sel)
		assert.Equal(t, want, got, sel)
	}
}

func TestSelectErrors(t *testing.T) {
	mol := testMol(t)
	for _, sel := range []string{
		"",
		"not",
		"backbone",
		"index",
		"index 3-99",
		"index x",
		"resname XXX",
		"all extra",
	} {
		_, err := Select(sel, mol)
		assert.Error(t, err, "selection %q should fail", sel)
	}
}

// writeTestTraj writes a 3-frame DCD matching the test topology, with the
// frame number encoded in the x coordinate.
func writeTestTraj(t *testing.T, path string) {
	t.Helper()
	w, err := dcd.NewWriter(path, 5, true)
	require.NoError(t, err)
	defer w.Close()
	box := []float64{30, 30, 30, 90, 90, 90}
	for j := 0; j < 3; j++ {
		frame := mat.NewDense(5, 3, nil)
		for i := 0; i < 5; i++ {
			frame.Set(i, 0, float64(j*10+i))
			frame.Set(i, 1, 1.0)
			frame.Set(i, 2, 2.0)
		}
		require.NoError(t, w.WNext(frame, box))
	}
}

func TestConvertDCDToPDB(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "top.pdb")
	require.NoError(t, os.WriteFile(top, []byte(testTopology), 0o644))
	in := filepath.Join(dir, "traj.dcd")
	writeTestTraj(t, in)
	out := filepath.Join(dir, "out.pdb")

	err := Convert(top, in, out, Options{Selection: "chain A", Stride: 2})
	require.NoError(t, err)

	mol, err := openmmwrap.ReadPDBFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, mol.Len())
	// frames 0 and 2 survive the stride
	require.Equal(t, 2, mol.NFrames())
	c0, err := mol.Coords(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, c0.At(0, 0), 1e-3)
	c1, err := mol.Coords(1)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, c1.At(0, 0), 1e-3)
	assert.Equal(t, []float64{30, 30, 30, 90, 90, 90}, mol.Box(0))
}

func TestConvertExplicitFrames(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "top.pdb")
	require.NoError(t, os.WriteFile(top, []byte(testTopology), 0o644))
	in := filepath.Join(dir, "traj.dcd")
	writeTestTraj(t, in)
	out := filepath.Join(dir, "out.dcd")

	err := Convert(top, in, out, Options{Frames: []int{1}})
	require.NoError(t, err)

	traj, err := dcd.New(out)
	require.NoError(t, err)
	defer traj.Close()
	assert.Equal(t, 5, traj.Len())
	got := mat.NewDense(5, 3, nil)
	require.NoError(t, traj.Next(got))
	assert.InDelta(t, 10.0, got.At(0, 0), 1e-4)
	err = traj.Next(nil)
	assert.True(t, openmmwrap.EndOfTrajectory(err))
}

func TestConvertCentering(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "top.pdb")
	require.NoError(t, os.WriteFile(top, []byte(testTopology), 0o644))
	in := filepath.Join(dir, "traj.dcd")
	writeTestTraj(t, in)
	out := filepath.Join(dir, "centered.pdb")

	err := Convert(top, in, out, Options{Center: true, End: 0, Stride: 1})
	require.NoError(t, err)

	mol, err := openmmwrap.ReadPDBFile(out)
	require.NoError(t, err)
	coords, err := mol.Coords(0)
	require.NoError(t, err)
	var cx float64
	for i := 0; i < mol.Len(); i++ {
		cx += coords.At(i, 0)
	}
	// centroid sits at the box center after centering
	assert.True(t, math.Abs(cx/float64(mol.Len())-15.0) < 1e-3)
}

func TestConvertPDBInput(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "top.pdb")
	require.NoError(t, os.WriteFile(top, []byte(testTopology), 0o644))
	out := filepath.Join(dir, "out.dcd")

	// a multi-model PDB works as the trajectory too
	err := Convert(top, top, out, Options{Selection: "resname HOH"})
	require.NoError(t, err)
	traj, err := dcd.New(out)
	require.NoError(t, err)
	defer traj.Close()
	assert.Equal(t, 2, traj.Len())
}

func TestConvertBadFormats(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "top.pdb")
	require.NoError(t, os.WriteFile(top, []byte(testTopology), 0o644))
	err := Convert(top, filepath.Join(dir, "traj.xtc"), "out.pdb", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in a supported trajectory format")
}
