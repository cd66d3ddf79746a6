/*
 * convert.go, part of openmmwrap.
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

// Package convert transforms trajectories between formats, restricting
// them to an atom selection and a frame range on the way. Coordinates are
// kept in Angstroms, the unit both supported formats use.
package convert

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/Quantum-for-Life/openmmwrap"
	"github.com/Quantum-for-Life/openmmwrap/internal/log"
	"github.com/Quantum-for-Life/openmmwrap/traj/dcd"
)

// Options controls a conversion. The zero value converts every frame and
// every atom.
type Options struct {
	Selection string //atom selection, "all" if empty
	Start     int    //first frame, zero-based
	End       int    //last frame, inclusive. Zero or negative means the last one
	Stride    int    //keep every Stride-th frame. Zero means 1
	Frames    []int  //explicit frames to keep, overriding Start/End/Stride
	Center    bool   //translate the selection's centroid to the box center
}

// wants reports whether frame i is part of the conversion, and whether any
// further frame can be.
func (o *Options) wants(i int) (keep, more bool) {
	if o.Frames != nil {
		last := 0
		for _, f := range o.Frames {
			if f == i {
				keep = true
			}
			if f > last {
				last = f
			}
		}
		return keep, i < last
	}
	if i < o.Start {
		return false, true
	}
	if o.End > 0 && i > o.End {
		return false, false
	}
	stride := o.Stride
	if stride < 1 {
		stride = 1
	}
	return (i-o.Start)%stride == 0, true
}

// trimCompression strips a trailing compression extension so the format of
// a file can be judged from what remains.
func trimCompression(path string) string {
	path = strings.TrimSuffix(path, ".gz")
	return strings.TrimSuffix(path, ".zst")
}

// OpenTraj opens a trajectory file for reading, choosing the reader from
// the extension. Multi-model PDB files are read whole.
func OpenTraj(path string) (openmmwrap.Traj, error) {
	switch {
	case strings.HasSuffix(trimCompression(path), ".dcd"):
		return dcd.New(path)
	case strings.HasSuffix(trimCompression(path), ".pdb"):
		return openmmwrap.ReadPDBFile(path)
	}
	return nil, fmt.Errorf("'%s' is not in a supported trajectory format (dcd, pdb)", path)
}

// Convert reads the trajectory at input, applies opt, and writes the result
// to output. The topology is the PDB file describing the atoms of the
// trajectory; it also provides the atom records when the output is a PDB.
func Convert(topology, input, output string, opt Options) error {
	top, err := openmmwrap.ReadPDBFile(topology)
	if err != nil {
		return err
	}
	sel := opt.Selection
	if sel == "" {
		sel = "all"
	}
	indexes, err := Select(sel, top)
	if err != nil {
		return err
	}
	in, err := OpenTraj(input)
	if err != nil {
		return err
	}
	if in.Len() != top.Len() {
		return fmt.Errorf("the trajectory '%s' has %d atoms but the topology "+
			"'%s' has %d", input, in.Len(), topology, top.Len())
	}
	frames, boxes, err := collectFrames(in, indexes, &opt)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames of '%s' selected", input)
	}
	switch {
	case strings.HasSuffix(output, ".dcd"):
		return writeDCD(output, frames, boxes)
	case strings.HasSuffix(output, ".pdb"):
		return writePDB(output, top, indexes, frames, boxes)
	}
	return fmt.Errorf("'%s' is not in a supported trajectory format (dcd, pdb)", output)
}

// collectFrames reads the wanted frames from in, restricted to the given
// atoms and centered if asked for. boxes is nil if no frame carried a box.
func collectFrames(in openmmwrap.Traj, indexes []int, opt *Options) ([]*mat.Dense, [][]float64, error) {
	logger := log.WithComponent("convert")
	var frames []*mat.Dense
	var boxes [][]float64
	full := mat.NewDense(in.Len(), 3, nil)
	box := make([]float64, 6)
	for i := 0; ; i++ {
		keep, more := opt.wants(i)
		var err error
		if keep {
			for j := range box {
				box[j] = 0
			}
			err = in.Next(full, box)
		} else {
			err = in.Next(nil)
		}
		if err != nil {
			if openmmwrap.EndOfTrajectory(err) {
				break
			}
			return nil, nil, err
		}
		if !keep {
			if !more {
				break
			}
			continue
		}
		sub := mat.NewDense(len(indexes), 3, nil)
		for j, idx := range indexes {
			sub.SetRow(j, full.RawRowView(idx))
		}
		var fbox []float64
		if hasBox(box) {
			fbox = append([]float64{}, box...)
		}
		if opt.Center {
			center(sub, fbox)
		}
		frames = append(frames, sub)
		logger.Debug().Int("frame", i).Int("kept", len(frames)).Msg("frame converted")
		if fbox != nil {
			if boxes == nil {
				boxes = make([][]float64, len(frames)-1)
			}
		}
		if boxes != nil {
			boxes = append(boxes, fbox)
		}
		if !more {
			break
		}
	}
	return frames, boxes, nil
}

func hasBox(box []float64) bool {
	for _, v := range box {
		if v != 0 {
			return true
		}
	}
	return false
}

// center translates coords so their centroid sits at the box center, or at
// the origin when there is no box. Atoms are not wrapped back into the box.
func center(coords *mat.Dense, box []float64) {
	r, _ := coords.Dims()
	var cx, cy, cz float64
	for i := 0; i < r; i++ {
		row := coords.RawRowView(i)
		cx += row[0]
		cy += row[1]
		cz += row[2]
	}
	n := float64(r)
	cx, cy, cz = cx/n, cy/n, cz/n
	var tx, ty, tz float64
	if box != nil {
		tx, ty, tz = box[0]/2, box[1]/2, box[2]/2
	}
	for i := 0; i < r; i++ {
		row := coords.RawRowView(i)
		row[0] += tx - cx
		row[1] += ty - cy
		row[2] += tz - cz
	}
}

func writeDCD(path string, frames []*mat.Dense, boxes [][]float64) error {
	natoms, _ := frames[0].Dims()
	withCell := boxes != nil
	w, err := dcd.NewWriter(path, natoms, withCell)
	if err != nil {
		return err
	}
	defer w.Close()
	for i, frame := range frames {
		if withCell {
			err = w.WNext(frame, boxes[i])
		} else {
			err = w.WNext(frame)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writePDB(path string, top *openmmwrap.Structure, indexes []int, frames []*mat.Dense, boxes [][]float64) error {
	sub, err := top.SomeAtoms(indexes)
	if err != nil {
		return err
	}
	atoms := make([]*openmmwrap.Atom, sub.Len())
	for i := range atoms {
		atoms[i] = sub.Atom(i)
	}
	out, err := openmmwrap.NewStructure(atoms, frames, boxes)
	if err != nil {
		return err
	}
	return openmmwrap.WritePDBFile(path, out)
}
