/*
 * dcd_write.go, part of openmmwrap.
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
	"encoding/binary"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Writer is a DCD trajectory opened for writing. The format stores the
// frame count in the header, so the writer seeks back after every frame;
// compressed output is therefore not supported.
type Writer struct {
	natoms    int32
	writable  bool
	filename  string
	withCell  bool
	frames    int32
	dcd       *os.File
	dcdFields [][]float32
	endian    binary.ByteOrder
}

// NewWriter initializes a DCD trajectory for writing. withCell declares
// whether frames will carry a unit cell; it must match the box arguments
// later given to WNext.
func NewWriter(filename string, natoms int, withCell bool) (*Writer, error) {
	traj := new(Writer)
	traj.natoms = int32(natoms)
	traj.withCell = withCell
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

// Close closes the destination file. The header is already up to date, as
// the frame count is rewritten after every frame.
func (D *Writer) Close() {
	if !D.writable {
		return
	}
	D.dcd.Close()
	D.writable = false
}

func (D *Writer) initWrite(name string) error {
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Write", "initWrite"}, true}
	}
	D.endian = binary.LittleEndian
	D.filename = name
	if D.natoms == 0 {
		return Error{"the number of atoms is set to zero", D.filename, []string{"initWrite"}, true}
	}
	var err error
	D.dcd, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Create", "initWrite"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, []byte("CORD")); err != nil {
		return wrapbinerr(err)
	}
	//frame count, backpatched after every frame
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//initial step
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//step interval (nsavc)
	if err := binary.Write(D.dcd, D.endian, int32(1)); err != nil {
		return wrapbinerr(err)
	}
	//5 zeros plus natom-nfreat
	for i := 0; i < 6; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//delta time
	if err := binary.Write(D.dcd, D.endian, float32(1)); err != nil {
		return wrapbinerr(err)
	}
	//unit-cell flag
	cellFlag := int32(0)
	if D.withCell {
		cellFlag = 1
	}
	if err := binary.Write(D.dcd, D.endian, cellFlag); err != nil {
		return wrapbinerr(err)
	}
	//8 zeros for charmm
	for i := 0; i < 8; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//charmm version
	if err := binary.Write(D.dcd, D.endian, int32(24)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	//title record: the ntitle int plus ntitle units of mAXTITLE
	var ntitle int32 = 2
	titleSize := 4 + ntitle*mAXTITLE
	if err := binary.Write(D.dcd, D.endian, titleSize); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, ntitle); err != nil {
		return wrapbinerr(err)
	}
	title := make([]byte, 2*mAXTITLE)
	copy(title, []byte("Written with openmmwrap"))
	title[len(title)-1] = byte('\000')
	if err := binary.Write(D.dcd, D.endian, title); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, titleSize); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, D.natoms); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	D.writable = true
	return nil
}

// WNext writes the next frame. If the writer was created with a unit
// cell, box[0] must carry the 6 cell values (a, b, c, alpha, beta,
// gamma).
func (D *Writer) WNext(towrite *mat.Dense, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIni, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{"got nil coordinates", D.filename, []string{"WNext"}, true}
	}
	if r, _ := towrite.Dims(); int32(r) != D.natoms {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.withCell && (len(box) == 0 || len(box[0]) < 6) {
		return Error{"the trajectory was set up with a unit cell, but none was given", D.filename, []string{"WNext"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	if D.withCell {
		if err := D.writeUnitCell(box[0]); err != nil {
			return errDecorate(err, "WNext")
		}
	}
	if err := D.wnextRaw(D.dcdFields); err != nil {
		return errDecorate(err, "WNext")
	}
	D.frames++
	return errDecorate(D.updateFrames(), "WNext")
}

// writeUnitCell writes the 48-byte cell block in the CHARMM order
// a, gamma, b, beta, alpha, c.
func (D *Writer) writeUnitCell(box []float64) error {
	cell := []float64{box[0], box[5], box[1], box[4], box[3], box[2]}
	var blocksize int32 = 48
	if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeUnitCell"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, cell); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeUnitCell"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeUnitCell"}, true}
	}
	return nil
}

func (D *Writer) wnextRaw(blocks [][]float32) error {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"wnextRaw"}, true}
	}
	blocksize := int32(len(blocks[0])) * 4 //size markers are in bytes
	for _, block := range blocks {
		if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := D.writeFloat32Block(block); err != nil {
			return errDecorate(err, "wnextRaw")
		}
	}
	return nil
}

// writeFloat32Block writes a block of float32 and its trailing size.
func (D *Writer) writeFloat32Block(block []float32) error {
	blocksize := int32(len(block)) * 4
	if err := binary.Write(D.dcd, D.endian, block); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
	}
	return nil
}

// updateFrames backpatches the frame count in the header.
func (D *Writer) updateFrames() error {
	currentoffset, err := D.dcd.Seek(0, io.SeekCurrent)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	//the count sits right after the leading 84 and the magic
	if _, err = D.dcd.Seek(8, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, D.frames); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	if _, err = D.dcd.Seek(currentoffset, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"dcd.Seek", "updateFrames"}, true}
	}
	return nil
}
