/*
 * dcd.go, part of openmmwrap.
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

// Package dcd reads and writes CHARMM/NAMD binary trajectories (DCD).
// Fixed atoms are not supported. On reading, gzip- and zstd-compressed
// files (.dcd.gz, .dcd.zst) are handled transparently.
//
// The unit cell, when present, travels through the optional box argument
// of Next and WNext as 6 values in the order a, b, c (angstroms) and
// alpha, beta, gamma.
package dcd

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

const mAXTITLE int32 = 80

// DCD is a CHARMM/NAMD binary trajectory opened for reading.
type DCD struct {
	natoms     int32
	readLast   bool
	readable   bool
	filename   string
	charmm     bool
	extrablock bool
	fourdim    bool
	fixed      int32
	fhandle    *os.File
	dcd        io.Reader
	closer     io.Closer //nil when the source is the plain file
	dcdFields  [][]float32
	lastBox    []float64 //unit cell of the last frame read, or nil
	endian     binary.ByteOrder
}

// New opens a DCD trajectory for reading, decompressing it if the file
// name ends in .gz or .zst.
func New(filename string) (*DCD, error) {
	traj := new(DCD)
	if err := traj.initRead(filename); err != nil {
		return nil, errDecorate(err, "New")
	}
	traj.dcdFields = make([][]float32, 3)
	for i := range traj.dcdFields {
		traj.dcdFields[i] = make([]float32, int(traj.natoms))
	}
	return traj, nil
}

// prepSource opens the file and wraps it in the decompressor matching its
// last extension. Plain files pass through.
func (D *DCD) prepSource(fname string) (io.Reader, error) {
	var err error
	D.filename = fname
	D.fhandle, err = os.Open(fname)
	if err != nil {
		return nil, Error{err.Error(), D.filename, []string{"os.Open", "prepSource"}, true}
	}
	reader := bufio.NewReader(D.fhandle)
	parts := strings.Split(fname, ".")
	switch strings.ToLower(parts[len(parts)-1]) {
	case "gz":
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"gzip.NewReader", "prepSource"}, true}
		}
		D.closer = gz
		return gz, nil
	case "zst":
		zr, err := zstd.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"zstd.NewReader", "prepSource"}, true}
		}
		D.closer = zr.IOReadCloser()
		return D.closer.(io.Reader), nil
	}
	return reader, nil
}

// Readable reports whether the trajectory is ready to be read. It does
// not guarantee that there is anything left to read.
func (D *DCD) Readable() bool {
	return D.readable
}

// initRead parses the header. Both endiannesses and CHARMM or NAMD (>=2.1)
// files are supported; X-plor files and fixed atoms are not.
func (D *DCD) initRead(name string) error {
	src, err := D.prepSource(name)
	if err != nil {
		return err
	}
	D.dcd = src
	D.endian = binary.LittleEndian
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	// the first record marker must read 84; otherwise the file is
	// big endian
	if check != 84 {
		D.endian = binary.BigEndian
	}
	magic := make([]byte, 4)
	if err := binary.Read(D.dcd, D.endian, magic); err != nil {
		return errDecorate(err, "initRead")
	}
	if string(magic) != "CORD" {
		return Error{"Wrong magic number", D.filename, []string{"initRead"}, true}
	}
	// the rest of the header block, accessed at fixed offsets
	buf := make([]byte, 80)
	if err := binary.Read(D.dcd, D.endian, buf); err != nil {
		return errDecorate(err, "initRead")
	}
	NB := func(b []byte) io.Reader { return bytes.NewReader(b) }
	// X-plor sets the last int to zero, charmm to its version number
	if err := binary.Read(NB(buf[76:]), D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check == 0 {
		return Error{"X-plor DCD not supported", D.filename, []string{"initRead"}, true}
	}
	D.charmm = true
	if err := binary.Read(NB(buf[40:]), D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check != 0 {
		D.extrablock = true
	}
	if err := binary.Read(NB(buf[44:]), D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check == 1 {
		D.fourdim = true
	}
	if err := binary.Read(NB(buf[32:]), D.endian, &D.fixed); err != nil {
		return errDecorate(err, "initRead")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check != 84 {
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	var blockMarker int32
	if err := binary.Read(D.dcd, D.endian, &blockMarker); err != nil {
		return errDecorate(err, "initRead")
	}
	var ntitle int32
	if err := binary.Read(D.dcd, D.endian, &ntitle); err != nil {
		return errDecorate(err, "initRead")
	}
	title := make([]byte, mAXTITLE*ntitle)
	if err := binary.Read(D.dcd, D.endian, title); err != nil {
		return errDecorate(err, "initRead")
	}
	if err := binary.Read(D.dcd, D.endian, &blockMarker); err != nil {
		return errDecorate(err, "initRead")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check != 4 { //a 4 must precede the atom count
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if err := binary.Read(D.dcd, D.endian, &D.natoms); err != nil {
		return errDecorate(err, "initRead")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return errDecorate(err, "initRead")
	}
	if check != 4 {
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if D.fixed != 0 {
		return Error{"Fixed atoms not supported", D.filename, []string{"initRead"}, true}
	}
	D.readable = true
	return nil
}

// Next reads the next frame into output, or discards the frame if output
// is nil. If box is given and the frame carries a unit cell, box[0] is
// filled with it.
func (D *DCD) Next(output *mat.Dense, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIni, D.filename, []string{"Next"}, true}
	}
	if err := D.nextRaw(D.dcdFields); err != nil {
		return errDecorate(err, "Next")
	}
	if len(box) > 0 && box[0] != nil && D.lastBox != nil {
		copy(box[0], D.lastBox)
	}
	if output == nil {
		return nil
	}
	if r, c := output.Dims(); r < int(D.natoms) || c < 3 {
		return Error{NotEnoughSpace, D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		output.Set(i, 0, float64(D.dcdFields[0][i]))
		output.Set(i, 1, float64(D.dcdFields[1][i]))
		output.Set(i, 2, float64(D.dcdFields[2][i]))
	}
	return nil
}

// nextRaw reads one frame into the given X, Y and Z blocks.
func (D *DCD) nextRaw(blocks [][]float32) error {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"nextRaw"}, true}
	}
	if D.readLast {
		D.readable = false
		return newlastFrameError(D.filename)
	}
	D.lastBox = nil
	// The extra block, when flagged, holds the unit cell. It is not
	// guaranteed to be present in every frame, so the block size tells
	// whether the X block starts immediately instead.
	var blocksize int32
	if D.extrablock {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return D.eof2LastFrame(err)
		}
		if blocksize != D.natoms*4 {
			cell, err := D.readByteBlock(blocksize)
			if err != nil {
				return err
			}
			D.parseUnitCell(cell)
			blocksize = 0
		}
	}
	if blocksize == 0 {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return D.eof2LastFrame(err)
		}
	}
	if err := D.readFloat32Block(blocksize, blocks[0]); err != nil {
		return err
	}
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return errDecorate(err, "nextRaw")
	}
	if err := D.readFloat32Block(blocksize, blocks[1]); err != nil {
		return err
	}
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return errDecorate(err, "nextRaw")
	}
	if err := D.readFloat32Block(blocksize, blocks[2]); err != nil {
		return err
	}
	// the 4-D block, when flagged, is skipped; its absence marks the
	// last frame
	if D.charmm && D.fourdim {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			if err == io.EOF {
				D.readLast = true
				return nil
			}
			return errDecorate(err, "nextRaw")
		}
		if _, err := D.readByteBlock(blocksize); err != nil {
			return err
		}
	}
	return nil
}

// parseUnitCell decodes the 48-byte CHARMM cell block, stored as
// a, gamma, b, beta, alpha, c.
func (D *DCD) parseUnitCell(cell []byte) {
	if len(cell) != 48 {
		return
	}
	values := make([]float64, 6)
	if err := binary.Read(bytes.NewReader(cell), D.endian, values); err != nil {
		return
	}
	D.lastBox = []float64{values[0], values[2], values[5], values[4], values[3], values[1]}
}

// readFloat32Block reads a block of float32 and checks the trailing size
// marker against blocksize.
func (D *DCD) readFloat32Block(blocksize int32, block []float32) error {
	var check int32
	if int32(len(block))*4 != blocksize {
		return Error{WrongFormat, D.filename, []string{"readFloat32Block"}, true}
	}
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return errDecorate(err, "readFloat32Block")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return errDecorate(err, "readFloat32Block")
	}
	if check != blocksize {
		return Error{WrongFormat, D.filename, []string{"readFloat32Block"}, true}
	}
	return nil
}

// readByteBlock reads a raw block and checks the trailing size marker.
func (D *DCD) readByteBlock(blocksize int32) ([]byte, error) {
	var check int32
	block := make([]byte, blocksize)
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return nil, errDecorate(err, "readByteBlock")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return nil, errDecorate(err, "readByteBlock")
	}
	if check != blocksize {
		return nil, Error{SecurityCheck, D.filename, []string{"readByteBlock"}, true}
	}
	return block, nil
}

// Len returns the number of atoms per frame.
func (D *DCD) Len() int {
	return int(D.natoms)
}

// eof2LastFrame turns a bare EOF into the harmless last-frame error.
func (D *DCD) eof2LastFrame(err error) error {
	if err == io.EOF {
		D.readLast = true
		D.readable = false
		return newlastFrameError(D.filename)
	}
	return errDecorate(err, "nextRaw")
}

// Close closes the underlying file.
func (D *DCD) Close() {
	if D.closer != nil {
		D.closer.Close()
	}
	if D.fhandle != nil {
		D.fhandle.Close()
	}
	D.readable = false
}
