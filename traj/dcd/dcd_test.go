/*
 * dcd_test.go, part of openmmwrap.
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
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"

	"github.com/Quantum-for-Life/openmmwrap"
)

// testFrames builds nframes frames of natoms with distinguishable values.
func testFrames(natoms, nframes int) []*mat.Dense {
	frames := make([]*mat.Dense, nframes)
	for j := range frames {
		frames[j] = mat.NewDense(natoms, 3, nil)
		for i := 0; i < natoms; i++ {
			frames[j].Set(i, 0, float64(j*100+i))
			frames[j].Set(i, 1, float64(i)+0.5)
			frames[j].Set(i, 2, -float64(j)-0.25)
		}
	}
	return frames
}

func TestDCDRoundTrip(Te *testing.T) {
	const natoms, nframes = 7, 4
	name := filepath.Join(Te.TempDir(), "test.dcd")
	box := []float64{20.0, 21.0, 22.0, 90.0, 90.0, 60.0}
	frames := testFrames(natoms, nframes)

	traj, err := NewWriter(name, natoms, true)
	if err != nil {
		Te.Fatal(err)
	}
	for _, frame := range frames {
		if err := traj.WNext(frame, box); err != nil {
			Te.Fatal(err)
		}
	}
	traj.Close()

	rtraj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer rtraj.Close()
	if rtraj.Len() != natoms {
		Te.Fatalf("read %d atoms per frame, want %d", rtraj.Len(), natoms)
	}
	got := mat.NewDense(natoms, 3, nil)
	rbox := make([]float64, 6)
	read := 0
	for {
		err := rtraj.Next(got, rbox)
		if err != nil {
			if _, ok := err.(openmmwrap.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		want := frames[read]
		for i := 0; i < natoms; i++ {
			for k := 0; k < 3; k++ {
				if math.Abs(got.At(i, k)-want.At(i, k)) > 1e-4 {
					Te.Errorf("frame %d atom %d: %v != %v", read, i, got.At(i, k), want.At(i, k))
				}
			}
		}
		for k := range box {
			if math.Abs(rbox[k]-box[k]) > 1e-6 {
				Te.Errorf("frame %d box[%d]: %v != %v", read, k, rbox[k], box[k])
			}
		}
		read++
	}
	if read != nframes {
		Te.Errorf("read %d frames, want %d", read, nframes)
	}
}

func TestDCDNoCell(Te *testing.T) {
	const natoms, nframes = 3, 2
	name := filepath.Join(Te.TempDir(), "nocell.dcd")
	frames := testFrames(natoms, nframes)

	traj, err := NewWriter(name, natoms, false)
	if err != nil {
		Te.Fatal(err)
	}
	for _, frame := range frames {
		if err := traj.WNext(frame); err != nil {
			Te.Fatal(err)
		}
	}
	traj.Close()

	rtraj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer rtraj.Close()
	got := mat.NewDense(natoms, 3, nil)
	read := 0
	for {
		if err := rtraj.Next(got); err != nil {
			if _, ok := err.(openmmwrap.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		read++
	}
	if read != nframes {
		Te.Errorf("read %d frames, want %d", read, nframes)
	}
}

func TestDCDSkipFrames(Te *testing.T) {
	const natoms, nframes = 5, 3
	name := filepath.Join(Te.TempDir(), "skip.dcd")
	frames := testFrames(natoms, nframes)
	box := []float64{15.0, 15.0, 15.0, 90.0, 90.0, 90.0}

	traj, err := NewWriter(name, natoms, true)
	if err != nil {
		Te.Fatal(err)
	}
	for _, frame := range frames {
		if err := traj.WNext(frame, box); err != nil {
			Te.Fatal(err)
		}
	}
	traj.Close()

	rtraj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer rtraj.Close()
	// a nil output discards the frame but still advances
	if err := rtraj.Next(nil); err != nil {
		Te.Fatal(err)
	}
	got := mat.NewDense(natoms, 3, nil)
	if err := rtraj.Next(got); err != nil {
		Te.Fatal(err)
	}
	if got.At(0, 0) != 100.0 {
		Te.Errorf("skipping did not advance to the second frame: %v", got.At(0, 0))
	}
}

// compress copies src into dst through the given compressor.
func compress(Te *testing.T, src, dst string, wrap func(io.Writer) io.WriteCloser) {
	Te.Helper()
	raw, err := os.ReadFile(src)
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	zw := wrap(&buf)
	if _, err := zw.Write(raw); err != nil {
		Te.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		Te.Fatal(err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		Te.Fatal(err)
	}
}

func TestDCDCompressedRead(Te *testing.T) {
	const natoms, nframes = 4, 2
	dir := Te.TempDir()
	plain := filepath.Join(dir, "test.dcd")
	box := []float64{12.0, 13.0, 14.0, 90.0, 90.0, 90.0}
	frames := testFrames(natoms, nframes)

	traj, err := NewWriter(plain, natoms, true)
	if err != nil {
		Te.Fatal(err)
	}
	for _, frame := range frames {
		if err := traj.WNext(frame, box); err != nil {
			Te.Fatal(err)
		}
	}
	traj.Close()

	gzipped := filepath.Join(dir, "test.dcd.gz")
	compress(Te, plain, gzipped, func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) })
	zstded := filepath.Join(dir, "test.dcd.zst")
	compress(Te, plain, zstded, func(w io.Writer) io.WriteCloser {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			Te.Fatal(err)
		}
		return zw
	})

	for _, name := range []string{gzipped, zstded} {
		rtraj, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		got := mat.NewDense(natoms, 3, nil)
		rbox := make([]float64, 6)
		read := 0
		for {
			if err := rtraj.Next(got, rbox); err != nil {
				if _, ok := err.(openmmwrap.LastFrameError); ok {
					break
				}
				Te.Fatal(err)
			}
			if math.Abs(got.At(0, 0)-frames[read].At(0, 0)) > 1e-4 {
				Te.Errorf("%s frame %d: %v != %v", name, read, got.At(0, 0), frames[read].At(0, 0))
			}
			if math.Abs(rbox[0]-box[0]) > 1e-6 {
				Te.Errorf("%s frame %d box: %v != %v", name, read, rbox[0], box[0])
			}
			read++
		}
		rtraj.Close()
		if read != nframes {
			Te.Errorf("%s: read %d frames, want %d", name, read, nframes)
		}
	}
}

func TestDCDTitleRecordMarkers(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "title.dcd")
	traj, err := NewWriter(name, 3, false)
	if err != nil {
		Te.Fatal(err)
	}
	if err := traj.WNext(mat.NewDense(3, 3, nil)); err != nil {
		Te.Fatal(err)
	}
	traj.Close()
	raw, err := os.ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	// the record is the ntitle int plus two 80-byte titles; the markers
	// around it must state that size
	want := uint32(4 + 2*mAXTITLE)
	lead := binary.LittleEndian.Uint32(raw[92:])
	trail := binary.LittleEndian.Uint32(raw[260:])
	if lead != want || trail != want {
		Te.Errorf("title record markers %d and %d, want %d", lead, trail, want)
	}
}

func TestDCDNarrowMatrix(Te *testing.T) {
	const natoms = 3
	name := filepath.Join(Te.TempDir(), "narrow.dcd")
	traj, err := NewWriter(name, natoms, false)
	if err != nil {
		Te.Fatal(err)
	}
	if err := traj.WNext(mat.NewDense(natoms, 3, nil)); err != nil {
		Te.Fatal(err)
	}
	traj.Close()

	rtraj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer rtraj.Close()
	narrow := mat.NewDense(natoms, 2, nil)
	if err := rtraj.Next(narrow); err == nil {
		Te.Errorf("a matrix with fewer than 3 columns should fail, not panic")
	}
}

func TestDCDWriterErrors(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.dcd")
	traj, err := NewWriter(name, 4, true)
	if err != nil {
		Te.Fatal(err)
	}
	defer traj.Close()
	wrong := mat.NewDense(3, 3, nil)
	if err := traj.WNext(wrong); err == nil {
		Te.Errorf("a frame with the wrong atom count should fail")
	}
	right := mat.NewDense(4, 3, nil)
	if err := traj.WNext(right); err == nil {
		Te.Errorf("a missing unit cell should fail on a cell-carrying trajectory")
	}
}
