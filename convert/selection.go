/*
 * selection.go, part of openmmwrap.
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
	"fmt"
	"strconv"
	"strings"

	"github.com/Quantum-for-Life/openmmwrap"
)

// Select resolves an atom selection against a topology and returns the
// selected indexes, sorted. The grammar takes one of the forms
//
//	all
//	index 0-99,150,200-210
//	chain A,B
//	resname HOH,NA,CL
//
// optionally prefixed with "not" to invert the selection. Index ranges are
// zero-based and inclusive.
func Select(sel string, mol openmmwrap.Atomer) ([]int, error) {
	fields := strings.Fields(strings.TrimSpace(sel))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selection")
	}
	negate := false
	if fields[0] == "not" {
		negate = true
		fields = fields[1:]
		if len(fields) == 0 {
			return nil, fmt.Errorf("nothing to negate in selection '%s'", sel)
		}
	}
	keyword := fields[0]
	args := strings.Join(fields[1:], "")
	var picked map[int]bool
	var err error
	switch keyword {
	case "all":
		if args != "" {
			return nil, fmt.Errorf("'all' takes no arguments in selection '%s'", sel)
		}
		picked = make(map[int]bool, mol.Len())
		for i := 0; i < mol.Len(); i++ {
			picked[i] = true
		}
	case "index":
		picked, err = selectIndexes(args, mol.Len())
	case "chain":
		picked, err = selectByField(args, mol, func(at *openmmwrap.Atom) string { return at.Chain })
	case "resname":
		picked, err = selectByField(args, mol, func(at *openmmwrap.Atom) string { return at.Molname })
	default:
		return nil, fmt.Errorf("unknown selection keyword '%s'. Supported "+
			"keywords are: all, index, chain, resname", keyword)
	}
	if err != nil {
		return nil, fmt.Errorf("selection '%s': %w", sel, err)
	}
	out := make([]int, 0, len(picked))
	for i := 0; i < mol.Len(); i++ {
		if picked[i] != negate {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("selection '%s' matches no atoms", sel)
	}
	return out, nil
}

func selectIndexes(args string, natoms int) (map[int]bool, error) {
	if args == "" {
		return nil, fmt.Errorf("'index' needs at least one index or range")
	}
	picked := make(map[int]bool)
	for _, tok := range strings.Split(args, ",") {
		lo, hi, err := parseRange(tok)
		if err != nil {
			return nil, err
		}
		if lo < 0 || hi >= natoms {
			return nil, fmt.Errorf("index range %s out of bounds (%d atoms)", tok, natoms)
		}
		for i := lo; i <= hi; i++ {
			picked[i] = true
		}
	}
	return picked, nil
}

func parseRange(tok string) (int, int, error) {
	lo, hi, ranged := strings.Cut(tok, "-")
	a, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("bad index '%s'", tok)
	}
	if !ranged {
		return a, a, nil
	}
	b, err := strconv.Atoi(hi)
	if err != nil || b < a {
		return 0, 0, fmt.Errorf("bad index range '%s'", tok)
	}
	return a, b, nil
}

func selectByField(args string, mol openmmwrap.Atomer, field func(*openmmwrap.Atom) string) (map[int]bool, error) {
	if args == "" {
		return nil, fmt.Errorf("no values given")
	}
	wanted := make(map[string]bool)
	for _, v := range strings.Split(args, ",") {
		wanted[v] = true
	}
	picked := make(map[int]bool)
	for i := 0; i < mol.Len(); i++ {
		if wanted[field(mol.Atom(i))] {
			picked[i] = true
		}
	}
	return picked, nil
}
