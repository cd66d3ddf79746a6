/*
 * merge.go, part of openmmwrap.
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

package config

// RecursiveMerge deep-merges two mappings. Values from over win over
// values from under; nested mappings are merged key by key. Neither input
// is modified.
func RecursiveMerge(over, under map[string]any) map[string]any {
	merged := make(map[string]any, len(under)+len(over))
	for k, v := range under {
		merged[k] = v
	}
	for k, v := range over {
		vm, vIsMap := asMap(v)
		um, uIsMap := asMap(merged[k])
		if vIsMap && uIsMap {
			merged[k] = RecursiveMerge(vm, um)
			continue
		}
		merged[k] = v
	}
	return merged
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Options:
		return m, true
	}
	return nil, false
}
