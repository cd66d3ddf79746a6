/*
 * options.go, part of openmmwrap.
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

import "fmt"

// Options is a free-form mapping of option names to YAML values, with typed
// accessors. All accessors treat a key holding an explicit null as absent.
//
// Each accessor returns the value, whether the key was present, and an
// error. A missing required key or a value of the wrong type is an error;
// a missing optional key returns the given default with ok == false.
type Options map[string]any

func (o Options) lookup(key string, required bool) (any, bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		if required {
			return nil, false, fmt.Errorf("no '%s' was provided", key)
		}
		return nil, false, nil
	}
	return v, true, nil
}

// Float returns a floating-point option. Integer YAML values are accepted.
func (o Options) Float(key string, required bool, def float64) (float64, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return def, false, err
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	}
	return def, false, fmt.Errorf("option '%s' must be a number, got %T", key, v)
}

// Int returns an integer option.
func (o Options) Int(key string, required bool, def int) (int, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return def, false, err
	}
	n, isInt := v.(int)
	if !isInt {
		return def, false, fmt.Errorf("option '%s' must be an integer, got %T", key, v)
	}
	return n, true, nil
}

// Bool returns a boolean option.
func (o Options) Bool(key string, required bool, def bool) (bool, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return def, false, err
	}
	b, isBool := v.(bool)
	if !isBool {
		return def, false, fmt.Errorf("option '%s' must be a boolean, got %T", key, v)
	}
	return b, true, nil
}

// String returns a string option.
func (o Options) String(key string, required bool, def string) (string, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return def, false, err
	}
	s, isString := v.(string)
	if !isString {
		return def, false, fmt.Errorf("option '%s' must be a string, got %T", key, v)
	}
	return s, true, nil
}

// Ints returns an option holding a list of integers.
func (o Options) Ints(key string, required bool) ([]int, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return nil, false, err
	}
	list, isList := v.([]any)
	if !isList {
		return nil, false, fmt.Errorf("option '%s' must be a list of integers, got %T", key, v)
	}
	out := make([]int, 0, len(list))
	for i, e := range list {
		n, isInt := e.(int)
		if !isInt {
			return nil, false, fmt.Errorf("option '%s', element %d: expected an integer, got %T", key, i, e)
		}
		out = append(out, n)
	}
	return out, true, nil
}

// IntPairs returns an option holding a list of integer pairs.
func (o Options) IntPairs(key string, required bool) ([][2]int, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return nil, false, err
	}
	list, isList := v.([]any)
	if !isList {
		return nil, false, fmt.Errorf("option '%s' must be a list of integer pairs, got %T", key, v)
	}
	out := make([][2]int, 0, len(list))
	for i, e := range list {
		pair, isList := e.([]any)
		if !isList || len(pair) != 2 {
			return nil, false, fmt.Errorf("option '%s', element %d: expected a pair of integers", key, i)
		}
		a, aInt := pair[0].(int)
		b, bInt := pair[1].(int)
		if !aInt || !bInt {
			return nil, false, fmt.Errorf("option '%s', element %d: expected a pair of integers", key, i)
		}
		out = append(out, [2]int{a, b})
	}
	return out, true, nil
}

// Strings returns an option holding a list of strings.
func (o Options) Strings(key string, required bool) ([]string, bool, error) {
	v, ok, err := o.lookup(key, required)
	if err != nil || !ok {
		return nil, false, err
	}
	list, isList := v.([]any)
	if !isList {
		return nil, false, fmt.Errorf("option '%s' must be a list of strings, got %T", key, v)
	}
	out := make([]string, 0, len(list))
	for i, e := range list {
		s, isString := e.(string)
		if !isString {
			return nil, false, fmt.Errorf("option '%s', element %d: expected a string, got %T", key, i, e)
		}
		out = append(out, s)
	}
	return out, true, nil
}

// Copy returns a shallow copy of the options.
func (o Options) Copy() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
