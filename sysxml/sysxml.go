/*
 * sysxml.go, part of openmmwrap.
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

// Package sysxml reads and writes the engine's serialized System XML and
// injects forces (thermostats, barostats, restraints) into it.
//
// The document is kept as a generic element tree, so everything the engine
// wrote survives a load/save round trip untouched. Only the Forces node is
// ever modified, by appending new Force elements.
package sysxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

// Element is a generic XML element preserving attributes, children and
// character data.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Element `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (e *Element) setFloat(name string, v float64) {
	e.SetAttr(name, strconv.FormatFloat(v, 'g', -1, 64))
}

func (e *Element) setInt(name string, v int) {
	e.SetAttr(name, strconv.Itoa(v))
}

// Child returns the first child with the given local name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// ensureChild returns the first child with the given name, creating it if
// absent.
func (e *Element) ensureChild(name string) *Element {
	if c := e.Child(name); c != nil {
		return c
	}
	c := &Element{XMLName: xml.Name{Local: name}}
	e.Children = append(e.Children, c)
	return c
}

func newElement(name string) *Element {
	return &Element{XMLName: xml.Name{Local: name}}
}

// System is a deserialized System document.
type System struct {
	root *Element
}

// Load reads a serialized System from a file.
func Load(path string) (*System, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system: %w", err)
	}
	return Parse(raw)
}

// Parse deserializes a System document.
func Parse(raw []byte) (*System, error) {
	root := new(Element)
	if err := xml.Unmarshal(raw, root); err != nil {
		return nil, fmt.Errorf("parsing system XML: %w", err)
	}
	if root.XMLName.Local != "System" {
		return nil, fmt.Errorf("not a serialized System: root element is '%s'", root.XMLName.Local)
	}
	return &System{root: root}, nil
}

// Save serializes the system to a file.
func (s *System) Save(path string) error {
	raw, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing system: %w", err)
	}
	return nil
}

// Marshal serializes the system document.
func (s *System) Marshal() ([]byte, error) {
	raw, err := xml.MarshalIndent(s.root, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("serializing system XML: %w", err)
	}
	return append([]byte(xml.Header), append(raw, '\n')...), nil
}

// NumParticles returns the number of particles in the system.
func (s *System) NumParticles() int {
	particles := s.root.Child("Particles")
	if particles == nil {
		return 0
	}
	n := 0
	for _, c := range particles.Children {
		if c.XMLName.Local == "Particle" {
			n++
		}
	}
	return n
}

// Forces returns the Force elements of the system.
func (s *System) Forces() []*Element {
	forces := s.root.Child("Forces")
	if forces == nil {
		return nil
	}
	var out []*Element
	for _, c := range forces.Children {
		if c.XMLName.Local == "Force" {
			out = append(out, c)
		}
	}
	return out
}

// AddForce appends a Force element to the system.
func (s *System) AddForce(force *Element) {
	forces := s.root.ensureChild("Forces")
	forces.Children = append(forces.Children, force)
}
