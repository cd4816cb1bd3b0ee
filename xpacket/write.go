// seehuhn.de/go/djixt2 - metadata of DJI Zenmuse XT2 thermal images
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package xpacket

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/maps"
)

// Property is a simple XMP property, for use with [Write].
type Property struct {
	Name  xml.Name
	Value string
}

// Write writes the given properties as an XMP packet, using the layout of
// the packets embedded by DJI cameras.  All properties are written as
// simple elements inside a single rdf:Description, in the given order.
//
// The opening processing instruction has an empty begin attribute, so that
// the packet consists of ASCII text as long as all property values do.
func Write(w io.Writer, about string, props []Property) error {
	nsToPrefix := make(map[string]string)
	nsToPrefix[xmpMetaNamespace] = defaultPrefix[xmpMetaNamespace]
	nsToPrefix[rdfNamespace] = defaultPrefix[rdfNamespace]

	used := make(map[string]struct{})
	for _, p := range props {
		if p.Name.Space == "" {
			return fmt.Errorf("XMP property %q has no namespace", p.Name.Local)
		}
		if !isNCName(p.Name.Local) {
			return fmt.Errorf("invalid XMP property name %q", p.Name.Local)
		}
		used[p.Name.Space] = struct{}{}
	}
	nameSpaces := maps.Keys(used)
	sort.Strings(nameSpaces)
	for _, ns := range nameSpaces {
		if _, alreadyDone := nsToPrefix[ns]; alreadyDone {
			continue
		}
		nsToPrefix[ns] = getPrefix(nsToPrefix, ns)
	}
	makeName := func(ns, local string) xml.Name {
		return xml.Name{Local: nsToPrefix[ns] + ":" + local}
	}
	xmlns := func(ns string) xml.Attr {
		return xml.Attr{Name: xml.Name{Local: "xmlns:" + nsToPrefix[ns]}, Value: ns}
	}

	e := xml.NewEncoder(w)
	e.Indent("", " ")

	err := e.EncodeToken(xml.ProcInst{
		Target: "xpacket",
		Inst:   []byte(`begin="" id="` + PacketID + `"`),
	})
	if err != nil {
		return err
	}
	err = e.EncodeToken(xml.CharData("\n"))
	if err != nil {
		return err
	}

	meta := xml.StartElement{
		Name: makeName(xmpMetaNamespace, "xmpmeta"),
		Attr: []xml.Attr{xmlns(xmpMetaNamespace)},
	}
	rdf := xml.StartElement{
		Name: makeName(rdfNamespace, "RDF"),
		Attr: []xml.Attr{xmlns(rdfNamespace)},
	}
	desc := xml.StartElement{
		Name: makeName(rdfNamespace, "Description"),
		Attr: []xml.Attr{{Name: makeName(rdfNamespace, "about"), Value: about}},
	}
	for _, ns := range nameSpaces {
		if ns == rdfNamespace || ns == xmpMetaNamespace {
			continue
		}
		desc.Attr = append(desc.Attr, xmlns(ns))
	}
	for _, start := range []xml.StartElement{meta, rdf, desc} {
		err = e.EncodeToken(start)
		if err != nil {
			return err
		}
	}

	for _, p := range props {
		name := makeName(p.Name.Space, p.Name.Local)
		err = e.EncodeToken(xml.StartElement{Name: name})
		if err != nil {
			return err
		}
		if p.Value != "" {
			err = e.EncodeToken(xml.CharData(p.Value))
			if err != nil {
				return err
			}
		}
		err = e.EncodeToken(xml.EndElement{Name: name})
		if err != nil {
			return err
		}
	}

	for _, start := range []xml.StartElement{desc, rdf, meta} {
		err = e.EncodeToken(start.End())
		if err != nil {
			return err
		}
	}
	err = e.EncodeToken(xml.CharData("\n"))
	if err != nil {
		return err
	}
	err = e.EncodeToken(xml.ProcInst{
		Target: "xpacket",
		Inst:   []byte(`end="w"`),
	})
	if err != nil {
		return err
	}
	return e.Close()
}
