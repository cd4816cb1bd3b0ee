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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"seehuhn.de/go/djixt2/internal/ascii"
)

// Field is a vendor specific XMP element, reduced to its local name and its
// text content.
type Field struct {
	Name  string
	Value string
}

// Extract reads the XMP packet in data and returns the elements in the given
// namespaces.
//
// The packet must be ASCII text, wrapped in xpacket processing instructions
// with the standard packet ID.  Padding white space and NUL bytes after the
// closing processing instruction are allowed.  The XML between the processing
// instructions must be well-formed.
//
// All descendant elements in namespaces[0] are returned first, in document
// order, followed by the elements in namespaces[1], and so on.  Each field
// value is the text content of the element, including the text of all nested
// elements, with the text chunks separated by single spaces and surrounding
// white space removed.  Elements nested inside a selected element are
// selected, too, if they are in one of the namespaces.
func Extract(data []byte, namespaces ...string) ([]Field, error) {
	packet, err := ascii.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("XMP packet: %w", err)
	}
	content, err := unwrap(packet)
	if err != nil {
		return nil, err
	}

	root, err := parseTree(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}

	var res []Field
	for _, ns := range namespaces {
		for _, e := range root.findAll(ns, nil) {
			if !localNameRegexp.MatchString(e.name.Local) {
				return nil, fmt.Errorf("%w: {%s}%s", ErrTagName, e.name.Space, e.name.Local)
			}
			res = append(res, Field{Name: e.name.Local, Value: e.textContent()})
		}
	}
	return res, nil
}

// unwrap checks the xpacket envelope and returns the XML document inside.
func unwrap(packet string) (string, error) {
	m := envelopeRegexp.FindStringSubmatch(packet)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrEnvelope, abbreviate(packet, 120))
	}
	return m[1], nil
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var (
	envelopeRegexp = regexp.MustCompile(`(?s)\A\s*` +
		`<\?xpacket\s+begin=(?:'[^'>]*'|"[^">]*")\s+id=(?:'` + PacketID + `'|"` + PacketID + `")\?>` +
		`(.*)` +
		`<\?xpacket\s+end=(?:'[^'>]*'|"[^">]*")\?>[\s\v\x00]*\z`)

	localNameRegexp = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_]+$`)
)

var (
	// ErrEnvelope indicates that the data is not wrapped in the expected
	// xpacket processing instructions.
	ErrEnvelope = errors.New("unexpected XMP packet envelope")

	// ErrMalformedXML indicates that the packet content is not well-formed
	// XML.
	ErrMalformedXML = errors.New("malformed XMP packet content")

	// ErrTagName indicates a selected element whose name is not a plain word.
	ErrTagName = errors.New("unexpected XMP element name")
)
