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
	"strconv"
	"strings"
	"unicode"
)

const (
	// NamespaceDJI is the namespace of the drone and gimbal fields written
	// by DJI cameras (prefix "drone-dji").
	NamespaceDJI = "http://www.dji.com/drone-dji/1.0/"

	// NamespaceFLIR is the namespace of the radiometric fields written by
	// the FLIR core inside the XT2 (prefix "FLIR").
	NamespaceFLIR = "http://www.dji.com/FLIR/1.0/"

	// PacketID is the value of the id attribute in the opening xpacket
	// processing instruction.  It is fixed by the XMP standard.
	PacketID = "W5M0MpCehiHzreSzNTczkc9d"

	xmlNamespace     = "http://www.w3.org/XML/1998/namespace"
	rdfNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmpMetaNamespace = "adobe:ns:meta/"
)

var defaultPrefix = map[string]string{
	xmlNamespace:                                   "xml",
	rdfNamespace:                                   "rdf",
	xmpMetaNamespace:                               "x",
	NamespaceDJI:                                   "drone-dji",
	NamespaceFLIR:                                  "FLIR",
	"http://ns.adobe.com/xap/1.0/":                 "xmp",
	"http://ns.adobe.com/tiff/1.0/":                "tiff",
	"http://ns.adobe.com/exif/1.0/":                "exif",
	"http://purl.org/dc/elements/1.1/":             "dc",
	"http://ns.adobe.com/xap/1.0/mm/":              "xmpMM",
	"http://ns.adobe.com/camera-raw-settings/1.0/": "crs",
}

// getPrefix chooses a new prefix for the given namespace.
// The new prefix is chosen to be different from the ones already in the
// nsToPrefix map.
func getPrefix(nsToPrefix map[string]string, ns string) string {
	if pfx, ok := defaultPrefix[ns]; ok && !prefixUsed(nsToPrefix, pfx) {
		return pfx
	}

	// Pick a name. We try to use the final element of the path
	// but fall back to _.
	prefix := strings.TrimRight(ns, "/#")
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		prefix = prefix[i+1:]
	}
	if !isNCName(prefix) {
		prefix = "_"
	}
	// xmlanything is reserved and any variant of it regardless of
	// case should be matched.  See Section 2.3 of
	// https://www.w3.org/TR/REC-xml/
	if len(prefix) >= 3 && strings.EqualFold(prefix[:3], "xml") {
		prefix = "_" + prefix
	}

	if prefixUsed(nsToPrefix, prefix) {
		for idx := 1; ; idx++ {
			if id := prefix + "_" + strconv.Itoa(idx); !prefixUsed(nsToPrefix, id) {
				prefix = id
				break
			}
		}
	}
	return prefix
}

func prefixUsed(nsToPrefix map[string]string, pfx string) bool {
	for _, p := range nsToPrefix {
		if p == pfx {
			return true
		}
	}
	return false
}

// isNCName reports whether s is a valid XML name without a colon.
func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || unicode.IsLetter(c):
			// pass
		case i > 0 && (c == '-' || c == '.' || unicode.IsDigit(c)):
			// pass
		default:
			return false
		}
	}
	return true
}
