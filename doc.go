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

// Package djixt2 extracts the metadata of images taken with the DJI Zenmuse
// XT2 thermal camera.
//
// The camera writes TIFF files with one page per image.  Each page carries
// the usual TIFF tags, an Exif and a GPS sub-IFD, and an XMP packet with
// vendor specific fields in the drone-dji and FLIR namespaces.  This package
// does not read TIFF files itself.  Instead, a TIFF tag reader presents each
// page as a [Page], and the package combines all tags of the page into a
// single flat set of [Properties].
//
// # Reading Pages
//
// [ReadPage] converts a page in one step.  The conversion can also be done
// incrementally, using a [Normalizer] to produce the key/value pairs one at
// a time and [Assemble] to collect them:
//
//	props, err := djixt2.ReadPage(page)
//	if err != nil {
//		...
//	}
//	gain, _ := props.Get("TlinearGain")
//
// Pages from other cameras are rejected with an [*IdentificationError].
// If two sources produce the same key, for example a tag in the Exif sub-IFD
// and a field of the XMP packet, a [*DuplicateKeyError] is returned.
//
// # Values
//
// Tag values are used as provided by the tag reader, with the following
// exceptions:
//
//   - The XMP packet is replaced by its vendor fields, with text values.
//   - Byte sequences inside sub-IFDs are converted to strings.
//   - Enumerated values are replaced by their symbolic name.
//   - The GPS sub-IFD is additionally decoded into a [gps.Coordinate],
//     stored under the key "Coords".
//   - DateTimeOriginal is converted into a [time.Time], including the
//     fraction of a second from SubsecTimeOriginal.
//
// The altitude in the GPS coordinate is the height above the WGS-84
// ellipsoid, not the height above mean sea level.
//
// # Temperatures
//
// The raw sensor counts of a page, obtained through [Page.Pixels], are
// converted into degrees Celsius by [Celsius], using the TlinearGain field
// of the XMP packet.
//
// # JSON
//
// [JSON] converts a property set into a JSON document.
package djixt2
