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

package djixt2

import "fmt"

// Page is one image of a TIFF file written by the camera, as presented by a
// TIFF tag reader.
type Page interface {
	// Tags returns the tags of the page's image file directory, in file
	// order.
	Tags() []Tag

	// Pixels returns the image data of the page.  Decoding the pixels is
	// left to the tag reader.
	Pixels() (*Raster, error)
}

// Raster holds the raw sensor counts of a page, row by row.
type Raster struct {
	Width  int
	Height int
	Pix    []uint16
}

// TagList is a [Page] backed by a slice of tags.  It has no image data.
type TagList []Tag

// Tags implements the [Page] interface.
func (l TagList) Tags() []Tag {
	return l
}

// Pixels implements the [Page] interface.  It always returns [ErrNoPixels].
func (l TagList) Pixels() (*Raster, error) {
	return nil, ErrNoPixels
}

// Tag is a single decoded entry of an image file directory.
type Tag struct {
	Code  uint16
	Name  string
	Value Value
}

// Value is the value of a [Tag].  This is one of [Scalar], [Enum], [Group]
// or [Raw].
type Value interface {
	isValue()
}

// Scalar is a plain tag value: a number, a string, or a tuple of numbers
// such as a rational.
type Scalar struct {
	V any
}

// Enum is a tag value with a symbolic name, for example the
// PhotometricInterpretation value "MINISBLACK".
type Enum struct {
	Name string
	Code int64
}

// Group is a tag value which contains a nested image file directory, for
// example the Exif or GPS sub-IFD.  The fields are in file order.
type Group []Field

// Raw is an uninterpreted byte sequence, for example the XMP packet.
type Raw []byte

func (Scalar) isValue() {}
func (Enum) isValue() {}
func (Group) isValue() {}
func (Raw) isValue() {}

// Field is a key/value pair.  It is used both for the entries of a [Group]
// and for the flattened output of a [Normalizer].
type Field struct {
	Key   string
	Value any
}

// Get returns the value of the first field with the given key.
// This implements the [gps.Fields] interface.
func (g Group) Get(key string) (any, bool) {
	for _, f := range g {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// findTag returns the first tag with the given name.
func findTag(tags []Tag, name string) (Tag, bool) {
	for _, tag := range tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// tagText returns the text of a string valued tag, or an empty string if the
// tag is missing or has no text.
func tagText(tags []Tag, name string) string {
	tag, ok := findTag(tags, name)
	if !ok {
		return ""
	}
	switch v := tag.Value.(type) {
	case Scalar:
		if s, ok := v.V.(string); ok {
			return s
		}
		return fmt.Sprint(v.V)
	case Raw:
		return string(v)
	case Enum:
		return v.Name
	}
	return ""
}
