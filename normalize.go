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

import (
	"fmt"

	"seehuhn.de/go/djixt2/gps"
	"seehuhn.de/go/djixt2/internal/ascii"
	"seehuhn.de/go/djixt2/xpacket"
)

const (
	// CameraMake and CameraModel are the values of the Make and Model tags
	// in images from the DJI Zenmuse XT2.
	CameraMake  = "DJI"
	CameraModel = "XT2"

	// CoordsKey is the key under which the decoded GPS position is stored.
	CoordsKey = "Coords"
)

// Names of tags with special treatment.
const (
	tagMake  = "Make"
	tagModel = "Model"
	tagXMP   = "XMP"
	tagGPS   = "GPSTag"
)

// Normalizer turns the tags of a page into a flat sequence of key/value
// pairs.  Tags are only decoded when the pairs are requested.
//
// The conversion rules are:
//   - The XMP packet is replaced by the fields in the drone-dji namespace,
//     followed by the fields in the FLIR namespace (see [xpacket.Extract]).
//   - A [Group] is replaced by its fields.  Byte sequences inside the group,
//     including [Raw] values, are decoded as ASCII text.
//   - An [Enum] is replaced by its name.
//   - All other values are used unchanged.
//
// After all tags, a [gps.Coordinate] decoded from the GPS sub-IFD is
// emitted under the key [CoordsKey], if the page has a GPS tag.
//
// Use Normalizer like a [bufio.Scanner]:
//
//	n := NewNormalizer(page)
//	for n.Next() {
//		f := n.Field()
//		...
//	}
//	if err := n.Err(); err != nil {
//		...
//	}
type Normalizer struct {
	page Page

	tags    []Tag
	pos     int
	started bool
	gpsDone bool

	pending []Field
	current Field
	err     error
}

// NewNormalizer returns a Normalizer for the given page.  The page is not
// accessed until the first call to [Normalizer.Next].
func NewNormalizer(page Page) *Normalizer {
	return &Normalizer{page: page}
}

// Next advances to the next pair, which is then available through
// [Normalizer.Field].  It returns false when there are no more pairs or
// when an error occurred.
//
// The first call checks the camera make and model, before any tag is
// converted.
func (n *Normalizer) Next() bool {
	if n.err != nil {
		return false
	}
	if !n.started {
		n.started = true
		n.tags = n.page.Tags()
		n.err = identify(n.tags)
		if n.err != nil {
			return false
		}
	}

	for len(n.pending) == 0 {
		if n.pos < len(n.tags) {
			tag := n.tags[n.pos]
			n.pos++
			n.pending, n.err = convertTag(tag)
		} else if !n.gpsDone {
			n.gpsDone = true
			n.pending, n.err = convertGPS(n.tags)
		} else {
			return false
		}
		if n.err != nil {
			n.pending = nil
			return false
		}
	}

	n.current = n.pending[0]
	n.pending = n.pending[1:]
	return true
}

// Field returns the pair found by the most recent call to [Normalizer.Next].
func (n *Normalizer) Field() Field {
	return n.current
}

// Err returns the first error encountered, if any.
func (n *Normalizer) Err() error {
	return n.err
}

// identify checks that the tags come from the XT2 camera.
func identify(tags []Tag) error {
	mk := tagText(tags, tagMake)
	model := tagText(tags, tagModel)
	if mk != CameraMake || model != CameraModel {
		return &IdentificationError{Make: mk, Model: model}
	}
	return nil
}

func convertTag(tag Tag) ([]Field, error) {
	if tag.Name == tagXMP {
		return convertXMP(tag)
	}

	switch v := tag.Value.(type) {
	case Group:
		res := make([]Field, len(v))
		for i, f := range v {
			var b []byte
			switch val := f.Value.(type) {
			case []byte:
				b = val
			case Raw:
				b = val
			default:
				res[i] = f
				continue
			}
			s, err := ascii.Decode(b)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", tag.Name, f.Key, err)
			}
			f.Value = s
			res[i] = f
		}
		return res, nil
	case Enum:
		return []Field{{Key: tag.Name, Value: v.Name}}, nil
	case Scalar:
		return []Field{{Key: tag.Name, Value: v.V}}, nil
	case Raw:
		return []Field{{Key: tag.Name, Value: []byte(v)}}, nil
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrValue, tag.Name, tag.Value)
	}
}

func convertXMP(tag Tag) ([]Field, error) {
	var data []byte
	switch v := tag.Value.(type) {
	case Raw:
		data = v
	case Scalar:
		b, ok := v.V.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: %s has type %T", ErrValue, tag.Name, v.V)
		}
		data = b
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrValue, tag.Name, tag.Value)
	}

	xmpFields, err := xpacket.Extract(data, xpacket.NamespaceDJI, xpacket.NamespaceFLIR)
	if err != nil {
		return nil, err
	}
	res := make([]Field, len(xmpFields))
	for i, f := range xmpFields {
		res[i] = Field{Key: f.Name, Value: f.Value}
	}
	return res, nil
}

// convertGPS decodes the GPS sub-IFD, if present.
func convertGPS(tags []Tag) ([]Field, error) {
	tag, ok := findTag(tags, tagGPS)
	if !ok {
		return nil, nil
	}
	group, ok := tag.Value.(Group)
	if !ok {
		return nil, fmt.Errorf("%w: %s has type %T", ErrValue, tag.Name, tag.Value)
	}
	coords, err := gps.Decode(group)
	if err != nil {
		return nil, err
	}
	return []Field{{Key: CoordsKey, Value: coords}}, nil
}
