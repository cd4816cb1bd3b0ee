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

// Package gps decodes the EXIF GPS tag group written by the DJI XT2 camera.
//
// The GPS tag group stores latitude and longitude as three rational numbers
// each (degrees, minutes and seconds), a hemisphere reference letter for each,
// and the altitude as a single rational number.  See section 4.6.6 of the
// Exif 2.3 standard (CIPA DC-008-2012).
package gps

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"

	"seehuhn.de/go/djixt2/internal/ascii"
)

// Coordinate is a position in the WGS-84 reference system.
//
// Alt is the height above the WGS-84 ellipsoid, in meters.  This is not
// the same as the height above mean sea level (orthometric height, e.g.
// relative to the EGM96 geoid); the two differ by a location dependent
// offset.  Callers which need orthometric heights, for example for KML
// output, must convert the value themselves.
type Coordinate struct {
	Lat float64 // degrees, positive north of the equator
	Lon float64 // degrees, positive east of Greenwich
	Alt float64 // meters above the WGS-84 ellipsoid
}

// String formats the coordinate as "lat,lon,alt", with nine decimal places
// for latitude and longitude and two for the altitude.
//
// Note that KML expects the order "lon,lat" and orthometric heights.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.9f,%.9f,%.2f", c.Lat, c.Lon, c.Alt)
}

// Fields gives access to the entries of a GPS tag group.
type Fields interface {
	Get(name string) (any, bool)
}

// Map is a GPS tag group stored in a map.
type Map map[string]any

// Get implements the [Fields] interface.
func (m Map) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Tag names used in the GPS tag group.
const (
	TagMapDatum     = "GPSMapDatum"
	TagLatitude     = "GPSLatitude"
	TagLatitudeRef  = "GPSLatitudeRef"
	TagLongitude    = "GPSLongitude"
	TagLongitudeRef = "GPSLongitudeRef"
	TagAltitude     = "GPSAltitude"
	TagAltitudeRef  = "GPSAltitudeRef"
)

const (
	// DatumWGS84 is the only map datum used by the camera.
	DatumWGS84 = "WGS-84"

	// AboveSeaLevel is the GPSAltitudeRef code for positive altitudes.
	AboveSeaLevel = 0
)

// Decode converts a GPS tag group into a coordinate.
//
// The checks are done in the order datum, latitude, longitude, altitude.
// The first violation is returned.
func Decode(g Fields) (Coordinate, error) {
	datum, err := getText(g, TagMapDatum)
	if err != nil {
		return Coordinate{}, err
	}
	if datum != DatumWGS84 {
		return Coordinate{}, fmt.Errorf("%w %q", ErrUnsupportedDatum, datum)
	}

	lat, err := getAngle(g, TagLatitude, TagLatitudeRef, 90, "N", "S")
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := getAngle(g, TagLongitude, TagLongitudeRef, 180, "E", "W")
	if err != nil {
		return Coordinate{}, err
	}

	ref, err := get(g, TagAltitudeRef)
	if err != nil {
		return Coordinate{}, err
	}
	if code, ok := toFloat(ref); !ok || code != AboveSeaLevel {
		return Coordinate{}, fmt.Errorf("%w: %s %#v", ErrInvalidReference, TagAltitudeRef, ref)
	}
	raw, err := get(g, TagAltitude)
	if err != nil {
		return Coordinate{}, err
	}
	z, ok := toFloats(raw)
	if !ok || len(z) != 2 || z[1] == 0 {
		return Coordinate{}, fmt.Errorf("%w: %s %#v", ErrRange, TagAltitude, raw)
	}
	alt := z[0] / z[1]

	return Coordinate{Lat: lat, Lon: lon, Alt: alt}, nil
}

// getAngle decodes a degrees/minutes/seconds rational sequence and applies
// the sign given by the hemisphere reference.  The magnitude must be in the
// range [0, limit].
func getAngle(g Fields, name, refName string, limit float64, pos, neg string) (float64, error) {
	raw, err := get(g, name)
	if err != nil {
		return 0, err
	}
	x, ok := toFloats(raw)
	if !ok || len(x) != 6 || x[1] == 0 || x[3] == 0 || x[5] == 0 {
		return 0, fmt.Errorf("%w: %s %#v", ErrRange, name, raw)
	}
	val := x[0]/x[1] + (x[2]/x[3])/60 + (x[4]/x[5])/3600
	if !(val >= 0 && val <= limit) {
		return 0, fmt.Errorf("%w: %s %#v", ErrRange, name, raw)
	}

	ref, err := getText(g, refName)
	if err != nil {
		return 0, err
	}
	switch ref {
	case pos:
		// pass
	case neg:
		val = -val
	default:
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidReference, refName, ref)
	}
	return val, nil
}

func get(g Fields, name string) (any, error) {
	v, ok := g.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingField, name)
	}
	return v, nil
}

// getText reads a text entry.  Entries which the tag reader left as bytes
// are decoded as ASCII.
func getText(g Fields, name string) (string, error) {
	v, err := get(g, name)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		s, err := ascii.Decode(v)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return s, nil
	default:
		return fmt.Sprint(v), nil
	}
}

type number interface {
	constraints.Integer | constraints.Float
}

func convert[T number](xx []T) []float64 {
	res := make([]float64, len(xx))
	for i, x := range xx {
		res[i] = float64(x)
	}
	return res
}

// toFloats converts a rational sequence, as produced by a TIFF tag reader,
// into a slice of float64 values.
func toFloats(v any) ([]float64, bool) {
	switch v := v.(type) {
	case []float64:
		return v, true
	case []float32:
		return convert(v), true
	case []int:
		return convert(v), true
	case []int32:
		return convert(v), true
	case []int64:
		return convert(v), true
	case []uint:
		return convert(v), true
	case []uint16:
		return convert(v), true
	case []uint32:
		return convert(v), true
	case []uint64:
		return convert(v), true
	case []any:
		res := make([]float64, len(v))
		for i, x := range v {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			res[i] = f
		}
		return res, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

var (
	// ErrUnsupportedDatum indicates a map datum other than WGS-84.
	ErrUnsupportedDatum = errors.New("unsupported GPS map datum")

	// ErrRange indicates a malformed rational sequence, or an angle outside
	// the valid range.
	ErrRange = errors.New("GPS value out of range")

	// ErrInvalidReference indicates an unknown hemisphere or altitude
	// reference.
	ErrInvalidReference = errors.New("invalid GPS reference")

	// ErrMissingField indicates that a required entry of the GPS tag group
	// is missing.
	ErrMissingField = errors.New("missing GPS field")
)
