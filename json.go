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
	"bytes"
	"encoding/json"
	"time"

	"seehuhn.de/go/djixt2/gps"
)

// jsonTimeLayout has millisecond precision and a space between date and
// time.
const jsonTimeLayout = "2006-01-02 15:04:05.000"

// MarshalJSON encodes p as a JSON object, with the keys in insertion order.
// Values are encoded as by [json.Marshal], except that the characters <, >
// and & are not escaped.
func (p *Properties) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := marshal(p.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// JSON returns the properties as an indented JSON document.
//
// Timestamps are written as "YYYY-MM-DD HH:MM:SS.mmm" and coordinates as
// "lat,lon,alt" strings (see [gps.Coordinate.String]).  All other values are
// encoded as described for [Properties.MarshalJSON].  The properties are not
// modified.
func JSON(p *Properties) (string, error) {
	q := p.Clone()
	for key, val := range q.vals {
		switch val := val.(type) {
		case time.Time:
			q.vals[key] = val.Format(jsonTimeLayout)
		case gps.Coordinate:
			q.vals[key] = val.String()
		}
	}

	body, err := q.MarshalJSON()
	if err != nil {
		return "", err
	}
	out := &bytes.Buffer{}
	err = json.Indent(out, body, "", "  ")
	if err != nil {
		return "", err
	}
	return out.String(), nil
}
