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
	"math"
	"strconv"
	"strings"
)

const (
	// GainKey is the XMP field which gives the scale of the raw sensor
	// counts, in kelvin per count.
	GainKey = "TlinearGain"

	// ZeroCelsius is the temperature of 0°C in kelvin.
	ZeroCelsius = 273.15
)

// LinearGain returns the value of the TlinearGain property.
func LinearGain(p *Properties) (float64, error) {
	raw, ok := p.Get(GainKey)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrValue, GainKey)
	}

	var gain float64
	switch v := raw.(type) {
	case string:
		var err error
		gain, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q", ErrValue, GainKey, v)
		}
	case float64:
		gain = v
	default:
		return 0, fmt.Errorf("%w: %s %#v", ErrValue, GainKey, raw)
	}
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return 0, fmt.Errorf("%w: %s %#v", ErrValue, GainKey, raw)
	}
	return gain, nil
}

// Celsius converts the raw counts of a page into temperatures in degrees
// Celsius, using count*gain - 273.15 with the gain from [LinearGain].
// The result has the same layout as r.Pix.
func Celsius(p *Properties, r *Raster) ([]float64, error) {
	gain, err := LinearGain(p)
	if err != nil {
		return nil, err
	}
	if r.Width < 0 || r.Height < 0 || len(r.Pix) != r.Width*r.Height {
		return nil, fmt.Errorf("%w: %dx%d raster with %d pixels",
			ErrValue, r.Width, r.Height, len(r.Pix))
	}

	res := make([]float64, len(r.Pix))
	for i, count := range r.Pix {
		res[i] = float64(count)*gain - ZeroCelsius
	}
	return res, nil
}
