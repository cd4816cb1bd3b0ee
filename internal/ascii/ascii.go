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

// Package ascii converts byte strings which are required to be 7-bit ASCII.
package ascii

import (
	"errors"
	"fmt"
)

// ErrNonASCII is returned by [Decode] if the input contains a byte outside
// the ASCII range.
var ErrNonASCII = errors.New("non-ASCII byte")

// Decode returns b as a string.  All bytes of b must be in the range 0x00 to
// 0x7F.
func Decode(b []byte) (string, error) {
	for i, c := range b {
		if c >= 0x80 {
			return "", fmt.Errorf("%w 0x%02x at offset %d", ErrNonASCII, c, i)
		}
	}
	return string(b), nil
}
