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
	"errors"
	"fmt"
)

var (
	// ErrIdentification is returned for pages which were not written by a
	// DJI XT2 camera.  The returned error has type [*IdentificationError].
	ErrIdentification = errors.New("not a DJI XT2 image")

	// ErrDuplicateKey is returned if two tags or XMP fields map to the same
	// key.  The returned error has type [*DuplicateKeyError].
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTimestamp indicates a malformed DateTimeOriginal or
	// SubsecTimeOriginal value.
	ErrTimestamp = errors.New("malformed timestamp")

	// ErrValue indicates a tag or property whose value has an unexpected
	// shape.
	ErrValue = errors.New("unexpected tag value")

	// ErrNoPixels is returned by pages which carry no image data.
	ErrNoPixels = errors.New("no pixel data")
)

// IdentificationError gives the make and model found in a page which was not
// written by a DJI XT2 camera.
type IdentificationError struct {
	Make  string
	Model string
}

func (e *IdentificationError) Error() string {
	return fmt.Sprintf("this is not a %s %s, it is a %q %q",
		CameraMake, CameraModel, e.Make, e.Model)
}

func (e *IdentificationError) Unwrap() error {
	return ErrIdentification
}

// DuplicateKeyError is returned when a key occurs a second time.
// Old is the value stored first, New is the conflicting value.
type DuplicateKeyError struct {
	Key string
	Old any
	New any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already exists with value %#v, can't set it to %#v",
		e.Key, e.Old, e.New)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
