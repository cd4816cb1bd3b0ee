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
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	keyDateTimeOriginal   = "DateTimeOriginal"
	keySubsecTimeOriginal = "SubsecTimeOriginal"

	// dateTimeLayout accepts month, day, hour, minute and second with or
	// without a leading zero.
	dateTimeLayout = "2006:1:2 15:4:5"

	// subsecUnit is the resolution of SubsecTimeOriginal.  The camera
	// writes two digits, counting hundredths of a second.
	subsecUnit = 10 * time.Millisecond
)

// Properties is the flat set of metadata of one page.  Keys are unique, and
// the order in which keys were added is preserved.
//
// Values are the ones produced by a [Normalizer].  In addition, after
// [Assemble] the value for "DateTimeOriginal" is a [time.Time].
type Properties struct {
	keys []string
	vals map[string]any
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{
		vals: make(map[string]any),
	}
}

// Add adds a new key.  If the key is already present, a
// [*DuplicateKeyError] is returned and p is not modified.
func (p *Properties) Add(key string, value any) error {
	if old, exists := p.vals[key]; exists {
		return &DuplicateKeyError{Key: key, Old: old, New: value}
	}
	p.keys = append(p.keys, key)
	p.vals[key] = value
	return nil
}

// Get returns the value stored for key.
func (p *Properties) Get(key string) (any, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	return slices.Clone(p.keys)
}

// Fields returns all key/value pairs in insertion order.
func (p *Properties) Fields() []Field {
	res := make([]Field, len(p.keys))
	for i, key := range p.keys {
		res[i] = Field{Key: key, Value: p.vals[key]}
	}
	return res
}

// Clone returns a shallow copy of p.
func (p *Properties) Clone() *Properties {
	return &Properties{
		keys: slices.Clone(p.keys),
		vals: maps.Clone(p.vals),
	}
}

// replace changes the value of an existing key, keeping its position.
func (p *Properties) replace(key string, value any) {
	p.vals[key] = value
}

// FieldReader is a source of key/value pairs.  [*Normalizer] implements this
// interface.
type FieldReader interface {
	Next() bool
	Field() Field
	Err() error
}

// ReadPage converts the tags of a page into a property set.
func ReadPage(page Page) (*Properties, error) {
	return Assemble(NewNormalizer(page))
}

// Assemble reads all pairs from r into a new property set.  Reading stops
// at the first key which has been seen before.
//
// If a DateTimeOriginal value is present, it is converted to a [time.Time].
// A SubsecTimeOriginal value, if present, is added to this time in units of
// 10ms.  The resulting time is in UTC, but represents the camera's clock
// setting, which may be for a different time zone.
func Assemble(r FieldReader) (*Properties, error) {
	p := NewProperties()
	for r.Next() {
		f := r.Field()
		err := p.Add(f.Key, f.Value)
		if err != nil {
			return nil, err
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	err := p.fixDateTime()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// fixDateTime replaces the DateTimeOriginal string with a time.Time.
func (p *Properties) fixDateTime() error {
	raw, ok := p.vals[keyDateTimeOriginal]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: %s %#v", ErrTimestamp, keyDateTimeOriginal, raw)
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("%w: %s %q", ErrTimestamp, keyDateTimeOriginal, s)
	}

	if sub, ok := p.vals[keySubsecTimeOriginal]; ok {
		n, ok := subsecCount(sub)
		if !ok || n < 0 || n >= int64(time.Second/subsecUnit) {
			return fmt.Errorf("%w: %s %#v", ErrTimestamp, keySubsecTimeOriginal, sub)
		}
		t = t.Add(time.Duration(n) * subsecUnit)
	}

	p.replace(keyDateTimeOriginal, t)
	return nil
}

func subsecCount(v any) (int64, bool) {
	switch v := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}
