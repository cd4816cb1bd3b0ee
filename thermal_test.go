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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// imagePage is a page with image data.
type imagePage struct {
	TagList
	raster *Raster
}

func (p *imagePage) Pixels() (*Raster, error) {
	return p.raster, nil
}

func TestCelsius(t *testing.T) {
	page := &imagePage{
		TagList: samplePage(t),
		raster: &Raster{
			Width:  3,
			Height: 2,
			Pix:    []uint16{0, 6830, 7000, 7329, 7500, 10000},
		},
	}
	p, err := ReadPage(page)
	if err != nil {
		t.Fatal(err)
	}
	r, err := page.Pixels()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Celsius(p, r)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-273.15, 0.05, 6.85, 20.01, 26.85, 126.85}
	if d := cmp.Diff(want, got, approx); d != "" {
		t.Errorf("unexpected temperatures (-want +got):\n%s", d)
	}
}

func TestLinearGain(t *testing.T) {
	type testCase struct {
		desc  string
		value any
		want  float64
		err   error
	}
	testCases := []testCase{
		{"text", "0.04", 0.04, nil},
		{"padded text", " 0.05 ", 0.05, nil},
		{"number", 0.01, 0.01, nil},
		{"not a number", "fast", 0, ErrValue},
		{"empty", "", 0, ErrValue},
		{"not finite", "Inf", 0, ErrValue},
		{"integer", 4, 0, ErrValue},
		{"missing", nil, 0, ErrValue},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p := NewProperties()
			if tc.value != nil {
				_ = p.Add(GainKey, tc.value)
			}
			got, err := LinearGain(p)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got error %v, want %v", err, tc.err)
			}
			if got != tc.want {
				t.Errorf("got %g, want %g", got, tc.want)
			}
		})
	}
}

func TestCelsiusErrors(t *testing.T) {
	p := NewProperties()
	_ = p.Add("Make", "DJI")
	r := &Raster{Width: 1, Height: 1, Pix: []uint16{7000}}
	if _, err := Celsius(p, r); !errors.Is(err, ErrValue) {
		t.Errorf("missing gain: got error %v, want %v", err, ErrValue)
	}

	_ = p.Add(GainKey, "0.04")
	r = &Raster{Width: 2, Height: 2, Pix: []uint16{7000}}
	if _, err := Celsius(p, r); !errors.Is(err, ErrValue) {
		t.Errorf("short raster: got error %v, want %v", err, ErrValue)
	}
}

func TestTagListPixels(t *testing.T) {
	_, err := TagList{}.Pixels()
	if !errors.Is(err, ErrNoPixels) {
		t.Errorf("got error %v, want %v", err, ErrNoPixels)
	}
}
