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

package xpacket

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/djixt2/internal/ascii"
)

const (
	pktBegin  = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>`
	pktEnd    = `<?xpacket end="w"?>`
	descClose = `</rdf:Description></rdf:RDF></x:xmpmeta>`
)

const descOpen = `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
	`<rdf:Description rdf:about="" xmlns:drone-dji="http://www.dji.com/drone-dji/1.0/" xmlns:FLIR="http://www.dji.com/FLIR/1.0/">`

type extractTestCase struct {
	desc string
	in   string
	out  []Field
	err  error
}

var extractTestCases = []extractTestCase{
	{
		desc: "empty description",
		in:   pktBegin + descOpen + descClose + pktEnd,
		out:  nil,
	},
	{
		desc: "simple",
		in:   pktBegin + descOpen + `<drone-dji:GimbalYawDegree>-92.50</drone-dji:GimbalYawDegree>` + descClose + pktEnd,
		out:  []Field{{Name: "GimbalYawDegree", Value: "-92.50"}},
	},
	{
		desc: "namespace order",
		in: pktBegin + descOpen +
			`<FLIR:TlinearGain>0.04</FLIR:TlinearGain>` +
			`<drone-dji:AbsoluteAltitude>+85.40</drone-dji:AbsoluteAltitude>` +
			`<FLIR:BandName>LWIR</FLIR:BandName>` +
			`<drone-dji:RelativeAltitude>+50.10</drone-dji:RelativeAltitude>` +
			descClose + pktEnd,
		out: []Field{
			{Name: "AbsoluteAltitude", Value: "+85.40"},
			{Name: "RelativeAltitude", Value: "+50.10"},
			{Name: "TlinearGain", Value: "0.04"},
			{Name: "BandName", Value: "LWIR"},
		},
	},
	{
		desc: "nested text",
		in: pktBegin + descOpen +
			`<FLIR:CentralWavelength><rdf:Seq><rdf:li>8</rdf:li><rdf:li>14</rdf:li></rdf:Seq></FLIR:CentralWavelength>` +
			descClose + pktEnd,
		out: []Field{{Name: "CentralWavelength", Value: "8 14"}},
	},
	{
		desc: "tail text",
		in:   pktBegin + descOpen + `<FLIR:A> a <rdf:b>b</rdf:b> c </FLIR:A>` + descClose + pktEnd,
		out:  []Field{{Name: "A", Value: "a  b  c"}},
	},
	{
		desc: "CDATA and entities",
		in:   pktBegin + descOpen + `<FLIR:A>x<![CDATA[<y>]]>&amp;z</FLIR:A>` + descClose + pktEnd,
		out:  []Field{{Name: "A", Value: "x<y>&z"}},
	},
	{
		desc: "comment inside text",
		in:   pktBegin + descOpen + `<FLIR:A>ab<!-- comment -->cd</FLIR:A>` + descClose + pktEnd,
		out:  []Field{{Name: "A", Value: "abcd"}},
	},
	{
		desc: "nested selected elements",
		in: pktBegin + descOpen +
			`<drone-dji:Outer><drone-dji:Inner>1</drone-dji:Inner></drone-dji:Outer>` +
			descClose + pktEnd,
		out: []Field{
			{Name: "Outer", Value: "1"},
			{Name: "Inner", Value: "1"},
		},
	},
	{
		desc: "empty element",
		in:   pktBegin + descOpen + `<FLIR:Empty/>` + descClose + pktEnd,
		out:  []Field{{Name: "Empty", Value: ""}},
	},
	{
		desc: "attributes are ignored",
		in: pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
			`<rdf:Description xmlns:drone-dji="http://www.dji.com/drone-dji/1.0/" drone-dji:Attr="1"/>` +
			`</rdf:RDF></x:xmpmeta>` + pktEnd,
		out: nil,
	},
	{
		desc: "single quotes and padding",
		in:   "\n " + `<?xpacket begin='' id='W5M0MpCehiHzreSzNTczkc9d'?>` + descOpen + descClose + `<?xpacket end='r'?>` + "  \n\x00\x00",
		out:  nil,
	},
	{
		desc: "wrong packet id",
		in:   `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9e"?>` + descOpen + descClose + pktEnd,
		err:  ErrEnvelope,
	},
	{
		desc: "mixed quotes",
		in:   `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d'?>` + descOpen + descClose + pktEnd,
		err:  ErrEnvelope,
	},
	{
		desc: "missing end",
		in:   pktBegin + descOpen + descClose,
		err:  ErrEnvelope,
	},
	{
		desc: "junk after end",
		in:   pktBegin + descOpen + descClose + pktEnd + "x",
		err:  ErrEnvelope,
	},
	{
		desc: "no envelope",
		in:   descOpen + descClose,
		err:  ErrEnvelope,
	},
	{
		desc: "unclosed element",
		in:   pktBegin + descOpen + `<FLIR:A>1` + descClose + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "unclosed document",
		in:   pktBegin + descOpen + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "empty content",
		in:   pktBegin + "\n" + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "two document elements",
		in:   pktBegin + descOpen + descClose + descOpen + descClose + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "text after document element",
		in:   pktBegin + descOpen + descClose + "junk" + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "unbound element prefix",
		in: pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/">` +
			`<FLIR:TlinearGain>0.04</FLIR:TlinearGain></x:xmpmeta>` + pktEnd,
		err: errUnboundPrefix,
	},
	{
		desc: "prefix out of scope",
		in: pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/">` +
			`<x:a xmlns:FLIR="http://www.dji.com/FLIR/1.0/"/>` +
			`<FLIR:TlinearGain>0.04</FLIR:TlinearGain></x:xmpmeta>` + pktEnd,
		err: errUnboundPrefix,
	},
	{
		desc: "unbound attribute prefix",
		in:   pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/" tiff:Make="DJI"/>` + pktEnd,
		err:  errUnboundPrefix,
	},
	{
		desc: "undeclared prefix",
		in:   pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/"><x:a xmlns:x=""/></x:xmpmeta>` + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "duplicate attribute",
		in:   pktBegin + `<a a="1" a="2"/>` + pktEnd,
		err:  errDuplicateAttr,
	},
	{
		desc: "duplicate expanded attribute",
		in:   pktBegin + `<a xmlns:p="urn:x" xmlns:q="urn:x" p:a="1" q:a="2"/>` + pktEnd,
		err:  errDuplicateAttr,
	},
	{
		desc: "XML declaration after white space",
		in:   pktBegin + "\n" + `<?xml version="1.0"?>` + descOpen + descClose + pktEnd,
		err:  errMisplacedDecl,
	},
	{
		desc: "XML declaration at start",
		in: pktBegin + `<?xml version="1.0"?>` + descOpen +
			`<FLIR:TlinearGain>0.04</FLIR:TlinearGain>` + descClose + pktEnd,
		out: []Field{{Name: "TlinearGain", Value: "0.04"}},
	},
	{
		desc: "default namespace",
		in: pktBegin + `<x:xmpmeta xmlns:x="adobe:ns:meta/">` +
			`<TlinearGain xmlns="http://www.dji.com/FLIR/1.0/">0.04</TlinearGain>` +
			`<Other>1</Other></x:xmpmeta>` + pktEnd,
		out: []Field{{Name: "TlinearGain", Value: "0.04"}},
	},
	{
		desc: "mismatched end tag",
		in:   pktBegin + `<x:a xmlns:x="adobe:ns:meta/" xmlns:y="adobe:ns:meta/"></y:a>` + pktEnd,
		err:  ErrMalformedXML,
	},
	{
		desc: "element name with a dash",
		in:   pktBegin + descOpen + `<FLIR:Band-Name>LWIR</FLIR:Band-Name>` + descClose + pktEnd,
		err:  ErrTagName,
	},
	{
		desc: "non-ASCII byte",
		in:   `<?xpacket begin="` + "\ufeff" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>` + descOpen + descClose + pktEnd,
		err:  ascii.ErrNonASCII,
	},
}

func TestExtract(t *testing.T) {
	for _, tc := range extractTestCases {
		t.Run(tc.desc, func(t *testing.T) {
			out, err := Extract([]byte(tc.in), NamespaceDJI, NamespaceFLIR)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got error %v, want %v", err, tc.err)
			}
			if d := cmp.Diff(tc.out, out); d != "" {
				t.Errorf("unexpected fields (-want +got):\n%s", d)
			}
		})
	}
}

func TestExtractSample(t *testing.T) {
	data, err := os.ReadFile("testdata/xt2.xmp")
	if err != nil {
		t.Fatal(err)
	}

	out, err := Extract(data, NamespaceDJI, NamespaceFLIR)
	if err != nil {
		t.Fatal(err)
	}

	want := []Field{
		{Name: "AbsoluteAltitude", Value: "+85.40"},
		{Name: "RelativeAltitude", Value: "+50.10"},
		{Name: "GimbalRollDegree", Value: "+0.00"},
		{Name: "GimbalYawDegree", Value: "-92.50"},
		{Name: "GimbalPitchDegree", Value: "-90.00"},
		{Name: "FlightRollDegree", Value: "+1.20"},
		{Name: "FlightYawDegree", Value: "-91.80"},
		{Name: "FlightPitchDegree", Value: "+2.30"},
		{Name: "TlinearGain", Value: "0.04"},
		{Name: "CentralWavelength", Value: "10500"},
		{Name: "BandName", Value: "LWIR"},
	}
	if d := cmp.Diff(want, out); d != "" {
		t.Errorf("unexpected fields (-want +got):\n%s", d)
	}
}

func TestExtractNoNamespaces(t *testing.T) {
	data, err := os.ReadFile("testdata/xt2.xmp")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("unexpected fields %v", out)
	}
}
