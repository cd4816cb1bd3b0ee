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
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// element is a node of a parsed XML document.
//
// The field text holds the character data between the start tag and the
// first child element.  The field tail holds the character data between
// the end tag and the next sibling, or the end tag of the parent.
type element struct {
	name     xml.Name
	text     string
	tail     string
	children []*element
}

// parseTree parses a complete XML document and returns the document
// element.  Comments, processing instructions and directives are dropped.
//
// Namespace prefixes are resolved here, rather than by the decoder, so that
// documents which are not namespace-well-formed can be rejected.
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)

	var root *element
	var stack []openElement
	for first := true; ; first = false {
		t, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := t.(type) {
		case xml.StartElement:
			var parent *scope
			if len(stack) > 0 {
				parent = stack[len(stack)-1].scope
			}
			sc, err := parent.declare(t.Attr)
			if err != nil {
				return nil, err
			}
			name, err := sc.resolve(t.Name, true)
			if err != nil {
				return nil, err
			}
			err = sc.checkAttrs(t.Attr)
			if err != nil {
				return nil, err
			}

			e := &element{name: name}
			if len(stack) > 0 {
				p := stack[len(stack)-1].elem
				p.children = append(p.children, e)
			} else if root == nil {
				root = e
			} else {
				return nil, errJunkAfterRoot
			}
			stack = append(stack, openElement{elem: e, raw: t.Name, scope: sc})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", rawName(t.Name))
			}
			top := stack[len(stack)-1]
			if t.Name != top.raw {
				return nil, fmt.Errorf("element <%s> closed by </%s>",
					rawName(top.raw), rawName(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errTextOutsideRoot
				}
				continue
			}
			parent := stack[len(stack)-1].elem
			if n := len(parent.children); n > 0 {
				parent.children[n-1].tail += string(t)
			} else {
				parent.text += string(t)
			}
		case xml.ProcInst:
			if !first && strings.EqualFold(t.Target, "xml") {
				return nil, errMisplacedDecl
			}
		}
	}
	if len(stack) > 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

type openElement struct {
	elem  *element
	raw   xml.Name // as written, Space holds the prefix
	scope *scope
}

// scope holds the namespace declarations of one element.  Declarations
// of enclosing elements are reached through parent.  A nil scope has no
// bindings.
type scope struct {
	parent *scope
	ns     map[string]string // prefix to namespace, "" for the default
}

// declare returns the scope of an element with the given attributes.
// If the element declares no namespaces, s is returned unchanged.
func (s *scope) declare(attrs []xml.Attr) (*scope, error) {
	var ns map[string]string
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == xmlnsPrefix:
			prefix = a.Name.Local
			switch {
			case prefix == xmlnsPrefix:
				return nil, errReservedPrefix
			case prefix == xmlPrefix && a.Value != xmlNamespace:
				return nil, errReservedPrefix
			case a.Value == "":
				return nil, fmt.Errorf("%w %q", errUndeclaredPrefix, prefix)
			}
		case a.Name.Space == "" && a.Name.Local == xmlnsPrefix:
			prefix = ""
		default:
			continue
		}
		if ns == nil {
			ns = make(map[string]string)
		}
		ns[prefix] = a.Value
	}
	if ns == nil {
		return s, nil
	}
	return &scope{parent: s, ns: ns}, nil
}

func (s *scope) lookup(prefix string) (string, bool) {
	for ; s != nil; s = s.parent {
		if uri, ok := s.ns[prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// resolve replaces the prefix in name by its namespace.  Unprefixed
// elements are in the default namespace, unprefixed attributes are in no
// namespace.
func (s *scope) resolve(name xml.Name, isElement bool) (xml.Name, error) {
	switch name.Space {
	case "":
		if isElement {
			name.Space, _ = s.lookup("")
		}
		return name, nil
	case xmlPrefix:
		name.Space = xmlNamespace
		return name, nil
	case xmlnsPrefix:
		return xml.Name{}, errReservedPrefix
	}
	uri, ok := s.lookup(name.Space)
	if !ok {
		return xml.Name{}, fmt.Errorf("%w %q", errUnboundPrefix, name.Space)
	}
	name.Space = uri
	return name, nil
}

// checkAttrs verifies that all attribute prefixes are bound and that no
// attribute occurs twice.
func (s *scope) checkAttrs(attrs []xml.Attr) error {
	raw := make(map[xml.Name]bool, len(attrs))
	expanded := make(map[xml.Name]bool, len(attrs))
	for _, a := range attrs {
		if raw[a.Name] {
			return fmt.Errorf("%w %q", errDuplicateAttr, rawName(a.Name))
		}
		raw[a.Name] = true

		if isDecl(a.Name) {
			continue
		}
		name, err := s.resolve(a.Name, false)
		if err != nil {
			return err
		}
		if expanded[name] {
			return fmt.Errorf("%w %q", errDuplicateAttr, rawName(a.Name))
		}
		expanded[name] = true
	}
	return nil
}

// isDecl reports whether an attribute is a namespace declaration.
func isDecl(n xml.Name) bool {
	return n.Space == xmlnsPrefix || (n.Space == "" && n.Local == xmlnsPrefix)
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// findAll returns all proper descendants of e which are in the namespace
// ns, in document order.
func (e *element) findAll(ns string, res []*element) []*element {
	for _, c := range e.children {
		if c.name.Space == ns {
			res = append(res, c)
		}
		res = c.findAll(ns, res)
	}
	return res
}

// textContent returns the non-empty text chunks inside e, in document order,
// joined by single spaces.  Leading and trailing white space is removed.
func (e *element) textContent() string {
	return strings.TrimSpace(strings.Join(e.appendText(nil), " "))
}

func (e *element) appendText(chunks []string) []string {
	if e.text != "" {
		chunks = append(chunks, e.text)
	}
	for _, c := range e.children {
		chunks = c.appendText(chunks)
		if c.tail != "" {
			chunks = append(chunks, c.tail)
		}
	}
	return chunks
}

var (
	errNoRoot           = errors.New("no document element found")
	errJunkAfterRoot    = errors.New("junk after document element")
	errTextOutsideRoot  = errors.New("text outside of document element")
	errMisplacedDecl    = errors.New("XML declaration not at start of document")
	errUnboundPrefix    = errors.New("unbound namespace prefix")
	errUndeclaredPrefix = errors.New("namespace prefix cannot be undeclared")
	errReservedPrefix   = errors.New("invalid use of reserved namespace prefix")
	errDuplicateAttr    = errors.New("duplicate attribute")
)

const (
	xmlPrefix   = "xml"
	xmlnsPrefix = "xmlns"
)
