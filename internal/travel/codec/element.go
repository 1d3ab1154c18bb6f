// Package codec serializes travel profiles into the Travel Profile v2 wire
// format and parses the documents the vendor sends back. The remote
// validator enforces a strict element order, so encoding builds an explicit
// element tree instead of relying on struct-tag marshaling.
package codec

import (
	"bytes"
	"encoding/xml"
)

type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

func newElement(name string, attrs ...xml.Attr) *element {
	return &element{name: name, attrs: attrs}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// child appends a new empty child and returns it.
func (e *element) child(name string, attrs ...xml.Attr) *element {
	c := newElement(name, attrs...)
	e.children = append(e.children, c)
	return c
}

// leaf appends a text-only child. The empty-string guard lives with the
// callers because some elements are emitted even when empty.
func (e *element) leaf(name, text string) {
	c := e.child(name)
	c.text = text
}

// leafIf appends a text-only child when text is non-empty.
func (e *element) leafIf(name, text string) {
	if text != "" {
		e.leaf(name, text)
	}
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (e *element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// render produces the document with an XML declaration.
func render(root *element) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := root.encode(enc); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
