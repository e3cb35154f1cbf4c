/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package gmi turns gemtext into wrapped, navigable lines.
package gmi

import (
	"strings"
	"unicode"

	"github.com/dimkr/gemlet/text"
)

// Attr is a set of line attributes.
type Attr uint8

const (
	Heading1 Attr = 1 << iota
	Heading2
	Heading3
	Quote
	Link
	Preformatted
	Selected
)

// Line is a line of a [Document], wrapped to the document width.
type Line struct {
	Text string

	// Link is the index of the line's link in [Document.Links], or -1.
	Link int

	Attr Attr
}

// Document is a rendered gemtext document.
//
// All lines wrapped from one link line refer to the same entry in Links.
type Document struct {
	Lines []Line
	Links []string
}

// schemeTags are appended to labels of links to other protocols.
var schemeTags = []struct {
	prefix, tag string
}{
	{"https://", " [https]"},
	{"http://", " [http]"},
	{"gopher://", " [gopher]"},
	{"mailto:", " [mail]"},
	{"finger://", " [finger]"},
	{"spartan://", " [spartan]"},
}

func schemeTag(url string) string {
	for _, s := range schemeTags {
		if strings.HasPrefix(url, s.prefix) {
			return s.tag
		}
	}

	return ""
}

func paragraphs(body []byte) []string {
	if len(body) == 0 {
		return nil
	}

	s := strings.Split(string(body), "\n")
	if s[len(s)-1] == "" {
		s = s[:len(s)-1]
	}

	for i := range s {
		s[i] = strings.TrimSuffix(s[i], "\r")
	}

	return s
}

// parseLink parses the part of a link line after =>. The label is the URL if missing.
func parseLink(s string) (string, string, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := strings.IndexFunc(s, unicode.IsSpace)
	if end == -1 {
		return s, s, s != ""
	}

	url := s[:end]
	label := strings.TrimLeftFunc(s[end:], unicode.IsSpace)
	if label == "" {
		return url, url, true
	}

	return url, label + schemeTag(url), true
}

func (d *Document) add(s string, width int, attr Attr, link int) {
	d.append(text.Wrap(s, width, attr&Preformatted != 0), attr, link)
}

func (d *Document) append(lines []string, attr Attr, link int) {
	for _, line := range lines {
		d.Lines = append(d.Lines, Line{Text: line, Link: link, Attr: attr})
	}
}

// Render parses gemtext and wraps every line to width columns.
func Render(body []byte, width int) *Document {
	width = max(width, 1)

	var d Document
	preformatted := false

	for _, p := range paragraphs(body) {
		if strings.HasPrefix(p, "```") {
			preformatted = !preformatted
			d.add(p, width, 0, -1)
			continue
		}

		if preformatted {
			d.add(p, width, Preformatted, -1)
			continue
		}

		switch {
		case strings.HasPrefix(p, "###"):
			d.add(p[3:], width, Heading3, -1)

		case strings.HasPrefix(p, "##"):
			d.add(p[2:], width, Heading2, -1)

		case strings.HasPrefix(p, "#"):
			d.add(p[1:], width, Heading1, -1)

		case strings.HasPrefix(p, ">"):
			d.add(p[1:], width, Quote, -1)

		case strings.HasPrefix(p, "=>"):
			url, label, ok := parseLink(p[2:])
			if !ok {
				d.add(p, width, 0, -1)
				continue
			}

			d.Links = append(d.Links, url)
			d.add(label, width, Link, len(d.Links)-1)

		default:
			d.add(p, width, 0, -1)
		}
	}

	return &d
}

// RenderPlain wraps plain text to width columns. Whitespace is preserved.
func RenderPlain(body []byte, width int) *Document {
	width = max(width, 1)

	var d Document
	for _, p := range paragraphs(body) {
		d.append(text.Wrap(p, width, true), 0, -1)
	}

	return &d
}

// URL returns the link of a line.
func (d *Document) URL(line Line) (string, bool) {
	if line.Link < 0 || line.Link >= len(d.Links) {
		return "", false
	}

	return d.Links[line.Link], true
}
