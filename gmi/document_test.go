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

package gmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_HeadingAndLink(t *testing.T) {
	assert := assert.New(t)

	d := Render([]byte("# Title\n=> gemini://x.org/ Home\n"), 80)
	assert.Equal([]Line{
		{Text: "Title", Link: -1, Attr: Heading1},
		{Text: "Home", Link: 0, Attr: Link},
	}, d.Lines)
	assert.Equal([]string{"gemini://x.org/"}, d.Links)

	url, ok := d.URL(d.Lines[1])
	assert.True(ok)
	assert.Equal("gemini://x.org/", url)

	_, ok = d.URL(d.Lines[0])
	assert.False(ok)
}

func TestRender_Empty(t *testing.T) {
	d := Render(nil, 80)
	assert.Empty(t, d.Lines)
	assert.Empty(t, d.Links)
}

func TestRender_Headings(t *testing.T) {
	d := Render([]byte("# A\n## B\n### C\n> D\nE"), 80)
	assert.Equal(t, []Line{
		{Text: "A", Link: -1, Attr: Heading1},
		{Text: "B", Link: -1, Attr: Heading2},
		{Text: "C", Link: -1, Attr: Heading3},
		{Text: "D", Link: -1, Attr: Quote},
		{Text: "E", Link: -1},
	}, d.Lines)
}

func TestRender_EmptyLines(t *testing.T) {
	d := Render([]byte("a\n\nb\n"), 80)
	assert.Equal(t, []Line{
		{Text: "a", Link: -1},
		{Text: "", Link: -1},
		{Text: "b", Link: -1},
	}, d.Lines)
}

func TestRender_CRLF(t *testing.T) {
	d := Render([]byte("a\r\n=> /b B\r\n"), 80)
	assert.Equal(t, []Line{
		{Text: "a", Link: -1},
		{Text: "B", Link: 0, Attr: Link},
	}, d.Lines)
	assert.Equal(t, []string{"/b"}, d.Links)
}

func TestRender_WrappedLinkSharesIndex(t *testing.T) {
	assert := assert.New(t)

	d := Render([]byte("=> /a first\n=> gemini://x.org/ aaa bbb ccc\n"), 7)
	assert.Equal([]Line{
		{Text: "first", Link: 0, Attr: Link},
		{Text: "aaa bbb", Link: 1, Attr: Link},
		{Text: "ccc", Link: 1, Attr: Link},
	}, d.Lines)
	assert.Equal([]string{"/a", "gemini://x.org/"}, d.Links)
}

func TestRender_SchemeTags(t *testing.T) {
	d := Render([]byte("=> https://a.b Web\n=> mailto:a@b.c Mail\n=> gopher://a.b Hole\n=> gemini://a.b Capsule\n"), 80)
	assert.Equal(t, []Line{
		{Text: "Web [https]", Link: 0, Attr: Link},
		{Text: "Mail [mail]", Link: 1, Attr: Link},
		{Text: "Hole [gopher]", Link: 2, Attr: Link},
		{Text: "Capsule", Link: 3, Attr: Link},
	}, d.Lines)
}

func TestRender_BareLink(t *testing.T) {
	d := Render([]byte("=> https://a.b\n=>  /x  \n"), 80)
	assert.Equal(t, []Line{
		{Text: "https://a.b", Link: 0, Attr: Link},
		{Text: "/x", Link: 1, Attr: Link},
	}, d.Lines)
	assert.Equal(t, []string{"https://a.b", "/x"}, d.Links)
}

func TestRender_EmptyLink(t *testing.T) {
	d := Render([]byte("=>\n=>   \n"), 80)
	assert.Equal(t, []Line{
		{Text: "=>", Link: -1},
		{Text: "=>   ", Link: -1},
	}, d.Lines)
	assert.Empty(t, d.Links)
}

func TestRender_Preformatted(t *testing.T) {
	assert := assert.New(t)

	d := Render([]byte("```alt\n# no\n=> /x y\n```\n# yes\n"), 80)
	assert.Equal([]Line{
		{Text: "```alt", Link: -1},
		{Text: "# no", Link: -1, Attr: Preformatted},
		{Text: "=> /x y", Link: -1, Attr: Preformatted},
		{Text: "```", Link: -1},
		{Text: "yes", Link: -1, Attr: Heading1},
	}, d.Lines)
	assert.Empty(d.Links)
}

func TestRender_PreformattedKeepsWhitespace(t *testing.T) {
	d := Render([]byte("```\n  x  y\n```"), 80)
	assert.Equal(t, "  x  y", d.Lines[1].Text)
}

func TestRenderPlain(t *testing.T) {
	d := RenderPlain([]byte("  a\n# b\n=> /c d\n"), 80)
	assert.Equal(t, []Line{
		{Text: "  a", Link: -1},
		{Text: "# b", Link: -1},
		{Text: "=> /c d", Link: -1},
	}, d.Lines)
	assert.Empty(t, d.Links)
}
