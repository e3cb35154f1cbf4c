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
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lines(n int) *Document {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}

	return Render([]byte(b.String()), 80)
}

func TestPage_New(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(10), 4)
	assert.Equal(0, p.First)
	assert.Equal(4, p.Last)
	assert.Equal(-1, p.Selected)
	assert.Len(p.Visible(), 4)
	assert.Equal("line 0", p.Visible()[0].Text)
}

func TestPage_Short(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(3), 4)
	assert.Equal(3, p.Last)

	assert.False(p.ScrollDown())
	assert.False(p.ScrollUp())

	p.PageDown()
	assert.Equal(0, p.First)
	assert.Equal(3, p.Last)

	p.PageUp()
	assert.Equal(0, p.First)
}

func TestPage_Scroll(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(5), 4)
	assert.False(p.ScrollUp())

	assert.True(p.ScrollDown())
	assert.Equal(1, p.First)
	assert.Equal(5, p.Last)

	assert.False(p.ScrollDown())

	assert.True(p.ScrollUp())
	assert.Equal(0, p.First)
	assert.Equal(4, p.Last)
}

func TestPage_PageDownUp(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(10), 4)

	p.PageDown()
	assert.Equal(4, p.First)
	assert.Equal(8, p.Last)

	p.PageDown()
	assert.Equal(6, p.First)
	assert.Equal(10, p.Last)

	p.PageDown()
	assert.Equal(6, p.First)

	p.PageUp()
	assert.Equal(2, p.First)
	assert.Equal(6, p.Last)

	p.PageUp()
	assert.Equal(0, p.First)
	assert.Equal(4, p.Last)
}

func TestPage_Resize(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(10), 4)
	p.PageDown()

	p.Resize(8)
	assert.Equal(2, p.First)
	assert.Equal(10, p.Last)

	p.Resize(20)
	assert.Equal(0, p.First)
	assert.Equal(10, p.Last)
}

func TestPage_NextLink(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", Render([]byte("a\n=> /a A\nb\nc\nd\n=> /b B\n"), 80), 3)

	assert.True(p.NextLink())
	assert.Equal(1, p.Selected)
	assert.NotZero(p.Doc.Lines[1].Attr & Selected)
	url, ok := p.SelectedLink()
	assert.True(ok)
	assert.Equal("/a", url)

	assert.True(p.NextLink())
	assert.Equal(3, p.First)
	assert.Equal(6, p.Last)
	assert.Equal(5, p.Selected)
	assert.Zero(p.Doc.Lines[1].Attr & Selected)
	assert.NotZero(p.Doc.Lines[5].Attr & Selected)

	assert.False(p.NextLink())
	assert.Equal(5, p.Selected)

	url, ok = p.SelectedLink()
	assert.True(ok)
	assert.Equal("/b", url)
}

func TestPage_PrevLink(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", Render([]byte("a\n=> /a A\nb\nc\nd\n=> /b B\n"), 80), 3)
	p.PageDown()

	assert.True(p.PrevLink())
	assert.Equal(5, p.Selected)

	assert.True(p.PrevLink())
	assert.Equal(0, p.First)
	assert.Equal(1, p.Selected)
	assert.Zero(p.Doc.Lines[5].Attr & Selected)
	assert.NotZero(p.Doc.Lines[1].Attr & Selected)

	assert.False(p.PrevLink())
	assert.Equal(1, p.Selected)
}

func TestPage_NoLinks(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", lines(10), 4)
	assert.False(p.NextLink())
	assert.Equal(-1, p.Selected)
	assert.False(p.PrevLink())

	_, ok := p.SelectedLink()
	assert.False(ok)
}

func TestPage_SetDocumentClearsSelection(t *testing.T) {
	assert := assert.New(t)

	p := NewPage("gemini://x.org/", Render([]byte("=> /a A\n"), 80), 3)
	assert.True(p.NextLink())

	p.SetDocument(lines(10))
	assert.Equal(-1, p.Selected)
	assert.Equal(0, p.First)
	assert.Equal(3, p.Last)
}
