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

// Page is a window of Height lines over a [Document].
//
// The visible lines are Lines[First:Last]. Selected is the index of the highlighted link
// line, or -1.
type Page struct {
	URL        string
	Doc        *Document
	Height     int
	First      int
	Last       int
	Selected   int
	Bookmarked bool
}

// NewPage returns a page that shows the beginning of doc.
func NewPage(url string, doc *Document, height int) *Page {
	p := &Page{URL: url, Height: max(height, 1)}
	p.SetDocument(doc)
	return p
}

func (p *Page) len() int {
	if p.Doc == nil {
		return 0
	}

	return len(p.Doc.Lines)
}

func (p *Page) show(start int) {
	p.First = start
	p.Last = min(start+p.Height, p.len())
}

// SetDocument replaces the document, scrolls to the top and clears the selection.
func (p *Page) SetDocument(doc *Document) {
	p.Doc = doc
	p.Selected = -1
	p.show(0)
}

// Resize changes the window height, keeping the first visible line when possible.
func (p *Page) Resize(height int) {
	p.Height = max(height, 1)
	p.show(max(0, min(p.First, p.len()-p.Height)))
}

// Visible returns the visible lines.
func (p *Page) Visible() []Line {
	if p.Doc == nil {
		return nil
	}

	return p.Doc.Lines[p.First:p.Last]
}

// ScrollDown scrolls down by one line. It returns false at the end of the document.
func (p *Page) ScrollDown() bool {
	if p.Last >= p.len() {
		return false
	}

	p.First++
	p.Last++
	return true
}

// ScrollUp scrolls up by one line. It returns false at the beginning of the document.
func (p *Page) ScrollUp() bool {
	if p.First == 0 {
		return false
	}

	p.First--
	p.Last--
	return true
}

// PageDown scrolls down by one page, stopping when the last line is visible.
func (p *Page) PageDown() {
	n := p.len()
	if n <= p.Height {
		return
	}

	if p.Last+p.Height > n {
		p.show(n - p.Height)
	} else {
		p.show(p.Last)
	}
}

// PageUp scrolls up by one page, stopping at the first line.
func (p *Page) PageUp() {
	if p.len() <= p.Height {
		return
	}

	p.show(max(0, p.First-p.Height))
}

func (p *Page) toggle(i int) {
	p.Doc.Lines[i].Attr ^= Selected
}

// deselectHidden clears the selection if the selected line is not visible.
func (p *Page) deselectHidden() {
	if p.Selected != -1 && (p.Selected < p.First || p.Selected >= p.Last) {
		p.toggle(p.Selected)
		p.Selected = -1
	}
}

func (p *Page) selectLine(i int) {
	if p.Selected != -1 {
		p.toggle(p.Selected)
	}

	p.toggle(i)
	p.Selected = i
}

// NextLink selects the next visible link line after the selection, or the first visible one.
// If there is none, it scrolls down by one page and tries once more.
func (p *Page) NextLink() bool {
	for attempt := 0; attempt < 2 && p.len() > 0; attempt++ {
		p.deselectHidden()

		from := p.Selected
		if from == -1 {
			from = p.First - 1
		}

		for i := from + 1; i < p.Last; i++ {
			if p.Doc.Lines[i].Link != -1 {
				p.selectLine(i)
				return true
			}
		}

		if attempt == 0 {
			p.PageDown()
		}
	}

	return false
}

// PrevLink selects the previous visible link line before the selection, or the last visible
// one. If there is none, it scrolls up by one page and tries once more.
func (p *Page) PrevLink() bool {
	for attempt := 0; attempt < 2 && p.len() > 0; attempt++ {
		p.deselectHidden()

		from := p.Selected
		if from == -1 {
			from = p.Last
		}

		for i := from - 1; i >= p.First; i-- {
			if p.Doc.Lines[i].Link != -1 {
				p.selectLine(i)
				return true
			}
		}

		if attempt == 0 {
			p.PageUp()
		}
	}

	return false
}

// SelectedLink returns the link of the selected line.
func (p *Page) SelectedLink() (string, bool) {
	if p.Selected == -1 {
		return "", false
	}

	return p.Doc.URL(p.Doc.Lines[p.Selected])
}
