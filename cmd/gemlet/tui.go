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

package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dimkr/gemlet/gemini"
	"github.com/dimkr/gemlet/gmi"
	"github.com/dimkr/gemlet/link"
	"github.com/dimkr/gemlet/text"
)

type mode int

const (
	browsing mode = iota
	editing
	prompting
)

type loadedMsg struct {
	result
	seq int
}

type model struct {
	ctx     context.Context
	browser *browser

	page *gmi.Page
	resp *gemini.Response

	width  int
	height int

	status string
	failed bool
	cancel context.CancelFunc
	seq    int
	target string

	mode   mode
	prompt promptMsg
	input  textinput.Model
}

func newModel(ctx context.Context, b *browser, url string) model {
	input := textinput.New()
	input.Prompt = ""

	return model{
		ctx:     ctx,
		browser: b,
		page:    gmi.NewPage("", &gmi.Document{}, 1),
		width:   80,
		height:  24,
		target:  url,
		input:   input,
	}
}

// pageHeight is the terminal height without the URL and status bars.
func (m model) pageHeight() int {
	return max(m.height-2, 1)
}

// openMsg starts a navigation.
type openMsg struct {
	url   string
	visit bool
}

func (m model) Init() tea.Cmd {
	url := m.target
	return func() tea.Msg {
		return openMsg{url: url, visit: true}
	}
}

func (m model) navigate(url string, visit bool) (model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.seq++
	m.failed = false
	m.status = "Loading " + url

	b, width, seq := m.browser, m.width, m.seq
	ctx = withSeq(ctx, seq)
	return m, func() tea.Msg {
		return loadedMsg{result: b.open(ctx, url, width, visit), seq: seq}
	}
}

func (m model) loaded(r result) model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.status = r.Status
	m.failed = r.Err != nil

	if isCanceled(r.Err) {
		m.status, m.failed = "Canceled", false
	}

	if r.Doc == nil {
		return m
	}

	// the terminal may have been resized during navigation
	if r.Response != nil {
		if doc := render(r.Response, m.width); doc != nil {
			r.Doc = doc
		}
	}

	m.resp = r.Response
	m.page = gmi.NewPage(r.URL, r.Doc, m.pageHeight())
	m.page.Bookmarked = m.browser.isBookmarked(r.URL)
	return m
}

func (m model) reply(value string, ok bool) model {
	m.prompt.reply <- promptReply{value: value, ok: ok}
	m.mode = browsing
	m.input.Blur()
	m.input.EchoMode = textinput.EchoNormal
	return m
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt.kind == confirmPrompt {
		switch msg.String() {
		case "y", "Y":
			return m.reply("", true), nil
		case "n", "N", "esc", "ctrl+c":
			return m.reply("", false), nil
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m.reply(m.input.Value(), true), nil
	case "esc", "ctrl+c":
		return m.reply("", false), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = browsing
		m.input.Blur()
		if url := strings.TrimSpace(m.input.Value()); url != "" {
			return m.navigate(url, true)
		}
		return m, nil

	case "esc", "ctrl+c":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) follow() (tea.Model, tea.Cmd) {
	href, ok := m.page.SelectedLink()
	if !ok {
		return m, nil
	}

	target, ok := link.Resolve(m.page.URL, href)
	if !ok {
		return m, nil
	}

	if target.External {
		m.status = "External link: " + target.URL
		m.failed = false
		return m, nil
	}

	return m.navigate(target.URL, true)
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "esc":
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
			m.seq++
			m.status, m.failed = "Canceled", false
		}

	case "down", "j":
		m.page.ScrollDown()

	case "up", "k":
		m.page.ScrollUp()

	case "pgdown", " ", "f":
		m.page.PageDown()

	case "pgup", "b":
		m.page.PageUp()

	case "tab":
		m.page.NextLink()

	case "shift+tab":
		m.page.PrevLink()

	case "enter":
		return m.follow()

	case "g":
		m.mode = editing
		m.input.Placeholder = "URL"
		m.input.SetValue(m.page.URL)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "r":
		if m.page.URL != "" {
			return m.navigate(m.page.URL, false)
		}

	case "h":
		if url, ok := m.browser.History.Back(); ok {
			return m.navigate(url, false)
		}

	case "l":
		if url, ok := m.browser.History.Forward(); ok {
			return m.navigate(url, false)
		}

	case "B":
		on, err := m.browser.toggleBookmark(m.page.URL)
		if err != nil {
			m.status, m.failed = err.Error(), true
			break
		}
		m.page.Bookmarked = on

	case "s":
		path, err := m.browser.save(m.resp, time.Now())
		if err != nil {
			slog.Warn("Failed to save page", "error", err)
			m.status, m.failed = err.Error(), true
			break
		}
		m.status, m.failed = "Saved to "+path, false

	case "P":
		return m.navigate(bookmarksURL, false)

	case "H":
		return m.navigate(historyURL, false)
	}

	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resized := msg.Width != m.width
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(m.width-1, 1)

		if resized && m.resp != nil && m.page.URL == m.resp.URL.String() {
			if doc := render(m.resp, m.width); doc != nil {
				bookmarked := m.page.Bookmarked
				m.page = gmi.NewPage(m.page.URL, doc, m.pageHeight())
				m.page.Bookmarked = bookmarked
				return m, nil
			}
		}

		m.page.Resize(m.pageHeight())

	case openMsg:
		return m.navigate(msg.url, msg.visit)

	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.loaded(msg.result), nil

	case promptMsg:
		if msg.seq != m.seq {
			msg.reply <- promptReply{}
			return m, nil
		}

		m.mode = prompting
		m.prompt = msg
		if msg.kind == inputPrompt {
			m.input.Reset()
			m.input.Placeholder = ""
			if msg.sensitive {
				m.input.EchoMode = textinput.EchoPassword
			}
			return m, m.input.Focus()
		}

	case tea.KeyMsg:
		switch m.mode {
		case prompting:
			return m.updatePrompt(msg)
		case editing:
			return m.updateEditing(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}

	return m, nil
}

func (m model) statusLine() string {
	switch {
	case m.mode == prompting && m.prompt.kind == confirmPrompt:
		return m.prompt.text + " [y/n]"
	case m.mode == prompting:
		return m.prompt.text + ": " + m.input.View()
	default:
		return m.status
	}
}

func (m model) View() string {
	var s strings.Builder

	if m.mode == editing {
		s.WriteString(m.input.View())
	} else {
		s.WriteString(barStyle.Width(m.width).Render(text.Truncate(m.page.URL, m.width)))
	}
	s.WriteByte('\n')

	visible := m.page.Visible()
	for _, line := range visible {
		s.WriteString(lineStyle(line.Attr).Render(line.Text))
		s.WriteByte('\n')
	}

	for i := 0; i < m.pageHeight()-len(visible); i++ {
		s.WriteByte('\n')
	}

	star := "☆"
	if m.page.Bookmarked {
		star = "★"
	}

	style := barStyle
	if m.failed {
		style = errorStyle
	}

	status := m.statusLine()
	if m.mode != prompting {
		status = text.Truncate(status, max(m.width-2, 0))
	}
	pad := strings.Repeat(" ", max(m.width-2-text.Width(status), 0))
	s.WriteString(style.Width(m.width).Render(status + pad + " " + star))

	return s.String()
}

// isCanceled returns true if a navigation was interrupted by the user.
func isCanceled(err error) bool {
	return errors.Is(err, gemini.ErrCanceled) || errors.Is(err, context.Canceled)
}
