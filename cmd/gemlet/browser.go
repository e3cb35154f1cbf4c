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
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dimkr/gemlet/bookmarks"
	"github.com/dimkr/gemlet/cfg"
	"github.com/dimkr/gemlet/download"
	"github.com/dimkr/gemlet/gemini"
	"github.com/dimkr/gemlet/gmi"
	"github.com/dimkr/gemlet/history"
	"github.com/dimkr/gemlet/tofu"
)

const (
	bookmarksURL = "about:bookmarks"
	historyURL   = "about:history"
)

type browser struct {
	Config    *cfg.Config
	Navigator *gemini.Navigator
	History   *history.History
	Bookmarks *bookmarks.List
}

// result is the outcome of opening a URL.
type result struct {
	URL      string
	Response *gemini.Response
	Doc      *gmi.Document
	Status   string
	Err      error
}

func certStatus(resp *gemini.Response) string {
	switch resp.CertResult {
	case tofu.OK:
		if resp.Resumed {
			return "Valid fingerprint (session resumed)"
		}
		return "Valid fingerprint"

	case tofu.NewHostname:
		return "New host, fingerprint saved"

	case tofu.FingerprintMismatch:
		return "Changed fingerprint accepted"

	default:
		return resp.CertResult.String()
	}
}

func render(resp *gemini.Response, width int) *gmi.Document {
	if resp.IsGemtext() {
		return gmi.Render(resp.Body, width)
	}

	if resp.IsPlainText() {
		return gmi.RenderPlain(resp.Body, width)
	}

	return nil
}

// open navigates to a URL and renders the response. Other media types are saved to the
// downloads directory.
func (b *browser) open(ctx context.Context, raw string, width int, visit bool) result {
	switch raw {
	case bookmarksURL:
		return result{URL: raw, Doc: b.bookmarksPage(width)}

	case historyURL:
		doc, err := b.historyPage(ctx, width)
		if err != nil {
			return result{Status: err.Error(), Err: err}
		}
		return result{URL: raw, Doc: doc}
	}

	resp, err := b.Navigator.Navigate(ctx, raw)
	if err != nil {
		slog.WarnContext(ctx, "Failed to open URL", "url", raw, "error", err)
		return result{Response: resp, Status: err.Error(), Err: err}
	}

	r := result{URL: resp.URL.String(), Response: resp, Status: certStatus(resp)}

	if visit {
		if err := b.History.Visit(ctx, r.URL); err != nil {
			slog.WarnContext(ctx, "Failed to update history", "url", r.URL, "error", err)
		}
	}

	if r.Doc = render(resp, width); r.Doc != nil {
		return r
	}

	name, err := download.Filename(r.URL)
	if err != nil {
		r.Status, r.Err = err.Error(), err
		return r
	}

	path, err := download.SaveFile(b.Config.DownloadsDir, name, resp.Body)
	if err != nil {
		slog.WarnContext(ctx, "Failed to save file", "url", r.URL, "error", err)
		r.Status, r.Err = err.Error(), err
		return r
	}

	mediaType, _ := resp.MediaType()
	slog.InfoContext(ctx, "Saved file", "url", r.URL, "path", path, "type", mediaType)
	r.Status = fmt.Sprintf("Saved %s to %s", mediaType, path)
	return r
}

func (b *browser) bookmarksPage(width int) *gmi.Document {
	var s strings.Builder
	w := gmi.NewWriter(&s)

	w.Title("Bookmarks")

	all := b.Bookmarks.All()
	if len(all) == 0 {
		w.Text("No bookmarks.")
	}

	for _, url := range all {
		w.Link(url, strings.TrimPrefix(url, gemini.Scheme))
	}

	return gmi.Render([]byte(s.String()), width)
}

func (b *browser) historyPage(ctx context.Context, width int) (*gmi.Document, error) {
	visits, err := b.History.Recent(ctx, b.Config.MaxHistory)
	if err != nil {
		return nil, err
	}

	var s strings.Builder
	w := gmi.NewWriter(&s)

	w.Title("History")

	if len(visits) == 0 {
		w.Text("No history.")
	}

	day := ""
	for _, v := range visits {
		if d := v.Time.Format(time.DateOnly); d != day {
			if day != "" {
				w.Empty()
			}
			w.Subtitle(d)
			day = d
		}

		w.Linkf(v.URL, "%s %s", v.Time.Format(time.TimeOnly), v.URL)
	}

	return gmi.Render([]byte(s.String()), width), nil
}

// save saves a successful response under the saved pages directory.
func (b *browser) save(resp *gemini.Response, now time.Time) (string, error) {
	if resp == nil || resp.Status.Class() != 2 {
		return "", errors.New("nothing to save")
	}

	return download.SavePage(b.Config.SavedDir, resp.URL.String(), resp.Body, now)
}

// toggleBookmark bookmarks or unbookmarks a URL and returns true if it's now bookmarked.
func (b *browser) toggleBookmark(url string) (bool, error) {
	if !strings.HasPrefix(url, gemini.Scheme) {
		return false, fmt.Errorf("cannot bookmark %s", url)
	}

	return b.Bookmarks.Toggle(url)
}

func (b *browser) isBookmarked(url string) bool {
	return strings.HasPrefix(url, gemini.Scheme) && b.Bookmarks.Contains(url) != -1
}
