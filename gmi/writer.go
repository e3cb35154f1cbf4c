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
	"io"
)

// Writer writes gemtext.
type Writer struct {
	w io.Writer
}

// NewWriter returns a [Writer] that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Title(title string) {
	fmt.Fprintf(w.w, "# %s\n\n", title)
}

func (w *Writer) Subtitle(subtitle string) {
	fmt.Fprintf(w.w, "## %s\n\n", subtitle)
}

func (w *Writer) Text(line string) {
	fmt.Fprintln(w.w, line)
}

func (w *Writer) Empty() {
	w.w.Write([]byte{'\n'})
}

// Link writes a link line. The label is omitted if empty.
func (w *Writer) Link(url, label string) {
	if label == "" {
		fmt.Fprintf(w.w, "=> %s\n", url)
		return
	}

	fmt.Fprintf(w.w, "=> %s %s\n", url, label)
}

func (w *Writer) Linkf(url, format string, a ...any) {
	w.Link(url, fmt.Sprintf(format, a...))
}
