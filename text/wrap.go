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

package text

import "unicode"

// Wrap splits a paragraph into lines no wider than width columns.
//
// Each line is the longest run of runes that fits. When the cut lands inside a word, the
// partial word moves to the next line unless it is wider than half the width, in which
// case the word is split. One leading whitespace rune is dropped from every line, unless
// preformatted is set. An empty paragraph produces one empty line.
func Wrap(s string, width int, preformatted bool) []string {
	runes := []rune(s)
	var lines []string

	for {
		last := runesWidth(runes) <= width

		n := fit(runes, width)
		if n == 0 && len(runes) > 0 {
			n = 1
		}

		cut := n
		if n < len(runes) {
			space := -1
			for i := 1; i <= n; i++ {
				if unicode.IsSpace(runes[i]) {
					space = i
				}
			}

			if space > 0 && runesWidth(runes[space:n]) <= width/2 {
				cut = space
			}
		}

		start := 0
		if !preformatted && len(runes) > 0 && unicode.IsSpace(runes[0]) {
			start = 1
		}
		if cut < start {
			cut = start
		}

		lines = append(lines, string(runes[start:cut]))
		runes = runes[cut:]

		if last || len(runes) == 0 {
			break
		}
	}

	return lines
}
