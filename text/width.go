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

// Package text measures, slices and wraps text by terminal display width.
package text

import "github.com/mattn/go-runewidth"

// East Asian ambiguous characters are narrow regardless of the locale, so layout does not
// depend on the environment.
var cond = &runewidth.Condition{EastAsianWidth: false}

// RuneWidth returns the number of columns occupied by r.
//
// Combining marks, control characters and other non-printing runes occupy 0 columns.
func RuneWidth(r rune) int {
	if w := cond.RuneWidth(r); w > 0 {
		return w
	}
	return 0
}

// Width returns the number of columns occupied by s.
func Width(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

func runesWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		w += RuneWidth(r)
	}
	return w
}

// Fit returns the number of leading runes of s that fit in width columns.
func Fit(s string, width int) int {
	return fit([]rune(s), width)
}

func fit(runes []rune, width int) int {
	w := 0
	for i, r := range runes {
		rw := RuneWidth(r)
		if w+rw > width {
			return i
		}
		w += rw
	}
	return len(runes)
}

// Truncate returns the longest prefix of s that fits in width columns.
func Truncate(s string, width int) string {
	runes := []rune(s)
	return string(runes[:fit(runes, width)])
}
