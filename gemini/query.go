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

package gemini

import (
	"errors"
	"strings"
)

var ErrInvalidQuery = errors.New("invalid query")

const (
	upperhex = "0123456789ABCDEF"
	reserved = ":/?#[]@!$&'()*+,;=% "
)

func unreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '.' ||
		c == '_' ||
		c == '~' ||
		c == '-'
}

// EscapeQuery percent-encodes user input for use as a query.
//
// Letters, digits and ._~- are kept as-is and reserved characters are encoded. Any other byte,
// or an empty input, is an error.
func EscapeQuery(s string) (string, error) {
	if s == "" {
		return "", ErrInvalidQuery
	}

	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if unreserved(c) {
			b.WriteByte(c)
			continue
		}

		if strings.IndexByte(reserved, c) == -1 {
			return "", ErrInvalidQuery
		}

		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}

	return b.String(), nil
}
