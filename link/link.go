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

// Package link resolves gemtext links against the URL of the page they appear in.
package link

import "strings"

const scheme = "gemini://"

// Target is the result of following a link.
type Target struct {
	// URL is an absolute gemini:// URL, or the link as written when External is set.
	URL string

	// External is set when the link points to another protocol and must be opened by another
	// program.
	External bool
}

// Resolve resolves link against base.
//
// Links that already carry the gemini:// scheme are returned as-is and //host/path links
// inherit it. A link containing a colon anywhere past its first byte is assumed to carry
// another scheme and is returned as an external target. Everything else is a path relative
// to base, resolved with the usual . and .. rules; .. never climbs above the root.
//
// The second return value is false if link is empty.
func Resolve(base, link string) (Target, bool) {
	if link == "" {
		return Target{}, false
	}

	if strings.HasPrefix(link, scheme) {
		return Target{URL: link}, true
	}

	if strings.HasPrefix(link, "//") {
		return Target{URL: "gemini:" + link}, true
	}

	if strings.IndexByte(link, ':') > 0 {
		return Target{URL: link, External: true}, true
	}

	host, path := splitBase(base)

	ref, query, hasQuery := strings.Cut(link, "?")

	var joined string
	switch {
	case ref == "":
		joined = path
	case ref[0] == '/':
		joined = ref
	default:
		joined = path[:strings.LastIndexByte(path, '/')+1] + ref
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString(host)
	b.WriteString(clean(joined))
	if hasQuery {
		b.WriteByte('?')
		b.WriteString(query)
	}

	return Target{URL: b.String()}, true
}

// splitBase returns the authority and path of base. The path always starts with a slash.
func splitBase(base string) (string, string) {
	base = strings.TrimPrefix(base, scheme)

	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}

	if i := strings.IndexByte(base, '/'); i >= 0 {
		return base[:i], base[i:]
	}

	return base, "/"
}

// clean removes . and .. segments from an absolute path.
func clean(path string) string {
	parts := strings.Split(path, "/")[1:]
	segments := make([]string, 0, len(parts))

	dir := false
	for _, part := range parts {
		dir = false

		switch part {
		case ".":
			dir = true

		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
			dir = true

		case "":
			dir = true

		default:
			segments = append(segments, part)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	s := "/" + strings.Join(segments, "/")
	if dir {
		s += "/"
	}
	return s
}
