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
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const (
	// Scheme is the URL prefix of Gemini URLs.
	Scheme = "gemini://"

	// DefaultPort is the port used when a URL does not specify one.
	DefaultPort = 1965

	// MaxRequestLength is the maximum length of a request line, including the trailing CRLF.
	MaxRequestLength = 1024
)

var (
	ErrInvalidHost = errors.New("invalid host")
	ErrInvalidPort = errors.New("invalid port number")
)

// URL is a parsed Gemini URL.
type URL struct {
	// Host is the host name, in ASCII.
	Host string

	// Port is the TCP port.
	Port int

	// Resource is the path and query, always starting with a slash.
	Resource string
}

// ParseURL parses a Gemini URL with or without the gemini:// prefix.
//
// The authority ends at the first slash, so a colon in the path is never treated as a port
// separator. Internationalized host names are converted to ASCII.
func ParseURL(raw string) (URL, error) {
	rest := strings.TrimPrefix(raw, Scheme)

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}

	authority, resource := rest, "/"
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, resource = rest[:i], rest[i:]
	} else if i := strings.IndexByte(rest, '?'); i >= 0 {
		authority, resource = rest[:i], "/"+rest[i:]
	}

	u := URL{Host: authority, Port: DefaultPort, Resource: resource}

	if strings.Contains(authority, ":") {
		host, port, err := net.SplitHostPort(authority)
		if err != nil {
			return URL{}, fmt.Errorf("%w: %s", ErrInvalidPort, raw)
		}

		u.Host = host
		if u.Port, err = parsePort(port); err != nil {
			return URL{}, fmt.Errorf("%w: %s", err, raw)
		}
	} else if strings.HasPrefix(authority, "[") && strings.HasSuffix(authority, "]") {
		u.Host = authority[1 : len(authority)-1]
	}

	if u.Host == "" {
		return URL{}, fmt.Errorf("%w: %s", ErrInvalidHost, raw)
	}

	if !isASCII(u.Host) {
		ascii, err := idna.Lookup.ToASCII(u.Host)
		if err != nil {
			return URL{}, fmt.Errorf("%w: %s: %w", ErrInvalidHost, raw, err)
		}
		u.Host = ascii
	}

	return u, nil
}

func parsePort(s string) (int, error) {
	if len(s) == 0 || len(s) > 5 {
		return 0, ErrInvalidPort
	}

	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, ErrInvalidPort
		}
	}

	port, err := strconv.Atoi(s)
	if err != nil || port == 0 || port > 65535 {
		return 0, ErrInvalidPort
	}

	return port, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// authority returns the host, bracketed if it's an IPv6 address.
func (u URL) authority() string {
	if strings.IndexByte(u.Host, ':') >= 0 {
		return "[" + u.Host + "]"
	}

	return u.Host
}

// HostPort returns the host:port pair used as the key of trusted certificates and TLS
// sessions.
func (u URL) HostPort() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}

// String returns the URL with the gemini:// prefix. The port is omitted if it's the default.
func (u URL) String() string {
	if u.Port == DefaultPort {
		return Scheme + u.authority() + u.Resource
	}

	return Scheme + u.authority() + ":" + strconv.Itoa(u.Port) + u.Resource
}

// Request returns the request line sent to the server.
func (u URL) Request() string {
	return Scheme + u.authority() + u.Resource + "\r\n"
}

// WithoutQuery returns a copy of the URL without its query.
func (u URL) WithoutQuery() URL {
	if i := strings.IndexByte(u.Resource, '?'); i >= 0 {
		u.Resource = u.Resource[:i]
	}

	return u
}
