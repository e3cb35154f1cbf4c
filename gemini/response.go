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
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/dimkr/gemlet/tofu"
)

const (
	maxMetaLength = 1024

	// minResponseLength is the length of a status line with a one-byte meta.
	minResponseLength = 5
)

var (
	ErrInvalidResponse = errors.New("invalid response header")
	ErrInvalidStatus   = errors.New("invalid status code")
)

// Response is a Gemini response.
type Response struct {
	URL    URL
	Status Status

	// Meta is the MIME type of a successful response, the target of a redirect, the prompt of
	// an input request or the error message of a failure.
	Meta string

	// Body is everything after the status line.
	Body []byte

	Fingerprint string
	CertResult  tofu.Result
	Resumed     bool
}

// ParseResponse parses a complete response: a status line terminated by CRLF, followed by the
// body.
func ParseResponse(data []byte) (*Response, error) {
	if len(data) < minResponseLength ||
		!isDigit(data[0]) ||
		!isDigit(data[1]) ||
		data[2] != ' ' ||
		data[3] == ' ' {
		return nil, ErrInvalidResponse
	}

	crlf := bytes.Index(data, []byte("\r\n"))
	if crlf == -1 || crlf > maxMetaLength+3 {
		return nil, ErrInvalidResponse
	}

	status := Status(10*int(data[0]-'0') + int(data[1]-'0'))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}

	return &Response{
		Status: status,
		Meta:   string(data[3:crlf]),
		Body:   data[crlf+2:],
	}, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// MediaType returns the lowercase media type and charset of a successful response. An empty
// meta means text/gemini.
func (r *Response) MediaType() (string, string) {
	if strings.TrimSpace(r.Meta) == "" {
		return "text/gemini", ""
	}

	mediaType, params, err := mime.ParseMediaType(r.Meta)
	if err == nil {
		return mediaType, strings.ToLower(params["charset"])
	}

	mediaType, _, _ = strings.Cut(r.Meta, ";")
	return strings.ToLower(strings.TrimSpace(mediaType)), ""
}

func (r *Response) isText(mediaType string) bool {
	if r.Status.Class() != 2 {
		return false
	}

	t, charset := r.MediaType()
	return t == mediaType && (charset == "" || charset == "utf-8" || charset == "utf8")
}

// IsGemtext determines whether the body of a successful response is UTF-8 gemtext.
func (r *Response) IsGemtext() bool {
	return r.isText("text/gemini")
}

// IsPlainText determines whether the body of a successful response is UTF-8 plain text.
func (r *Response) IsPlainText() bool {
	return r.isText("text/plain")
}

// Err returns a [*StatusError] if r is a failure, or nil.
func (r *Response) Err() error {
	switch r.Status.Class() {
	case 4, 5, 6:
		return &StatusError{Status: r.Status, Meta: r.Meta}
	}

	return nil
}

// StatusError is a failure response.
type StatusError struct {
	Status Status
	Meta   string
}

var (
	ErrTemporaryFailure         = &StatusError{Status: StatusTemporaryFailure}
	ErrServerUnavailable        = &StatusError{Status: StatusServerUnavailable}
	ErrCGIError                 = &StatusError{Status: StatusCGIError}
	ErrProxyError               = &StatusError{Status: StatusProxyError}
	ErrSlowDown                 = &StatusError{Status: StatusSlowDown}
	ErrPermanentFailure         = &StatusError{Status: StatusPermanentFailure}
	ErrNotFound                 = &StatusError{Status: StatusNotFound}
	ErrGone                     = &StatusError{Status: StatusGone}
	ErrProxyRequestRefused      = &StatusError{Status: StatusProxyRequestRefused}
	ErrBadRequest               = &StatusError{Status: StatusBadRequest}
	ErrCertificateRequired      = &StatusError{Status: StatusCertificateRequired}
	ErrCertificateNotAuthorized = &StatusError{Status: StatusCertificateNotAuthorized}
	ErrCertificateNotValid      = &StatusError{Status: StatusCertificateNotValid}
)

func (e *StatusError) Error() string {
	if e.Meta == "" {
		return fmt.Sprintf("%d %s", int(e.Status), e.Status)
	}

	return fmt.Sprintf("%d %s: %s", int(e.Status), e.Status, e.Meta)
}

// Is matches any [*StatusError] with the same status.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	return ok && t.Status == e.Status
}

// Temporary determines whether the failure is temporary.
func (e *StatusError) Temporary() bool {
	return e.Status.Class() == 4
}

// CertificateRequired determines whether the server requires a client certificate.
func (e *StatusError) CertificateRequired() bool {
	return e.Status.Class() == 6
}
