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

import "fmt"

// Status is a two-digit Gemini response status code.
type Status int

const (
	StatusInput                    Status = 10
	StatusSensitiveInput           Status = 11
	StatusSuccess                  Status = 20
	StatusRedirect                 Status = 30
	StatusPermanentRedirect        Status = 31
	StatusTemporaryFailure         Status = 40
	StatusServerUnavailable        Status = 41
	StatusCGIError                 Status = 42
	StatusProxyError               Status = 43
	StatusSlowDown                 Status = 44
	StatusPermanentFailure         Status = 50
	StatusNotFound                 Status = 51
	StatusGone                     Status = 52
	StatusProxyRequestRefused      Status = 53
	StatusBadRequest               Status = 59
	StatusCertificateRequired      Status = 60
	StatusCertificateNotAuthorized Status = 61
	StatusCertificateNotValid      Status = 62
)

var statusText = map[Status]string{
	StatusInput:                    "Input",
	StatusSensitiveInput:           "Sensitive input",
	StatusSuccess:                  "Success",
	StatusRedirect:                 "Redirect",
	StatusPermanentRedirect:        "Permanent redirect",
	StatusTemporaryFailure:         "Temporary failure",
	StatusServerUnavailable:        "Server unavailable",
	StatusCGIError:                 "CGI error",
	StatusProxyError:               "Proxy error",
	StatusSlowDown:                 "Slow down",
	StatusPermanentFailure:         "Permanent failure",
	StatusNotFound:                 "Not found",
	StatusGone:                     "Gone",
	StatusProxyRequestRefused:      "Proxy request refused",
	StatusBadRequest:               "Bad request",
	StatusCertificateRequired:      "Client certificate required",
	StatusCertificateNotAuthorized: "Certificate not authorized",
	StatusCertificateNotValid:      "Certificate not valid",
}

// Valid determines whether s is one of the defined status codes. Any status in the 2x range
// is treated as success.
func (s Status) Valid() bool {
	if s >= 20 && s <= 29 {
		return true
	}

	_, ok := statusText[s]
	return ok
}

// Class returns the first digit of s.
func (s Status) Class() int {
	return int(s) / 10
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}

	if s.Class() == 2 {
		return statusText[StatusSuccess]
	}

	return fmt.Sprintf("Status(%d)", int(s))
}
