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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dimkr/gemlet/link"
	"github.com/dimkr/gemlet/logcontext"
	"github.com/dimkr/gemlet/tofu"
	"github.com/google/uuid"
)

// DefaultMaxRedirects is the redirect limit used when [Navigator.MaxRedirects] is not set.
const DefaultMaxRedirects = 5

var (
	ErrCanceled         = errors.New("canceled by user")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrInvalidRedirect  = errors.New("invalid redirect")
)

// Prompter asks the user for decisions during navigation.
type Prompter interface {
	// Input asks the user for a line of text. Sensitive input must not be echoed. The second
	// return value is false if the user canceled.
	Input(ctx context.Context, prompt string, sensitive bool) (string, bool)

	// ConfirmRedirect asks the user whether to follow a redirect.
	ConfirmRedirect(ctx context.Context, target string) bool

	// ConfirmFingerprint asks the user whether to trust a changed certificate.
	ConfirmFingerprint(ctx context.Context, host, fingerprint string) bool
}

// Navigator follows input requests and redirects until it reaches a final response.
type Navigator struct {
	Client       *Client
	Prompter     Prompter
	MaxRedirects int
}

func (n *Navigator) fetch(ctx context.Context, raw string) (*Response, error) {
	conn, err := n.Client.Dial(ctx, raw)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if conn.CertResult == tofu.FingerprintMismatch {
		if !n.Prompter.ConfirmFingerprint(ctx, conn.URL.HostPort(), conn.Fingerprint) {
			return nil, fmt.Errorf("%w: %s", ErrFingerprintMismatch, conn.URL.HostPort())
		}

		if err := conn.Trust(); err != nil {
			return nil, err
		}

		slog.InfoContext(ctx, "Trusting changed certificate", "host", conn.URL.HostPort(), "fingerprint", conn.Fingerprint)
	}

	return conn.Do(ctx)
}

func (n *Navigator) input(ctx context.Context, resp *Response) (string, error) {
	for {
		s, ok := n.Prompter.Input(ctx, resp.Meta, resp.Status == StatusSensitiveInput)
		if !ok {
			return "", ErrCanceled
		}

		query, err := EscapeQuery(s)
		if err == nil {
			return resp.URL.WithoutQuery().String() + "?" + query, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		slog.InfoContext(ctx, "Invalid input", "error", err)
	}
}

// Navigate requests a URL and returns the final response.
//
// Input requests are answered by prompting the user and redirects are followed after
// confirmation, up to MaxRedirects. Failure responses are returned together with a
// [*StatusError].
func (n *Navigator) Navigate(ctx context.Context, raw string) (*Response, error) {
	ctx = logcontext.Add(ctx, "navigation", uuid.NewString(), "origin", raw)

	maxRedirects := n.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	redirects := 0

	for {
		slog.DebugContext(ctx, "Requesting", "url", raw)

		resp, err := n.fetch(ctx, raw)
		if err != nil {
			return nil, err
		}

		switch resp.Status.Class() {
		case 1:
			raw, err = n.input(ctx, resp)
			if err != nil {
				return nil, err
			}

		case 2:
			return resp, nil

		case 3:
			if redirects == maxRedirects {
				return nil, fmt.Errorf("%w: %s", ErrTooManyRedirects, resp.URL)
			}

			target, ok := link.Resolve(resp.URL.String(), resp.Meta)
			if !ok || target.External {
				return nil, fmt.Errorf("%w: %s", ErrInvalidRedirect, resp.Meta)
			}

			if !n.Prompter.ConfirmRedirect(ctx, target.URL) {
				return nil, ErrCanceled
			}

			slog.InfoContext(ctx, "Following redirect", "from", resp.URL.String(), "to", target.URL, "status", int(resp.Status))
			raw = target.URL
			redirects++

		default:
			return resp, resp.Err()
		}
	}
}
