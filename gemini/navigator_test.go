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
	"testing"

	"github.com/dimkr/gemlet/gemtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prompter struct {
	inputs      []string
	prompts     []string
	sensitive   []bool
	redirects   []string
	confirm     bool
	trust       bool
	fingerprint string
}

func (p *prompter) Input(_ context.Context, prompt string, sensitive bool) (string, bool) {
	p.prompts = append(p.prompts, prompt)
	p.sensitive = append(p.sensitive, sensitive)

	if len(p.inputs) == 0 {
		return "", false
	}

	s := p.inputs[0]
	p.inputs = p.inputs[1:]
	return s, true
}

func (p *prompter) ConfirmRedirect(_ context.Context, target string) bool {
	p.redirects = append(p.redirects, target)
	return p.confirm
}

func (p *prompter) ConfirmFingerprint(_ context.Context, _, fingerprint string) bool {
	p.fingerprint = fingerprint
	return p.trust
}

func search(r *gemtest.Request) string {
	if r.Resource == "/search" {
		return "10 Enter search term\r\n"
	}

	return "20 text/gemini\r\n" + r.Resource + "\n"
}

func TestNavigator_Success(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.Handle("/", "20 text/gemini\r\n# Title\n")

	n := Navigator{Client: newClient(t), Prompter: &prompter{}}

	resp, err := n.Navigate(context.Background(), server.URL("/"))
	assert.NoError(err)
	assert.Equal(StatusSuccess, resp.Status)
	assert.Equal(server.URL("/"), resp.URL.String())
}

func TestNavigator_Input(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.HandleFunc("/search", search)

	p := &prompter{inputs: []string{"a b"}}
	n := Navigator{Client: newClient(t), Prompter: p}

	resp, err := n.Navigate(context.Background(), server.URL("/search"))
	assert.NoError(err)
	assert.Equal("/search?a%20b\n", string(resp.Body))
	assert.Equal([]string{"Enter search term"}, p.prompts)
	assert.Equal([]bool{false}, p.sensitive)
}

func TestNavigator_InputReplacesQuery(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.HandleFunc("/search", func(r *gemtest.Request) string {
		if r.Resource == "/search?old" {
			return "10 Try again\r\n"
		}
		return search(r)
	})

	n := Navigator{Client: newClient(t), Prompter: &prompter{inputs: []string{"new"}}}

	resp, err := n.Navigate(context.Background(), server.URL("/search?old"))
	assert.NoError(t, err)
	assert.Equal(t, "/search?new\n", string(resp.Body))
}

func TestNavigator_SensitiveInput(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.HandleFunc("/login", func(r *gemtest.Request) string {
		if r.Resource == "/login" {
			return "11 Password\r\n"
		}
		return "20 text/gemini\r\nwelcome\n"
	})

	p := &prompter{inputs: []string{"secret"}}
	n := Navigator{Client: newClient(t), Prompter: p}

	_, err := n.Navigate(context.Background(), server.URL("/login"))
	assert.NoError(t, err)
	assert.Equal(t, []bool{true}, p.sensitive)
}

func TestNavigator_InvalidInputPromptsAgain(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.HandleFunc("/search", search)

	p := &prompter{inputs: []string{"", "<b>", "ok"}}
	n := Navigator{Client: newClient(t), Prompter: p}

	resp, err := n.Navigate(context.Background(), server.URL("/search"))
	assert.NoError(err)
	assert.Equal("/search?ok\n", string(resp.Body))
	assert.Len(p.prompts, 3)
	assert.Len(server.Requests(), 2)
}

func TestNavigator_InputCanceled(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.HandleFunc("/search", search)

	n := Navigator{Client: newClient(t), Prompter: &prompter{}}

	_, err := n.Navigate(context.Background(), server.URL("/search"))
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestNavigator_Redirect(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.Handle("/old/page.gmi", "31 ../new/page.gmi\r\n")
	server.Handle("/new/page.gmi", "20 text/gemini\r\nmoved\n")

	p := &prompter{confirm: true}
	n := Navigator{Client: newClient(t), Prompter: p}

	resp, err := n.Navigate(context.Background(), server.URL("/old/page.gmi"))
	assert.NoError(err)
	assert.Equal("moved\n", string(resp.Body))
	assert.Equal(server.URL("/new/page.gmi"), resp.URL.String())
	assert.Equal([]string{server.URL("/new/page.gmi")}, p.redirects)
}

func TestNavigator_RedirectDeclined(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.Handle("/old", "30 /new\r\n")

	n := Navigator{Client: newClient(t), Prompter: &prompter{}}

	_, err := n.Navigate(context.Background(), server.URL("/old"))
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Len(t, server.Requests(), 1)
}

func TestNavigator_RedirectLoop(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.Handle("/loop", "30 /loop\r\n")

	p := &prompter{confirm: true}
	n := Navigator{Client: newClient(t), Prompter: p}

	_, err := n.Navigate(context.Background(), server.URL("/loop"))
	assert.ErrorIs(err, ErrTooManyRedirects)
	assert.Len(p.redirects, DefaultMaxRedirects)
	assert.Len(server.Requests(), DefaultMaxRedirects+1)
}

func TestNavigator_RedirectLimit(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.Handle("/loop", "30 /loop\r\n")

	n := Navigator{Client: newClient(t), Prompter: &prompter{confirm: true}, MaxRedirects: 2}

	_, err := n.Navigate(context.Background(), server.URL("/loop"))
	assert.ErrorIs(t, err, ErrTooManyRedirects)
	assert.Len(t, server.Requests(), 3)
}

func TestNavigator_ExternalRedirect(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.Handle("/", "30 https://example.org/\r\n")

	n := Navigator{Client: newClient(t), Prompter: &prompter{confirm: true}}

	_, err := n.Navigate(context.Background(), server.URL("/"))
	assert.ErrorIs(t, err, ErrInvalidRedirect)
}

func TestNavigator_NotFound(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)

	n := Navigator{Client: newClient(t), Prompter: &prompter{}}

	resp, err := n.Navigate(context.Background(), server.URL("/missing"))
	assert.ErrorIs(err, ErrNotFound)
	assert.Equal(StatusNotFound, resp.Status)
	assert.Equal("Not found", resp.Meta)
	assert.Empty(resp.Body)
}

func TestNavigator_CertificateRequired(t *testing.T) {
	server := gemtest.NewServer(t, nil)
	server.Handle("/", "60 Client certificate required\r\n")

	n := Navigator{Client: newClient(t), Prompter: &prompter{}}

	_, err := n.Navigate(context.Background(), server.URL("/"))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, statusErr.CertificateRequired())
}

func TestNavigator_FingerprintMismatch(t *testing.T) {
	assert := assert.New(t)

	server := gemtest.NewServer(t, nil)
	server.Handle("/", "20 text/gemini\r\nhello\n")

	client := newClient(t)
	p := &prompter{}
	n := Navigator{Client: client, Prompter: p}

	_, err := n.Navigate(context.Background(), server.URL("/"))
	require.NoError(t, err)

	other, err := gemtest.GenerateCertificate("other")
	require.NoError(t, err)
	server.SetCertificate(other)
	client.Sessions = NewSessionCache()

	_, err = n.Navigate(context.Background(), server.URL("/"))
	assert.ErrorIs(err, ErrFingerprintMismatch)
	assert.Equal(gemtest.Fingerprint(other), p.fingerprint)
	assert.Len(server.Requests(), 1)

	p.trust = true

	resp, err := n.Navigate(context.Background(), server.URL("/"))
	assert.NoError(err)
	assert.Equal("hello\n", string(resp.Body))

	fingerprint, ok := client.Trust.Lookup(server.Host())
	assert.True(ok)
	assert.Equal(gemtest.Fingerprint(other), fingerprint)
}
