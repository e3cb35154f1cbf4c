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

// Package gemini implements a Gemini client with trust-on-first-use certificate checks.
package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/dimkr/gemlet/cfg"
	"github.com/dimkr/gemlet/tofu"
)

var (
	ErrResolve             = errors.New("failed to resolve host")
	ErrConnect             = errors.New("failed to connect")
	ErrHandshake           = errors.New("TLS handshake failed")
	ErrNoCertificate       = errors.New("server did not present a certificate")
	ErrFingerprintMismatch = errors.New("certificate fingerprint mismatch")
	ErrURLTooLong          = errors.New("URL is too long")
	ErrWrite               = errors.New("failed to send request")
	ErrRead                = errors.New("failed to read response")
	ErrResponseTooLarge    = errors.New("response is too large")
)

// cipherSuites are the TLS 1.2 cipher suites offered to servers. TLS 1.3 suites are not
// configurable.
var cipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
}

// Client connects to Gemini servers.
//
// Server certificates are not validated against a CA: instead, the fingerprint of the
// certificate is checked against Trust.
type Client struct {
	Config *cfg.Config
	Trust  *tofu.Store

	// Certificate is presented to servers that request a client certificate.
	Certificate *tls.Certificate

	Sessions *SessionCache
}

// Conn is a connection to a Gemini server, after the TLS handshake and before the request.
type Conn struct {
	URL         URL
	Fingerprint string
	CertResult  tofu.Result
	Resumed     bool

	client  *Client
	conn    *tls.Conn
	trusted bool
}

// deadlineConn sets a deadline before every read and write.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func NewClient(config *cfg.Config, trust *tofu.Store) *Client {
	return &Client{
		Config:   config,
		Trust:    trust,
		Sessions: NewSessionCache(),
	}
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}

	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}

	return c.Conn.Write(b)
}

func (c *Client) connect(ctx context.Context, u URL) (net.Conn, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, u.Host)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrResolve, u.Host, err)
	}

	dialer := net.Dialer{Timeout: c.Config.ConnectTimeout}
	port := strconv.Itoa(u.Port)

	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr.IP.String(), port))
		if err == nil {
			return conn, nil
		}

		slog.DebugContext(ctx, "Failed to connect", "host", u.Host, "address", addr.IP, "error", err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w to %s", ErrConnect, u.HostPort())
}

// Dial connects to the server of a Gemini URL, performs the TLS handshake and checks the
// server certificate.
//
// A certificate that does not match the trusted fingerprint is not an error: it's reported
// through [Conn.CertResult] and no request can be sent until [Conn.Trust] is called.
func (c *Client) Dial(ctx context.Context, raw string) (*Conn, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}

	tcpConn, err := c.connect(ctx, u)
	if err != nil {
		return nil, err
	}

	sessions := c.Sessions.forHost(u.HostPort())

	config := tls.Config{
		ServerName:         u.Host,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
		CipherSuites:       cipherSuites,
		ClientSessionCache: sessions,
	}
	if c.Certificate != nil {
		config.Certificates = []tls.Certificate{*c.Certificate}
	}

	tlsConn := tls.Client(&deadlineConn{Conn: tcpConn, timeout: c.Config.IOTimeout}, &config)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("%w with %s: %w", ErrHandshake, u.HostPort(), err)
	}

	state := tlsConn.ConnectionState()

	if sessions.offered != nil && !state.DidResume && c.Sessions.remove(u.HostPort(), sessions.offered) {
		slog.DebugContext(ctx, "Server rejected session", "host", u.HostPort())
	}

	if len(state.PeerCertificates) == 0 {
		tlsConn.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoCertificate, u.HostPort())
	}

	hash := sha256.Sum256(state.PeerCertificates[0].Raw)
	fingerprint := hex.EncodeToString(hash[:])

	result, err := c.Trust.Check(u.HostPort(), fingerprint)
	if err != nil {
		tlsConn.Close()
		return nil, err
	}

	switch result {
	case tofu.NewHostname:
		slog.InfoContext(ctx, "Trusting new host", "host", u.HostPort(), "fingerprint", fingerprint)

	case tofu.FingerprintMismatch:
		slog.WarnContext(ctx, "Certificate has changed", "host", u.HostPort(), "fingerprint", fingerprint)
	}

	return &Conn{
		URL:         u,
		Fingerprint: fingerprint,
		CertResult:  result,
		Resumed:     state.DidResume,
		client:      c,
		conn:        tlsConn,
	}, nil
}

// Trust replaces the trusted fingerprint of the server with the one it presented.
func (c *Conn) Trust() error {
	if c.CertResult != tofu.FingerprintMismatch {
		return nil
	}

	if err := c.client.Trust.Override(c.URL.HostPort(), c.Fingerprint); err != nil {
		slog.Error("Failed to trust certificate", "host", c.URL.HostPort(), "error", err)
		return err
	}

	c.trusted = true
	return nil
}

// Do sends the request and reads the entire response.
//
// Do fails with [ErrFingerprintMismatch] if the certificate doesn't match and [Conn.Trust]
// wasn't called. A response with a failure status is not an error: use [Response.Err] to
// check the status.
func (c *Conn) Do(ctx context.Context) (*Response, error) {
	if c.CertResult == tofu.FingerprintMismatch && !c.trusted {
		return nil, fmt.Errorf("%w: %s", ErrFingerprintMismatch, c.URL.HostPort())
	}

	req := c.URL.Request()
	if len(req) > MaxRequestLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrURLTooLong, len(req))
	}

	stop := context.AfterFunc(ctx, func() {
		c.conn.Close()
	})
	defer stop()

	if _, err := c.conn.Write([]byte(req)); err != nil {
		return nil, fmt.Errorf("%w to %s: %w", ErrWrite, c.URL.HostPort(), err)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(c.conn, c.client.Config.MaxResponseSize+1))
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && n > 0) {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w from %s: %w", ErrRead, c.URL.HostPort(), ctx.Err())
		}
		return nil, fmt.Errorf("%w from %s: %w", ErrRead, c.URL.HostPort(), err)
	}

	if n > c.client.Config.MaxResponseSize {
		return nil, fmt.Errorf("%w: %s", ErrResponseTooLarge, c.URL)
	}

	resp, err := ParseResponse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", c.URL, err)
	}

	resp.URL = c.URL
	resp.Fingerprint = c.Fingerprint
	resp.CertResult = c.CertResult
	resp.Resumed = c.Resumed

	slog.DebugContext(ctx, "Received response", "url", c.URL.String(), "status", int(resp.Status), "meta", resp.Meta, "size", len(resp.Body))
	return resp, nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Fetch sends a request to a server with a trusted certificate and reads the response.
func (c *Client) Fetch(ctx context.Context, raw string) (*Response, error) {
	conn, err := c.Dial(ctx, raw)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return conn.Do(ctx)
}
