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

// Package gemtest provides an in-process Gemini server for tests.
package gemtest

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	maxRequestLength = 1024
	requestTimeout   = time.Second * 5
)

// Request is a request received by a [Server].
type Request struct {
	// Line is the request line without the trailing CRLF.
	Line string

	// Resource is the path and query of the requested URL.
	Resource string

	// Certificate is the client certificate, if any.
	Certificate *x509.Certificate
}

// HandlerFunc returns a complete response, including the status line.
type HandlerFunc func(r *Request) string

// Server is a Gemini server listening on a random port of the loopback interface.
type Server struct {
	Port int

	config   *tls.Config
	listener net.Listener
	cert     atomic.Pointer[tls.Certificate]
	wg       sync.WaitGroup

	lock     sync.Mutex
	handlers map[string]HandlerFunc
	requests []Request
}

// NewServer starts a server with a certificate generated for "localhost". The server is
// stopped when the test ends.
//
// configure, if not nil, can modify the TLS configuration before the server starts.
func NewServer(t testing.TB, configure func(*tls.Config)) *Server {
	t.Helper()

	cert, err := GenerateCertificate("localhost")
	if err != nil {
		t.Fatalf("Failed to generate certificate: %v", err)
	}

	s := &Server{handlers: map[string]HandlerFunc{}}
	s.cert.Store(&cert)

	s.config = &tls.Config{
		MinVersion: tls.VersionTLS12,
		ClientAuth: tls.RequestClientCert,
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			return s.cert.Load(), nil
		},
	}
	if configure != nil {
		configure(s.config)
	}

	s.listener, err = tls.Listen("tcp", "127.0.0.1:0", s.config)
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	s.Port = s.listener.Addr().(*net.TCPAddr).Port

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.serve()
	}()

	t.Cleanup(s.Close)
	return s
}

// URL returns the URL of a resource on this server.
func (s *Server) URL(resource string) string {
	return "gemini://127.0.0.1:" + strconv.Itoa(s.Port) + resource
}

// Host returns the host:port pair of this server.
func (s *Server) Host() string {
	return "127.0.0.1:" + strconv.Itoa(s.Port)
}

// Handle registers a fixed response for a resource.
func (s *Server) Handle(resource, response string) {
	s.HandleFunc(resource, func(*Request) string {
		return response
	})
}

// HandleFunc registers a handler for a resource. A request with a query that has no handler
// of its own is passed to the handler of the path.
func (s *Server) HandleFunc(resource string, f HandlerFunc) {
	s.lock.Lock()
	s.handlers[resource] = f
	s.lock.Unlock()
}

// SetCertificate replaces the certificate presented in new handshakes.
func (s *Server) SetCertificate(cert tls.Certificate) {
	s.cert.Store(&cert)
}

// Certificate returns the certificate presented in new handshakes.
func (s *Server) Certificate() tls.Certificate {
	return *s.cert.Load()
}

// RotateTicketKeys invalidates all session tickets issued so far.
func (s *Server) RotateTicketKeys() {
	var key [32]byte
	rand.Read(key[:])
	s.config.SetSessionTicketKeys([][32]byte{key})
}

// Requests returns all requests received so far.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]Request{}, s.requests...)
}

// Close stops the server and waits for all connections to be closed.
func (s *Server) Close() {
	s.listener.Close()
	s.wg.Wait()
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				slog.Warn("Failed to accept a connection", "error", err)
			}
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func readRequest(conn net.Conn) (string, error) {
	var req [maxRequestLength + 2]byte

	total := 0
	for {
		n, err := conn.Read(req[total : total+1])
		if err != nil {
			return "", err
		}
		if n <= 0 {
			return "", io.ErrUnexpectedEOF
		}
		total += n

		if total > 2 && req[total-2] == '\r' && req[total-1] == '\n' {
			return string(req[:total-2]), nil
		}

		if total == len(req) {
			return "", errors.New("request is too big")
		}
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		slog.Warn("Failed to set deadline", "error", err)
		return
	}

	tlsConn := conn.(*tls.Conn)
	if err := tlsConn.Handshake(); err != nil {
		slog.Debug("Handshake failed", "error", err)
		return
	}

	line, err := readRequest(conn)
	if err != nil {
		slog.Debug("Failed to receive request", "error", err)
		return
	}

	r := Request{Line: line, Resource: "/"}

	rest := strings.TrimPrefix(line, "gemini://")
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		r.Resource = rest[i:]
		if r.Resource[0] == '?' {
			r.Resource = "/" + r.Resource
		}
	}

	if certs := tlsConn.ConnectionState().PeerCertificates; len(certs) > 0 {
		r.Certificate = certs[0]
	}

	s.lock.Lock()
	s.requests = append(s.requests, r)
	h, ok := s.handlers[r.Resource]
	if !ok {
		path, _, _ := strings.Cut(r.Resource, "?")
		h, ok = s.handlers[path]
	}
	s.lock.Unlock()

	response := "51 Not found\r\n"
	if ok {
		response = h(&r)
	}

	if _, err := io.WriteString(conn, response); err != nil {
		slog.Debug("Failed to send response", "error", err)
	}
}
