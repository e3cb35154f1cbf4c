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

// Package tofu implements a trust-on-first-use certificate store.
//
// The store maps host:port pairs to the SHA-256 fingerprint of the certificate seen on first
// contact. It is backed by a text file with one "host:port fingerprint" pair per line, which
// is appended to when a new host is seen and rewritten only when the user accepts a changed
// certificate.
package tofu

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Result is the outcome of [Store.Check].
type Result int

const (
	// OK means the host is known and the fingerprint matches.
	OK Result = iota

	// NewHostname means the host was not known and is now trusted.
	NewHostname

	// FingerprintMismatch means the host is known under a different fingerprint.
	FingerprintMismatch
)

// Entry is a trusted host.
type Entry struct {
	// Host is a host:port pair.
	Host string

	// Fingerprint is the hex-encoded SHA-256 hash of the host's DER-encoded certificate.
	Fingerprint string
}

// Store is a trust store backed by a file.
type Store struct {
	lock    sync.Mutex
	path    string
	entries []Entry

	wg sync.WaitGroup
	w  *fsnotify.Watcher
}

var (
	ErrMalformedLine = errors.New("malformed line")
	ErrUnknownHost   = errors.New("unknown host")
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case NewHostname:
		return "new hostname"
	case FingerprintMismatch:
		return "fingerprint mismatch"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

func load(path string) ([]Entry, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry

	s := bufio.NewScanner(f)
	for lineNo := 1; s.Scan(); lineNo++ {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}

		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %s:%d", ErrMalformedLine, path, lineNo)
		}

		entries = prepend(entries, Entry{Host: fields[0], Fingerprint: fields[1]})
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// prepend inserts e at the head of entries and drops an older entry for the same host.
func prepend(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Host == e.Host {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}

	return append([]Entry{e}, entries...)
}

// Load loads a trust store from a file, creating the file if it does not exist.
//
// A line that does not consist of exactly two fields is an error.
func Load(path string) (*Store, error) {
	entries, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return &Store{path: path, entries: entries}, nil
}

func (s *Store) find(host string) int {
	for i := range s.entries {
		if s.entries[i].Host == host {
			return i
		}
	}

	return -1
}

// Check checks whether fingerprint is trusted for host.
//
// An unknown host is trusted: it is appended to the store file and [NewHostname] is
// returned. A known host with a different fingerprint leaves the store untouched.
// Fingerprints are compared case-insensitively.
func (s *Store) Check(host, fingerprint string) (Result, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.find(host); i >= 0 {
		if strings.EqualFold(s.entries[i].Fingerprint, fingerprint) {
			return OK, nil
		}

		return FingerprintMismatch, nil
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return NewHostname, fmt.Errorf("failed to trust %s: %w", host, err)
	}

	if _, err := fmt.Fprintf(f, "%s %s\n", host, fingerprint); err != nil {
		f.Close()
		return NewHostname, fmt.Errorf("failed to trust %s: %w", host, err)
	}

	if err := f.Close(); err != nil {
		return NewHostname, fmt.Errorf("failed to trust %s: %w", host, err)
	}

	s.entries = prepend(s.entries, Entry{Host: host, Fingerprint: fingerprint})
	return NewHostname, nil
}

// Override replaces the fingerprint of a known host and rewrites the store file.
func (s *Store) Override(host, fingerprint string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	i := s.find(host)
	if i == -1 {
		return fmt.Errorf("failed to override %s: %w", host, ErrUnknownHost)
	}

	entries := append([]Entry{}, s.entries...)
	entries[i].Fingerprint = fingerprint

	if err := s.save(entries); err != nil {
		return fmt.Errorf("failed to override %s: %w", host, err)
	}

	s.entries = entries
	return nil
}

// save writes entries to a temporary file in the same directory and renames it over the store
// file, oldest entry first.
func (s *Store) save(entries []Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for i := len(entries) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintf(w, "%s %s\n", entries[i].Host, entries[i].Fingerprint); err != nil {
			tmp.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// Lookup returns the trusted fingerprint of host.
func (s *Store) Lookup(host string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.find(host); i >= 0 {
		return s.entries[i].Fingerprint, true
	}

	return "", false
}

// Entries returns a copy of all entries, most recent first.
func (s *Store) Entries() []Entry {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]Entry{}, s.entries...)
}
