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

// Package bookmarks stores bookmarked URLs in a text file, one per line.
//
// URLs are stored without the gemini:// prefix.
package bookmarks

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const prefix = "gemini://"

// List is a list of bookmarks backed by a file.
type List struct {
	lock sync.Mutex
	path string
	urls []string
}

func trim(url string) string {
	return strings.TrimPrefix(url, prefix)
}

// Load loads bookmarks from a file. A missing file is an empty list.
func Load(path string) (*List, error) {
	l := &List{path: path}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := s.Text(); line != "" {
			l.urls = append(l.urls, line)
		}
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	return l, nil
}

func (l *List) index(url string) int {
	url = trim(url)

	for i, u := range l.urls {
		if u == url {
			return i
		}
	}

	return -1
}

// Contains returns the index of url, or -1 if it's not bookmarked.
func (l *List) Contains(url string) int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.index(url)
}

// Append bookmarks url.
func (l *List) Append(url string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.add(trim(url))
}

func (l *List) add(url string) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to bookmark %s: %w", url, err)
	}

	if _, err := fmt.Fprintln(f, url); err != nil {
		f.Close()
		return fmt.Errorf("failed to bookmark %s: %w", url, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to bookmark %s: %w", url, err)
	}

	l.urls = append(l.urls, url)
	return nil
}

// Remove removes the first bookmark that starts with url and rewrites the file. The file is
// removed when no bookmarks are left.
func (l *List) Remove(url string) error {
	url = trim(url)

	l.lock.Lock()
	defer l.lock.Unlock()

	for i, u := range l.urls {
		if strings.HasPrefix(u, url) {
			return l.removeAt(i)
		}
	}

	return nil
}

// removeAt removes the i-th bookmark and rewrites the file.
func (l *List) removeAt(i int) error {
	url := l.urls[i]
	urls := append(append([]string{}, l.urls[:i]...), l.urls[i+1:]...)

	if len(urls) == 0 {
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", url, err)
		}
	} else if err := l.save(urls); err != nil {
		return fmt.Errorf("failed to remove %s: %w", url, err)
	}

	l.urls = urls
	return nil
}

func (l *List) save(urls []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "."+filepath.Base(l.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, u := range urls {
		w.WriteString(u)
		w.WriteByte('\n')
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

	return os.Rename(tmp.Name(), l.path)
}

// Toggle bookmarks url or removes the bookmark, and returns true if url is now bookmarked.
//
// Unlike [List.Remove], only an exact match is removed.
func (l *List) Toggle(url string) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if i := l.index(url); i != -1 {
		return false, l.removeAt(i)
	}

	return true, l.add(trim(url))
}

// All returns all bookmarks as gemini:// URLs, oldest first.
func (l *List) All() []string {
	l.lock.Lock()
	defer l.lock.Unlock()

	all := make([]string, len(l.urls))
	for i, u := range l.urls {
		all[i] = prefix + u
	}

	return all
}
