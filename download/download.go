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

// Package download saves response bodies to disk.
package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimkr/gemlet/gemini"
)

// ErrDirectory is returned by [Filename] when a URL points to a directory.
var ErrDirectory = errors.New("URL is a directory")

// Filename returns the last path segment of a URL.
func Filename(url string) (string, error) {
	u, err := gemini.ParseURL(url)
	if err != nil {
		return "", err
	}

	path := u.WithoutQuery().Resource
	name := path[strings.LastIndexByte(path, '/')+1:]
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %s", ErrDirectory, url)
	}

	return name, nil
}

// writeFile writes data to a temporary file next to path, then renames it.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
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

	return os.Rename(tmp.Name(), path)
}

// SaveFile saves body as dir/name and returns the path.
func SaveFile(dir, name string, body []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("failed to save %s: invalid name", name)
	}

	path := filepath.Join(dir, name)
	if err := writeFile(path, body); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	return path, nil
}

// PagePath returns the path a page is saved under.
//
// Pages of a host with a subdomain are saved under the parent domain. The path of the page is
// kept, index pages are saved as MAIN.gmi and the local time is appended to the file name.
func PagePath(dir, url string, now time.Time) (string, error) {
	u, err := gemini.ParseURL(url)
	if err != nil {
		return "", err
	}

	host := u.Host
	if strings.Count(host, ".") == 2 {
		host = host[strings.IndexByte(host, '.')+1:]
	}

	parts := strings.Split(u.WithoutQuery().Resource, "/")
	segments := []string{dir, host}
	for _, s := range parts[:len(parts)-1] {
		if s != "" && s != "." && s != ".." {
			segments = append(segments, s)
		}
	}

	name := parts[len(parts)-1]
	if name == "" || name == "." || name == ".." {
		name = "MAIN.gmi"
	}

	segments = append(
		segments,
		fmt.Sprintf("%s-%d-%d-%d--%d-%d", name, now.Day(), int(now.Month()), now.Year(), now.Hour(), now.Minute()),
	)

	return filepath.Join(segments...), nil
}

// SavePage saves a page under dir and returns the path.
func SavePage(dir, url string, body []byte, now time.Time) (string, error) {
	path, err := PagePath(dir, url, now)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", url, err)
	}

	if err := writeFile(path, body); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", url, err)
	}

	return path, nil
}
