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

// Package cfg defines the gemlet configuration file format and defaults.
package cfg

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config represents a gemlet configuration file.
type Config struct {
	DataDir string

	TrustFile        string
	TrustReloadDelay time.Duration

	BookmarksFile string

	HistoryDatabase string
	DatabaseOptions string
	MaxHistory      int

	DownloadsDir string
	SavedDir     string

	CertificatePath string
	KeyPath         string

	HomePage string

	ConnectTimeout  time.Duration
	IOTimeout       time.Duration
	MaxResponseSize int64
	MaxRedirects    int

	LogFile       string
	LogLevel      slog.Level
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
}

// DefaultDataDir returns $XDG_DATA_HOME/gemlet or ~/.local/share/gemlet.
func DefaultDataDir() string {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "gemlet")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gemlet")
	}

	if runtime.GOOS == "linux" {
		return filepath.Join(home, ".local", "share", "gemlet")
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gemlet")
	}

	return filepath.Join(home, ".gemlet")
}

func defaultDownloadsDir(dataDir string) string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}

	return filepath.Join(dataDir, "downloads")
}

// FillDefaults replaces missing or invalid settings with defaults.
func (c *Config) FillDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}

	if c.TrustFile == "" {
		c.TrustFile = filepath.Join(c.DataDir, "known_hosts")
	}

	if c.TrustReloadDelay <= 0 {
		c.TrustReloadDelay = time.Second * 5
	}

	if c.BookmarksFile == "" {
		c.BookmarksFile = filepath.Join(c.DataDir, "bookmarks")
	}

	if c.HistoryDatabase == "" {
		c.HistoryDatabase = filepath.Join(c.DataDir, "history.sqlite3")
	}

	if c.DatabaseOptions == "" {
		c.DatabaseOptions = "_journal_mode=WAL&_synchronous=1&_busy_timeout=5000"
	}

	if c.MaxHistory <= 0 {
		c.MaxHistory = 1000
	}

	if c.DownloadsDir == "" {
		c.DownloadsDir = defaultDownloadsDir(c.DataDir)
	}

	if c.SavedDir == "" {
		c.SavedDir = filepath.Join(c.DataDir, "saved")
	}

	if c.HomePage == "" {
		c.HomePage = "gemini://geminiprotocol.net/"
	}

	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = time.Second * 2
	}

	if c.IOTimeout <= 0 {
		c.IOTimeout = time.Second * 2
	}

	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = 1024 * 1024 * 64
	}

	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 5
	}

	if c.LogMaxSize <= 0 {
		c.LogMaxSize = 25
	}

	if c.LogMaxBackups <= 0 {
		c.LogMaxBackups = 10
	}

	if c.LogMaxAge <= 0 {
		c.LogMaxAge = 14
	}
}
