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

// Package logger builds the process logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/dimkr/gemlet/cfg"
	"github.com/dimkr/gemlet/logcontext"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// New returns a JSON logger that writes to a rotated log file, or to stderr if cfg.LogFile
// is empty. Attributes attached to contexts with [logcontext.Add] are logged too.
//
// The returned [io.Closer] closes the log file.
func New(cfg *cfg.Config) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var c io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		f := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge,
			Compress:   true,
		}
		w, c = f, f
	}

	return newLogger(w, cfg.LogLevel), c
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := slog.HandlerOptions{Level: level}
	if level == slog.LevelDebug {
		opts.AddSource = true
	}

	return slog.New(logcontext.Wrap(slog.NewJSONHandler(w, &opts)))
}
