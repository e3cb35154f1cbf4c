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

package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/dimkr/gemlet/bookmarks"
	"github.com/dimkr/gemlet/cfg"
	"github.com/dimkr/gemlet/gemini"
	"github.com/dimkr/gemlet/history"
	"github.com/dimkr/gemlet/logger"
	"github.com/dimkr/gemlet/tofu"
)

var (
	cfgPath  = flag.String("cfg", "", "configuration file path")
	dumpPage = flag.Bool("dump", false, "print the page and exit")
	width    = flag.Int("width", 0, "page width when printing")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [URL]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = filepath.Join(cfg.DefaultDataDir(), "gemlet.toml")
	}

	config, err := cfg.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(config.DataDir, 0o700); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	interactive := !*dumpPage && term.IsTerminal(os.Stdout.Fd())

	if interactive && config.LogFile == "" {
		config.LogFile = filepath.Join(config.DataDir, "gemlet.log")
	}

	log, closer := logger.New(config)
	defer closer.Close()
	slog.SetDefault(log)

	if err := run(config, interactive); err != nil {
		log.Error("Exiting", "error", err)
		if interactive {
			fmt.Fprintln(os.Stderr, err)
		}
		closer.Close()
		os.Exit(1)
	}
}

func run(config *cfg.Config, interactive bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trust, err := tofu.Load(config.TrustFile)
	if err != nil {
		return err
	}

	if err := trust.Watch(slog.Default(), config.TrustReloadDelay); err != nil {
		slog.Warn("Failed to watch trust store", "path", config.TrustFile, "error", err)
	}
	defer trust.Close()

	client := gemini.NewClient(config, trust)

	if config.CertificatePath != "" {
		cert, err := tls.LoadX509KeyPair(config.CertificatePath, config.KeyPath)
		if err != nil {
			return fmt.Errorf("failed to load client certificate: %w", err)
		}
		client.Certificate = &cert
	}

	hist, err := history.Open(ctx, slog.Default(), config)
	if err != nil {
		return err
	}
	defer hist.Close()

	marks, err := bookmarks.Load(config.BookmarksFile)
	if err != nil {
		return err
	}

	b := &browser{
		Config:    config,
		Navigator: &gemini.Navigator{Client: client, MaxRedirects: config.MaxRedirects},
		History:   hist,
		Bookmarks: marks,
	}

	url := flag.Arg(0)
	if url == "" {
		url = config.HomePage
	}

	if !interactive {
		p := &linePrompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}
		if term.IsTerminal(os.Stdin.Fd()) {
			p.tty, p.fd = true, os.Stdin.Fd()
		}
		b.Navigator.Prompter = p

		w := *width
		if w <= 0 {
			w = 80
			if tw, _, err := term.GetSize(os.Stdout.Fd()); err == nil && tw > 0 {
				w = tw
			}
		}

		return dump(ctx, b, url, w, os.Stdout)
	}

	p := tea.NewProgram(newModel(ctx, b, url), tea.WithAltScreen(), tea.WithContext(ctx))
	b.Navigator.Prompter = tuiPrompter{send: p.Send}

	if _, err := p.Run(); err != nil && !isCanceled(err) && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}
