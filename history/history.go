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

// Package history keeps the back and forward lists of visited pages and a log of visits.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dimkr/gemlet/cfg"
	"github.com/dimkr/gemlet/dbx"
	"github.com/dimkr/gemlet/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// Visit is a logged visit.
type Visit struct {
	URL  string
	Time time.Time
}

// History is the navigation history.
//
// The back and forward lists live in memory, while visits are logged to a SQLite database.
type History struct {
	db  *sql.DB
	max int

	lock    sync.Mutex
	current string
	back    []string
	forward []string
}

// Open opens the history database and applies migrations.
func Open(ctx context.Context, log *slog.Logger, cfg *cfg.Config) (*History, error) {
	dsn := cfg.HistoryDatabase
	if cfg.DatabaseOptions != "" {
		dsn += "?" + cfg.DatabaseOptions
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.HistoryDatabase, err)
	}

	if err := migrations.Run(ctx, log, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", cfg.HistoryDatabase, err)
	}

	return &History{db: db, max: cfg.MaxHistory}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// Visit makes url the current page, pushes the previous one to the back list and clears the
// forward list. The visit is logged and old visits are deleted.
func (h *History) Visit(ctx context.Context, url string) error {
	h.lock.Lock()
	if h.current != "" && h.current != url {
		h.back = append(h.back, h.current)
	}
	h.current = url
	h.forward = nil
	h.lock.Unlock()

	if _, err := h.db.ExecContext(ctx, `insert into visits(url) values (?)`, url); err != nil {
		return fmt.Errorf("failed to log visit to %s: %w", url, err)
	}

	if h.max > 0 {
		if _, err := h.db.ExecContext(
			ctx,
			`delete from visits where id <= (select id from visits order by id desc limit 1 offset ?)`,
			h.max,
		); err != nil {
			return fmt.Errorf("failed to delete old visits: %w", err)
		}
	}

	return nil
}

// Current returns the current page.
func (h *History) Current() string {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.current
}

// Back returns the previous page and makes it the current one.
func (h *History) Back() (string, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if len(h.back) == 0 {
		return "", false
	}

	h.forward = append(h.forward, h.current)
	h.current = h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	return h.current, true
}

// Forward returns the next page and makes it the current one.
func (h *History) Forward() (string, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if len(h.forward) == 0 {
		return "", false
	}

	h.back = append(h.back, h.current)
	h.current = h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	return h.current, true
}

// Recent returns up to n recently visited URLs, most recent first. Each URL appears once.
func (h *History) Recent(ctx context.Context, n int) ([]Visit, error) {
	rows, err := dbx.QueryCollect[struct {
		URL     string
		Visited int64
	}](
		ctx,
		h.db,
		`select url, max(visited) from visits group by url order by max(id) desc limit ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	visits := make([]Visit, len(rows))
	for i, row := range rows {
		visits[i] = Visit{URL: row.URL, Time: time.Unix(row.Visited, 0)}
	}

	return visits, nil
}
