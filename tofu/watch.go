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

package tofu

import (
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store when its file is changed by another process, after delay.
//
// Call [Store.Close] to stop watching.
func (s *Store) Watch(log *slog.Logger, delay time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return err
	}
	absPath := filepath.Join(dir, filepath.Base(s.path))

	s.w = w

	timer := time.NewTimer(math.MaxInt64)
	timer.Stop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					timer.Stop()
					return
				}

				if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) && event.Name == absPath {
					timer.Reset(delay)
				}

			case err, ok := <-w.Errors:
				if !ok {
					timer.Stop()
					return
				}

				log.Warn("Failed to watch trust store", "path", s.path, "error", err)

			case <-timer.C:
				entries, err := load(s.path)
				if err != nil {
					log.Warn("Failed to reload trust store", "path", s.path, "error", err)
					continue
				}

				s.lock.Lock()

				// the file may have been truncated by a writer that hasn't finished yet
				if len(s.entries) > 0 && len(entries) == 0 {
					s.lock.Unlock()
					log.Warn("New trust store is empty", "path", s.path)
					continue
				}

				s.entries = entries
				s.lock.Unlock()

				log.Info("Reloaded trust store", "path", s.path, "length", len(entries))
			}
		}
	}()

	return nil
}

// Close stops watching the store file.
func (s *Store) Close() {
	if s.w == nil {
		return
	}

	s.w.Close()
	s.wg.Wait()
}
