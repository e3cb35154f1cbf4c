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

package logcontext

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_AddsContextAttributes(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log := slog.New(Wrap(slog.NewJSONHandler(&buf, nil)))

	ctx := Add(context.Background(), "navigation", "abc")
	ctx = Add(ctx, "url", "gemini://example.org/")
	log.InfoContext(ctx, "Requesting")

	var record map[string]any
	assert.NoError(json.Unmarshal(buf.Bytes(), &record))
	assert.Equal("abc", record["navigation"])
	assert.Equal("gemini://example.org/", record["url"])
}

func TestWrap_NoContextAttributes(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log := slog.New(Wrap(slog.NewJSONHandler(&buf, nil)))

	log.Info("Starting", "width", 80)

	var record map[string]any
	assert.NoError(json.Unmarshal(buf.Bytes(), &record))
	assert.Equal("Starting", record["msg"])
	assert.Equal(float64(80), record["width"])
}

func TestAdd_DoesNotModifyParent(t *testing.T) {
	assert := assert.New(t)

	parent := Add(context.Background(), "a", 1)
	first := Add(parent, "b", 2)
	second := Add(parent, "c", 3)

	assert.Equal([]any{"a", 1}, parent.Value(key))
	assert.Equal([]any{"a", 1, "b", 2}, first.Value(key))
	assert.Equal([]any{"a", 1, "c", 3}, second.Value(key))
}

func TestWrap_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(Wrap(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	log.Info("Ignored")
	assert.Empty(t, buf.Bytes())
}
