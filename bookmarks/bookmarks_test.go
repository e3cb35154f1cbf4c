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

package bookmarks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "bookmarks"))
	require.NoError(t, err)
	assert.Empty(t, l.All())
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bookmarks")
	require.NoError(t, os.WriteFile(path, []byte("a.b/\n\nc.d/e.gmi\n"), 0o600))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal([]string{"gemini://a.b/", "gemini://c.d/e.gmi"}, l.All())
	assert.Equal(1, l.Contains("gemini://c.d/e.gmi"))
	assert.Equal(1, l.Contains("c.d/e.gmi"))
	assert.Equal(-1, l.Contains("gemini://c.d/"))
}

func TestAppend(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bookmarks")

	l, err := Load(path)
	require.NoError(t, err)

	assert.NoError(l.Append("gemini://a.b/"))
	assert.NoError(l.Append("gemini://c.d/"))
	assert.Equal(0, l.Contains("gemini://a.b/"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("a.b/\nc.d/\n", string(data))

	l, err = Load(path)
	require.NoError(t, err)
	assert.Equal([]string{"gemini://a.b/", "gemini://c.d/"}, l.All())
}

func TestRemove(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bookmarks")
	require.NoError(t, os.WriteFile(path, []byte("a.b/\nc.d/\na.b/x\n"), 0o600))

	l, err := Load(path)
	require.NoError(t, err)

	assert.NoError(l.Remove("gemini://a.b/"))
	assert.Equal([]string{"gemini://c.d/", "gemini://a.b/x"}, l.All())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("c.d/\na.b/x\n", string(data))

	assert.NoError(l.Remove("gemini://e.f/"))
	assert.Len(l.All(), 2)
}

func TestRemove_Last(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bookmarks")

	l, err := Load(path)
	require.NoError(t, err)
	assert.NoError(l.Append("gemini://a.b/"))

	assert.NoError(l.Remove("gemini://a.b/"))
	assert.Empty(l.All())

	_, err = os.Stat(path)
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestToggle(t *testing.T) {
	assert := assert.New(t)

	l, err := Load(filepath.Join(t.TempDir(), "bookmarks"))
	require.NoError(t, err)

	on, err := l.Toggle("gemini://a.b/")
	assert.NoError(err)
	assert.True(on)
	assert.Equal(0, l.Contains("gemini://a.b/"))

	on, err = l.Toggle("gemini://a.b/")
	assert.NoError(err)
	assert.False(on)
	assert.Equal(-1, l.Contains("gemini://a.b/"))
}

func TestToggle_ExactMatch(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bookmarks")
	require.NoError(t, os.WriteFile(path, []byte("a.b/x/y\na.b/x\n"), 0o600))

	l, err := Load(path)
	require.NoError(t, err)

	on, err := l.Toggle("gemini://a.b/x")
	assert.NoError(err)
	assert.False(on)
	assert.Equal(-1, l.Contains("gemini://a.b/x"))
	assert.Equal(0, l.Contains("gemini://a.b/x/y"))
	assert.Equal([]string{"gemini://a.b/x/y"}, l.All())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("a.b/x/y\n", string(data))
}
