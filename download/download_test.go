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

package download

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	assert := assert.New(t)

	name, err := Filename("gemini://a.b/c/d.png")
	assert.NoError(err)
	assert.Equal("d.png", name)

	name, err = Filename("gemini://a.b/c/d.txt?x=/y")
	assert.NoError(err)
	assert.Equal("d.txt", name)

	_, err = Filename("gemini://a.b/c/")
	assert.ErrorIs(err, ErrDirectory)

	_, err = Filename("gemini://a.b")
	assert.ErrorIs(err, ErrDirectory)
}

func TestSaveFile(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "downloads")

	path, err := SaveFile(dir, "d.png", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(filepath.Join(dir, "d.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("abc", string(data))

	path, err = SaveFile(dir, "d.png", []byte("def"))
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("def", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(entries, 1)
}

func TestSaveFile_InvalidName(t *testing.T) {
	_, err := SaveFile(t.TempDir(), "../x", []byte("abc"))
	assert.Error(t, err)

	_, err = SaveFile(t.TempDir(), "", []byte("abc"))
	assert.Error(t, err)
}

var now = time.Date(2022, time.September, 12, 8, 5, 0, 0, time.Local)

func TestPagePath(t *testing.T) {
	assert := assert.New(t)

	path, err := PagePath("/saved", "gemini://gem.saayaa.space/gemlog/2022-09-12-like-a-bike.gmi", now)
	assert.NoError(err)
	assert.Equal("/saved/saayaa.space/gemlog/2022-09-12-like-a-bike.gmi-12-9-2022--8-5", path)

	path, err = PagePath("/saved", "gemini://geminiprotocol.net/", now)
	assert.NoError(err)
	assert.Equal("/saved/geminiprotocol.net/MAIN.gmi-12-9-2022--8-5", path)

	path, err = PagePath("/saved", "gemini://a.b", now)
	assert.NoError(err)
	assert.Equal("/saved/a.b/MAIN.gmi-12-9-2022--8-5", path)

	path, err = PagePath("/saved", "gemini://a.b/x/../../y/", now)
	assert.NoError(err)
	assert.Equal("/saved/a.b/x/y/MAIN.gmi-12-9-2022--8-5", path)
}

func TestSavePage(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	path, err := SavePage(dir, "gemini://a.b/c/d.gmi", []byte("# D\n"), now)
	require.NoError(t, err)
	assert.Equal(filepath.Join(dir, "a.b", "c", "d.gmi-12-9-2022--8-5"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal("# D\n", string(data))
}
