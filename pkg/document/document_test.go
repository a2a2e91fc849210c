// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.TestWriter{T: t}).WithContext(context.Background())
}

func TestFileStore_Load(t *testing.T) {
	t.Run("reads_whole_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "MyQueue.tsx")
		content := "line one\nline two\r\n\tünïcode ✓\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0640))

		doc, err := NewFileStore().Load(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, path, doc.Path)
		assert.Equal(t, content, string(doc.Content), "content should be read byte for byte")
		assert.Equal(t, Checksum([]byte(content)), doc.Checksum)
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0640), doc.Mode)
		}
	})

	t.Run("missing_file_creates_nothing", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "src", "pages", "MyQueue.tsx")

		_, err := NewFileStore().Load(testContext(t), path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist), "error should be not-exist")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no files or directories should be created")
	})

	t.Run("directory_is_an_error", func(t *testing.T) {
		_, err := NewFileStore().Load(testContext(t), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestFileStore_Save(t *testing.T) {
	t.Run("replaces_content_and_keeps_mode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.tsx")
		require.NoError(t, os.WriteFile(path, []byte("before"), 0600))

		store := NewFileStore()
		ctx := testContext(t)
		doc, err := store.Load(ctx, path)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, doc, []byte("after\n")))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "after\n", string(got), "file should hold exactly the new content")
		assert.Equal(t, Checksum(got), doc.Checksum, "document should track the saved content")

		info, err := os.Stat(path)
		require.NoError(t, err)
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be preserved")
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files should be left behind")
	})

	t.Run("detects_concurrent_modification", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.tsx")
		require.NoError(t, os.WriteFile(path, []byte("before"), 0644))

		store := NewFileStore()
		ctx := testContext(t)
		doc, err := store.Load(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("someone else"), 0644))

		err = store.Save(ctx, doc, []byte("after"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConcurrentModification))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "someone else", string(got), "the other writer's content should survive")
	})

	t.Run("file_removed_after_load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.tsx")
		require.NoError(t, os.WriteFile(path, []byte("before"), 0644))

		store := NewFileStore()
		ctx := testContext(t)
		doc, err := store.Load(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		err = store.Save(ctx, doc, []byte("after"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestFileStore_BackupRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tsx")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	store := NewFileStore()
	ctx := testContext(t)

	doc, err := store.Load(ctx, path)
	require.NoError(t, err)

	backupPath, err := store.Backup(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, path+BackupSuffix, backupPath)

	require.NoError(t, store.Save(ctx, doc, []byte("rewritten")))

	backup, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup), "backup should hold the original content")

	require.NoError(t, store.Restore(ctx, path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got), "restore should bring back the original")

	_, err = os.Stat(backupPath)
	assert.True(t, os.IsNotExist(err), "backup should be removed after restore")

	err = store.Restore(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBackup), "second restore should have no backup")
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}
