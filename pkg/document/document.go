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
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConcurrentModification is returned by Save when the file changed on
	// disk after it was loaded
	ErrConcurrentModification = errors.Base("file changed since it was read")

	// ErrNoBackup is returned by Restore when there is no backup to restore
	ErrNoBackup = errors.Base("backup file does not exist")
)

// BackupSuffix is appended to a document path to name its backup
const BackupSuffix = ".bak"

// 📄 Document is the full text of a file as it was read
type Document struct {
	Path     string      // Path the document was read from
	Content  []byte      // Full file content
	Mode     os.FileMode // File permissions, preserved on save
	Checksum string      // SHA-256 of Content at load time
}

// 💾 Store reads and writes documents
type Store interface {
	Load(ctx context.Context, path string) (*Document, error)
	Save(ctx context.Context, doc *Document, content []byte) error
	Backup(ctx context.Context, doc *Document) (string, error)
	Restore(ctx context.Context, path string) error
}

var _ Store = (*FileStore)(nil)

// 🔧 FileStore is a Store backed by the local file system
type FileStore struct{}

// 🏭 NewFileStore creates a new file store
func NewFileStore() *FileStore {
	return &FileStore{}
}

// 🔍 Checksum returns the hex SHA-256 of content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 📖 Load reads the whole file at path. A missing file is an error and
// nothing is created.
func (s *FileStore) Load(ctx context.Context, path string) (*Document, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading %s: is a directory", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	doc := &Document{
		Path:     path,
		Content:  content,
		Mode:     info.Mode().Perm(),
		Checksum: Checksum(content),
	}

	logger.Debug().
		Str("path", path).
		Int("bytes", len(content)).
		Str("checksum", doc.Checksum).
		Msg("loaded document")

	return doc, nil
}

// 📝 Save replaces the document's file with content. The write goes to a
// temp file in the same directory which is then renamed over the original,
// so the file is never left partially written. Save fails with
// ErrConcurrentModification if the file no longer matches doc.Checksum.
func (s *FileStore) Save(ctx context.Context, doc *Document, content []byte) error {
	logger := zerolog.Ctx(ctx)

	current, err := os.ReadFile(doc.Path)
	if err != nil {
		return errors.Errorf("re-reading %s: %w", doc.Path, err)
	}
	if Checksum(current) != doc.Checksum {
		return errors.Errorf("%s: %w", doc.Path, ErrConcurrentModification)
	}

	if err := writeFileAtomic(doc.Path, content, doc.Mode); err != nil {
		return err
	}

	doc.Content = content
	doc.Checksum = Checksum(content)

	logger.Debug().
		Str("path", doc.Path).
		Int("bytes", len(content)).
		Str("checksum", doc.Checksum).
		Msg("saved document")

	return nil
}

// 📦 Backup copies the document's original content next to it and returns
// the backup path
func (s *FileStore) Backup(ctx context.Context, doc *Document) (string, error) {
	backupPath := doc.Path + BackupSuffix

	if err := writeFileAtomic(backupPath, doc.Content, doc.Mode); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", doc.Path).Str("backup", backupPath).Msg("backed up document")

	return backupPath, nil
}

// ♻️ Restore moves the backup of path back over it
func (s *FileStore) Restore(ctx context.Context, path string) error {
	backupPath := path + BackupSuffix

	info, err := os.Stat(backupPath)
	if os.IsNotExist(err) {
		return errors.Errorf("%s: %w", backupPath, ErrNoBackup)
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	content, err := os.ReadFile(backupPath)
	if err != nil {
		return errors.Errorf("reading backup: %w", err)
	}

	if err := writeFileAtomic(path, content, info.Mode().Perm()); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("restored document")

	return nil
}

func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tempPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
