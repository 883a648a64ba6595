// Package fs stores downloaded documents on the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/docscout"
)

// ManifestName is the file listing every stored document.
const ManifestName = "manifest.yaml"

// Ensure FileStore implements docscout.DocumentStore at compile time.
var _ docscout.DocumentStore = (*FileStore)(nil)

// FileStore implements docscout.DocumentStore with atomic update semantics.
// Documents are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string

	mu       sync.Mutex
	prepared bool
	manifest Manifest
	used     map[string]bool
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		used:    map[string]bool{ManifestName: true},
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the PDF to the temporary directory. A file name already taken
// by another document gets a numeric suffix.
func (s *FileStore) Save(ctx context.Context, documentType string, d *docscout.Download) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := SafeFileName(d.FileName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepare(); err != nil {
		return err
	}
	name = s.reserve(name)
	if err := os.WriteFile(filepath.Join(s.tempDir(), name), d.Data, 0644); err != nil {
		return err
	}
	s.manifest.Documents = append(s.manifest.Documents, newManifestEntry(documentType, name, d))
	return nil
}

// prepare empties the temporary directory left by an interrupted batch
// before the first write. Caller holds mu.
func (s *FileStore) prepare() error {
	if s.prepared {
		return nil
	}
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	s.prepared = true
	return nil
}

// reserve returns a file name unused in this batch. Caller holds mu.
func (s *FileStore) reserve(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; s.used[candidate]; i++ {
		candidate = stem + "-" + strconv.Itoa(i) + ext
	}
	s.used[candidate] = true
	return candidate
}

// Commit writes the manifest and replaces the output directory.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepare(); err != nil {
		return err
	}
	if err := WriteManifest(filepath.Join(s.tempDir(), ManifestName), &s.manifest); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort removes the temporary directory.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}

// SafeFileName reduces name to a single path element. Names that would
// escape the output directory are rejected.
func SafeFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", docscout.Errorf(docscout.EINVALID, "path traversal in file name %q", name)
		}
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." {
		return docscout.DefaultFileName, nil
	}
	return name, nil
}
