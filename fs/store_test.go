package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDownload(name string) *docscout.Download {
	return &docscout.Download{
		FileName:     name,
		URL:          "https://example.com/files/" + name,
		Size:         13,
		ContentHash:  "feedface",
		Info:         docscout.PDFInfo{Version: "1.7", Pages: 4},
		Data:         []byte("%PDF-1.7\n%EOF"),
		DownloadedAt: time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC),
	}
}

// Story: Atomic Document Storage
// The store uses temp directory for atomic updates

func TestFileStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")

	// When I save a document
	err := store.Save(context.Background(), "Statuts", testDownload("statuts-2024.pdf"))

	// Then the file exists in the temp directory only
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "scpi.tmp", "statuts-2024.pdf"))
	require.NoError(t, err, "file should exist in temp directory")
	_, err = os.Stat(filepath.Join(base, "scpi", "statuts-2024.pdf"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with a saved document
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Statuts", testDownload("statuts-2024.pdf")))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the PDF is in the final directory with its content
	data, err := os.ReadFile(filepath.Join(base, "scpi", "statuts-2024.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7\n%EOF", string(data))

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "scpi.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestFileStore_CommitReplacesPreviousBatch(t *testing.T) {
	t.Parallel()

	// Given a committed batch
	base := t.TempDir()
	first := fs.NewFileStore(base, "scpi")
	require.NoError(t, first.Save(context.Background(), "Statuts", testDownload("old.pdf")))
	require.NoError(t, first.Commit())

	// When a new batch is committed
	second := fs.NewFileStore(base, "scpi")
	require.NoError(t, second.Save(context.Background(), "Statuts", testDownload("new.pdf")))
	require.NoError(t, second.Commit())

	// Then only the new batch remains
	_, err := os.Stat(filepath.Join(base, "scpi", "old.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "scpi", "new.pdf"))
	assert.NoError(t, err)
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with a saved document
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Statuts", testDownload("statuts.pdf")))

	// When I abort
	require.NoError(t, store.Abort())

	// Then neither directory exists
	_, err := os.Stat(filepath.Join(base, "scpi.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "scpi"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFileStore_WritesManifest(t *testing.T) {
	t.Parallel()

	// Given two documents saved under different types
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Statuts", testDownload("statuts.pdf")))
	require.NoError(t, store.Save(context.Background(), "Prospectus", testDownload("prospectus.pdf")))
	require.NoError(t, store.Commit())

	// When I read the manifest
	m, err := fs.ReadManifest(filepath.Join(base, "scpi", fs.ManifestName))

	// Then it lists both documents with their metadata
	require.NoError(t, err)
	require.Len(t, m.Documents, 2)
	assert.Equal(t, "Statuts", m.Documents[0].DocumentType)
	assert.Equal(t, "statuts.pdf", m.Documents[0].File)
	assert.Equal(t, "https://example.com/files/statuts.pdf", m.Documents[0].Source)
	assert.Equal(t, "feedface", m.Documents[0].SHA256)
	assert.Equal(t, 4, m.Documents[0].Pages)
	assert.True(t, m.Documents[0].Downloaded.Equal(time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Prospectus", m.Documents[1].DocumentType)
}

func TestFileStore_SuffixesDuplicateNames(t *testing.T) {
	t.Parallel()

	// Given two documents with the same file name
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Bulletin Trimestriel", testDownload("bulletin.pdf")))
	require.NoError(t, store.Save(context.Background(), "Bulletin Semestriel", testDownload("bulletin.pdf")))
	require.NoError(t, store.Commit())

	// Then the second one gets a numeric suffix
	_, err := os.Stat(filepath.Join(base, "scpi", "bulletin.pdf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "scpi", "bulletin-2.pdf"))
	require.NoError(t, err)
}

func TestFileStore_KeepsDocumentNamedLikeManifest(t *testing.T) {
	t.Parallel()

	// Given a document whose file name is the manifest name
	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Statuts", testDownload(fs.ManifestName)))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the PDF is stored under a suffixed name
	data, err := os.ReadFile(filepath.Join(base, "scpi", "manifest-2.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7\n%EOF", string(data))

	// And the manifest still decodes and points at it
	m, err := fs.ReadManifest(filepath.Join(base, "scpi", fs.ManifestName))
	require.NoError(t, err)
	require.Len(t, m.Documents, 1)
	assert.Equal(t, "manifest-2.yaml", m.Documents[0].File)
}

func TestFileStore_DiscardsLeftoversOfInterruptedBatch(t *testing.T) {
	t.Parallel()

	// Given a temp directory left behind by an earlier run
	base := t.TempDir()
	stale := filepath.Join(base, "scpi.tmp", "stale.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("%PDF-1.4 old"), 0644))

	// When a new batch is saved and committed
	store := fs.NewFileStore(base, "scpi")
	require.NoError(t, store.Save(context.Background(), "Statuts", testDownload("statuts.pdf")))
	require.NoError(t, store.Commit())

	// Then only the new document is in the output
	_, err := os.Stat(filepath.Join(base, "scpi", "stale.pdf"))
	assert.True(t, os.IsNotExist(err), "leftover file should not be committed")
	_, err = os.Stat(filepath.Join(base, "scpi", "statuts.pdf"))
	require.NoError(t, err)
}

func TestFileStore_CommitWithoutSavesDiscardsLeftovers(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	stale := filepath.Join(base, "scpi.tmp", "stale.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("%PDF-1.4 old"), 0644))

	require.NoError(t, fs.NewFileStore(base, "scpi").Commit())

	entries, err := os.ReadDir(filepath.Join(base, "scpi"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fs.ManifestName, entries[0].Name())
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "scpi")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(context.Background(), "Fiche Produit", testDownload("fiche.pdf")))
		}()
	}
	wg.Wait()
	require.NoError(t, store.Commit())

	m, err := fs.ReadManifest(filepath.Join(base, "scpi", fs.ManifestName))
	require.NoError(t, err)
	assert.Len(t, m.Documents, 8)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	// Given a store
	store := fs.NewFileStore(t.TempDir(), "scpi")

	// When I save a document whose name escapes the directory
	err := store.Save(context.Background(), "Statuts", testDownload("../../etc/passwd"))

	// Then an error is returned
	require.Error(t, err)
	assert.Equal(t, docscout.EINVALID, docscout.ErrorCode(err))
	assert.Contains(t, err.Error(), "path traversal")
}

func TestSafeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "statuts.pdf", "statuts.pdf"},
		{"nested", "docs/2024/statuts.pdf", "statuts.pdf"},
		{"backslashes", `docs\statuts.pdf`, "statuts.pdf"},
		{"double dots inside name", "rapport..2024.pdf", "rapport..2024.pdf"},
		{"empty", "", docscout.DefaultFileName},
		{"trailing slash", "docs/", docscout.DefaultFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.SafeFileName(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
