package fs

import (
	"os"
	"time"

	"github.com/fwojciec/docscout"
	"gopkg.in/yaml.v3"
)

// Manifest describes the documents of one stored batch.
type Manifest struct {
	Documents []ManifestEntry `yaml:"documents"`
}

// ManifestEntry describes one stored document.
type ManifestEntry struct {
	DocumentType string    `yaml:"type"`
	File         string    `yaml:"file"`
	Source       string    `yaml:"source"`
	Size         int       `yaml:"size"`
	SHA256       string    `yaml:"sha256"`
	Pages        int       `yaml:"pages,omitempty"`
	PDFVersion   string    `yaml:"pdfVersion,omitempty"`
	LastModified string    `yaml:"lastModified,omitempty"`
	Downloaded   time.Time `yaml:"downloaded"`
}

func newManifestEntry(documentType, file string, d *docscout.Download) ManifestEntry {
	return ManifestEntry{
		DocumentType: documentType,
		File:         file,
		Source:       d.URL,
		Size:         d.Size,
		SHA256:       d.ContentHash,
		Pages:        d.Info.Pages,
		PDFVersion:   d.Info.Version,
		LastModified: d.LastModified,
		Downloaded:   d.DownloadedAt,
	}
}

// WriteManifest encodes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	buf, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// ReadManifest decodes the YAML manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(buf, &m); err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid manifest %s: %v", path, err)
	}
	return &m, nil
}
