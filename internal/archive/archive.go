// Package archive bundles generated artifacts into verifiable zip archives.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ManifestEntry describes one archived file.
type ManifestEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	SHA256  string    `json:"sha256"`
	ModTime time.Time `json:"mtime"`
}

// Manifest is written inside the archive as manifest.json.
type Manifest struct {
	CreatedAt time.Time       `json:"created_at"`
	Files     []ManifestEntry `json:"files"`
}

const manifestName = "manifest.json"

var (
	// ErrNothingToArchive rejects an empty input set.
	ErrNothingToArchive = errors.New("nothing_to_archive")
	// ErrChecksumMismatch means an archived file no longer matches its
	// recorded digest.
	ErrChecksumMismatch = errors.New("archive_checksum_mismatch")
)

// Create zips the given files into archivePath, embeds manifest.json and
// writes an external <archivePath>.sha256 control file over the zip itself.
func Create(archivePath string, files []string) (Manifest, error) {
	if len(files) == 0 {
		return Manifest{}, ErrNothingToArchive
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create archive dir: %w", err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	manifest := Manifest{CreatedAt: time.Now().UTC()}
	for _, path := range files {
		entry, err := addFile(zw, path)
		if err != nil {
			zw.Close()
			return Manifest{}, err
		}
		manifest.Files = append(manifest.Files, entry)
	}

	mw, err := zw.Create(manifestName)
	if err != nil {
		zw.Close()
		return Manifest{}, fmt.Errorf("create manifest entry: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		zw.Close()
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Manifest{}, fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Sync(); err != nil {
		return Manifest{}, fmt.Errorf("sync archive: %w", err)
	}

	if err := writeControlFile(archivePath); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

func addFile(zw *zip.Writer, path string) (ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	w, err := zw.Create(name)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("create zip entry %s: %w", name, err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(w, h), f); err != nil {
		return ManifestEntry{}, fmt.Errorf("archive %s: %w", name, err)
	}

	return ManifestEntry{
		Name:    name,
		Size:    info.Size(),
		SHA256:  hex.EncodeToString(h.Sum(nil)),
		ModTime: info.ModTime().UTC(),
	}, nil
}

// writeControlFile writes "<digest>  <filename>" next to the archive, in
// the shape sha256sum -c accepts.
func writeControlFile(archivePath string) error {
	digest, err := hashFile(archivePath)
	if err != nil {
		return err
	}
	content := fmt.Sprintf("%s  %s\n", digest, filepath.Base(archivePath))
	if err := os.WriteFile(archivePath+".sha256", []byte(content), 0o644); err != nil {
		return fmt.Errorf("write control file: %w", err)
	}
	return nil
}

// Verify re-hashes every archived file against manifest.json.
func Verify(archivePath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var manifest Manifest
	found := false
	digests := make(map[string]string)
	for _, f := range zr.File {
		if f.Name == manifestName {
			if err := readManifest(f, &manifest); err != nil {
				return err
			}
			found = true
			continue
		}
		digest, err := hashZipEntry(f)
		if err != nil {
			return err
		}
		digests[f.Name] = digest
	}
	if !found {
		return fmt.Errorf("%w: manifest.json missing", ErrChecksumMismatch)
	}

	for _, entry := range manifest.Files {
		digest, ok := digests[entry.Name]
		if !ok {
			return fmt.Errorf("%w: %s missing from archive", ErrChecksumMismatch, entry.Name)
		}
		if digest != entry.SHA256 {
			return fmt.Errorf("%w: %s", ErrChecksumMismatch, entry.Name)
		}
	}
	return nil
}

func readManifest(f *zip.File, manifest *Manifest) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer rc.Close()
	if err := json.NewDecoder(rc).Decode(manifest); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}
	return nil
}

func hashZipEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", fmt.Errorf("hash %s: %w", f.Name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
