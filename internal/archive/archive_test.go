package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateAndVerify(t *testing.T) {
	dir := t.TempDir()
	pdf := writeArtifact(t, dir, "FAC-2024-00001.pdf", "pdf-bytes")
	fec := writeArtifact(t, dir, "123456789FEC20241231.txt", "fec-content")
	archivePath := filepath.Join(dir, "archives", "2024.zip")

	manifest, err := Create(archivePath, []string{pdf, fec})
	require.NoError(t, err)
	require.Len(t, manifest.Files, 2)
	assert.Equal(t, "FAC-2024-00001.pdf", manifest.Files[0].Name)
	assert.Equal(t, int64(len("pdf-bytes")), manifest.Files[0].Size)
	assert.Len(t, manifest.Files[0].SHA256, 64)

	require.NoError(t, Verify(archivePath))

	// external control file over the zip itself
	control, err := os.ReadFile(archivePath + ".sha256")
	require.NoError(t, err)
	parts := strings.Fields(string(control))
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 64)
	assert.Equal(t, "2024.zip", parts[1])
}

func TestCreateEmpty(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "empty.zip"), nil)
	require.ErrorIs(t, err, ErrNothingToArchive)
}

func TestVerifyDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	pdf := writeArtifact(t, dir, "FAC-2024-00001.pdf", "pdf-bytes")
	archivePath := filepath.Join(dir, "2024.zip")

	_, err := Create(archivePath, []string{pdf})
	require.NoError(t, err)

	// rebuild the zip with altered content but the original manifest
	tampered := rebuildWithContent(t, archivePath, "FAC-2024-00001.pdf", "altered")
	err = Verify(tampered)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func rebuildWithContent(t *testing.T, archivePath, name, content string) string {
	t.Helper()

	zr, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer zr.Close()

	out := filepath.Join(t.TempDir(), "tampered.zip")
	f, err := os.Create(out)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range zr.File {
		w, err := zw.Create(entry.Name)
		require.NoError(t, err)
		if entry.Name == name {
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return out
}
