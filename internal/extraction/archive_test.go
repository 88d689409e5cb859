package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, files map[string][]byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "photos.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return p
}

func collect(t *testing.T, archivePath string, limits ArchiveLimits) ([]ArchiveFile, error) {
	t.Helper()
	var files []ArchiveFile
	err := WalkArchiveImages(context.Background(), archivePath, limits, func(f ArchiveFile) error {
		files = append(files, f)
		return nil
	})
	return files, err
}

func TestWalkArchiveImages(t *testing.T) {
	p := writeZip(t, map[string][]byte{
		"a.jpg":     []byte("aaaa"),
		"b.JPEG":    []byte("bbbb"),
		"notes.txt": []byte("not a photo"),
		"._a.jpg":   []byte("resource fork"),
		"big.jpg":   bytes.Repeat([]byte("x"), 64),
	})

	files, err := collect(t, p, ArchiveLimits{MaxFileSize: 16})
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.jpg", "b.JPEG"}, names)
	for _, f := range files {
		assert.Len(t, f.Data, 4)
	}
}

func TestWalkArchiveImagesMissingFile(t *testing.T) {
	_, err := collect(t, filepath.Join(t.TempDir(), "nope.zip"), ArchiveLimits{MaxFileSize: 16})
	assert.Error(t, err)
}

func TestWalkArchiveImagesTotalLimit(t *testing.T) {
	entries := map[string][]byte{}
	for i := 0; i < 50; i++ {
		entries[fmt.Sprintf("p%02d.jpg", i)] = bytes.Repeat([]byte{0}, 1024)
	}
	p := writeZip(t, entries)

	var seen int
	err := WalkArchiveImages(context.Background(), p, ArchiveLimits{MaxFileSize: 4096, MaxTotalBytes: 10 * 1024}, func(ArchiveFile) error {
		seen++
		return nil
	})
	assert.ErrorIs(t, err, ErrArchiveTooLarge)
	assert.Equal(t, 10, seen)
}

func TestWalkArchiveImagesEntryLimit(t *testing.T) {
	entries := map[string][]byte{}
	for i := 0; i < 20; i++ {
		entries[fmt.Sprintf("p%02d.jpg", i)] = []byte("x")
	}
	p := writeZip(t, entries)

	var seen int
	err := WalkArchiveImages(context.Background(), p, ArchiveLimits{MaxEntries: 5}, func(ArchiveFile) error {
		seen++
		return nil
	})
	assert.ErrorIs(t, err, ErrTooManyArchiveEntries)
	assert.Equal(t, 5, seen)
}

func TestWalkArchiveImagesStopsOnCallbackError(t *testing.T) {
	p := writeZip(t, map[string][]byte{"a.jpg": []byte("a"), "b.jpg": []byte("b")})
	stop := errors.New("stop")

	var seen int
	err := WalkArchiveImages(context.Background(), p, ArchiveLimits{}, func(ArchiveFile) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}
