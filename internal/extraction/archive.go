package extraction

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// ArchiveFile is a photo read out of an uploaded archive.
type ArchiveFile struct {
	Name string
	Data []byte
}

// IsJPEG reports whether a file name carries a JPEG extension.
func IsJPEG(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// Import caps applied when no explicit limits are given.
const (
	DefaultMaxArchiveTotal   = 512 << 20
	DefaultMaxArchiveEntries = 1000
)

var (
	ErrArchiveTooLarge       = errors.New("archive expands beyond the import size limit")
	ErrTooManyArchiveEntries = errors.New("archive holds more photos than the import limit")
)

// ArchiveLimits bounds what a single archive import may read.
type ArchiveLimits struct {
	// MaxFileSize skips larger entries.
	MaxFileSize int64
	// MaxTotalBytes caps the decompressed bytes read across all entries.
	MaxTotalBytes int64
	// MaxEntries caps the number of JPEG entries considered.
	MaxEntries int
}

func (l ArchiveLimits) withDefaults() ArchiveLimits {
	if l.MaxTotalBytes <= 0 {
		l.MaxTotalBytes = DefaultMaxArchiveTotal
	}
	if l.MaxEntries <= 0 {
		l.MaxEntries = DefaultMaxArchiveEntries
	}
	return l
}

// WalkArchiveImages opens a ZIP, TAR, 7z or RAR archive and hands every JPEG inside it to fn,
// one entry at a time. Entries larger than MaxFileSize are skipped. The walk stops with
// ErrArchiveTooLarge or ErrTooManyArchiveEntries once a limit is crossed, or with fn's error.
func WalkArchiveImages(ctx context.Context, archivePath string, limits ArchiveLimits, fn func(ArchiveFile) error) error {
	limits = limits.withDefaults()
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return err
	}

	var total int64
	var entries int
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != "." && shouldIgnoreFile(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if shouldIgnoreFile(d.Name()) || !IsJPEG(d.Name()) {
			return nil
		}

		entries++
		if entries > limits.MaxEntries {
			return ErrTooManyArchiveEntries
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if limits.MaxFileSize > 0 && info.Size() > limits.MaxFileSize {
			return nil
		}

		data, err := readEntry(fsys, p, limits.MaxFileSize, limits.MaxTotalBytes-total)
		if err != nil {
			return err
		}
		if data == nil {
			return nil
		}
		total += int64(len(data))

		return fn(ArchiveFile{Name: path.Base(p), Data: data})
	})
}

// readEntry reads one entry. A nil slice means the entry was over maxFileSize.
// Headers can lie about sizes, so both caps are enforced on the bytes actually read.
func readEntry(fsys fs.FS, p string, maxFileSize, remaining int64) ([]byte, error) {
	reader, err := fsys.Open(p)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	limit := remaining
	if maxFileSize > 0 && maxFileSize < limit {
		limit = maxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if int64(len(data)) <= limit {
		return data, nil
	}
	if maxFileSize > 0 && int64(len(data)) > maxFileSize {
		return nil, nil
	}
	return nil, ErrArchiveTooLarge
}

// shouldIgnoreFile filters out hidden files, macOS resource forks and Windows thumbnails.
func shouldIgnoreFile(filename string) bool {
	if strings.HasPrefix(filename, ".") {
		return true
	}
	if filename == "__MACOSX" {
		return true
	}
	if strings.ToLower(filename) == "thumbs.db" {
		return true
	}
	return filename == ""
}
