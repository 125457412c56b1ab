package archivecache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Cache manages generated chapter archives on disk.
type Cache struct {
	dir     string
	maxSize int64
}

// NewCache creates a new Cache rooted at dir, creating the directory if
// needed.
func NewCache(dir string, maxSizeBytes int64) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache directory: %s", dir)
	}
	return &Cache{
		dir:     dir,
		maxSize: maxSizeBytes,
	}, nil
}

// GenerateFunc writes a complete archive to the given file.
type GenerateFunc func(ctx context.Context, f *os.File) error

// GetOrCreate returns the path to a cached archive for the fingerprint,
// generating it if necessary. Generation writes to a temp file that is
// renamed into place only once complete, so a cached path never points at a
// partial archive.
func (c *Cache) GetOrCreate(ctx context.Context, fp *Fingerprint, generate GenerateFunc) (string, error) {
	hash, err := fp.Hash()
	if err != nil {
		return "", errors.Wrap(err, "failed to hash fingerprint")
	}

	existingPath, err := GetCachedArchivePath(c.dir, fp.ChapterID, hash)
	if err != nil {
		return "", errors.Wrap(err, "failed to check cache")
	}

	if existingPath != "" {
		// Update last accessed time (non-fatal if it fails)
		_ = UpdateLastAccessed(c.dir, fp.ChapterID)
		return existingPath, nil
	}

	destPath := archiveFilename(c.dir, fp.ChapterID)
	tempPath := filepath.Join(c.dir, fmt.Sprintf(".%d.zip.tmp", fp.ChapterID))

	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create temp archive: %s", tempPath)
	}

	if err := generate(ctx, f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", errors.Wrap(err, "failed to generate archive")
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return "", errors.Wrapf(err, "failed to close temp archive: %s", tempPath)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return "", errors.Wrapf(err, "failed to move archive into place: %s", destPath)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to stat generated archive")
	}

	now := time.Now()
	meta := &CacheMetadata{
		ChapterID:       fp.ChapterID,
		FingerprintHash: hash,
		GeneratedAt:     now,
		LastAccessedAt:  now,
		SizeBytes:       info.Size(),
	}
	if err := WriteMetadata(c.dir, meta); err != nil {
		// Clean up the generated archive if we can't write metadata
		os.Remove(destPath)
		return "", errors.Wrap(err, "failed to write cache metadata")
	}

	// Trigger cleanup in background
	go c.TriggerCleanup()

	return destPath, nil
}

// GetCachedPath returns the path to a cached archive if it exists and its
// fingerprint still matches. Returns empty string otherwise.
func (c *Cache) GetCachedPath(fp *Fingerprint) (string, error) {
	hash, err := fp.Hash()
	if err != nil {
		return "", errors.Wrap(err, "failed to hash fingerprint")
	}

	return GetCachedArchivePath(c.dir, fp.ChapterID, hash)
}

// Invalidate removes the cached archive for a chapter.
func (c *Cache) Invalidate(chapterID int) error {
	return DeleteCachedArchive(c.dir, chapterID)
}

// TriggerCleanup runs cache cleanup if the cache exceeds the max size.
// This runs in the current goroutine - call with `go` to run in background.
func (c *Cache) TriggerCleanup() {
	// Cleanup errors are non-fatal - best effort only
	_ = c.runCleanup()
}

func (c *Cache) runCleanup() error {
	// Get lock file to prevent concurrent cleanups
	lockPath := filepath.Join(c.dir, ".cleanup.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		// Another cleanup is running or we can't create the lock
		return nil
	}
	defer func() {
		lockFile.Close()
		os.Remove(lockPath)
	}()

	return RunCleanup(c.dir, c.maxSize)
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// MaxSize returns the maximum cache size in bytes.
func (c *Cache) MaxSize() int64 {
	return c.maxSize
}
