package archivecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// CacheMetadata stores information about a cached chapter archive.
type CacheMetadata struct {
	ChapterID       int       `json:"chapter_id"`
	FingerprintHash string    `json:"fingerprint_hash"`
	GeneratedAt     time.Time `json:"generated_at"`
	LastAccessedAt  time.Time `json:"last_accessed_at"`
	SizeBytes       int64     `json:"size_bytes"`
}

// metadataFilename returns the metadata file path for a chapter.
func metadataFilename(cacheDir string, chapterID int) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%d.meta.json", chapterID))
}

// archiveFilename returns the archive file path for a chapter.
func archiveFilename(cacheDir string, chapterID int) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%d.zip", chapterID))
}

// ReadMetadata reads the cache metadata for a chapter.
// Returns nil if the metadata file doesn't exist.
func ReadMetadata(cacheDir string, chapterID int) (*CacheMetadata, error) {
	path := metadataFilename(cacheDir, chapterID)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read cache metadata: %s", path)
	}

	var meta CacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "failed to parse cache metadata: %s", path)
	}

	return &meta, nil
}

// WriteMetadata writes the cache metadata for a chapter.
func WriteMetadata(cacheDir string, meta *CacheMetadata) error {
	path := metadataFilename(cacheDir, meta.ChapterID)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache metadata")
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write cache metadata: %s", path)
	}

	return nil
}

// UpdateLastAccessed updates the last accessed time for a cached archive.
func UpdateLastAccessed(cacheDir string, chapterID int) error {
	meta, err := ReadMetadata(cacheDir, chapterID)
	if err != nil {
		return err
	}
	if meta == nil {
		return errors.New("cache metadata not found")
	}

	meta.LastAccessedAt = time.Now()
	return WriteMetadata(cacheDir, meta)
}

// DeleteCachedArchive removes both the cached archive and its metadata.
func DeleteCachedArchive(cacheDir string, chapterID int) error {
	archivePath := archiveFilename(cacheDir, chapterID)
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete cached archive: %s", archivePath)
	}

	metaPath := metadataFilename(cacheDir, chapterID)
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete cache metadata: %s", metaPath)
	}

	return nil
}

// GetCachedArchivePath returns the path to a cached archive if it exists and
// its fingerprint still matches. Returns empty string otherwise.
func GetCachedArchivePath(cacheDir string, chapterID int, currentHash string) (string, error) {
	meta, err := ReadMetadata(cacheDir, chapterID)
	if err != nil {
		return "", err
	}

	// No metadata means no cached archive
	if meta == nil {
		return "", nil
	}

	// Check if fingerprint matches
	if meta.FingerprintHash != currentHash {
		return "", nil
	}

	// Check if the archive itself exists
	archivePath := archiveFilename(cacheDir, chapterID)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return "", nil
	}

	return archivePath, nil
}

// ListCacheEntries returns all cache entries in the directory.
func ListCacheEntries(cacheDir string) ([]*CacheMetadata, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read cache directory: %s", cacheDir)
	}

	var results []*CacheMetadata
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only process .meta.json files
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(cacheDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // Skip files we can't read
		}

		var meta CacheMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue // Skip invalid metadata files
		}

		results = append(results, &meta)
	}

	return results, nil
}

// GetTotalCacheSize returns the total size of all cached archives in bytes.
func GetTotalCacheSize(cacheDir string) (int64, error) {
	entries, err := ListCacheEntries(cacheDir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, entry := range entries {
		total += entry.SizeBytes
	}

	return total, nil
}
