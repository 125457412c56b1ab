package archivecache

import (
	"sort"

	"github.com/pkg/errors"
)

// CleanupThreshold is the percentage of maxSize to reduce the cache to during
// cleanup. For example, 0.8 means cleanup will reduce the cache to 80% of
// maxSize.
const CleanupThreshold = 0.8

// RunCleanup removes cached archives until the total size is below the
// threshold. Archives are removed in LRU (least recently used) order.
func RunCleanup(cacheDir string, maxSizeBytes int64) error {
	totalSize, err := GetTotalCacheSize(cacheDir)
	if err != nil {
		return errors.Wrap(err, "failed to get cache size")
	}

	// Check if cleanup is needed
	if totalSize <= maxSizeBytes {
		return nil
	}

	entries, err := ListCacheEntries(cacheDir)
	if err != nil {
		return errors.Wrap(err, "failed to list cache entries")
	}

	if len(entries) == 0 {
		return nil
	}

	// Sort by last accessed time (oldest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccessedAt.Before(entries[j].LastAccessedAt)
	})

	// Calculate target size (80% of max)
	targetSize := int64(float64(maxSizeBytes) * CleanupThreshold)

	// Remove archives until we're under the target
	for _, entry := range entries {
		if totalSize <= targetSize {
			break
		}

		if err := DeleteCachedArchive(cacheDir, entry.ChapterID); err != nil {
			// Continue with other archives
			continue
		}

		totalSize -= entry.SizeBytes
	}

	return nil
}

// CleanupStats holds statistics about a cleanup operation.
type CleanupStats struct {
	ArchivesRemoved  int
	BytesRemoved     int64
	ArchivesRemained int
	BytesRemained    int64
}

// RunCleanupWithStats performs cleanup and returns statistics.
func RunCleanupWithStats(cacheDir string, maxSizeBytes int64) (*CleanupStats, error) {
	stats := &CleanupStats{}

	entriesBefore, err := ListCacheEntries(cacheDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cache entries")
	}

	var totalBefore int64
	for _, e := range entriesBefore {
		totalBefore += e.SizeBytes
	}

	if err := RunCleanup(cacheDir, maxSizeBytes); err != nil {
		return nil, err
	}

	entriesAfter, err := ListCacheEntries(cacheDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cache entries after cleanup")
	}

	var totalAfter int64
	for _, e := range entriesAfter {
		totalAfter += e.SizeBytes
	}

	stats.ArchivesRemoved = len(entriesBefore) - len(entriesAfter)
	stats.BytesRemoved = totalBefore - totalAfter
	stats.ArchivesRemained = len(entriesAfter)
	stats.BytesRemained = totalAfter

	return stats, nil
}
