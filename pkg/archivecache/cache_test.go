package archivecache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFingerprint() *Fingerprint {
	return &Fingerprint{
		ChapterID:   1,
		ChapterName: "Al-Fatihah",
		ReciterPath: "Alafasy/mp3",
		VerseKeys:   []string{"1:1", "1:2", "1:3", "1:4", "1:5", "1:6", "1:7"},
	}
}

func TestGetOrCreateGeneratesOnce(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir(), 1024*1024)
	require.NoError(t, err)

	calls := 0
	generate := func(ctx context.Context, f *os.File) error {
		calls++
		_, err := f.Write([]byte("archive contents"))
		return err
	}

	path, err := cache.GetOrCreate(context.Background(), testFingerprint(), generate)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive contents", string(data))

	// A second call with the same fingerprint hits the cache.
	again, err := cache.GetOrCreate(context.Background(), testFingerprint(), generate)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateRegeneratesWhenFingerprintChanges(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir(), 1024*1024)
	require.NoError(t, err)

	calls := 0
	generate := func(ctx context.Context, f *os.File) error {
		calls++
		_, err := f.Write([]byte("archive contents"))
		return err
	}

	_, err = cache.GetOrCreate(context.Background(), testFingerprint(), generate)
	require.NoError(t, err)

	// A new reciter changes the fingerprint, so the archive regenerates.
	changed := testFingerprint()
	changed.ReciterPath = "AbdulBaset/mp3"
	_, err = cache.GetOrCreate(context.Background(), changed, generate)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrCreateLeavesNoPartialArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache, err := NewCache(dir, 1024*1024)
	require.NoError(t, err)

	generate := func(ctx context.Context, f *os.File) error {
		_, _ = f.Write([]byte("partial"))
		return errors.New("download failed")
	}

	_, err = cache.GetOrCreate(context.Background(), testFingerprint(), generate)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupRemovesLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()

	for i, chapterID := range []int{1, 2, 3} {
		archivePath := archiveFilename(dir, chapterID)
		require.NoError(t, os.WriteFile(archivePath, make([]byte, 100), 0600))
		require.NoError(t, WriteMetadata(dir, &CacheMetadata{
			ChapterID:       chapterID,
			FingerprintHash: "hash",
			GeneratedAt:     now,
			LastAccessedAt:  now.Add(time.Duration(i) * time.Hour),
			SizeBytes:       100,
		}))
	}

	// Max is 200 bytes, so cleanup targets 160 and must drop the two least
	// recently used archives.
	stats, err := RunCleanupWithStats(dir, 200)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ArchivesRemoved)
	assert.Equal(t, 1, stats.ArchivesRemained)

	_, err = os.Stat(archiveFilename(dir, 3))
	assert.NoError(t, err)
	_, err = os.Stat(archiveFilename(dir, 1))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupSkipsWhenUnderLimit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(archiveFilename(dir, 1), make([]byte, 100), 0600))
	require.NoError(t, WriteMetadata(dir, &CacheMetadata{
		ChapterID:       1,
		FingerprintHash: "hash",
		GeneratedAt:     time.Now(),
		LastAccessedAt:  time.Now(),
		SizeBytes:       100,
	}))

	require.NoError(t, RunCleanup(dir, 1024))

	_, err := os.Stat(archiveFilename(dir, 1))
	assert.NoError(t, err)
}

func TestFingerprintHash(t *testing.T) {
	t.Parallel()

	a := testFingerprint()
	b := testFingerprint()
	assert.True(t, a.Equal(b))

	hashA, err := a.Hash()
	require.NoError(t, err)

	b.VerseKeys = append(b.VerseKeys, "1:8")
	hashB, err := b.Hash()
	require.NoError(t, err)

	assert.NotEqual(t, hashA, hashB)
	assert.False(t, a.Equal(b))
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache, err := NewCache(dir, 1024*1024)
	require.NoError(t, err)

	generate := func(ctx context.Context, f *os.File) error {
		_, err := f.Write([]byte("archive contents"))
		return err
	}

	path, err := cache.GetOrCreate(context.Background(), testFingerprint(), generate)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(1))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "1.meta.json"))
	assert.True(t, os.IsNotExist(err))
}
