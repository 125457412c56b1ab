package export

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp3Bytes(filler string) []byte {
	// An ID3v2 header so content sniffing sees audio/mpeg.
	return append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), []byte(filler)...)
}

func TestAssembleSkipsFailedItemsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/000201.mp3":
			w.Write(mp3Bytes("verse one"))
		case "/000202.mp3":
			w.WriteHeader(http.StatusNotFound)
		case "/000203.mp3":
			w.Write(mp3Bytes("verse three"))
		}
	}))
	defer srv.Close()

	items := []Item{
		{Name: "Al-Baqarah-verse-1.mp3", URL: srv.URL + "/000201.mp3"},
		{Name: "Al-Baqarah-verse-2.mp3", URL: srv.URL + "/000202.mp3"},
		{Name: "Al-Baqarah-verse-3.mp3", URL: srv.URL + "/000203.mp3"},
	}

	var buf bytes.Buffer
	var mu sync.Mutex
	var progress []int
	assembler := NewAssembler(srv.Client(), 2)
	result, err := assembler.Assemble(context.Background(), &buf, items, func(done, total int) {
		mu.Lock()
		progress = append(progress, done)
		mu.Unlock()
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Written)
	assert.Equal(t, []string{"Al-Baqarah-verse-2.mp3"}, result.Skipped)
	assert.Equal(t, int64(buf.Len()), result.Size)
	assert.ElementsMatch(t, []int{1, 2, 3}, progress)

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, "Al-Baqarah-verse-1.mp3", reader.File[0].Name)
	assert.Equal(t, "Al-Baqarah-verse-3.mp3", reader.File[1].Name)
}

func TestAssembleRejectsNonAudioPayloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/000101.mp3":
			w.Write(mp3Bytes("verse one"))
		case "/000102.mp3":
			// A 200 that is actually an error page.
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body>Not Found</body></html>"))
		}
	}))
	defer srv.Close()

	items := []Item{
		{Name: "Al-Fatihah-verse-1.mp3", URL: srv.URL + "/000101.mp3"},
		{Name: "Al-Fatihah-verse-2.mp3", URL: srv.URL + "/000102.mp3"},
	}

	var buf bytes.Buffer
	result, err := NewAssembler(srv.Client(), 2).Assemble(context.Background(), &buf, items, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Written)
	assert.Equal(t, []string{"Al-Fatihah-verse-2.mp3"}, result.Skipped)
}

func TestAssembleFailsWhenNothingDownloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	_, err := NewAssembler(srv.Client(), 2).Assemble(context.Background(), &buf, []Item{
		{Name: "Al-Fatihah-verse-1.mp3", URL: srv.URL + "/000101.mp3"},
	}, nil)
	assert.Error(t, err)
}

func TestVerseEntryName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Al-Fatihah-verse-1.mp3", VerseEntryName("Al-Fatihah", 1))
	assert.Equal(t, "Al-Baqarah-verse-286.mp3", VerseEntryName("Al-Baqarah", 286))
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Al-Fatihah-complete-surah.zip", ArchiveName("Al-Fatihah"))
	assert.Equal(t, "Ya-Sin-complete-surah.zip", ArchiveName("Ya/Sin"))
}
