package export

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const defaultConcurrency = 4

// Item is one entry to place in an archive.
type Item struct {
	Name string
	URL  string
}

// Result describes a finished assembly.
type Result struct {
	Written int
	Skipped []string
	Size    int64
}

// Assembler downloads a set of audio files concurrently and packs them into
// a zip archive. Entries appear in the archive in the order of the input
// items regardless of download completion order; an item whose download
// fails is skipped and the archive still finalizes with the rest.
type Assembler struct {
	httpClient  *http.Client
	concurrency int
	log         logger.Logger
}

func NewAssembler(httpClient *http.Client, concurrency int) *Assembler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Assembler{
		httpClient:  httpClient,
		concurrency: concurrency,
		log:         logger.New(),
	}
}

// ProgressFunc is called as downloads complete, with the count of settled
// items (successes and failures both count) out of the total.
type ProgressFunc func(done, total int)

// Assemble downloads every item and writes the archive to w. No archive
// bytes are written until every download has settled, so w never receives a
// partial archive that later grows entries out of order.
func (a *Assembler) Assemble(ctx context.Context, w io.Writer, items []Item, progress ProgressFunc) (*Result, error) {
	if len(items) == 0 {
		return nil, errors.New("no items to assemble")
	}

	payloads := make([][]byte, len(items))
	failures := make([]error, len(items))

	var wg sync.WaitGroup
	var mu sync.Mutex
	settled := 0
	sem := make(chan struct{}, a.concurrency)

	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := a.download(ctx, items[i].URL)
			if err != nil {
				a.log.Err(err).Root(logger.Data{"name": items[i].Name}).Warn("item download failed")
				failures[i] = err
			} else {
				payloads[i] = data
			}

			if progress != nil {
				mu.Lock()
				settled++
				done := settled
				mu.Unlock()
				progress(done, len(items))
			}
		}(i)
	}
	wg.Wait()

	result := &Result{}
	counter := &countingWriter{w: w}
	archive := zip.NewWriter(counter)
	for i, item := range items {
		if failures[i] != nil {
			result.Skipped = append(result.Skipped, item.Name)
			continue
		}
		entry, err := archive.Create(item.Name)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err := entry.Write(payloads[i]); err != nil {
			return nil, errors.WithStack(err)
		}
		result.Written++
	}
	if err := archive.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	if result.Written == 0 {
		return nil, errors.New("every item failed to download")
	}
	result.Size = counter.n

	return result, nil
}

// download fetches one audio file and rejects payloads that aren't audio.
// Upstreams sometimes answer a missing file with a 200 HTML or JSON error
// page, which must not end up inside the archive as an .mp3.
func (a *Assembler) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("download returned %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("download returned an empty body for %s", url)
	}

	mtype := mimetype.Detect(data)
	if strings.HasPrefix(mtype.String(), "text/") || mtype.Is("application/json") {
		return nil, errors.Errorf("download returned %s instead of audio for %s", mtype.String(), url)
	}

	return data, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
