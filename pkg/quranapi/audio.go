package quranapi

import (
	"context"
	"fmt"
)

type recitersResponse struct {
	errorShape
	Reciters []Reciter `json:"reciters"`
}

type audioFilesResponse struct {
	errorShape
	AudioFiles []AudioFile `json:"audio_files"`
}

// ListReciters returns the available reciters from the qdc proxy path.
func (c *Client) ListReciters(ctx context.Context) ([]Reciter, error) {
	url := c.proxyBaseURL + "/audio/reciters?locale=en"

	var resp recitersResponse
	if err := c.get(ctx, url, "reciters", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}

	return resp.Reciters, nil
}

// RetrieveChapterAudio returns the single-file recording of a whole chapter
// by the given reciter, with verse timings.
func (c *Client) RetrieveChapterAudio(ctx context.Context, chapterID, reciterID int) (*AudioFile, error) {
	if reciterID == 0 {
		reciterID = c.defaultReciterID
	}

	url := fmt.Sprintf("%s/audio/reciters/%d/audio_files?chapter=%d&segments=true", c.proxyBaseURL, reciterID, chapterID)

	var resp audioFilesResponse
	if err := c.get(ctx, url, "chapter audio", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}
	if len(resp.AudioFiles) == 0 {
		return nil, &Error{Message: "Failed to fetch chapter audio: empty payload", Kind: KindAPIError, Success: false}
	}

	return &resp.AudioFiles[0], nil
}
