package quranapi

import (
	"context"
)

type chaptersResponse struct {
	errorShape
	Chapters []Chapter `json:"chapters"`
}

// ListChapters returns all 114 chapters in canonical order.
func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	url := c.apiBaseURL + "/chapters?language=en"

	var resp chaptersResponse
	if err := c.get(ctx, url, "chapters", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}

	return resp.Chapters, nil
}
