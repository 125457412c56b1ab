package quranapi

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultTafsirID is Ibn Kathir (abridged, English).
const DefaultTafsirID = 169

type tafsirsResponse struct {
	errorShape
	Tafsirs []Tafsir `json:"tafsirs"`
}

type tafsirTextsResponse struct {
	errorShape
	Tafsirs []TafsirText `json:"tafsirs"`
}

// ListTafsirs returns the tafsir catalog for a language.
func (c *Client) ListTafsirs(ctx context.Context, language string) ([]Tafsir, error) {
	if language == "" {
		language = "en"
	}

	reqURL := fmt.Sprintf("%s/resources/tafsirs?language=%s", c.proxyBaseURL, url.QueryEscape(language))

	var resp tafsirsResponse
	if err := c.get(ctx, reqURL, "tafsirs", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}

	return resp.Tafsirs, nil
}

// RetrieveTafsirByVerse returns the tafsir texts for one verse.
func (c *Client) RetrieveTafsirByVerse(ctx context.Context, verseKey string, tafsirID int) ([]TafsirText, error) {
	if tafsirID == 0 {
		tafsirID = DefaultTafsirID
	}

	reqURL := fmt.Sprintf("%s/tafsirs/%d/by_ayah/%s?language=en", c.apiBaseURL, tafsirID, url.PathEscape(verseKey))

	var resp tafsirTextsResponse
	if err := c.get(ctx, reqURL, "tafsir", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}

	return resp.Tafsirs, nil
}
