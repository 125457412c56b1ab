package quranapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mushaflabs/recite/pkg/config"
)

// Client is a typed client for the quran.com content API. All operations
// return either a typed payload or a *Error; no other error type crosses
// this boundary.
type Client struct {
	httpClient *http.Client

	apiBaseURL        string
	proxyBaseURL      string
	verseAudioBaseURL string
	wordAudioBaseURL  string
	reciterPath       string

	defaultTranslation string
	defaultReciterID   int
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		apiBaseURL:         strings.TrimSuffix(cfg.ContentAPIBaseURL, "/"),
		proxyBaseURL:       strings.TrimSuffix(cfg.ContentProxyURL, "/"),
		verseAudioBaseURL:  ensureTrailingSlash(cfg.VerseAudioBaseURL),
		wordAudioBaseURL:   ensureTrailingSlash(cfg.WordAudioBaseURL),
		reciterPath:        strings.Trim(cfg.ReciterPath, "/"),
		defaultTranslation: cfg.DefaultTranslation,
		defaultReciterID:   cfg.DefaultReciterID,
	}
}

// get issues a GET request and decodes the JSON body into out. The resource
// name only feeds error messages.
func (c *Client) get(ctx context.Context, url string, resource string, out interface{}) *Error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	// Upstream guarantees no structured error body, so any non-2xx status
	// is an opaque api_error.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(err)
	}

	return nil
}

func ensureTrailingSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// absolutize prefixes base unless raw is already absolute. Already-resolved
// URLs pass through untouched, so resolution is idempotent.
func absolutize(base, raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	return base + strings.TrimPrefix(raw, "/")
}
