package playback

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrStopped is reported on a session's Done channel when the session was
// torn down before the audio finished on its own.
var ErrStopped = errors.New("playback stopped")

// Session is one piece of audio being played. Done resolves exactly once,
// with nil when the audio ran to completion, ErrStopped when it was torn
// down, or another error when streaming failed partway through.
type Session interface {
	Done() <-chan error
	Stop()
}

// Player starts playback of a single audio URL. Play returns an error when
// the audio can't start at all; failures after a successful start surface
// through the session.
type Player interface {
	Play(ctx context.Context, url string) (Session, error)
}

// StreamPlayer streams audio over HTTP into an output sink. The sink is
// whatever actually makes sound (an audio pipe, a chromecast connection);
// with io.Discard it still exercises the full download, which is enough for
// driving sequential playback.
type StreamPlayer struct {
	httpClient *http.Client
	output     io.Writer
}

func NewStreamPlayer(httpClient *http.Client, output io.Writer) *StreamPlayer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if output == nil {
		output = io.Discard
	}
	return &StreamPlayer{
		httpClient: httpClient,
		output:     output,
	}
}

func (p *StreamPlayer) Play(ctx context.Context, url string) (Session, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, errors.WithStack(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, errors.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, errors.Errorf("audio request returned %d for %s", resp.StatusCode, url)
	}

	s := &streamSession{
		done:   make(chan error, 1),
		cancel: cancel,
	}

	go func() {
		defer resp.Body.Close()
		_, err := io.Copy(p.output, resp.Body)
		if err != nil && errors.Is(err, context.Canceled) {
			err = ErrStopped
		}
		s.done <- errors.WithStack(err)
	}()

	return s, nil
}

type streamSession struct {
	done   chan error
	cancel context.CancelFunc
}

func (s *streamSession) Done() <-chan error {
	return s.done
}

func (s *streamSession) Stop() {
	s.cancel()
}
