package playback

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// WordPlayer plays a single word's audio. Toggling the word that is already
// playing stops it without starting it again.
type WordPlayer struct {
	player Player
	slot   *Slot

	mu      sync.Mutex
	url     string
	session Session
}

func NewWordPlayer(player Player, slot *Slot) *WordPlayer {
	return &WordPlayer{
		player: player,
		slot:   slot,
	}
}

// Toggle plays the audio at url, or stops it if that same url is already
// playing. It reports whether audio is playing after the call.
func (p *WordPlayer) Toggle(ctx context.Context, url string) (bool, error) {
	if url == "" {
		return false, errors.New("word has no audio")
	}

	p.mu.Lock()
	if p.url == url && p.session != nil {
		session := p.session
		p.url = ""
		p.session = nil
		p.mu.Unlock()

		session.Stop()
		p.slot.Release(session)
		return false, nil
	}
	p.mu.Unlock()

	session, err := p.player.Play(ctx, url)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	p.url = url
	p.session = session
	p.mu.Unlock()

	p.slot.Put(OwnerWord, session)

	go func() {
		<-session.Done()
		p.slot.Release(session)

		p.mu.Lock()
		if p.session == session {
			p.url = ""
			p.session = nil
		}
		p.mu.Unlock()
	}()

	return true, nil
}
