package playback

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type StateKind string

const (
	StateIdle    StateKind = "idle"
	StatePlaying StateKind = "playing"
	StateStopped StateKind = "stopped"
)

// Track is one playable verse in a sequence.
type Track struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Status is a snapshot of the controller for the HTTP surface.
type Status struct {
	State StateKind `json:"state"`
	Index int       `json:"index"`
	Total int       `json:"total"`
	Track *Track    `json:"track,omitempty"`
}

// Controller plays a sequence of tracks in order, advancing when a track
// ends or fails. Starting a new sequence supersedes the previous one; a
// superseded run can no longer touch the controller's state, so a late
// track completion never clobbers the new sequence.
type Controller struct {
	player Player
	slot   *Slot
	log    logger.Logger

	mu         sync.Mutex
	generation int
	state      StateKind
	index      int
	tracks     []Track
	stop       chan struct{}
}

func NewController(player Player, slot *Slot) *Controller {
	return &Controller{
		player: player,
		slot:   slot,
		log:    logger.New(),
		state:  StateIdle,
	}
}

// PlayTracks starts sequential playback of tracks beginning at startIndex.
// Any sequence already playing is stopped first.
func (c *Controller) PlayTracks(ctx context.Context, tracks []Track, startIndex int) error {
	if len(tracks) == 0 {
		return errors.New("no tracks to play")
	}
	if startIndex < 0 || startIndex >= len(tracks) {
		return errors.Errorf("start index %d out of range for %d tracks", startIndex, len(tracks))
	}

	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	c.generation++
	gen := c.generation
	stop := make(chan struct{})
	c.stop = stop
	c.state = StatePlaying
	c.index = startIndex
	c.tracks = tracks
	c.mu.Unlock()

	go c.run(ctx, gen, tracks, startIndex, stop)

	return nil
}

func (c *Controller) run(ctx context.Context, gen int, tracks []Track, start int, stop chan struct{}) {
	for i := start; i < len(tracks); i++ {
		if !c.setIndex(gen, i) {
			return
		}

		session, err := c.player.Play(ctx, tracks[i].URL)
		if err != nil {
			// A track that can't start is skipped, same as one that fails
			// partway through.
			c.log.Err(err).Root(logger.Data{"key": tracks[i].Key}).Warn("track failed to start")
			continue
		}
		c.slot.Put(OwnerSequence, session)

		select {
		case err := <-session.Done():
			c.slot.Release(session)
			if err != nil {
				if errors.Is(err, ErrStopped) {
					// Preempted by other audio. The sequence ends here
					// rather than talking over it.
					c.halt(gen)
					return
				}
				c.log.Err(err).Root(logger.Data{"key": tracks[i].Key}).Warn("track playback failed")
			}
		case <-stop:
			session.Stop()
			c.slot.Release(session)
			return
		}
	}

	c.finish(gen)
}

// setIndex records the current position. It reports false when this run has
// been superseded or stopped.
func (c *Controller) setIndex(gen, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.state != StatePlaying {
		return false
	}
	c.index = index
	return true
}

// finish marks the natural end of a sequence, resetting position to the
// first track.
func (c *Controller) finish(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.state != StatePlaying {
		return
	}
	c.state = StateStopped
	c.index = 0
	c.stop = nil
}

// halt marks a preempted sequence stopped without resetting position.
func (c *Controller) halt(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.state != StatePlaying {
		return
	}
	c.state = StateStopped
	c.stop = nil
}

// Stop ends the current sequence and tears down its audio. Position stays
// where it was so a later status read still shows the last track.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.generation++
	c.state = StateStopped
	c.mu.Unlock()

	c.slot.StopOwner(OwnerSequence)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		State: c.state,
		Index: c.index,
		Total: len(c.tracks),
	}
	if c.state == StatePlaying && c.index < len(c.tracks) {
		track := c.tracks[c.index]
		status.Track = &track
	}
	return status
}
