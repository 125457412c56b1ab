package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	done chan error
	once sync.Once
}

func newFakeSession() *fakeSession {
	return &fakeSession{done: make(chan error, 1)}
}

func (s *fakeSession) Done() <-chan error {
	return s.done
}

func (s *fakeSession) Stop() {
	s.once.Do(func() {
		s.done <- ErrStopped
	})
}

func (s *fakeSession) finish(err error) {
	s.once.Do(func() {
		s.done <- err
	})
}

type fakePlayer struct {
	mu       sync.Mutex
	played   []string
	sessions chan *fakeSession
	failing  map[string]bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{
		sessions: make(chan *fakeSession, 16),
		failing:  map[string]bool{},
	}
}

func (p *fakePlayer) Play(ctx context.Context, url string) (Session, error) {
	p.mu.Lock()
	p.played = append(p.played, url)
	failing := p.failing[url]
	p.mu.Unlock()

	if failing {
		return nil, errors.New("audio unavailable")
	}
	s := newFakeSession()
	p.sessions <- s
	return s, nil
}

func (p *fakePlayer) playedURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.played...)
}

func (p *fakePlayer) next(t *testing.T) *fakeSession {
	t.Helper()
	select {
	case s := <-p.sessions:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for playback to start")
		return nil
	}
}

func threeTracks() []Track {
	return []Track{
		{Index: 0, Key: "2:1", URL: "https://audio.example.com/000201.mp3", Title: "Al-Baqarah 2:1"},
		{Index: 1, Key: "2:2", URL: "https://audio.example.com/000202.mp3", Title: "Al-Baqarah 2:2"},
		{Index: 2, Key: "2:3", URL: "https://audio.example.com/000203.mp3", Title: "Al-Baqarah 2:3"},
	}
}

func TestControllerPlaysTracksInOrder(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	ctrl := NewController(player, NewSlot())
	tracks := threeTracks()

	err := ctrl.PlayTracks(context.Background(), tracks, 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		session := player.next(t)
		status := ctrl.Status()
		assert.Equal(t, StatePlaying, status.State)
		assert.Equal(t, i, status.Index)
		require.NotNil(t, status.Track)
		assert.Equal(t, tracks[i].Key, status.Track.Key)
		session.finish(nil)
	}

	require.Eventually(t, func() bool {
		return ctrl.Status().State == StateStopped
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, ctrl.Status().Index)
	assert.Equal(t, []string{tracks[0].URL, tracks[1].URL, tracks[2].URL}, player.playedURLs())
}

func TestControllerSkipsTrackThatFailsToStart(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	tracks := threeTracks()
	player.failing[tracks[1].URL] = true
	ctrl := NewController(player, NewSlot())

	err := ctrl.PlayTracks(context.Background(), tracks, 0)
	require.NoError(t, err)

	player.next(t).finish(nil)

	// Track 2 refuses to start, so track 3 plays next.
	session := player.next(t)
	assert.Equal(t, 2, ctrl.Status().Index)
	session.finish(nil)

	require.Eventually(t, func() bool {
		return ctrl.Status().State == StateStopped
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{tracks[0].URL, tracks[1].URL, tracks[2].URL}, player.playedURLs())
}

func TestControllerAdvancesWhenPlaybackFails(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	ctrl := NewController(player, NewSlot())
	tracks := threeTracks()

	err := ctrl.PlayTracks(context.Background(), tracks, 0)
	require.NoError(t, err)

	player.next(t).finish(errors.New("stream reset"))

	session := player.next(t)
	assert.Equal(t, 1, ctrl.Status().Index)
	session.finish(nil)
	player.next(t).finish(nil)

	require.Eventually(t, func() bool {
		return ctrl.Status().State == StateStopped
	}, time.Second, time.Millisecond)
}

func TestControllerStop(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	ctrl := NewController(player, NewSlot())
	tracks := threeTracks()

	err := ctrl.PlayTracks(context.Background(), tracks, 1)
	require.NoError(t, err)

	session := player.next(t)
	ctrl.Stop()

	select {
	case err := <-session.Done():
		require.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("session was not torn down")
	}

	status := ctrl.Status()
	assert.Equal(t, StateStopped, status.State)
	assert.Equal(t, 1, status.Index)

	// Nothing else starts after a stop.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{tracks[1].URL}, player.playedURLs())
}

func TestControllerNewSequenceSupersedesOld(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	ctrl := NewController(player, NewSlot())
	first := threeTracks()
	second := []Track{
		{Index: 0, Key: "1:1", URL: "https://audio.example.com/000101.mp3", Title: "Al-Fatihah 1:1"},
	}

	err := ctrl.PlayTracks(context.Background(), first, 0)
	require.NoError(t, err)
	firstSession := player.next(t)

	err = ctrl.PlayTracks(context.Background(), second, 0)
	require.NoError(t, err)
	secondSession := player.next(t)

	// The superseded run finishing its track must not advance anything.
	firstSession.finish(nil)
	time.Sleep(20 * time.Millisecond)

	status := ctrl.Status()
	assert.Equal(t, StatePlaying, status.State)
	assert.Equal(t, 0, status.Index)
	require.NotNil(t, status.Track)
	assert.Equal(t, "1:1", status.Track.Key)

	secondSession.finish(nil)
	require.Eventually(t, func() bool {
		return ctrl.Status().State == StateStopped
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{first[0].URL, second[0].URL}, player.playedURLs())
}

func TestControllerPlayTracksValidation(t *testing.T) {
	t.Parallel()

	ctrl := NewController(newFakePlayer(), NewSlot())

	err := ctrl.PlayTracks(context.Background(), nil, 0)
	assert.Error(t, err)

	err = ctrl.PlayTracks(context.Background(), threeTracks(), 3)
	assert.Error(t, err)

	assert.Equal(t, StateIdle, ctrl.Status().State)
}

func TestWordPlayerToggle(t *testing.T) {
	t.Parallel()

	player := newFakePlayer()
	slot := NewSlot()
	words := NewWordPlayer(player, slot)
	url := "https://words.example.com/wbw/002_005_001.mp3"

	playing, err := words.Toggle(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, playing)
	session := player.next(t)
	assert.Equal(t, OwnerWord, slot.Owner())

	// Toggling the same word stops it without starting it again.
	playing, err = words.Toggle(context.Background(), url)
	require.NoError(t, err)
	assert.False(t, playing)
	select {
	case err := <-session.Done():
		require.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("word audio was not stopped")
	}
	assert.Equal(t, []string{url}, player.playedURLs())

	playing, err = words.Toggle(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, playing)
	assert.Equal(t, []string{url, url}, player.playedURLs())
}

func TestWordPlayerToggleRequiresAudio(t *testing.T) {
	t.Parallel()

	words := NewWordPlayer(newFakePlayer(), NewSlot())
	_, err := words.Toggle(context.Background(), "")
	assert.Error(t, err)
}
