package playback

import "sync"

// Owners of the audio slot. Only one of them can be audible at a time.
const (
	OwnerSequence = "sequence"
	OwnerWord     = "word"
)

// Slot holds the single system-wide now-playing session. Installing a new
// session stops whatever was playing before, so two pieces of audio can
// never overlap no matter which surface started them.
type Slot struct {
	mu      sync.Mutex
	session Session
	owner   string
}

func NewSlot() *Slot {
	return &Slot{}
}

// Put stops the current session, if any, and installs the new one.
func (s *Slot) Put(owner string, session Session) {
	s.mu.Lock()
	previous := s.session
	s.session = session
	s.owner = owner
	s.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}
}

// Stop tears down whatever is currently playing.
func (s *Slot) Stop() {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.owner = ""
	s.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

// StopOwner tears down the current session only if it belongs to owner.
func (s *Slot) StopOwner(owner string) {
	s.mu.Lock()
	if s.owner != owner {
		s.mu.Unlock()
		return
	}
	session := s.session
	s.session = nil
	s.owner = ""
	s.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

// Release clears the slot if it still holds session, without stopping it.
// Sessions call into this once they finish on their own.
func (s *Slot) Release(session Session) {
	s.mu.Lock()
	if s.session == session {
		s.session = nil
		s.owner = ""
	}
	s.mu.Unlock()
}

// Owner reports who currently holds the slot, or "" when nothing plays.
func (s *Slot) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}
