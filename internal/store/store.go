package store

import (
	"sync"
	"time"

	"github.com/yourorg/wallboard/internal/media"
)

// Store holds the single current media slot, the single current sound
// slot, and the per-upload view ledger. It is safe for concurrent use;
// reads run in parallel, mutations are exclusive, and no method does
// I/O while holding the lock.
//
// The read-then-mark flow (GetCurrentForViewer followed by MarkViewed)
// deliberately spans two lock acquisitions. Correctness comes from
// MarkViewed re-validating that the named filename still occupies the
// slot, not from callers holding a lock across both calls.
type Store struct {
	mu    sync.RWMutex
	media *media.MediaItem
	sound *media.SoundItem

	// viewedBy maps an upload ID to the set of viewer addresses that
	// already consumed it. Keying by upload ID rather than filename
	// means a same-named re-upload never inherits a stale viewed set.
	viewedBy map[string]map[string]struct{}
}

func New() *Store {
	return &Store{
		viewedBy: make(map[string]map[string]struct{}),
	}
}

// SetMedia replaces the media slot unconditionally (last write wins).
// Ledger entries of the superseded item are left in place; they are
// pruned only when their item is explicitly removed.
func (s *Store) SetMedia(item media.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media = &item
}

// SetSound replaces the sound slot unconditionally.
func (s *Store) SetSound(item media.SoundItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sound = &item
}

// GetCurrentForViewer returns a copy of the current media item if it
// is servable to the given viewer: not quarantined and not yet viewed
// by them. It never mutates the ledger.
func (s *Store) GetCurrentForViewer(viewerID string) *media.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.media
	if cur == nil || cur.PendingDeletion {
		return nil
	}
	if _, viewed := s.viewedBy[cur.ID][viewerID]; viewed {
		return nil
	}
	cp := *cur
	return &cp
}

// MarkViewed records that the viewer consumed the named file. It
// returns true only on the first insertion for that pair. If the
// filename no longer matches the slot occupant the call is a no-op:
// a blind mark could otherwise land on a superseded item's successor.
func (s *Store) MarkViewed(filename, viewerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.media
	if cur == nil || cur.Filename != filename {
		return false
	}
	set, ok := s.viewedBy[cur.ID]
	if !ok {
		set = make(map[string]struct{})
		s.viewedBy[cur.ID] = set
	}
	if _, viewed := set[viewerID]; viewed {
		return false
	}
	set[viewerID] = struct{}{}
	return true
}

// MarkPendingDeletion quarantines the named item so it is never served
// again while cleanup is retried. Stale filenames are ignored.
func (s *Store) MarkPendingDeletion(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media != nil && s.media.Filename == filename {
		s.media.PendingDeletion = true
	}
	if s.sound != nil && s.sound.Filename == filename {
		s.sound.PendingDeletion = true
	}
}

// RemoveIfMatches clears whichever slot the filename occupies and
// prunes that upload's ledger entry. Stale filenames are a no-op.
func (s *Store) RemoveIfMatches(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media != nil && s.media.Filename == filename {
		delete(s.viewedBy, s.media.ID)
		s.media = nil
	}
	if s.sound != nil && s.sound.Filename == filename {
		delete(s.viewedBy, s.sound.ID)
		s.sound = nil
	}
}

// CurrentSound returns a copy of the current sound item, or nil when
// the slot is empty or quarantined. Sounds are not tracked per viewer;
// a display connecting after the upload can still fetch it here.
func (s *Store) CurrentSound() *media.SoundItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sound == nil || s.sound.PendingDeletion {
		return nil
	}
	cp := *s.sound
	return &cp
}

// ListStaleCandidates returns the slot contents older than threshold
// that are not already quarantined. Read-only; the caller performs any
// file deletion outside the store's lock.
func (s *Store) ListStaleCandidates(threshold time.Duration) []media.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	var out []media.Candidate
	if m := s.media; m != nil && !m.PendingDeletion && now.Sub(m.CreatedAt) > threshold {
		out = append(out, media.Candidate{Filename: m.Filename, Kind: m.Kind})
	}
	if snd := s.sound; snd != nil && !snd.PendingDeletion && now.Sub(snd.CreatedAt) > threshold {
		out = append(out, media.Candidate{Filename: snd.Filename, Kind: media.KindSound})
	}
	return out
}
