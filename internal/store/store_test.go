package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/wallboard/internal/media"
)

func newItem(filename string, kind media.Kind) media.MediaItem {
	return media.MediaItem{
		ID:              uuid.NewString(),
		Filename:        filename,
		Kind:            kind,
		DurationSeconds: 5,
		CreatedAt:       time.Now(),
	}
}

func TestGetThenMark_ConsumesOnce(t *testing.T) {
	s := New()
	s.SetMedia(newItem("cat.jpg", media.KindImage))

	got := s.GetCurrentForViewer("10.0.0.1")
	require.NotNil(t, got)
	assert.Equal(t, "cat.jpg", got.Filename)

	assert.True(t, s.MarkViewed("cat.jpg", "10.0.0.1"))
	assert.Nil(t, s.GetCurrentForViewer("10.0.0.1"))

	// a different viewer still sees it
	got = s.GetCurrentForViewer("10.0.0.2")
	require.NotNil(t, got)
	assert.True(t, s.MarkViewed("cat.jpg", "10.0.0.2"))
}

func TestSetMedia_LastWriteWins(t *testing.T) {
	s := New()
	s.SetMedia(newItem("a.jpg", media.KindImage))
	s.SetMedia(newItem("b.jpg", media.KindImage))

	got := s.GetCurrentForViewer("10.0.0.1")
	require.NotNil(t, got)
	assert.Equal(t, "b.jpg", got.Filename)
}

func TestMarkViewed_Idempotent(t *testing.T) {
	s := New()
	s.SetMedia(newItem("cat.jpg", media.KindImage))

	assert.True(t, s.MarkViewed("cat.jpg", "10.0.0.1"))
	assert.False(t, s.MarkViewed("cat.jpg", "10.0.0.1"))
}

func TestMarkViewed_StaleFilenameIsNoOp(t *testing.T) {
	s := New()
	s.SetMedia(newItem("old.jpg", media.KindImage))
	s.SetMedia(newItem("new.jpg", media.KindImage))

	// marking the superseded name must not touch the current item
	assert.False(t, s.MarkViewed("old.jpg", "10.0.0.1"))
	assert.NotNil(t, s.GetCurrentForViewer("10.0.0.1"))
}

func TestReuploadSameFilename_GetsFreshLedger(t *testing.T) {
	s := New()
	s.SetMedia(newItem("meme.png", media.KindImage))
	require.True(t, s.MarkViewed("meme.png", "10.0.0.1"))
	require.Nil(t, s.GetCurrentForViewer("10.0.0.1"))

	// same filename, new upload: the returning viewer must see it again
	s.SetMedia(newItem("meme.png", media.KindImage))
	assert.NotNil(t, s.GetCurrentForViewer("10.0.0.1"))
}

func TestMarkPendingDeletion_HidesItemFromEveryViewer(t *testing.T) {
	s := New()
	s.SetMedia(newItem("cat.jpg", media.KindImage))

	s.MarkPendingDeletion("cat.jpg")
	assert.Nil(t, s.GetCurrentForViewer("10.0.0.1"))
	assert.Nil(t, s.GetCurrentForViewer("10.0.0.2"))

	// still tracked: a quarantined item is not listed for sweeping
	assert.Empty(t, s.ListStaleCandidates(0))
}

func TestMarkPendingDeletion_StaleFilenameIsNoOp(t *testing.T) {
	s := New()
	s.SetMedia(newItem("old.jpg", media.KindImage))
	s.SetMedia(newItem("new.jpg", media.KindImage))

	s.MarkPendingDeletion("old.jpg")
	assert.NotNil(t, s.GetCurrentForViewer("10.0.0.1"))
}

func TestRemoveIfMatches(t *testing.T) {
	s := New()
	s.SetMedia(newItem("cat.jpg", media.KindImage))
	require.True(t, s.MarkViewed("cat.jpg", "10.0.0.1"))

	s.RemoveIfMatches("cat.jpg")
	assert.Nil(t, s.GetCurrentForViewer("10.0.0.1"))
	assert.Empty(t, s.ListStaleCandidates(0))

	// removing a name that is no longer tracked is a no-op
	s.SetMedia(newItem("dog.jpg", media.KindImage))
	s.RemoveIfMatches("cat.jpg")
	assert.NotNil(t, s.GetCurrentForViewer("10.0.0.1"))
}

func TestListStaleCandidates_Boundary(t *testing.T) {
	s := New()
	threshold := 10 * time.Second

	old := newItem("old.jpg", media.KindImage)
	old.CreatedAt = time.Now().Add(-11 * time.Second)
	s.SetMedia(old)

	cands := s.ListStaleCandidates(threshold)
	require.Len(t, cands, 1)
	assert.Equal(t, "old.jpg", cands[0].Filename)
	assert.Equal(t, media.KindImage, cands[0].Kind)

	fresh := newItem("fresh.jpg", media.KindImage)
	fresh.CreatedAt = time.Now().Add(-9 * time.Second)
	s.SetMedia(fresh)
	assert.Empty(t, s.ListStaleCandidates(threshold))
}

func TestListStaleCandidates_IncludesSound(t *testing.T) {
	s := New()
	s.SetSound(media.SoundItem{
		ID:        uuid.NewString(),
		Filename:  "horn.mp3",
		CreatedAt: time.Now().Add(-time.Minute),
	})

	cands := s.ListStaleCandidates(10 * time.Second)
	require.Len(t, cands, 1)
	assert.Equal(t, "horn.mp3", cands[0].Filename)
	assert.Equal(t, media.KindSound, cands[0].Kind)

	s.MarkPendingDeletion("horn.mp3")
	assert.Empty(t, s.ListStaleCandidates(10*time.Second))
}

func TestCurrentSound(t *testing.T) {
	s := New()
	assert.Nil(t, s.CurrentSound())

	s.SetSound(media.SoundItem{
		ID:        uuid.NewString(),
		Filename:  "horn.mp3",
		CreatedAt: time.Now(),
	})

	got := s.CurrentSound()
	require.NotNil(t, got)
	assert.Equal(t, "horn.mp3", got.Filename)

	// returned value is a copy
	got.Filename = "mutated.mp3"
	again := s.CurrentSound()
	require.NotNil(t, again)
	assert.Equal(t, "horn.mp3", again.Filename)

	// quarantined sound must never be returned
	s.MarkPendingDeletion("horn.mp3")
	assert.Nil(t, s.CurrentSound())
}

func TestGetCurrentForViewer_ReturnsCopy(t *testing.T) {
	s := New()
	s.SetMedia(newItem("cat.jpg", media.KindImage))

	got := s.GetCurrentForViewer("10.0.0.1")
	require.NotNil(t, got)
	got.Filename = "mutated.jpg"

	again := s.GetCurrentForViewer("10.0.0.1")
	require.NotNil(t, again)
	assert.Equal(t, "cat.jpg", again.Filename)
}
