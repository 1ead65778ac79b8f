package media

import "time"

// Kind tells the display how to present an item.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindSound Kind = "sound"
)

// MediaItem is the single piece of media currently on the board.
// ID is assigned per upload; the view ledger is keyed by it so a
// re-upload under the same filename starts with a clean slate.
type MediaItem struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	Kind            Kind      `json:"kind"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	Caption         string    `json:"caption,omitempty"`
	DurationSeconds int       `json:"duration_seconds"` // 0 = play to completion
	CreatedAt       time.Time `json:"created_at"`
	PendingDeletion bool      `json:"-"`
}

// SoundItem is the sound currently loaded for playback.
type SoundItem struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	CreatedAt       time.Time `json:"created_at"`
	PendingDeletion bool      `json:"-"`
}

// Candidate is an entry returned by the stale scan: a filename due for
// cleanup plus the kind that tells the sweeper which directory it
// lives in.
type Candidate struct {
	Filename string
	Kind     Kind
}
