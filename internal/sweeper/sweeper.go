package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/wallboard/internal/media"
	"github.com/yourorg/wallboard/internal/store"
)

// Sweeper periodically purges slot contents that nobody claimed within
// the retention window. Candidates are snapshotted under the store's
// shared lock; file deletion happens outside any lock, and the store
// is updated afterwards. A failed delete quarantines the item so it is
// never served again.
type Sweeper struct {
	store      *store.Store
	uploadsDir string
	soundsDir  string
	threshold  time.Duration
	interval   time.Duration
	log        *zap.SugaredLogger
}

func New(st *store.Store, uploadsDir, soundsDir string, threshold, interval time.Duration, log *zap.SugaredLogger) *Sweeper {
	if threshold <= 0 {
		threshold = 10 * time.Second
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Sweeper{
		store:      st,
		uploadsDir: uploadsDir,
		soundsDir:  soundsDir,
		threshold:  threshold,
		interval:   interval,
		log:        log,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	tkr := time.NewTicker(s.interval)
	defer tkr.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopping")
			return
		case <-tkr.C:
			s.sweepOnce()
		}
	}
}

func (s *Sweeper) sweepOnce() {
	for _, cand := range s.store.ListStaleCandidates(s.threshold) {
		path := s.pathFor(cand)
		if err := os.Remove(path); err != nil {
			s.log.Errorw("failed to delete stale file, quarantining",
				"file", cand.Filename, "error", err)
			s.store.MarkPendingDeletion(cand.Filename)
			continue
		}
		if cand.Kind == media.KindImage {
			// best effort: the thumbnail shares the image's lifetime
			_ = os.Remove(filepath.Join(s.uploadsDir, media.ThumbFilename(cand.Filename)))
		}
		s.store.RemoveIfMatches(cand.Filename)
		s.log.Infow("evicted stale file", "file", cand.Filename, "kind", cand.Kind)
	}
}

func (s *Sweeper) pathFor(cand media.Candidate) string {
	if cand.Kind == media.KindSound {
		return filepath.Join(s.soundsDir, cand.Filename)
	}
	return filepath.Join(s.uploadsDir, cand.Filename)
}
