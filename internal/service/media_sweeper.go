package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// MediaSweeper periodically purges media that has been soft-deleted for
// longer than the retention period.
type MediaSweeper struct {
	media     *MediaService
	retention time.Duration
	cron      *cron.Cron
}

// NewMediaSweeper runs the purge on schedule, a standard cron expression or a
// descriptor such as "@daily".
func NewMediaSweeper(media *MediaService, retention time.Duration, schedule string) (*MediaSweeper, error) {
	sweeper := &MediaSweeper{
		media:     media,
		retention: retention,
		cron:      cron.New(),
	}
	if _, err := sweeper.cron.AddFunc(schedule, sweeper.run); err != nil {
		return nil, err
	}
	return sweeper, nil
}

func (s *MediaSweeper) Start() {
	s.cron.Start()
}

// Stop waits for a running purge to finish.
func (s *MediaSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *MediaSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	purged, err := s.media.PurgeOlderThan(ctx, s.retention)
	if err != nil {
		log.Error().Err(err).Int("purged", purged).Msg("media purge failed")
		return
	}
	if purged > 0 {
		log.Info().Int("purged", purged).Dur("retention", s.retention).Msg("purged deleted media")
	}
}
