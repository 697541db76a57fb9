package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPurgeInterval replaces a non-positive interval passed to Run.
const DefaultPurgeInterval = time.Hour

// Purger deletes stored codes that expired at or before now.
type Purger interface {
	PurgeExpired(now time.Time) (int64, error)
}

// PurgeExpiredCodes runs one purge pass.
func PurgeExpiredCodes(p Purger, now time.Time) (int64, error) {
	n, err := p.PurgeExpired(now)
	if err != nil {
		log.Error().Err(err).Msg("worker: failed to purge expired codes")
		return 0, err
	}

	if n > 0 {
		log.Info().Int64("deleted", n).Msg("worker: purged expired codes")
	} else {
		log.Debug().Msg("worker: no expired codes")
	}
	return n, nil
}

// Run purges once immediately and then every interval until ctx is done.
func Run(ctx context.Context, p Purger, interval time.Duration) {
	if interval <= 0 {
		log.Warn().Dur("interval", interval).Dur("default", DefaultPurgeInterval).Msg("worker: invalid purge interval, using default")
		interval = DefaultPurgeInterval
	}

	PurgeExpiredCodes(p, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker: stopping")
			return
		case now := <-ticker.C:
			PurgeExpiredCodes(p, now)
		}
	}
}
