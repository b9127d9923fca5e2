package jobs

import (
	"time"

	"github.com/anjiri1684/interview_portal/services"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SweepStaleProgress deletes autosaved progress not touched within the
// retention period.
func SweepStaleProgress(db *gorm.DB, now time.Time) (int64, error) {
	return services.DeleteStaleProgress(db, now.Add(-services.ProgressRetention))
}

func runSweep(db *gorm.DB) {
	deleted, err := SweepStaleProgress(db, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("progress sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("stale progress removed")
	}
}
