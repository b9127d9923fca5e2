package jobs

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	sweepSpec    = "@every 10m"
	reminderSpec = "*/5 * * * *"
)

// Start schedules the background jobs and starts the cron runner. Callers stop
// it with Stop on shutdown.
func Start(db *gorm.DB) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(sweepSpec, func() { runSweep(db) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(reminderSpec, func() { runReminders(db) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
