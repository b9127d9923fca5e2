package jobs

import (
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
)

// SendInterviewReminders emails candidates whose interview starts 60 to 65
// minutes from now and who have not submitted. Runs every five minutes, so each
// candidate falls in exactly one window.
func SendInterviewReminders(db *gorm.DB, now time.Time) (int, error) {
	lowerBound := now.Add(reminderLead)
	upperBound := lowerBound.Add(reminderWindow)

	var candidates []models.Candidate
	err := db.Preload("Position").
		Where("schedule >= ? AND schedule < ? AND is_submitted = ?", lowerBound, upperBound, 0).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	for _, candidate := range candidates {
		position := ""
		if candidate.Position != nil {
			position = candidate.Position.Name
		}
		msg, err := notifications.ReminderEmail(notifications.ReminderData{
			Name:     candidate.Name,
			Position: position,
			Schedule: candidate.Schedule.Format("Jan 2, 2006 15:04 MST"),
			Link:     config.App.FrontendURL + "/candidate/login",
		})
		notifications.Deliver(candidate.Name, candidate.Email, msg, err)
	}
	return len(candidates), nil
}

func runReminders(db *gorm.DB) {
	sent, err := SendInterviewReminders(db, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("interview reminder job failed")
		return
	}
	if sent > 0 {
		log.Info().Int("count", sent).Msg("interview reminders sent")
	}
}
