package services

import (
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLoginBeforeSchedule = fiber.NewError(fiber.StatusForbidden, "You cannot login before your scheduled interview time")
	ErrLoginWindowExpired  = fiber.NewError(fiber.StatusForbidden, "Your interview login window has expired")
	ErrCandidateSubmitted  = fiber.NewError(fiber.StatusForbidden, "You have already submitted your test")
	ErrInvalidCredentials  = fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
)

type QuestionCounts struct {
	TechnicalQuestions        int
	LogicalQuestions          int
	QuestionsAskedToCandidate int
}

// ValidateQuestionCounts rejects negative counts and a technical+logical split
// that does not add up to the total asked.
func ValidateQuestionCounts(c QuestionCounts) error {
	if c.TechnicalQuestions < 0 || c.LogicalQuestions < 0 || c.QuestionsAskedToCandidate < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Question counts cannot be negative")
	}
	split := c.TechnicalQuestions + c.LogicalQuestions
	if split > 0 && c.QuestionsAskedToCandidate > 0 && split != c.QuestionsAskedToCandidate {
		return fiber.NewError(fiber.StatusBadRequest, "Technical and logical questions must add up to the questions asked to the candidate")
	}
	return nil
}

func ValidateSchedule(schedule, now time.Time) error {
	if schedule.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "Interview schedule is required")
	}
	if schedule.Before(now) {
		return fiber.NewError(fiber.StatusBadRequest, "Interview schedule cannot be in the past")
	}
	return nil
}

// CheckLoginWindow accepts logins from the scheduled time until window
// minutes after it. A zero window never expires.
func CheckLoginWindow(schedule, now time.Time, windowMinutes int) error {
	if now.Before(schedule) {
		return ErrLoginBeforeSchedule
	}
	if windowMinutes > 0 && now.After(schedule.Add(time.Duration(windowMinutes)*time.Minute)) {
		return ErrLoginWindowExpired
	}
	return nil
}

// DurationFor is the candidate's allotted test time, falling back to the
// configured default.
func DurationFor(candidate *models.Candidate, settings models.Settings) int {
	if candidate.DurationMinutes > 0 {
		return candidate.DurationMinutes
	}
	return settings.DefaultTestDurationMinutes
}

func LoginCandidate(db *gorm.DB, email, password string, now time.Time) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(candidate.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if candidate.HasSubmitted() {
		return nil, ErrCandidateSubmitted
	}

	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}
	if err := CheckLoginWindow(candidate.Schedule, now, settings.LoginWindowMinutes); err != nil {
		return nil, err
	}
	return &candidate, nil
}

type CandidateInput struct {
	Name                      string
	Email                     string
	Password                  string
	Phone                     string
	Experience                string
	PositionID                uuid.UUID
	Schedule                  time.Time
	TechnicalQuestions        int
	LogicalQuestions          int
	QuestionsAskedToCandidate int
	DurationMinutes           int
	IsNegativeMarking         bool
	NegativeMarkingValue      float64
	ResumeURL                 *string
	CreatedByID               *uuid.UUID
}

// CreateCandidate validates and stores a candidate. When no password is given a
// temporary one is generated and returned in plain text for the credentials
// email.
func CreateCandidate(db *gorm.DB, in CandidateInput, now time.Time) (*models.Candidate, string, error) {
	counts := QuestionCounts{in.TechnicalQuestions, in.LogicalQuestions, in.QuestionsAskedToCandidate}
	if err := ValidateQuestionCounts(counts); err != nil {
		return nil, "", err
	}
	if err := ValidateSchedule(in.Schedule, now); err != nil {
		return nil, "", err
	}
	if in.NegativeMarkingValue < 0 {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Negative marking value cannot be negative")
	}

	var position models.Position
	if err := db.First(&position, "id = ?", in.PositionID).Error; err != nil {
		return nil, "", notFound(err, "Position not found")
	}

	password := in.Password
	if password == "" {
		generated, err := utils.GenerateTemporaryPassword()
		if err != nil {
			return nil, "", err
		}
		password = generated
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	questionsAsked := in.QuestionsAskedToCandidate
	if questionsAsked == 0 {
		questionsAsked = in.TechnicalQuestions + in.LogicalQuestions
	}

	candidate := models.Candidate{
		Name:                      in.Name,
		Email:                     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:                  string(hashed),
		Phone:                     in.Phone,
		Experience:                in.Experience,
		PositionID:                in.PositionID,
		Schedule:                  in.Schedule,
		TechnicalQuestions:        in.TechnicalQuestions,
		LogicalQuestions:          in.LogicalQuestions,
		QuestionsAskedToCandidate: questionsAsked,
		DurationMinutes:           in.DurationMinutes,
		IsNegativeMarking:         in.IsNegativeMarking,
		NegativeMarkingValue:      in.NegativeMarkingValue,
		ResumeURL:                 in.ResumeURL,
		CreatedByID:               in.CreatedByID,
	}
	if err := db.Create(&candidate).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, "", fiber.NewError(fiber.StatusBadRequest, "A candidate with this email already exists")
		}
		return nil, "", err
	}
	candidate.Position = &position
	return &candidate, password, nil
}

// ListCandidates pages through candidates, optionally filtered by a name or
// email search term.
func ListCandidates(db *gorm.DB, search string, offset, limit int) ([]models.Candidate, int64, error) {
	query := db.Model(&models.Candidate{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var candidates []models.Candidate
	err := query.Preload("Position").
		Order("schedule desc").
		Offset(offset).Limit(limit).
		Find(&candidates).Error
	return candidates, total, err
}

func GetCandidate(db *gorm.DB, id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := db.Preload("Position").First(&candidate, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Candidate not found")
	}
	return &candidate, nil
}

type CandidateUpdate struct {
	Name                      *string    `json:"name" validate:"omitempty,min=2"`
	Phone                     *string    `json:"phone"`
	Experience                *string    `json:"experience"`
	PositionID                *uuid.UUID `json:"position_id"`
	Schedule                  *time.Time `json:"schedule"`
	TechnicalQuestions        *int       `json:"technical_questions"`
	LogicalQuestions          *int       `json:"logical_questions"`
	QuestionsAskedToCandidate *int       `json:"questions_asked_to_candidate"`
	DurationMinutes           *int       `json:"duration_minutes" validate:"omitempty,gte=0"`
	IsNegativeMarking         *bool      `json:"is_negative_marking"`
	NegativeMarkingValue      *float64   `json:"negative_marking_value" validate:"omitempty,gte=0"`
	ResumeURL                 *string    `json:"-"`
}

func UpdateCandidate(db *gorm.DB, id uuid.UUID, up CandidateUpdate, now time.Time) (*models.Candidate, error) {
	candidate, err := GetCandidate(db, id)
	if err != nil {
		return nil, err
	}

	if up.Name != nil {
		candidate.Name = *up.Name
	}
	if up.Phone != nil {
		candidate.Phone = *up.Phone
	}
	if up.Experience != nil {
		candidate.Experience = *up.Experience
	}
	if up.PositionID != nil && *up.PositionID != candidate.PositionID {
		position, err := GetPosition(db, *up.PositionID)
		if err != nil {
			return nil, err
		}
		candidate.PositionID = position.ID
		candidate.Position = position
	}
	if up.Schedule != nil {
		if err := ValidateSchedule(*up.Schedule, now); err != nil {
			return nil, err
		}
		candidate.Schedule = *up.Schedule
	}
	if up.TechnicalQuestions != nil {
		candidate.TechnicalQuestions = *up.TechnicalQuestions
	}
	if up.LogicalQuestions != nil {
		candidate.LogicalQuestions = *up.LogicalQuestions
	}
	if up.QuestionsAskedToCandidate != nil {
		candidate.QuestionsAskedToCandidate = *up.QuestionsAskedToCandidate
	}
	if up.DurationMinutes != nil {
		candidate.DurationMinutes = *up.DurationMinutes
	}
	if up.IsNegativeMarking != nil {
		candidate.IsNegativeMarking = *up.IsNegativeMarking
	}
	if up.NegativeMarkingValue != nil {
		candidate.NegativeMarkingValue = *up.NegativeMarkingValue
	}
	if up.ResumeURL != nil {
		candidate.ResumeURL = up.ResumeURL
	}

	counts := QuestionCounts{candidate.TechnicalQuestions, candidate.LogicalQuestions, candidate.QuestionsAskedToCandidate}
	if err := ValidateQuestionCounts(counts); err != nil {
		return nil, err
	}

	if err := db.Omit("Position").Save(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

// DeleteCandidate removes the candidate with every attempt, result, retest
// request and progress snapshot they own.
func DeleteCandidate(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Candidate{}, "id = ?", id).Error; err != nil {
			return notFound(err, "Candidate not found")
		}

		var resultIDs []uuid.UUID
		if err := tx.Model(&models.TestResult{}).Where("candidate_id = ?", id).Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Where("test_result_id IN ?", resultIDs).Delete(&models.ResultAnswer{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []interface{}{
			&models.TestResult{},
			&models.TestAttempt{},
			&models.RetestRequest{},
			&models.CandidateTestProgress{},
		} {
			if err := tx.Where("candidate_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Candidate{}, "id = ?", id).Error
	})
}

type Registration struct {
	Name       string
	Password   string
	Phone      string
	Experience string
}

// RegisterCandidate creates a candidate from an invitation. The schedule comes
// from the invitation when present, otherwise the candidate may log in now.
func RegisterCandidate(db *gorm.DB, inv *Invitation, reg Registration, now time.Time) (*models.Candidate, error) {
	schedule := inv.Schedule
	if schedule.IsZero() || schedule.Before(now) {
		schedule = now
	}
	candidate, _, err := CreateCandidate(db, CandidateInput{
		Name:       reg.Name,
		Email:      inv.Email,
		Password:   reg.Password,
		Phone:      reg.Phone,
		Experience: reg.Experience,
		PositionID: inv.PositionID,
		Schedule:   schedule,
	}, now)
	return candidate, err
}
