package services

import (
	"math/rand"
	"strings"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidateQuestion enforces the content rules every stored question obeys.
func ValidateQuestion(q *models.Question) error {
	if strings.TrimSpace(q.QuestionText) == "" && strings.TrimSpace(q.QuestionImage) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Question must have text or an image")
	}
	if len(q.Options) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "Question must have at least two options")
	}
	correct := 0
	for i, o := range q.Options {
		if strings.TrimSpace(o.OptionText) == "" && strings.TrimSpace(o.OptionImage) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Every option must have text or an image")
		}
		if o.IsCorrect {
			correct++
		}
		q.Options[i].SortOrder = i
	}
	if correct == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Question must have a correct option")
	}
	return nil
}

type OptionForCandidate struct {
	ID          uuid.UUID `json:"id"`
	OptionText  string    `json:"option_text"`
	OptionImage string    `json:"option_image"`
}

type QuestionForCandidate struct {
	ID            uuid.UUID            `json:"id"`
	Category      *int                 `json:"category,omitempty"`
	QuestionText  string               `json:"question_text"`
	QuestionImage string               `json:"question_image"`
	Options       []OptionForCandidate `json:"options"`
}

// ForCandidate strips correctness flags before questions leave the server.
func ForCandidate(questions []models.Question) []QuestionForCandidate {
	out := make([]QuestionForCandidate, len(questions))
	for i, q := range questions {
		options := make([]OptionForCandidate, len(q.Options))
		for j, o := range q.Options {
			options[j] = OptionForCandidate{ID: o.ID, OptionText: o.OptionText, OptionImage: o.OptionImage}
		}
		out[i] = QuestionForCandidate{
			ID:            q.ID,
			Category:      q.Category,
			QuestionText:  q.QuestionText,
			QuestionImage: q.QuestionImage,
			Options:       options,
		}
	}
	return out
}

func loadQuestions(tx *gorm.DB, positionID uuid.UUID, ids []uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	query := tx.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Where("position_id = ?", positionID)
	if ids != nil {
		if len(ids) == 0 {
			return questions, nil
		}
		query = query.Where("id IN ?", ids)
	}
	if err := query.Order("created_at").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// orderByIDs returns questions arranged in ids order, dropping ids with no
// matching question.
func orderByIDs(questions []models.Question, ids []uuid.UUID) []models.Question {
	byID := make(map[uuid.UUID]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, q)
			seen[id] = true
		}
	}
	return ordered
}

// SampleQuestions draws the candidate's question set from the position pool:
// technical and logical counts from their own pools, or questionsAsked from the
// whole pool when no split is configured. A zero count everywhere serves the
// whole pool.
func SampleQuestions(pool []models.Question, candidate *models.Candidate) []models.Question {
	var technical, logical []models.Question
	for _, q := range pool {
		if q.IsLogical() {
			logical = append(logical, q)
		} else {
			technical = append(technical, q)
		}
	}

	var picked []models.Question
	if candidate.TechnicalQuestions > 0 || candidate.LogicalQuestions > 0 {
		picked = append(picked, take(technical, candidate.TechnicalQuestions)...)
		picked = append(picked, take(logical, candidate.LogicalQuestions)...)
	} else {
		n := candidate.QuestionsAskedToCandidate
		if n <= 0 {
			n = len(pool)
		}
		picked = take(pool, n)
	}

	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked
}

func take(pool []models.Question, n int) []models.Question {
	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func questionIDs(questions []models.Question) []uuid.UUID {
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

func CreateQuestion(db *gorm.DB, q *models.Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	if _, err := GetPosition(db, q.PositionID); err != nil {
		return err
	}
	return db.Create(q).Error
}

// ListQuestions returns a position's questions with options. A nil positionID
// lists every question.
func ListQuestions(db *gorm.DB, positionID *uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	query := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	})
	if positionID != nil {
		query = query.Where("position_id = ?", *positionID)
	}
	err := query.Order("created_at").Find(&questions).Error
	return questions, err
}

func GetQuestion(db *gorm.DB, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).First(&question, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "Question not found")
	}
	return &question, nil
}

// UpdateQuestion replaces the question content and its full option list.
// Images left empty in the update keep their stored value.
func UpdateQuestion(db *gorm.DB, id uuid.UUID, update *models.Question) (*models.Question, error) {
	existing, err := GetQuestion(db, id)
	if err != nil {
		return nil, err
	}
	if update.QuestionImage == "" {
		update.QuestionImage = existing.QuestionImage
	}
	for i := range update.Options {
		if update.Options[i].OptionImage == "" && i < len(existing.Options) {
			update.Options[i].OptionImage = existing.Options[i].OptionImage
		}
	}
	if err := ValidateQuestion(update); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Question{}).Where("id = ?", id).Updates(map[string]interface{}{
			"category":       update.Category,
			"question_text":  update.QuestionText,
			"question_image": update.QuestionImage,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		options := make([]models.QuestionOption, len(update.Options))
		for i, o := range update.Options {
			options[i] = models.QuestionOption{
				QuestionID:  id,
				OptionText:  o.OptionText,
				OptionImage: o.OptionImage,
				IsCorrect:   o.IsCorrect,
				SortOrder:   o.SortOrder,
			}
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		return nil, err
	}
	return GetQuestion(db, id)
}

func DeleteQuestion(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetQuestion(tx, id); err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, "id = ?", id).Error
	})
}
