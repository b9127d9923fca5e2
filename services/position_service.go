package services

import (
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicatePosition = fiber.NewError(fiber.StatusConflict, "A position with this name already exists")

type PositionInput struct {
	Name       string `json:"name" validate:"required,min=2"`
	Salary     string `json:"salary"`
	Experience string `json:"experience"`
	Shift      string `json:"shift"`
	JobType    string `json:"job_type"`
}

func (in PositionInput) apply(p *models.Position) {
	p.Name = in.Name
	p.Salary = in.Salary
	p.Experience = in.Experience
	p.Shift = in.Shift
	p.JobType = in.JobType
}

func CreatePosition(db *gorm.DB, in PositionInput) (*models.Position, error) {
	var position models.Position
	in.apply(&position)
	if err := db.Create(&position).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrDuplicatePosition
		}
		return nil, err
	}
	return &position, nil
}

func ListPositions(db *gorm.DB) ([]models.Position, error) {
	var positions []models.Position
	err := db.Order("name asc").Find(&positions).Error
	return positions, err
}

func GetPosition(db *gorm.DB, id uuid.UUID) (*models.Position, error) {
	var position models.Position
	if err := db.First(&position, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Position not found")
	}
	return &position, nil
}

func UpdatePosition(db *gorm.DB, id uuid.UUID, in PositionInput) (*models.Position, error) {
	position, err := GetPosition(db, id)
	if err != nil {
		return nil, err
	}
	in.apply(position)
	if err := db.Save(position).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrDuplicatePosition
		}
		return nil, err
	}
	return position, nil
}

// DeletePosition removes a position and its questions. Positions with
// candidates assigned are kept.
func DeletePosition(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetPosition(tx, id); err != nil {
			return err
		}
		var assigned int64
		if err := tx.Model(&models.Candidate{}).Where("position_id = ?", id).Count(&assigned).Error; err != nil {
			return err
		}
		if assigned > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Position has candidates assigned and cannot be deleted")
		}

		var questionIDs []uuid.UUID
		if err := tx.Model(&models.Question{}).Where("position_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.QuestionOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", questionIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Position{}, "id = ?", id).Error
	})
}
