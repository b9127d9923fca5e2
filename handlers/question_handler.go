package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OptionRequest struct {
	OptionText  string `json:"option_text"`
	OptionImage string `json:"option_image"`
	IsCorrect   bool   `json:"is_correct"`
}

type QuestionRequest struct {
	PositionID    string          `json:"position_id"`
	Category      *int            `json:"category"`
	QuestionText  string          `json:"question_text"`
	QuestionImage string          `json:"question_image"`
	Options       []OptionRequest `json:"options"`
}

// questionFromRequest reads a question from JSON, or from multipart form
// fields with "options" as a JSON array and images in "questionImage" and
// "optionImage<i>".
func questionFromRequest(c *fiber.Ctx) (*models.Question, string, error) {
	var req QuestionRequest
	if c.Is("json") {
		if err := c.BodyParser(&req); err != nil {
			return nil, "", fiber.NewError(fiber.StatusBadRequest, "Cannot parse request body")
		}
	} else {
		req.PositionID = c.FormValue("position_id")
		req.QuestionText = c.FormValue("question_text")
		if raw := c.FormValue("category"); raw != "" {
			category, err := strconv.Atoi(raw)
			if err != nil {
				return nil, "", fiber.NewError(fiber.StatusBadRequest, "category must be an integer")
			}
			req.Category = &category
		}
		if raw := c.FormValue("options"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Options); err != nil {
				return nil, "", fiber.NewError(fiber.StatusBadRequest, "options must be a JSON array")
			}
		}
	}

	question := &models.Question{
		Category:      req.Category,
		QuestionText:  req.QuestionText,
		QuestionImage: req.QuestionImage,
	}
	url, err := saveUpload(c, "questionImage", storage.Questions)
	if err != nil {
		return nil, "", err
	}
	if url != "" {
		question.QuestionImage = url
	}

	for i, o := range req.Options {
		option := models.QuestionOption{OptionText: o.OptionText, OptionImage: o.OptionImage, IsCorrect: o.IsCorrect}
		url, err := saveUpload(c, fmt.Sprintf("optionImage%d", i), storage.Questions)
		if err != nil {
			return nil, "", err
		}
		if url != "" {
			option.OptionImage = url
		}
		question.Options = append(question.Options, option)
	}
	return question, req.PositionID, nil
}

func CreateQuestion(c *fiber.Ctx) error {
	question, positionID, err := questionFromRequest(c)
	if err != nil {
		return err
	}
	question.PositionID, err = parseUUID(positionID, "position_id")
	if err != nil {
		return err
	}
	if err := services.CreateQuestion(database.DB, question); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func ListQuestions(c *fiber.Ctx) error {
	var positionID *uuid.UUID
	if raw := c.Query("positionId"); raw != "" {
		id, err := parseUUID(raw, "positionId")
		if err != nil {
			return err
		}
		positionID = &id
	}
	questions, err := services.ListQuestions(database.DB, positionID)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

func GetQuestion(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	question, err := services.GetQuestion(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	question, _, err := questionFromRequest(c)
	if err != nil {
		return err
	}
	updated, err := services.UpdateQuestion(database.DB, id, question)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func DeleteQuestion(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteQuestion(database.DB, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
