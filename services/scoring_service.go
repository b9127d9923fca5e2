package services

import (
	"math"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/google/uuid"
)

type SubmittedAnswer struct {
	QuestionID       uuid.UUID  `json:"question_id" validate:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
}

type ScoringPolicy struct {
	MarksPerQuestion     float64
	NegativeMarking      bool
	NegativeMarkingValue float64
	// QuestionsAsked is the candidate's configured question count. Zero means
	// the size of the scored question set.
	QuestionsAsked int
}

type ScoredQuestion struct {
	QuestionID          uuid.UUID
	QuestionText        string
	QuestionImage       string
	SelectedOptionID    *uuid.UUID
	SelectedOptionText  string
	SelectedOptionImage string
	CorrectOptionText   string
	CorrectOptionImage  string
	IsCorrect           bool
	Status              int
	Marks               float64
}

type ScoreSheet struct {
	Questions      []ScoredQuestion
	TotalQuestions int
	Attempted      int
	Correct        int
	// TotalMarks is the gross marks of correct answers; MarksObtained is net of
	// negative marking.
	TotalMarks    float64
	MarksObtained float64
	MaxMarks      float64
	Score         float64
}

func PolicyFor(candidate *models.Candidate, settings models.Settings) ScoringPolicy {
	return ScoringPolicy{
		MarksPerQuestion:     settings.MarksPerQuestion,
		NegativeMarking:      candidate.IsNegativeMarking,
		NegativeMarkingValue: candidate.NegativeMarkingValue,
		QuestionsAsked:       candidate.QuestionsAskedToCandidate,
	}
}

// ScoreAnswers grades answers against the given question set in order.
// Answers for questions outside the set are ignored. Unanswered questions, and
// selections that are not options of the question, score zero.
func ScoreAnswers(questions []models.Question, answers []SubmittedAnswer, policy ScoringPolicy) ScoreSheet {
	perQuestion := policy.MarksPerQuestion
	if perQuestion <= 0 {
		perQuestion = 1
	}

	selected := make(map[uuid.UUID]*uuid.UUID, len(answers))
	for _, a := range answers {
		if a.SelectedOptionID != nil {
			selected[a.QuestionID] = a.SelectedOptionID
		}
	}

	sheet := ScoreSheet{Questions: make([]ScoredQuestion, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		scored := ScoredQuestion{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			QuestionImage: q.QuestionImage,
			Status:        models.AnswerUnanswered,
		}
		if correct := q.CorrectOption(); correct != nil {
			scored.CorrectOptionText = correct.OptionText
			scored.CorrectOptionImage = correct.OptionImage
		}

		if optionID, ok := selected[q.ID]; ok {
			if option := q.Option(*optionID); option != nil {
				id := option.ID
				scored.SelectedOptionID = &id
				scored.SelectedOptionText = option.OptionText
				scored.SelectedOptionImage = option.OptionImage
				scored.Status = models.AnswerAnswered
				scored.IsCorrect = option.IsCorrect
				sheet.Attempted++

				switch {
				case option.IsCorrect:
					scored.Marks = perQuestion
					sheet.Correct++
					sheet.TotalMarks += perQuestion
				case policy.NegativeMarking:
					scored.Marks = -policy.NegativeMarkingValue
				}
			}
		}

		sheet.MarksObtained += scored.Marks
		sheet.Questions = append(sheet.Questions, scored)
	}

	sheet.TotalQuestions = policy.QuestionsAsked
	if sheet.TotalQuestions <= 0 {
		sheet.TotalQuestions = len(questions)
	}
	sheet.MaxMarks = float64(sheet.TotalQuestions) * perQuestion
	sheet.TotalMarks = round2(sheet.TotalMarks)
	sheet.MarksObtained = round2(sheet.MarksObtained)
	if sheet.MaxMarks > 0 {
		sheet.Score = round2(sheet.MarksObtained / sheet.MaxMarks * 100)
	}
	return sheet
}

func (s ScoreSheet) ResultAnswers() []models.ResultAnswer {
	answers := make([]models.ResultAnswer, len(s.Questions))
	for i, q := range s.Questions {
		answers[i] = models.ResultAnswer{
			QuestionID:          q.QuestionID,
			SortOrder:           i,
			QuestionText:        q.QuestionText,
			QuestionImage:       q.QuestionImage,
			SelectedOptionID:    q.SelectedOptionID,
			SelectedOptionText:  q.SelectedOptionText,
			SelectedOptionImage: q.SelectedOptionImage,
			CorrectOptionText:   q.CorrectOptionText,
			CorrectOptionImage:  q.CorrectOptionImage,
			IsCorrect:           q.IsCorrect,
			Status:              q.Status,
			Marks:               q.Marks,
		}
	}
	return answers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
