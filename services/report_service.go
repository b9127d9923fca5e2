package services

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:embed templates/result_report.html
var reportFS embed.FS

var reportTemplate = template.Must(template.New("result_report.html").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(reportFS, "templates/result_report.html"))

const pdfRenderTimeout = 30 * time.Second

func GetResult(db *gorm.DB, resultID uuid.UUID) (*models.TestResult, error) {
	var result models.TestResult
	err := db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Preload("Candidate").Preload("Position").First(&result, "id = ?", resultID).Error
	if err != nil {
		return nil, notFound(err, "Test result not found")
	}
	return &result, nil
}

// ListResultsForCandidate returns every result of the candidate, newest first,
// without answer rows.
func ListResultsForCandidate(db *gorm.DB, candidateID uuid.UUID) ([]models.TestResult, error) {
	var candidate models.Candidate
	if err := db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		return nil, notFound(err, "Candidate not found")
	}

	var results []models.TestResult
	err := db.Preload("Position").
		Where("candidate_id = ?", candidateID).
		Order("submitted_at desc").
		Find(&results).Error
	return results, err
}

type reportData struct {
	CandidateName      string
	PositionName       string
	AttemptNumber      int
	SubmittedAt        string
	Score              float64
	MarksObtained      float64
	MaxMarks           float64
	CorrectAnswers     int
	TotalQuestions     int
	AttemptedQuestions int
	TimeTaken          string
	Answers            []models.ResultAnswer
}

// RenderResultHTML renders the HR report for a result loaded with GetResult.
func RenderResultHTML(result *models.TestResult) ([]byte, error) {
	data := reportData{
		AttemptNumber:      result.AttemptNumber,
		SubmittedAt:        result.SubmittedAt.Format("January 2, 2006 15:04"),
		Score:              result.Score,
		MarksObtained:      result.MarksObtained,
		MaxMarks:           result.MaxMarks,
		CorrectAnswers:     result.CorrectAnswers,
		TotalQuestions:     result.TotalQuestions,
		AttemptedQuestions: result.AttemptedQuestions,
		TimeTaken:          (time.Duration(result.TimeTakenSeconds) * time.Second).String(),
		Answers:            result.Answers,
	}
	if result.Candidate != nil {
		data.CandidateName = result.Candidate.Name
	}
	if result.Position != nil {
		data.PositionName = result.Position.Name
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF prints HTML to PDF in a headless Chrome.
func RenderPDF(ctx context.Context, htmlContent []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfRenderTimeout)
	defer cancel()
	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(htmlContent)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
