package handlers

import (
	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SubmitTest is the single-shot submission route. It resolves the caller's
// in-progress attempt, opening one over the answered questions if needed, and
// goes through the same pipeline as SubmitAttempt with the recording in
// "video".
func SubmitTest(c *fiber.Ctx) error {
	form, err := readSubmission(c)
	if err != nil {
		return err
	}
	form.CandidateID, form.PositionID, err = candidateScope(c, form.CandidateID, form.PositionID)
	if err != nil {
		return err
	}

	answered := make([]uuid.UUID, 0, len(form.Answers))
	for _, a := range form.Answers {
		answered = append(answered, a.QuestionID)
	}
	attempt, err := services.ResolveAttemptForSubmission(database.DB, form.CandidateID, form.PositionID, answered)
	if err != nil {
		return err
	}
	form.AttemptID = attempt.ID
	return submit(c, form, "video")
}

func ListResults(c *fiber.Ctx) error {
	candidateID, err := paramUUID(c, "candidateId")
	if err != nil {
		return err
	}
	id := middleware.CurrentIdentity(c)
	if id.Role == models.RoleCandidate && id.CandidateID != candidateID {
		return fiber.NewError(fiber.StatusForbidden, "You can only access your own results")
	}

	results, err := services.ListResultsForCandidate(database.DB, candidateID)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

func GetResult(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	result, err := services.GetResult(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ResultReport renders the result as PDF, or as HTML with ?format=html or when
// the PDF renderer is disabled or fails.
func ResultReport(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	result, err := services.GetResult(database.DB, id)
	if err != nil {
		return err
	}
	html, err := services.RenderResultHTML(result)
	if err != nil {
		return err
	}

	if c.Query("format") != "html" && config.App.ChromeEnabled {
		pdf, err := services.RenderPDF(c.UserContext(), html)
		if err == nil {
			c.Set(fiber.HeaderContentType, "application/pdf")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="result-`+result.ID.String()+`.pdf"`)
			return c.Send(pdf)
		}
		log.Warn().Err(err).Str("result_id", result.ID.String()).Msg("pdf rendering failed, serving html")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}
