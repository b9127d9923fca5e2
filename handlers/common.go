package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// ErrorHandler renders every error as {"error": message}. Errors that are not
// *fiber.Error are logged and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// saveUpload stores the multipart file in field under namespace and returns its
// URL. It returns "" when the request carries no such file.
func saveUpload(c *fiber.Ctx, field, namespace string) (string, error) {
	url, _, err := storeUpload(c, field, namespace)
	return url, err
}

// storeUpload is saveUpload that also returns the storage key, for callers that
// may have to discard the file when a later step fails.
func storeUpload(c *fiber.Ctx, field, namespace string) (url, key string, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", "", nil
	}
	if storage.Default == nil {
		return "", "", errors.New("file storage not configured")
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	key = namespace + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	url, err = storage.Default.Put(c.UserContext(), key, f)
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("failed to store upload")
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to store uploaded file")
	}
	return url, key, nil
}

// discardUpload removes a stored file whose owning write failed. Failures are
// logged only.
func discardUpload(c *fiber.Ctx, key string) {
	if key == "" || storage.Default == nil {
		return
	}
	if err := storage.Default.Delete(c.UserContext(), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to discard upload")
	}
}

// candidateScope resolves which candidate and position a request acts on.
// Candidates are pinned to the pair in their token; staff may name any pair.
func candidateScope(c *fiber.Ctx, candidateID, positionID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	id := middleware.CurrentIdentity(c)
	if id.Role != models.RoleCandidate {
		if candidateID == uuid.Nil || positionID == uuid.Nil {
			return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "candidate_id and position_id are required")
		}
		return candidateID, positionID, nil
	}

	if candidateID == uuid.Nil {
		candidateID = id.CandidateID
	}
	if positionID == uuid.Nil {
		positionID = id.PositionID
	}
	if candidateID != id.CandidateID || positionID != id.PositionID {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "You can only access your own test")
	}
	return candidateID, positionID, nil
}
