package middleware

import (
	"strings"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const identityKey = "identity"

// Identity is the authenticated caller. CandidateID and PositionID are set only
// for candidate tokens.
type Identity struct {
	UserID      uuid.UUID
	Role        string
	CandidateID uuid.UUID
	PositionID  uuid.UUID
}

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.App.JWTSecret),
		SuccessHandler: storeIdentity,
		ErrorHandler:   jwtError,
	})
}

// ProtectedQuery authenticates with a ?token= query value, for websocket
// upgrades where browsers cannot set headers.
func ProtectedQuery() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.App.JWTSecret),
		TokenLookup:    "query:token",
		SuccessHandler: storeIdentity,
		ErrorHandler:   jwtError,
	})
}

func storeIdentity(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}

	var id Identity
	id.Role, _ = claims["role"].(string)
	if raw, _ := claims["user_id"].(string); raw != "" {
		id.UserID, _ = uuid.Parse(raw)
	}
	if raw, _ := claims["candidate_id"].(string); raw != "" {
		id.CandidateID, _ = uuid.Parse(raw)
	}
	if raw, _ := claims["position_id"].(string); raw != "" {
		id.PositionID, _ = uuid.Parse(raw)
	}
	if id.Role == "" || id.UserID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}

	c.Locals(identityKey, id)
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "Missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

// CurrentIdentity returns the caller set by Protected.
func CurrentIdentity(c *fiber.Ctx) Identity {
	id, _ := c.Locals(identityKey).(Identity)
	return id
}

func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentIdentity(c).Role
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: insufficient role",
		})
	}
}
