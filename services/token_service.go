package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const inviteTokenPurpose = "candidate_invite"

func sign(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func IssueUserToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	return sign(jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	}, secret)
}

// IssueCandidateToken scopes a token to one candidate and position. It lives
// for the test duration plus grace.
func IssueCandidateToken(candidate *models.Candidate, durationMinutes int, grace time.Duration, secret string) (string, error) {
	ttl := time.Duration(durationMinutes)*time.Minute + grace
	return sign(jwt.MapClaims{
		"user_id":      candidate.ID.String(),
		"candidate_id": candidate.ID.String(),
		"position_id":  candidate.PositionID.String(),
		"role":         models.RoleCandidate,
		"exp":          time.Now().Add(ttl).Unix(),
	}, secret)
}

type Invitation struct {
	Email      string
	PositionID uuid.UUID
	Schedule   time.Time
}

func IssueInviteToken(inv Invitation, secret string, ttl time.Duration) (string, error) {
	return sign(jwt.MapClaims{
		"purpose":     inviteTokenPurpose,
		"email":       inv.Email,
		"position_id": inv.PositionID.String(),
		"schedule":    inv.Schedule.Unix(),
		"exp":         time.Now().Add(ttl).Unix(),
	}, secret)
}

func ParseInviteToken(token, secret string) (*Invitation, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid or expired invitation")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != inviteTokenPurpose {
		return nil, errors.New("invalid invitation")
	}
	email, _ := claims["email"].(string)
	positionRaw, _ := claims["position_id"].(string)
	positionID, err := uuid.Parse(positionRaw)
	if email == "" || err != nil {
		return nil, errors.New("invalid invitation")
	}
	inv := &Invitation{Email: email, PositionID: positionID}
	if ts, ok := claims["schedule"].(float64); ok && ts > 0 {
		inv.Schedule = time.Unix(int64(ts), 0)
	}
	return inv, nil
}
