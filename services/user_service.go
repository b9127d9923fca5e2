package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const ResetTokenTTL = 15 * time.Minute

var ErrInvalidResetToken = fiber.NewError(fiber.StatusBadRequest, "Invalid or expired reset token")

type NewUser struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// CreateUser stores a staff account. Only admin and hr roles are accepted.
func CreateUser(db *gorm.DB, in NewUser) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleHR
	}
	if in.Role != models.RoleAdmin && in.Role != models.RoleHR {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Role must be admin or hr")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		FullName: in.FullName,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hashed),
		Role:     in.Role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Email already exists")
		}
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	}
	return &user, nil
}

// IssueResetToken stores a fresh reset token on the user. A nil user with no
// error means the email is unknown.
func IssueResetToken(db *gorm.DB, email string) (*models.User, string, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiration := time.Now().Add(ResetTokenTTL)

	err = db.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":            token,
		"reset_password_token_expires_at": expiration,
	}).Error
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func ResetPassword(db *gorm.DB, token, newPassword string) error {
	var user models.User
	if err := db.Where("reset_password_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	clear := map[string]interface{}{
		"reset_password_token":            nil,
		"reset_password_token_expires_at": nil,
	}
	if user.ResetPasswordTokenExpiresAt == nil || user.ResetPasswordTokenExpiresAt.Before(time.Now()) {
		if err := db.Model(&user).Updates(clear).Error; err != nil {
			return err
		}
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	clear["password"] = string(hashed)
	return db.Model(&user).Updates(clear).Error
}

func GetUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

func SetProfileImage(db *gorm.DB, id uuid.UUID, url string) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(user).Update("profile_image_url", url).Error; err != nil {
		return nil, err
	}
	user.ProfileImageURL = &url
	return user, nil
}
