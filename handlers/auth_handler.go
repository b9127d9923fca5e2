package handlers

import (
	"fmt"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin hr"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterUser creates a staff account. Only admins reach this handler.
func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := services.CreateUser(database.DB, services.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := services.AuthenticateUser(database.DB, req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := services.IssueUserToken(user, config.App.JWTSecret, config.App.UserTokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

func ForgotPassword(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req Request
	if err := bind(c, &req); err != nil {
		return err
	}

	user, token, err := services.IssueResetToken(database.DB, req.Email)
	if err != nil {
		return err
	}
	if user != nil {
		link := fmt.Sprintf("%s/reset-password?token=%s", config.App.FrontendURL, token)
		msg, err := notifications.PasswordResetEmail(link)
		go notifications.Deliver(user.FullName, user.Email, msg, err)
	}

	return c.JSON(fiber.Map{"message": "If an account with that email exists, a password reset link has been sent."})
}

func ResetPassword(c *fiber.Ctx) error {
	type Request struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	var req Request
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := services.ResetPassword(database.DB, req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password has been reset successfully."})
}

func GetProfile(c *fiber.Ctx) error {
	user, err := services.GetUser(database.DB, middleware.CurrentIdentity(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfileImage stores the multipart "image" file as the caller's
// profile picture.
func UpdateProfileImage(c *fiber.Ctx) error {
	url, err := saveUpload(c, "image", storage.Profiles)
	if err != nil {
		return err
	}
	if url == "" {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	user, err := services.SetProfileImage(database.DB, middleware.CurrentIdentity(c).UserID, url)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
