package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gotours/middleware"
	"gotours/models"
	"gotours/services"
	"gotours/utils"
)

var validate = validator.New()

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.LocalUser).(*models.User)
	return user
}

func currentSessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.LocalSessionID).(string)
	return id
}

type SignupInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func Signup(c *fiber.Ctx) error {
	var input SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	user, verificationCode, err := services.CreateUser(input.FirstName, input.LastName, input.Email, input.Password)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Email already exist"})
	}

	services.SendVerificationEmail(user.Email, verificationCode)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"user": user},
	})
}

func VerifyEmail(c *fiber.Ctx) error {
	code := c.Params("verificationCode")
	if code == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Verification code is required"})
	}

	verified, err := services.VerifyUser(code)
	if err != nil {
		log.Printf("Verify user error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if !verified {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"status": "fail", "message": "Could not verify user"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "User successfully verified",
	})
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login creates a session for valid credentials and returns the token pair.
func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	user, err := services.FindUserByEmail(input.Email)
	if err != nil {
		log.Printf("Find user error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	// One generic message for a bad email or a bad password.
	if user == nil || !user.ComparePassword(input.Password) {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"status": "fail", "message": "Invalid email or password"})
	}

	if !user.Verified {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"status": "fail", "message": "Account not verified"})
	}

	if !user.Active {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"status": "fail", "message": "Account is deactivated"})
	}

	accessToken, refreshToken, err := services.SignTokenPair(user, string(c.Request().Header.UserAgent()))
	if err != nil {
		log.Printf("Sign token pair error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":        "success",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// ListSessions returns the caller's active sessions. Default-query semantics
// apply: invalidated sessions are excluded.
func ListSessions(c *fiber.Ctx) error {
	user := currentUser(c)

	sessions, err := services.FindSessionsForUser(user.ID)
	if err != nil {
		log.Printf("Find sessions error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"results": len(sessions),
		"data":    fiber.Map{"sessions": sessions},
	})
}

// Logout invalidates the session backing the presented token pair.
func Logout(c *fiber.Ctx) error {
	session, err := services.FindSession(currentSessionID(c))
	if err != nil {
		log.Printf("Find session error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if session == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No session found with that ID"})
	}

	if err := services.InvalidateSession(session); err != nil {
		log.Printf("Invalidate session error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.SendStatus(http.StatusNoContent)
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

func ForgotPassword(c *fiber.Ctx) error {
	var input ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	message := "You will receive a reset email if user with that email exist"

	user, err := services.FindUserByEmail(input.Email)
	if err != nil {
		log.Printf("Find user error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	// Same response whether or not the user exists.
	if user == nil {
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "message": message})
	}
	if !user.Verified {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"status": "fail", "message": "Account not verified"})
	}

	resetToken, err := utils.GenerateRandomToken(32)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if err := services.SetPasswordResetToken(user.ID, resetToken, time.Now().UTC().Add(time.Hour)); err != nil {
		log.Printf("Set reset token error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	services.SendPasswordResetEmail(user.Email, resetToken)

	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "message": message})
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8"`
}

func ResetPassword(c *fiber.Ctx) error {
	var input ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	user, err := services.FindUserByResetToken(c.Params("resetToken"))
	if err != nil {
		log.Printf("Find user by reset token error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if user == nil {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"status": "fail", "message": "Invalid token or token has expired"})
	}

	if err := services.UpdatePassword(user.ID, input.Password); err != nil {
		log.Printf("Update password error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if err := services.InvalidateSessionsForUser(user.ID); err != nil {
		log.Printf("Invalidate sessions error: %v", err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "User password updated successfully",
	})
}

type UpdatePasswordInput struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
}

// UpdatePassword re-authenticates the caller, replaces the password and hands
// back a fresh token pair; every pre-existing token stops resolving.
func UpdatePassword(c *fiber.Ctx) error {
	var input UpdatePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	user := currentUser(c)
	if !user.ComparePassword(input.PasswordCurrent) {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"status": "fail", "message": "Your current password is incorrect"})
	}

	if err := services.UpdatePassword(user.ID, input.Password); err != nil {
		log.Printf("Update password error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if err := services.InvalidateSessionsForUser(user.ID); err != nil {
		log.Printf("Invalidate sessions error: %v", err)
	}

	accessToken, refreshToken, err := services.SignTokenPair(user, string(c.Request().Header.UserAgent()))
	if err != nil {
		log.Printf("Sign token pair error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":        "success",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
