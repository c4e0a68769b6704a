package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"

	"gotours/services"
)

const userPhotoDir = "public/users"

// GetMe returns the caller's own profile with the session id resolved by the
// auth middleware. Sensitive fields never serialize.
func GetMe(c *fiber.Ctx) error {
	user := currentUser(c)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"user":    user,
			"session": currentSessionID(c),
		},
	})
}

// UpdateMe edits the caller's profile. Accepts multipart form data with
// optional first_name, last_name and photo fields; an uploaded photo is
// resized to a 500x500 JPEG before being stored.
func UpdateMe(c *fiber.Ctx) error {
	user := currentUser(c)

	firstName := c.FormValue("first_name")
	lastName := c.FormValue("last_name")

	var photo string
	if file, err := c.FormFile("photo"); err == nil {
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image") {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Only images are allowed"})
		}

		src, err := file.Open()
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Could not read uploaded photo"})
		}
		defer src.Close()

		img, err := imaging.Decode(src)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Could not decode uploaded photo"})
		}

		if err := os.MkdirAll(userPhotoDir, 0o755); err != nil {
			log.Printf("Create photo dir error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
		}
		photo = fmt.Sprintf("user-%s-%d.jpeg", user.ID, time.Now().UnixMilli())
		resized := imaging.Resize(img, 500, 500, imaging.Lanczos)
		if err := imaging.Save(resized, filepath.Join(userPhotoDir, photo), imaging.JPEGQuality(90)); err != nil {
			log.Printf("Save user photo error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
		}
	}

	if err := services.UpdateMe(user.ID, firstName, lastName, photo); err != nil {
		log.Printf("Update profile error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	updated, err := services.FindUserByID(user.ID)
	if err != nil || updated == nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"user": updated},
	})
}

// DeleteMe soft-deactivates the account and invalidates every session.
func DeleteMe(c *fiber.Ctx) error {
	user := currentUser(c)

	if err := services.DeactivateUser(user.ID); err != nil {
		log.Printf("Deactivate user error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if err := services.InvalidateSessionsForUser(user.ID); err != nil {
		log.Printf("Invalidate sessions error: %v", err)
	}

	return c.SendStatus(http.StatusNoContent)
}
