package controllers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"

	"gotours/models"
	"gotours/services"
)

const tourImageDir = "public/tours"

type CreateTourInput struct {
	Name         string  `json:"name" validate:"required"`
	Duration     int     `json:"duration" validate:"required,min=1"`
	MaxGroupSize int     `json:"max_group_size" validate:"required,min=1"`
	Difficulty   string  `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Discount     float64 `json:"discount"`
	Summary      string  `json:"summary" validate:"required"`
	Description  string  `json:"description"`
}

func CreateTour(c *fiber.Ctx) error {
	var input CreateTourInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	tour := &models.Tour{
		Name:         input.Name,
		Duration:     input.Duration,
		MaxGroupSize: input.MaxGroupSize,
		Difficulty:   input.Difficulty,
		Price:        input.Price,
		Discount:     input.Discount,
		Summary:      input.Summary,
		Description:  input.Description,
	}
	if err := services.CreateTour(tour); err != nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"status": "fail", "message": "Tour with that name already exist"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

func GetAllTours(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	tours, err := services.GetAllTours(page, limit)
	if err != nil {
		log.Printf("List tours error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"results": len(tours),
		"data":    fiber.Map{"tours": tours},
	})
}

func GetTour(c *fiber.Ctx) error {
	tour, err := services.GetTour(c.Params("tourId"))
	if err != nil {
		log.Printf("Get tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if tour == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No tour found with that ID"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

type UpdateTourInput struct {
	Name         string  `json:"name"`
	Duration     int     `json:"duration"`
	MaxGroupSize int     `json:"max_group_size"`
	Difficulty   string  `json:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
	Price        float64 `json:"price"`
	Discount     float64 `json:"discount"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
}

func UpdateTour(c *fiber.Ctx) error {
	var input UpdateTourInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	tour, err := services.GetTour(c.Params("tourId"))
	if err != nil {
		log.Printf("Get tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if tour == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No tour found with that ID"})
	}

	if input.Name != "" {
		tour.Name = input.Name
	}
	if input.Duration > 0 {
		tour.Duration = input.Duration
	}
	if input.MaxGroupSize > 0 {
		tour.MaxGroupSize = input.MaxGroupSize
	}
	if input.Difficulty != "" {
		tour.Difficulty = input.Difficulty
	}
	if input.Price > 0 {
		tour.Price = input.Price
	}
	if input.Discount > 0 {
		tour.Discount = input.Discount
	}
	if input.Summary != "" {
		tour.Summary = input.Summary
	}
	if input.Description != "" {
		tour.Description = input.Description
	}

	if _, err := services.UpdateTour(tour); err != nil {
		log.Printf("Update tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

func DeleteTour(c *fiber.Ctx) error {
	deleted, err := services.DeleteTour(c.Params("tourId"))
	if err != nil {
		log.Printf("Delete tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if !deleted {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No tour found with that ID"})
	}

	return c.SendStatus(http.StatusNoContent)
}

func GetTourStats(c *fiber.Ctx) error {
	stats, err := services.GetTourStats()
	if err != nil {
		log.Printf("Tour stats error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"stats": stats},
	})
}

// UploadTourImages handles multipart upload of a cover image and up to three
// gallery images, resizing each to a 2000x1333 JPEG.
func UploadTourImages(c *fiber.Ctx) error {
	tour, err := services.GetTour(c.Params("tourId"))
	if err != nil {
		log.Printf("Get tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if tour == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No tour found with that ID"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Expected multipart form data"})
	}

	if covers := form.File["image_cover"]; len(covers) > 0 {
		name := fmt.Sprintf("tour-%s-%d-cover.jpeg", tour.ID, time.Now().UnixMilli())
		if err := saveTourImage(covers[0], name); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
		}
		tour.ImageCover = name
	}

	if files := form.File["images"]; len(files) > 0 {
		if len(files) > 3 {
			files = files[:3]
		}
		var images []string
		for i, file := range files {
			name := fmt.Sprintf("tour-%s-%d-%d.jpeg", tour.ID, time.Now().UnixMilli(), i+1)
			if err := saveTourImage(file, name); err != nil {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
			}
			images = append(images, name)
		}
		tour.Images = images
	}

	if _, err := services.UpdateTour(tour); err != nil {
		log.Printf("Update tour error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

func saveTourImage(file *multipart.FileHeader, name string) error {
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image") {
		return fmt.Errorf("Only images are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("Could not read uploaded image")
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return fmt.Errorf("Could not decode uploaded image")
	}

	if err := os.MkdirAll(tourImageDir, 0o755); err != nil {
		return err
	}
	resized := imaging.Resize(img, 2000, 1333, imaging.Lanczos)
	return imaging.Save(resized, filepath.Join(tourImageDir, name), imaging.JPEGQuality(90))
}
