package controllers

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"gotours/models"
	"gotours/services"
)

type CreateReviewInput struct {
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

func CreateReview(c *fiber.Ctx) error {
	var input CreateReviewInput
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

	review := &models.Review{
		Review: input.Review,
		Rating: input.Rating,
		TourID: tour.ID,
		UserID: currentUser(c).ID,
	}
	if err := services.CreateReview(review); err != nil {
		log.Printf("Create review error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"review": review},
	})
}

func GetReviewsForTour(c *fiber.Ctx) error {
	reviews, err := services.GetReviewsForTour(c.Params("tourId"))
	if err != nil {
		log.Printf("List reviews error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"results": len(reviews),
		"data":    fiber.Map{"reviews": reviews},
	})
}

func GetReview(c *fiber.Ctx) error {
	review, err := services.GetReview(c.Params("reviewId"))
	if err != nil {
		log.Printf("Get review error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if review == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No review found with that ID"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"review": review},
	})
}

type UpdateReviewInput struct {
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

func UpdateReview(c *fiber.Ctx) error {
	var input UpdateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": err.Error()})
	}

	updated, err := services.UpdateReview(c.Params("reviewId"), currentUser(c).ID, input.Review, input.Rating)
	if err != nil {
		log.Printf("Update review error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if !updated {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No review found with that ID"})
	}

	review, err := services.GetReview(c.Params("reviewId"))
	if err != nil || review == nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"review": review},
	})
}

func DeleteReview(c *fiber.Ctx) error {
	user := currentUser(c)

	deleted, err := services.DeleteReview(c.Params("reviewId"), user.ID, user.Role == "admin")
	if err != nil {
		log.Printf("Delete review error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Something went wrong"})
	}
	if !deleted {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "No review found with that ID"})
	}

	return c.SendStatus(http.StatusNoContent)
}
