package routes

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"gotours/controllers"
	"gotours/middleware"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	// Uploaded assets
	app.Static("/img/users", "./public/users")
	app.Static("/img/tours", "./public/tours")

	// authLimiter: 1 req/sec, burst 5
	authLimiter := middleware.RateLimit(rate.Limit(1), 5)

	api := app.Group("/api/v1")

	// Sessions: login, list my sessions, logout
	sessions := api.Group("/sessions")
	sessions.Post("/", authLimiter, controllers.Login)
	sessions.Get("/", middleware.DeserializeUser(), middleware.RequireUser(), controllers.ListSessions)
	sessions.Delete("/", middleware.DeserializeUser(), middleware.RequireUser(), controllers.Logout)

	// Users: signup, verification, password flows, own profile
	users := api.Group("/users")
	users.Post("/signup", authLimiter, controllers.Signup)
	users.Get("/verify/:verificationCode", controllers.VerifyEmail)
	users.Post("/forgotPassword", authLimiter, controllers.ForgotPassword)
	users.Patch("/resetPassword/:resetToken", authLimiter, controllers.ResetPassword)

	users.Patch("/updatePassword", middleware.DeserializeUser(), middleware.RequireUser(), controllers.UpdatePassword)
	users.Get("/me", middleware.DeserializeUser(), middleware.RequireUser(), controllers.GetMe)
	users.Patch("/updateMe", middleware.DeserializeUser(), middleware.RequireUser(), controllers.UpdateMe)
	users.Delete("/deleteMe", middleware.DeserializeUser(), middleware.RequireUser(), controllers.DeleteMe)

	// Tours: public reads, admin writes
	tours := api.Group("/tours")
	tours.Get("/tour-stats", controllers.GetTourStats)
	tours.Get("/", controllers.GetAllTours)
	tours.Get("/:tourId", controllers.GetTour)

	tours.Post("/", middleware.DeserializeUser(), middleware.RestrictTo("admin"), controllers.CreateTour)
	tours.Patch("/:tourId", middleware.DeserializeUser(), middleware.RestrictTo("admin"), controllers.UpdateTour)
	tours.Delete("/:tourId", middleware.DeserializeUser(), middleware.RestrictTo("admin"), controllers.DeleteTour)
	tours.Post("/:tourId/images", middleware.DeserializeUser(), middleware.RestrictTo("admin"), controllers.UploadTourImages)

	// Reviews nested under tours
	tours.Get("/:tourId/reviews", controllers.GetReviewsForTour)
	tours.Post("/:tourId/reviews", middleware.DeserializeUser(), middleware.RequireUser(), controllers.CreateReview)

	reviews := api.Group("/reviews")
	reviews.Get("/:reviewId", controllers.GetReview)
	reviews.Patch("/:reviewId", middleware.DeserializeUser(), middleware.RequireUser(), controllers.UpdateReview)
	reviews.Delete("/:reviewId", middleware.DeserializeUser(), middleware.RequireUser(), controllers.DeleteReview)

	return app
}
