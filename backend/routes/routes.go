package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/controllers"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/progress"
)

func SetupRoutes(app *fiber.App, cat *catalog.Catalog, sessions *progress.Sessions, profiles *profile.Service, cfg *config.Config) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	profileController := controllers.NewProfileController(profiles, cat, sessions, cfg)
	app.Get("/public/users/:id", profileController.GetPublicProfile)

	api := app.Group("/api", middleware.AuthMiddleware(cfg))

	// Topic routes
	topicsController := controllers.NewTopicsController(cat, sessions, cfg)
	api.Get("/topics", topicsController.GetTopics)
	api.Get("/topics/:topic", topicsController.GetTopic)
	api.Put("/topics/:topic", topicsController.SetTopic)
	api.Post("/topics/:topic/toggle", topicsController.ToggleTopicProblem)

	// Plan routes
	plansController := controllers.NewPlansController(cat, sessions, cfg)
	api.Get("/plans", plansController.GetPlans)
	api.Get("/plans/:id", plansController.GetPlan)
	api.Post("/plans/:id/toggle", plansController.TogglePlanProblem)
	api.Put("/plans/:id/days/:day", plansController.SetPlanDay)
	api.Put("/plans/:id/list", plansController.SetPlanList)

	// Progress routes
	progressController := controllers.NewProgressController(cat, sessions, cfg)
	api.Get("/progress", progressController.GetProgress)
	api.Get("/progress/status", progressController.GetProgressStatus)
	api.Post("/progress/toggle", progressController.ToggleKey)

	// Stats and streak routes
	statsController := controllers.NewStatsController(cat, sessions, cfg)
	api.Get("/stats", statsController.GetStats)
	api.Get("/streak", statsController.GetStreak)
	api.Post("/streak/today", statsController.MarkToday)

	// Notes routes
	notesController := controllers.NewNotesController(cat, sessions, cfg)
	api.Get("/notes", notesController.GetNotes)
	api.Put("/notes", notesController.SaveNote)

	// Profile routes
	api.Get("/prefs", profileController.GetPrefs)
	api.Patch("/prefs", profileController.UpdatePrefs)
	api.Get("/activity", profileController.GetActivity)
	api.Get("/export", profileController.Export)

	// Problem log routes
	problemLogController := controllers.NewProblemLogController(profiles, cfg)
	api.Get("/problems", problemLogController.ListProblems)
	api.Post("/problems", problemLogController.CreateProblem)
	api.Patch("/problems/:id", problemLogController.UpdateProblem)
	api.Post("/problems/:id/status", problemLogController.CycleStatus)
	api.Delete("/problems/:id", problemLogController.DeleteProblem)

	sessionController := controllers.NewSessionController(sessions, cfg)
	api.Delete("/session", sessionController.EndSession)
}
