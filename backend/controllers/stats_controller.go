package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type StatsController struct {
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
	Now      func() time.Time
}

func NewStatsController(cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *StatsController {
	return &StatsController{Catalog: cat, Sessions: sessions, Cfg: cfg, Now: time.Now}
}

// DateRequest optionally names the day to mark, as YYYY-MM-DD
type DateRequest struct {
	Date string `json:"date,omitempty" example:"2024-01-03"`
}

// GetStats godoc
// @Summary Get profile statistics
// @Description Computes topic, difficulty, plan and streak statistics from the user's progress
// @Tags stats
// @Produce json
// @Param X-Timezone header string false "IANA timezone used for today"
// @Success 200 {object} stats.Snapshot
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (sc *StatsController) GetStats(c *fiber.Ctx) error {
	day, err := today(c, sc.Cfg, sc.Now())
	if err != nil {
		return utils.BadRequest(c, "Invalid timezone")
	}
	s, err := session(c, sc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, stats.Compute(sc.Catalog, s.Progress.Snapshot(), s.Dates.Days(), day))
}

// GetStreak godoc
// @Summary Get streak
// @Description Returns the solve days with current and longest streak
// @Tags stats
// @Produce json
// @Param X-Timezone header string false "IANA timezone used for today"
// @Success 200 {object} models.StreakView
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /streak [get]
func (sc *StatsController) GetStreak(c *fiber.Ctx) error {
	day, err := today(c, sc.Cfg, sc.Now())
	if err != nil {
		return utils.BadRequest(c, "Invalid timezone")
	}
	s, err := session(c, sc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, streakView(s, day))
}

// MarkToday godoc
// @Summary Record a solve day
// @Description Adds today, or the given date, to the user's solve days
// @Tags stats
// @Accept json
// @Produce json
// @Param X-Timezone header string false "IANA timezone used for today"
// @Param input body DateRequest false "Day to mark"
// @Success 200 {object} models.StreakView
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /streak/today [post]
func (sc *StatsController) MarkToday(c *fiber.Ctx) error {
	now := sc.Now()
	day, err := today(c, sc.Cfg, now)
	if err != nil {
		return utils.BadRequest(c, "Invalid timezone")
	}
	var input DateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Invalid request body")
		}
	}
	mark := day
	if input.Date != "" {
		mark, err = stats.ParseDay(input.Date)
		if err != nil {
			return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		}
	}

	s, err := session(c, sc.Sessions)
	if s == nil {
		return err
	}
	added := s.Dates.Mark(mark, now)
	view := streakView(s, day)
	view.Added = added
	return utils.Success(c, fiber.StatusOK, view)
}

func streakView(s *progress.Session, day stats.Day) models.StreakView {
	days := s.Dates.Days()
	view := models.StreakView{
		Today:   day.String(),
		Days:    make([]string, len(days)),
		Current: stats.CurrentStreak(days, day),
		Longest: stats.LongestStreak(days),
		Weekly:  stats.WeeklyCounts(days, day),
	}
	for i, d := range days {
		view.Days[i] = d.String()
	}
	if last := s.Dates.LastSolveAt(); !last.IsZero() {
		view.LastSolveAt = &last
	}
	return view
}
