package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type ProfileController struct {
	Profile  *profile.Service
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
	Now      func() time.Time
}

func NewProfileController(svc *profile.Service, cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *ProfileController {
	return &ProfileController{Profile: svc, Catalog: cat, Sessions: sessions, Cfg: cfg, Now: time.Now}
}

// GetPrefs godoc
// @Summary Get preferences
// @Tags profile
// @Produce json
// @Success 200 {object} profile.Prefs
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /prefs [get]
func (pc *ProfileController) GetPrefs(c *fiber.Ctx) error {
	prefs, err := pc.Profile.Prefs(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, prefs)
}

// UpdatePrefs godoc
// @Summary Update preferences
// @Description Changes the display name or the public profile flag. Omitted fields are left alone
// @Tags profile
// @Accept json
// @Produce json
// @Param input body profile.PrefsUpdate true "Fields to change"
// @Success 200 {object} profile.Prefs
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /prefs [patch]
func (pc *ProfileController) UpdatePrefs(c *fiber.Ctx) error {
	var input profile.PrefsUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	prefs, err := pc.Profile.UpdatePrefs(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, prefs)
}

// GetActivity godoc
// @Summary Recent activity
// @Description Lists the latest solved problems, newest first
// @Tags profile
// @Produce json
// @Success 200 {array} profile.RecentSolve
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activity [get]
func (pc *ProfileController) GetActivity(c *fiber.Ctx) error {
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, profile.Recent(pc.Catalog, s, profile.RecentLimit))
}

// Export godoc
// @Summary Export profile
// @Description Downloads everything stored for the user as one JSON document
// @Tags profile
// @Produce json
// @Param X-Timezone header string false "IANA timezone used for today"
// @Success 200 {object} profile.Export
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /export [get]
func (pc *ProfileController) Export(c *fiber.Ctx) error {
	now := pc.Now()
	day, err := today(c, pc.Cfg, now)
	if err != nil {
		return utils.BadRequest(c, "Invalid timezone")
	}
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	out, err := pc.Profile.Export(c.UserContext(), pc.Catalog, s, day, now)
	if err != nil {
		return profileError(c, err)
	}
	c.Attachment("algopath-profile-" + s.UserID + ".json")
	return utils.Success(c, fiber.StatusOK, out)
}

// GetPublicProfile godoc
// @Summary Public profile
// @Description Shows a user's progress summary when they made their profile public
// @Tags profile
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} profile.Public
// @Failure 404 {object} utils.ErrorResponse
// @Router /public/users/{id} [get]
func (pc *ProfileController) GetPublicProfile(c *fiber.Ctx) error {
	userID := param(c, "id")
	prefs, err := pc.Profile.Prefs(c.UserContext(), userID)
	if errors.Is(err, docstore.ErrInvalidUserID) || (err == nil && !prefs.PublicProfile) {
		return utils.NotFound(c, "Profile not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Failed to load profile")
	}
	s, err := pc.Sessions.Open(c.UserContext(), userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to load progress")
	}
	day := stats.DayOf(pc.Now().In(pc.Cfg.Location()))
	snap := stats.Compute(pc.Catalog, s.Progress.Snapshot(), s.Dates.Days(), day)
	return utils.Success(c, fiber.StatusOK, profile.PublicOf(userID, prefs, snap))
}

// profileError maps profile and store errors onto responses.
func profileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, profile.ErrInvalid):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, profile.ErrNotFound):
		return utils.NotFound(c, "Problem not found")
	case errors.Is(err, docstore.ErrInvalidUserID):
		return utils.Unauthorized(c, "Invalid user ID in token")
	default:
		return utils.InternalServerError(c, "Failed to access profile")
	}
}
