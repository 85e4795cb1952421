package controllers

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type ProgressController struct {
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
}

func NewProgressController(cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *ProgressController {
	return &ProgressController{Catalog: cat, Sessions: sessions, Cfg: cfg}
}

// KeyRequest addresses a problem by its progress key
type KeyRequest struct {
	Key string `json:"key" example:"topic::Arrays::Two Sum"`
}

// GetProgress godoc
// @Summary Get raw progress
// @Description Returns the user's progress map, keyed by progress key
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, s.Progress.Snapshot())
}

// GetProgressStatus godoc
// @Summary Get unsaved keys
// @Description Lists keys whose write is still in flight or whose last write failed and was rolled back
// @Tags progress
// @Produce json
// @Success 200 {object} models.ProgressStatus
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/status [get]
func (pc *ProgressController) GetProgressStatus(c *fiber.Ctx) error {
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	status := models.ProgressStatus{Pending: []string{}, Failed: []string{}}
	for key, state := range s.Progress.Unsaved() {
		switch state {
		case progress.Pending:
			status.Pending = append(status.Pending, key)
		case progress.Failed:
			status.Failed = append(status.Failed, key)
		}
	}
	slices.Sort(status.Pending)
	slices.Sort(status.Failed)
	return utils.Success(c, fiber.StatusOK, status)
}

// ToggleKey godoc
// @Summary Toggle by key
// @Description Flips any progress key the catalog knows about
// @Tags progress
// @Accept json
// @Produce json
// @Param input body KeyRequest true "Progress key"
// @Success 200 {object} models.ToggleResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/toggle [post]
func (pc *ProgressController) ToggleKey(c *fiber.Ctx) error {
	var input KeyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if _, err := keycodec.Decode(input.Key); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if !pc.Catalog.Contains(input.Key) {
		return utils.NotFound(c, "Problem not found")
	}

	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, toggle(s, input.Key))
}
