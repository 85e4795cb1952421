package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

// ProblemLogController serves the personal problem log, entries the user
// tracks outside the catalog.
type ProblemLogController struct {
	Profile *profile.Service
	Cfg     *config.Config
	Now     func() time.Time
}

func NewProblemLogController(svc *profile.Service, cfg *config.Config) *ProblemLogController {
	return &ProblemLogController{Profile: svc, Cfg: cfg, Now: time.Now}
}

// ListProblems godoc
// @Summary List logged problems
// @Tags problems
// @Produce json
// @Success 200 {array} profile.Entry
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /problems [get]
func (pc *ProblemLogController) ListProblems(c *fiber.Ctx) error {
	entries, err := pc.Profile.Problems(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, entries)
}

// CreateProblem godoc
// @Summary Log a problem
// @Description Title, platform and date are required. Difficulty defaults to Easy and status to Unsolved
// @Tags problems
// @Accept json
// @Produce json
// @Param input body profile.EntryInput true "Problem"
// @Success 201 {object} profile.Entry
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /problems [post]
func (pc *ProblemLogController) CreateProblem(c *fiber.Ctx) error {
	var input profile.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	e, err := pc.Profile.AddProblem(c.UserContext(), middleware.UserID(c), input, pc.Now())
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, e)
}

// UpdateProblem godoc
// @Summary Edit a logged problem
// @Tags problems
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param input body profile.EntryInput true "Fields to change"
// @Success 200 {object} profile.Entry
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /problems/{id} [patch]
func (pc *ProblemLogController) UpdateProblem(c *fiber.Ctx) error {
	var input profile.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	e, err := pc.Profile.UpdateProblem(c.UserContext(), middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, e)
}

// CycleStatus godoc
// @Summary Advance status
// @Description Moves the entry from Unsolved to In Progress to Solved and back
// @Tags problems
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} profile.Entry
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /problems/{id}/status [post]
func (pc *ProblemLogController) CycleStatus(c *fiber.Ctx) error {
	e, err := pc.Profile.CycleStatus(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return profileError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, e)
}

// DeleteProblem godoc
// @Summary Delete a logged problem
// @Tags problems
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /problems/{id} [delete]
func (pc *ProblemLogController) DeleteProblem(c *fiber.Ctx) error {
	if err := pc.Profile.DeleteProblem(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return profileError(c, err)
	}
	return utils.NoContent(c)
}
