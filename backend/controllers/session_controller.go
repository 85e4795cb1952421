package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type SessionController struct {
	Sessions *progress.Sessions
	Cfg      *config.Config
}

func NewSessionController(sessions *progress.Sessions, cfg *config.Config) *SessionController {
	return &SessionController{Sessions: sessions, Cfg: cfg}
}

// EndSession godoc
// @Summary End session
// @Description Waits for the user's pending writes and unloads their progress. Call on sign-out
// @Tags session
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /session [delete]
func (sc *SessionController) EndSession(c *fiber.Ctx) error {
	if err := sc.Sessions.End(c.UserContext(), middleware.UserID(c)); err != nil {
		return utils.InternalServerError(c, "Failed to flush pending writes")
	}
	return utils.NoContent(c)
}
