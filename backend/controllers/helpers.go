package controllers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

// HeaderTimezone carries the caller's IANA zone, used to decide "today".
const HeaderTimezone = "X-Timezone"

// session opens the calling user's session. On failure the response has
// already been written and the returned error is the handler's result.
func session(c *fiber.Ctx, sessions *progress.Sessions) (*progress.Session, error) {
	s, err := sessions.Open(c.UserContext(), middleware.UserID(c))
	if err == nil {
		return s, nil
	}
	if errors.Is(err, docstore.ErrInvalidUserID) {
		return nil, utils.Unauthorized(c, "Invalid user ID in token")
	}
	return nil, utils.InternalServerError(c, "Failed to load progress")
}

func param(c *fiber.Ctx, name string) string {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return c.Params(name)
	}
	return v
}

func location(c *fiber.Ctx, cfg *config.Config) (*time.Location, error) {
	tz := c.Get(HeaderTimezone)
	if tz == "" {
		return cfg.Location(), nil
	}
	return time.LoadLocation(tz)
}

func today(c *fiber.Ctx, cfg *config.Config, now time.Time) (stats.Day, error) {
	loc, err := location(c, cfg)
	if err != nil {
		return 0, err
	}
	return stats.DayOf(now.In(loc)), nil
}

func problemView(s *progress.Session, snapshot map[string]bool, key string, p catalog.Problem) models.ProblemView {
	return models.ProblemView{
		Title:      p.Title,
		Link:       p.Link,
		Difficulty: string(p.Difficulty),
		Topic:      p.Topic,
		Key:        key,
		Solved:     snapshot[key],
		State:      s.Progress.State(key).String(),
		HasNote:    s.Notes.Get(key) != "",
	}
}

func topicSummary(name string, c stats.Counts) models.TopicSummary {
	return models.TopicSummary{Name: name, Solved: c.Solved, Total: c.Total, Percent: c.Percent()}
}

// toggle flips key and stamps the solve time when it became solved.
func toggle(s *progress.Session, key string) models.ToggleResult {
	solved := s.Progress.Toggle(key)
	recordSolve(s, solved, key)
	return models.ToggleResult{Key: key, Solved: solved, State: s.Progress.State(key).String()}
}

func recordSolve(s *progress.Session, solved bool, keys ...string) {
	if solved {
		s.Activity.Record(time.Now(), keys...)
	}
}

// ScopeRequest sets every problem of a day, topic or list at once.
type ScopeRequest struct {
	Solved *bool `json:"solved" example:"true"`
}

// solvedFlag reads a ScopeRequest body. ok is false, with the 400 already
// written, when the body is malformed or solved is missing.
func solvedFlag(c *fiber.Ctx) (solved, ok bool, err error) {
	var input ScopeRequest
	if err := c.BodyParser(&input); err != nil || input.Solved == nil {
		return false, false, utils.BadRequest(c, "Request body must contain solved")
	}
	return *input.Solved, true, nil
}
