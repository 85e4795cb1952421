package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type PlansController struct {
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
}

func NewPlansController(cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *PlansController {
	return &PlansController{Catalog: cat, Sessions: sessions, Cfg: cfg}
}

// PlanToggleRequest names a problem of a plan. Day is the 0-based day index
// and is required for challenge plans.
type PlanToggleRequest struct {
	Title string `json:"title" example:"Two Sum"`
	Day   *int   `json:"day,omitempty" example:"0"`
}

// GetPlans godoc
// @Summary List study plans
// @Description Returns every plan with the user's progress on it
// @Tags plans
// @Produce json
// @Success 200 {array} models.PlanSummary
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans [get]
func (pc *PlansController) GetPlans(c *fiber.Ctx) error {
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	snapshot := s.Progress.Snapshot()

	plans := make([]models.PlanSummary, 0, len(pc.Catalog.Plans()))
	for _, p := range pc.Catalog.Plans() {
		plans = append(plans, planSummary(p, stats.PlanStats(p, pc.Catalog, snapshot)))
	}
	return utils.Success(c, fiber.StatusOK, plans)
}

// GetPlan godoc
// @Summary Get study plan
// @Description Returns a plan with its days (challenge), list (custom) or topics (topic explorer)
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} models.PlanDetail
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans/{id} [get]
func (pc *PlansController) GetPlan(c *fiber.Ctx) error {
	plan, ok := pc.Catalog.Plan(param(c, "id"))
	if !ok {
		return utils.NotFound(c, "Plan not found")
	}
	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	snapshot := s.Progress.Snapshot()

	detail := models.PlanDetail{PlanSummary: planSummary(plan, stats.PlanStats(plan, pc.Catalog, snapshot))}
	switch plan.Type {
	case catalog.PlanChallenge:
		detail.Schedule = make([]models.DayView, 0, len(plan.Schedule))
		for i, d := range plan.Schedule {
			counts := stats.DayStats(plan, i, snapshot)
			view := models.DayView{
				Index:    i,
				Day:      d.Number,
				Solved:   counts.Solved,
				Total:    counts.Total,
				Percent:  counts.Percent(),
				Complete: counts.Total > 0 && counts.Solved == counts.Total,
				Problems: make([]models.ProblemView, 0, len(d.Problems)),
			}
			for _, p := range d.Problems {
				view.Problems = append(view.Problems, problemView(s, snapshot, keycodec.DayKey(plan.ID, i, p.Title), p))
			}
			detail.Schedule = append(detail.Schedule, view)
		}
	case catalog.PlanCustom:
		detail.List = make([]models.ProblemView, 0, len(plan.List))
		for _, p := range plan.List {
			detail.List = append(detail.List, problemView(s, snapshot, keycodec.PlanKey(plan.ID, p.Title), p))
		}
	case catalog.PlanTopic:
		for _, t := range pc.Catalog.Topics {
			detail.Topics = append(detail.Topics, topicSummary(t.Name, stats.TopicStats(pc.Catalog, snapshot, t.Name)))
		}
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

// TogglePlanProblem godoc
// @Summary Toggle a plan problem
// @Description Flips one problem of a challenge day or a custom list
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param input body PlanToggleRequest true "Problem title and day"
// @Success 200 {object} models.ToggleResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans/{id}/toggle [post]
func (pc *PlansController) TogglePlanProblem(c *fiber.Ctx) error {
	plan, ok := pc.Catalog.Plan(param(c, "id"))
	if !ok {
		return utils.NotFound(c, "Plan not found")
	}
	var input PlanToggleRequest
	if err := c.BodyParser(&input); err != nil || input.Title == "" {
		return utils.BadRequest(c, "Request body must contain a title")
	}

	var key string
	switch plan.Type {
	case catalog.PlanChallenge:
		if input.Day == nil || *input.Day < 0 || *input.Day >= len(plan.Schedule) {
			return utils.BadRequest(c, "A valid day index is required for this plan")
		}
		if !containsTitle(plan.Schedule[*input.Day].Problems, input.Title) {
			return utils.NotFound(c, "Problem not found in day")
		}
		key = keycodec.DayKey(plan.ID, *input.Day, input.Title)
	case catalog.PlanCustom:
		if !containsTitle(plan.List, input.Title) {
			return utils.NotFound(c, "Problem not found in plan")
		}
		key = keycodec.PlanKey(plan.ID, input.Title)
	default:
		return utils.BadRequest(c, "Topic plans are toggled through /topics")
	}

	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, toggle(s, key))
}

// SetPlanDay godoc
// @Summary Set a whole day
// @Description Marks every problem of one challenge day solved or unsolved in a single write
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param day path int true "0-based day index"
// @Param input body ScopeRequest true "Target state"
// @Success 200 {object} models.DayUpdateResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans/{id}/days/{day} [put]
func (pc *PlansController) SetPlanDay(c *fiber.Ctx) error {
	plan, ok := pc.Catalog.Plan(param(c, "id"))
	if !ok {
		return utils.NotFound(c, "Plan not found")
	}
	if plan.Type != catalog.PlanChallenge {
		return utils.BadRequest(c, "Plan has no days")
	}
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil || day < 0 {
		return utils.BadRequest(c, "Invalid day index")
	}
	if day >= len(plan.Schedule) {
		return utils.NotFound(c, "Day not found")
	}
	solved, ok, err := solvedFlag(c)
	if !ok {
		return err
	}

	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	keys := plan.DayKeys(day)
	if err := s.Progress.SetScope(keycodec.DayScope(plan.ID, day), keys, solved); err != nil {
		return utils.InternalServerError(c, err.Error())
	}
	recordSolve(s, solved, keys...)
	return utils.Success(c, fiber.StatusOK, models.DayUpdateResult{
		PlanID: plan.ID,
		Index:  day,
		Solved: solved,
		Keys:   len(keys),
	})
}

// SetPlanList godoc
// @Summary Set a whole custom list
// @Description Marks every problem of a custom plan solved or unsolved in a single write
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param input body ScopeRequest true "Target state"
// @Success 200 {object} models.ScopeUpdateResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans/{id}/list [put]
func (pc *PlansController) SetPlanList(c *fiber.Ctx) error {
	plan, ok := pc.Catalog.Plan(param(c, "id"))
	if !ok {
		return utils.NotFound(c, "Plan not found")
	}
	if plan.Type != catalog.PlanCustom {
		return utils.BadRequest(c, "Plan has no list")
	}
	solved, ok, err := solvedFlag(c)
	if !ok {
		return err
	}

	s, err := session(c, pc.Sessions)
	if s == nil {
		return err
	}
	scope := keycodec.ListScope(plan.ID)
	keys := plan.Keys()
	if err := s.Progress.SetScope(scope, keys, solved); err != nil {
		return utils.InternalServerError(c, err.Error())
	}
	recordSolve(s, solved, keys...)
	return utils.Success(c, fiber.StatusOK, models.ScopeUpdateResult{Scope: scope, Solved: solved, Keys: len(keys)})
}

func planSummary(p catalog.Plan, counts stats.Counts) models.PlanSummary {
	return models.PlanSummary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        string(p.Type),
		Tag:         p.Tag,
		Days:        len(p.Schedule),
		Solved:      counts.Solved,
		Total:       counts.Total,
		Percent:     counts.Percent(),
	}
}
