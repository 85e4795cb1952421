package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

type TopicsController struct {
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
}

func NewTopicsController(cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *TopicsController {
	return &TopicsController{Catalog: cat, Sessions: sessions, Cfg: cfg}
}

// TitleRequest names a problem inside the scope given by the path
type TitleRequest struct {
	Title string `json:"title" example:"Two Sum"`
}

// GetTopics godoc
// @Summary List topics
// @Description Returns every topic with the user's solved count and percent
// @Tags topics
// @Produce json
// @Success 200 {array} models.TopicSummary
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics [get]
func (tc *TopicsController) GetTopics(c *fiber.Ctx) error {
	s, err := session(c, tc.Sessions)
	if s == nil {
		return err
	}
	snapshot := s.Progress.Snapshot()

	topics := make([]models.TopicSummary, 0, len(tc.Catalog.Topics))
	for _, t := range tc.Catalog.Topics {
		topics = append(topics, topicSummary(t.Name, stats.TopicStats(tc.Catalog, snapshot, t.Name)))
	}
	return utils.Success(c, fiber.StatusOK, topics)
}

// GetTopic godoc
// @Summary Get topic
// @Description Returns the problems of a topic with solved flag, save state and note marker
// @Tags topics
// @Produce json
// @Param topic path string true "Topic name"
// @Success 200 {object} models.TopicDetail
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{topic} [get]
func (tc *TopicsController) GetTopic(c *fiber.Ctx) error {
	name := param(c, "topic")
	topic, ok := tc.Catalog.Topic(name)
	if !ok {
		return utils.NotFound(c, "Topic not found")
	}
	s, err := session(c, tc.Sessions)
	if s == nil {
		return err
	}
	snapshot := s.Progress.Snapshot()

	detail := models.TopicDetail{
		TopicSummary: topicSummary(name, stats.TopicStats(tc.Catalog, snapshot, name)),
		Problems:     make([]models.ProblemView, 0, len(topic.Problems)),
	}
	for _, p := range topic.Problems {
		detail.Problems = append(detail.Problems, problemView(s, snapshot, keycodec.TopicKey(name, p.Title), p))
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

// ToggleTopicProblem godoc
// @Summary Toggle a topic problem
// @Description Flips the solved flag of one problem in a topic. The write is asynchronous; state reports whether it is saved
// @Tags topics
// @Accept json
// @Produce json
// @Param topic path string true "Topic name"
// @Param input body TitleRequest true "Problem title"
// @Success 200 {object} models.ToggleResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{topic}/toggle [post]
func (tc *TopicsController) ToggleTopicProblem(c *fiber.Ctx) error {
	name := param(c, "topic")
	problems, ok := tc.Catalog.Problems(name)
	if !ok {
		return utils.NotFound(c, "Topic not found")
	}

	var input TitleRequest
	if err := c.BodyParser(&input); err != nil || input.Title == "" {
		return utils.BadRequest(c, "Request body must contain a title")
	}
	if !containsTitle(problems, input.Title) {
		return utils.NotFound(c, "Problem not found in topic")
	}

	s, err := session(c, tc.Sessions)
	if s == nil {
		return err
	}
	key := keycodec.TopicKey(name, input.Title)
	return utils.Success(c, fiber.StatusOK, toggle(s, key))
}

// SetTopic godoc
// @Summary Set a whole topic
// @Description Marks every problem of a topic solved or unsolved in a single write
// @Tags topics
// @Accept json
// @Produce json
// @Param topic path string true "Topic name"
// @Param input body ScopeRequest true "Target state"
// @Success 200 {object} models.ScopeUpdateResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{topic} [put]
func (tc *TopicsController) SetTopic(c *fiber.Ctx) error {
	name := param(c, "topic")
	problems, ok := tc.Catalog.Problems(name)
	if !ok {
		return utils.NotFound(c, "Topic not found")
	}
	solved, ok, err := solvedFlag(c)
	if !ok {
		return err
	}

	s, err := session(c, tc.Sessions)
	if s == nil {
		return err
	}
	keys := make([]string, len(problems))
	for i, p := range problems {
		keys[i] = keycodec.TopicKey(name, p.Title)
	}
	scope := keycodec.TopicScope(name)
	if err := s.Progress.SetScope(scope, keys, solved); err != nil {
		return utils.InternalServerError(c, err.Error())
	}
	recordSolve(s, solved, keys...)
	return utils.Success(c, fiber.StatusOK, models.ScopeUpdateResult{Scope: scope, Solved: solved, Keys: len(keys)})
}

func containsTitle(problems []catalog.Problem, title string) bool {
	for _, p := range problems {
		if p.Title == title {
			return true
		}
	}
	return false
}
