package controllers

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/utils"
)

// MaxNoteLength bounds a single note, in characters.
const MaxNoteLength = 10000

type NotesController struct {
	Catalog  *catalog.Catalog
	Sessions *progress.Sessions
	Cfg      *config.Config
}

func NewNotesController(cat *catalog.Catalog, sessions *progress.Sessions, cfg *config.Config) *NotesController {
	return &NotesController{Catalog: cat, Sessions: sessions, Cfg: cfg}
}

// GetNotes godoc
// @Summary List notes
// @Description Returns every non-empty note of the user, sorted by key
// @Tags notes
// @Produce json
// @Success 200 {array} models.Note
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [get]
func (nc *NotesController) GetNotes(c *fiber.Ctx) error {
	s, err := session(c, nc.Sessions)
	if s == nil {
		return err
	}
	all := s.Notes.All()
	notes := make([]models.Note, 0, len(all))
	for key, text := range all {
		notes = append(notes, models.Note{Key: key, Text: text})
	}
	slices.SortFunc(notes, func(a, b models.Note) int { return strings.Compare(a.Key, b.Key) })
	return utils.Success(c, fiber.StatusOK, notes)
}

// SaveNote godoc
// @Summary Save a note
// @Description Stores the note of one problem. An empty text clears it
// @Tags notes
// @Accept json
// @Produce json
// @Param input body models.Note true "Key and text"
// @Success 200 {object} models.Note
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [put]
func (nc *NotesController) SaveNote(c *fiber.Ctx) error {
	var input models.Note
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if _, err := keycodec.Decode(input.Key); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if !nc.Catalog.Contains(input.Key) {
		return utils.NotFound(c, "Problem not found")
	}
	if utf8.RuneCountInString(input.Text) > MaxNoteLength {
		return utils.BadRequest(c, "Note is too long")
	}

	s, err := session(c, nc.Sessions)
	if s == nil {
		return err
	}
	s.Notes.Save(input.Key, input.Text)
	return utils.Success(c, fiber.StatusOK, input)
}
